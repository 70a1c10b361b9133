package request

import "github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

type PaginatedRequest struct {
	Page      int    `json:"page" validate:"omitempty,min=1"`
	Limit     int    `json:"limit" validate:"omitempty,min=1,max=100"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// Normalized returns page and limit with defaults applied.
func (p PaginatedRequest) Normalized() (int, int) {
	return utils.NormalizePage(p.Page, p.Limit)
}

func (p PaginatedRequest) Offset() int {
	page, limit := p.Normalized()
	return utils.CalculateOffset(page, limit)
}
