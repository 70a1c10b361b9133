package request

type CreateStayRecordRequest struct {
	BookingID         string  `json:"booking_id" validate:"required,uuid"`
	ActualCheckInTime *string `json:"actual_check_in_time,omitempty"`
	Notes             *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateStayRecordRequest replaces notes and/or the whole charge list.
type UpdateStayRecordRequest struct {
	Notes             *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
	AdditionalCharges *[]ChargeRequest `json:"additional_charges,omitempty" validate:"omitempty,dive"`
}

type CheckOutStayRequest struct {
	ActualCheckOutTime *string         `json:"actual_check_out_time,omitempty"`
	Notes              *string         `json:"notes,omitempty" validate:"omitempty,max=2000"`
	AdditionalCharges  []ChargeRequest `json:"additional_charges,omitempty" validate:"omitempty,dive"`
}

type ListStayRecordsRequest struct {
	PaginatedRequest
	BookingID    string `json:"booking_id" validate:"omitempty,uuid"`
	GuestID      string `json:"guest_id" validate:"omitempty,uuid"`
	RoomID       string `json:"room_id" validate:"omitempty,uuid"`
	CheckInFrom  string `json:"check_in_from"`
	CheckInTo    string `json:"check_in_to"`
	CheckOutFrom string `json:"check_out_from"`
	CheckOutTo   string `json:"check_out_to"`
	ActiveOnly   bool   `json:"active"`
	SortBy       string `json:"sort_by" validate:"omitempty,oneof=created_at check_in_time check_out_time"`
}
