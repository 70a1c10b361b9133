package memory

import (
	"context"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"

	"github.com/google/uuid"
)

type userRepo struct {
	*session
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	return cloneUser(u), nil
}
