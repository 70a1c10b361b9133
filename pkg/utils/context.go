package utils

import (
	"context"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (entity.UserRole, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(entity.UserRole)
	return role, ok
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role entity.UserRole) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetActorFromContext rebuilds the caller identity set by the auth middleware.
func GetActorFromContext(ctx context.Context) (*entity.Actor, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return nil, false
	}
	role, ok := GetRoleFromContext(ctx)
	if !ok || !role.Valid() {
		return nil, false
	}
	return &entity.Actor{ID: userID, Role: role}, true
}
