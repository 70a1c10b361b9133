package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Claims are issued by the account service. Subject holds the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("invalid token")

// ParseToken verifies an HS256 token and returns the caller identity.
func ParseToken(tokenString string, config utils.JWTConfig) (*entity.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(config.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errInvalidToken
	}
	role := entity.UserRole(strings.ToLower(claims.Role))
	if !role.Valid() {
		return nil, errInvalidToken
	}

	return &entity.Actor{ID: userID, Role: role}, nil
}

// Auth verifies the bearer token and puts the actor in the request context.
// Accounts known to the user store must still be active.
func Auth(config utils.JWTConfig, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}
			token := parts[1]

			actor, err := ParseToken(token, config)
			if err != nil {
				logger.Warn("Rejected token", zap.String("path", r.URL.Path), zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			if userRepo != nil {
				user, err := userRepo.FindByID(r.Context(), actor.ID)
				if err != nil {
					logger.Error("Failed to load user for token",
						zap.String("user_id", actor.ID.String()),
						zap.Error(err))
					utils.ResponseInternalError(w, "Internal server error")
					return
				}
				if user != nil && !user.IsActive {
					logger.Warn("Inactive account attempted access", zap.String("user_id", actor.ID.String()))
					utils.ResponseUnauthorized(w, "Account is inactive")
					return
				}
			}

			ctx := utils.SetUserContext(r.Context(), actor.ID, actor.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles lets through only actors holding one of roles. Runs after Auth.
func RequireRoles(logger *zap.Logger, roles ...entity.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := utils.GetActorFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("Role check failed",
				zap.String("user_id", actor.ID.String()),
				zap.String("role", string(actor.Role)),
				zap.String("path", r.URL.Path))
			utils.ResponseForbidden(w, "Insufficient permissions")
		})
	}
}
