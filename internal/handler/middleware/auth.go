package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tableside/internal/domain/staff"
	"tableside/internal/handler/httperr"
	"tableside/internal/pkg/errs"
	"tableside/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxSubjectIDKey = "subject_id"
	ctxRoleKey      = "subject_role"
)

type AuthMiddleware struct {
	tokens *jwt.Service
}

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errs.New("missing bearer token"), "Access token required")
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token")
			return
		}

		role, err := staff.NewRole(claims.Role)
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token")
			return
		}

		c.Set(ctxSubjectIDKey, claims.SubjectID)
		c.Set(ctxRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"subject_id": claims.SubjectID.String(),
			"role":       role.String(),
		})
		c.Next()
	}
}

// RequireRole must be chained after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...staff.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			// Unexpected error: should be used after RequireAuth()
			httperr.AbortWithError(c, http.StatusInternalServerError,
				errs.New("role missing from context"), "Internal server error")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		httperr.AbortWithError(c, http.StatusForbidden,
			errs.New("role not allowed"), "Insufficient permissions")
	}
}

func GetSubjectID(c *gin.Context) (uuid.UUID, bool) {
	subjectID, exists := c.Get(ctxSubjectIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := subjectID.(uuid.UUID)
	return id, ok
}

func GetRole(c *gin.Context) (staff.Role, bool) {
	subjectRole, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}

	role, ok := subjectRole.(staff.Role)
	return role, ok
}
