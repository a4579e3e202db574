package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/fleetops/rentdesk/internal/authz/domain"
	"github.com/fleetops/rentdesk/internal/identity"
	"github.com/gin-gonic/gin"
)

// Identity headers are stamped by the session layer in front of this
// service. The back office trusts them and only enforces authorization.
const (
	HeaderUserID   = "X-User-ID"
	HeaderRoleID   = "X-Role-ID"
	HeaderTenantID = "X-Tenant-ID"
)

// IdentityRequired resolves the caller identity from the trusted headers.
// Requests without a valid user id never reach a handler.
func IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := snowflake.ParseString(strings.TrimSpace(c.GetHeader(HeaderUserID)))
		if err != nil || userID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor := identity.Identity{UserID: userID}
		if raw := strings.TrimSpace(c.GetHeader(HeaderRoleID)); raw != "" {
			roleID, err := snowflake.ParseString(raw)
			if err != nil || roleID == 0 {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			actor.RoleID = &roleID
		}
		if raw := strings.TrimSpace(c.GetHeader(HeaderTenantID)); raw != "" {
			tenantID, err := snowflake.ParseString(raw)
			if err != nil || tenantID == 0 {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			actor.TenantID = &tenantID
		}

		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), actor))
		c.Next()
	}
}

// RequirePermission gates a route on a single permission code. Fail closed:
// any ambiguity reads as denied.
func (s *Server) RequirePermission(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := identity.FromContext(c.Request.Context())
		if !ok || actor.IsZero() {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !s.authzSvc.HasPermission(c.Request.Context(), actor, code) {
			AbortWithError(c, authzdomain.ErrAccessDenied)
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) identity.Identity {
	actor, _ := identity.FromContext(c.Request.Context())
	return actor
}

// tenantScope resolves the tenant a request operates on: an explicit value
// wins, else the caller's own tenant header.
func tenantScope(c *gin.Context, explicit string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	actor := actorFrom(c)
	if actor.TenantID != nil {
		return actor.TenantID.String()
	}
	return ""
}
