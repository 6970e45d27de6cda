package auth

import (
	"context"
	"net/http"
	"strings"

	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

// ParseFromHeader extracts and validates a Bearer JWT from the Authorization
// header and returns the Principal.
func (m *TokenManager) ParseFromHeader(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, models.UnauthorizedError("no authentication token, access denied")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, models.UnauthorizedError("invalid authorization header")
	}
	return m.Parse(strings.TrimSpace(parts[1]))
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, models.UnauthorizedError("missing principal")
	}
	return p, nil
}

// RequireAdmin ensures the caller's token carries the admin role AND that the
// underlying user record still has role admin. Tokens are stateless and can
// outlive a demotion; re-reading the store closes that window until the token
// expires. A caller whose user record is gone is Unauthorized.
func RequireAdmin(ctx context.Context, users repository.UserRepositoryI) (*Principal, error) {
	p, err := RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleAdmin {
		return nil, models.ForbiddenError("access denied: admin only")
	}
	u, err := users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.UnauthorizedError("user not found")
	}
	if u.Role != models.RoleAdmin {
		return nil, models.ForbiddenError("access denied: admin only")
	}
	return p, nil
}
