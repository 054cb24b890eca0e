package identity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// Role is the access level of an authenticated principal
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// NormalizeRole maps the free-form role claim carried in tokens to a
// canonical Role. Unknown values degrade to customer rather than failing,
// so a malformed claim never grants elevated access.
func NormalizeRole(raw string) Role {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Principal is the authenticated caller attached to each request.
// It carries only what authorization decisions need.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	Role     Role
	IsActive bool
}

// NewPrincipal creates a Principal, normalizing the role claim
func NewPrincipal(userID uuid.UUID, email, role string, active bool) (Principal, error) {
	if userID == uuid.Nil {
		return Principal{}, shared.NewDomainError(shared.CodeInvalidRequest, "principal user id is required")
	}
	return Principal{
		UserID:   userID,
		Email:    email,
		Role:     NormalizeRole(role),
		IsActive: active,
	}, nil
}

// IsAdmin reports whether the principal has administrative access
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccessResource reports whether the principal may read or mutate a
// resource owned by ownerID. Admins see everything, customers only their own.
func (p Principal) CanAccessResource(ownerID uuid.UUID) bool {
	if p.IsAdmin() {
		return true
	}
	return p.UserID == ownerID
}
