package user

import (
	"time"

	"github.com/google/uuid"
)

// Role names as issued by the storefront backend.
const (
	RoleUser          = "ROLE_USER"
	RoleBusiness      = "ROLE_BUSINESS"
	RoleSuperAdmin    = "ROLE_SUPERADMIN"
	RoleSuperAdminMgr = "ROLE_SUPERADMIN_MGR"
)

// Status values for an account.
const (
	StatusActive      = "ACTIVE"
	StatusDeactivated = "DEACTIVATED"
)

// User is a storefront account. A user may also own business profiles.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Roles        []string  `json:"roles"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user carries any of roles.
func (u *User) HasRole(roles ...string) bool {
	for _, have := range u.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}
