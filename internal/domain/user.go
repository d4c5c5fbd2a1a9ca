// internal/domain/user.go
package domain

import "time"

// Role is the authorization role carried by a user.
type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

// User represents an account holder.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new customer User instance.
func NewUser(email, fullName string) *User {
	now := time.Now().UTC()
	return &User{
		Email:     email,
		FullName:  fullName,
		Role:      RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin reports whether the user may run admin operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
