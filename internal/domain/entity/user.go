package entity

import (
	"time"
)

// Role is the authorization tier of an account.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// RefreshTokenCapacity bounds the outstanding refresh tokens per account;
// inserting beyond it evicts the oldest.
const RefreshTokenCapacity = 5

// User is the aggregate root for the account domain. Password holds the
// bcrypt digest and must never be serialized outward; SafeUser is the only
// outward-facing projection.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Phone     string
	AvatarURL string
	Bio       string
	Location  Location
	Role      Role

	IsVerified bool
	IsActive   bool

	EmailVerificationToken   string
	EmailVerificationExpires time.Time
	PasswordResetToken       string
	PasswordResetExpires     time.Time

	RefreshTokens []string

	LastLoginAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location is an optional free-form place descriptor.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// SafeUser is the outward representation of an account. Credential and token
// fields are omitted structurally, not by serializer option.
type SafeUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Location   Location  `json:"location,omitempty"`
	Role       Role      `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// Safe returns the outward projection of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		AvatarURL:  u.AvatarURL,
		Bio:        u.Bio,
		Location:   u.Location,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// HasRefreshToken reports whether token is in the outstanding set.
func (u *User) HasRefreshToken(token string) bool {
	for _, t := range u.RefreshTokens {
		if t == token {
			return true
		}
	}
	return false
}
