package models

import (
	"fmt"
	"strings"
	"time"
)

// Role decides which parts of the API a user may reach.
type Role string

const (
	RoleTrade  Role = "TRADE"
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleTrade, RoleClient, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents an account holder.
type User struct {
	Base         `bson:",inline"`
	Email        string    `bson:"email" json:"email"` // Lower-cased, unique
	PasswordHash string    `bson:"password" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Phone        string    `bson:"phone" json:"phone"`
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Registration is the sign-up payload. Profile is required for TRADE users.
type Registration struct {
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Name     string             `json:"name"`
	Phone    string             `json:"phone"`
	Role     Role               `json:"role"`
	Profile  *ProfileSubmission `json:"trade_profile,omitempty"`
}

// ProfileSubmission is the initial trade profile given at registration.
type ProfileSubmission struct {
	BusinessName  string   `json:"business_name"`
	Category      Category `json:"category"`
	Description   string   `json:"description"`
	Postcode      string   `json:"postcode"`
	ServiceRadius int      `json:"service_radius"`
}
