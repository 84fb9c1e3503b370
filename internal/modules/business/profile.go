package business

import (
	"time"

	"github.com/google/uuid"
)

// DefaultThemeColor is used when a profile is created without a colour.
const DefaultThemeColor = "#0C831F"

// Profile is a seller's storefront. Products and orders hang off its ID.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	Address    string    `json:"address,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	ThemeColor string    `json:"theme_color"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProfileRequest carries the editable profile fields.
type ProfileRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	ThemeColor string `json:"theme_color"`
	IsActive   *bool  `json:"is_active,omitempty"`
}
