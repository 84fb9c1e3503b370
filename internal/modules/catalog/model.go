package catalog

import (
	"time"

	"github.com/georgemunganga/danasys-storefront/internal/modules/cart"
	"github.com/google/uuid"
)

// Product is an item a business sells on the storefront.
type Product struct {
	ID                uuid.UUID `json:"id"`
	BusinessProfileID uuid.UUID `json:"business_profile_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Category          string    `json:"category"`
	Unit              string    `json:"unit,omitempty"`
	ImageURL          string    `json:"image_url,omitempty"`
	Price             float64   `json:"price"`
	MRP               float64   `json:"mrp"`
	Inventory         int       `json:"inventory"`
	Currency          string    `json:"currency"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToCartProduct maps p to the descriptor the cart works with. The owning
// business is the seller.
func (p *Product) ToCartProduct() cart.Product {
	return cart.Product{
		ID:        p.ID.String(),
		Name:      p.Name,
		Unit:      p.Unit,
		ImageURL:  p.ImageURL,
		Price:     p.Price,
		MRP:       p.MRP,
		SellerID:  p.BusinessProfileID.String(),
		Inventory: p.Inventory,
	}
}

// ProductRequest holds the editable fields of a product.
type ProductRequest struct {
	BusinessProfileID string  `json:"business_profile_id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Unit              string  `json:"unit"`
	ImageURL          string  `json:"image_url"`
	Price             float64 `json:"price"`
	MRP               float64 `json:"mrp"`
	Inventory         int     `json:"inventory"`
	Currency          string  `json:"currency"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

// Filter narrows a product listing. Zero values match everything.
type Filter struct {
	Category          string
	BusinessProfileID string
	ActiveOnly        bool
}
