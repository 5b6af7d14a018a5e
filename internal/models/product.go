package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the closed set of product categories.
type Category string

const (
	CategoryFrutas     Category = "Frutas"
	CategoryVerduras   Category = "Verduras"
	CategoryHortalicas Category = "Hortaliças"
	CategoryLegumes    Category = "Legumes"
	CategoryOutros     Category = "Outros"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryFrutas,
	CategoryVerduras,
	CategoryHortalicas,
	CategoryLegumes,
	CategoryOutros,
}

// Valid reports whether c belongs to the closed enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a listing owned by a user.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string          `json:"name" gorm:"type:varchar(50);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category  Category        `json:"category" gorm:"type:varchar(30);not null"`
	Image     string          `json:"image,omitempty" gorm:"type:varchar(255)"`
	UserID    string          `json:"user_id" gorm:"index;type:varchar(36);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OwnedBy reports whether userID is the owner of the product.
func (p *Product) OwnedBy(userID string) bool {
	return p.UserID == userID
}

func (p *Product) HasImage() bool {
	return p.Image != ""
}
