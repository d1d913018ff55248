package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/mvolkova/shopbot-backend/pkg/db/models"
)

// CategoryDTO is the transport shape for a shop section.
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProductDTO is the transport shape for a catalog listing.
type ProductDTO struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImagePath   string          `json:"image_path,omitempty"`
}

// CategoryFromModel maps a category row onto its DTO.
func CategoryFromModel(c *models.Category) CategoryDTO {
	if c == nil {
		return CategoryDTO{}
	}
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

// ProductFromModel maps a product row onto its DTO. The category name is
// filled when the association was preloaded.
func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
	}
	if p.ImagePath != nil {
		dto.ImagePath = *p.ImagePath
	}
	return dto
}
