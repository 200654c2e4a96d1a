package models

// ProductStatus tells whether a lot is still offered for sale
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a stock lot: a fixed batch of units sold down over time.
// TotalQuantity never changes after creation; RemainingQuantity only
// decreases, and only through order placement.
type Product struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	TotalQuantity     int           `json:"totalQuantity"`
	RemainingQuantity int           `json:"remainingQuantity"`
	Price             *float64      `json:"price,omitempty"`
	Status            ProductStatus `json:"status"`
}

// IsActive reports whether the lot appears in selection lists
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// UnitPrice returns the price or zero when the lot is unpriced
func (p *Product) UnitPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// HasPrice reports whether a positive unit price is set
func (p *Product) HasPrice() bool {
	return p.Price != nil && *p.Price > 0
}
