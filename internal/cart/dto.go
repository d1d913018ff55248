package cart

import "github.com/shopspring/decimal"

// ItemDetail is one cart line joined with its product. Price is the current
// catalog price, not a snapshot.
type ItemDetail struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}
