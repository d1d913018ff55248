package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one purchased line as read back from storage. Price is the
// price captured at conversion, Name the current product name.
type OrderLine struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderDetail is an order joined with its owner and lines.
type OrderDetail struct {
	OrderID    uint
	ExternalID int64
	Username   *string
	CreatedAt  time.Time
	Lines      []OrderLine
}

// CreateResult reports the outcome of a cart conversion. Created is false
// when there was nothing to convert.
type CreateResult struct {
	OrderID uint `json:"order_id"`
	Created bool `json:"created"`
}

// OrderDetailsDTO is the receipt view of an order.
type OrderDetailsDTO struct {
	OrderID    uint            `json:"order_id"`
	ExternalID int64           `json:"external_id"`
	Username   string          `json:"username"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []OrderLine     `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// DetailsFromOrderDetail maps a storage-level detail onto the receipt DTO,
// filling the username placeholder and computing the total.
func DetailsFromOrderDetail(detail *OrderDetail) *OrderDetailsDTO {
	username := "unspecified"
	if detail.Username != nil && *detail.Username != "" {
		username = *detail.Username
	}

	total := decimal.Zero
	for _, line := range detail.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	items := detail.Lines
	if items == nil {
		items = []OrderLine{}
	}

	return &OrderDetailsDTO{
		OrderID:    detail.OrderID,
		ExternalID: detail.ExternalID,
		Username:   username,
		CreatedAt:  detail.CreatedAt,
		Items:      items,
		Total:      total,
	}
}
