package domain

import "errors"

var (
	// ErrItemNotFound indicates that the shop item is not found.
	ErrItemNotFound = errors.New("shop item not found")
	// ErrOutOfStock indicates that the requested quantity exceeds the item's stock.
	ErrOutOfStock = errors.New("not enough items in stock")
)

// Item is a purchasable shop good.
type Item struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	Price         string  `json:"price"`
	DiscountPrice *string `json:"discount_price"`
	Quantity      int32   `json:"quantity"`
	Category      string  `json:"category,omitempty"`
	Description   string  `json:"description,omitempty"`
	Image         string  `json:"image,omitempty"`
	Popularity    int32   `json:"popularity"`
}

// CreateItemParams is the input data to create a shop item.
type CreateItemParams struct {
	Name          string
	Price         string
	DiscountPrice *string
	Quantity      int32
	Category      string
	Description   string
	Image         string
}

// UpdateItemParams is the input data to update a shop item.
type UpdateItemParams struct {
	ID            int32
	Name          string
	Price         string
	DiscountPrice *string
	Quantity      int32
	Category      string
	Description   string
	Image         string
}
