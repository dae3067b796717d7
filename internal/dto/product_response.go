package dto

import "github.com/storefront/storefront-service/internal/domain"

type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	MinPrice *float64         `json:"minPrice,omitempty"`
	MaxPrice *float64         `json:"maxPrice,omitempty"`
}

type PriceRange struct {
	MinPrice *float64 `bson:"min_price" json:"minPrice"`
	MaxPrice *float64 `bson:"max_price" json:"maxPrice"`
}
