package dto

type ProductRequest struct {
	ID           string   `json:"-"`
	Name         string   `json:"name" validate:"required"`
	Price        float64  `json:"price" validate:"gte=0"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	CountInStock int      `json:"countInStock" validate:"gte=0"`
	Colors       []string `json:"colors"`
	Char         string   `json:"char"`
	Year         int      `json:"year"`
}

type ReviewRequest struct {
	ProductID string `json:"-"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}
