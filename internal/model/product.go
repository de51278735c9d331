package model

type Product struct {
	Document
	Name               string  `json:"name" validate:"required"`
	Brand              string  `json:"brand"`
	Category           string  `json:"category"`
	PurchaseDate       *Day    `json:"purchaseDate,omitempty"`
	ExpiryDate         *Day    `json:"expiryDate,omitempty"`
	OpenedDate         *Day    `json:"openedDate,omitempty"`
	PeriodAfterOpening int     `json:"periodAfterOpening,omitempty" validate:"gte=0"` // days
	Price              float64 `json:"price,omitempty" validate:"gte=0"`
	Size               string  `json:"size"`
	Ingredients        string  `json:"ingredients"`
	Notes              string  `json:"notes"`
	Rating             int     `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	ImageURL           string  `json:"imageUrl"`
}
