package model

type Review struct {
	Document
	ProductID    string `json:"productId" validate:"required"`
	Username     string `json:"username"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Title        string `json:"title"`
	Comment      string `json:"comment"`
	HelpfulCount int    `json:"helpfulCount"`
}
