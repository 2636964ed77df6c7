package models

import "gorm.io/gorm"

// Review is a buyer's rating of a product. One review per (product, user).
type Review struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_product_user"`
	UserID    string `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_product_user"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Text      string `json:"text" validate:"omitempty,max=2000"`
	gorm.Model
}

// CreateReviewRequest is the write shape for POST /products/:product_id/reviews.
type CreateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"omitempty,max=2000"`
}
