package model

import "time"

// Product is a catalog item. There is no stock field: availability is unlimited.
type Product struct {
	ID          string    `json:"_id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Image       string    `json:"image" bson:"image"`
	Ingredients []string  `json:"ingredients" bson:"ingredients"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// ProductRequest is used for both create and full-replacement update
type ProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"` // Pointer so that 0 is distinguishable from absent
	Category    string   `json:"category" binding:"required"`
	Image       string   `json:"image" binding:"required"`
	Ingredients []string `json:"ingredients"`
}
