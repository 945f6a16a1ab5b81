// models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a static shop catalog entry.
type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       int64              `json:"price" bson:"price"`
	ImageURL    string             `json:"imageUrl" bson:"imageUrl"`
	Category    string             `json:"category" bson:"category"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Category    string `json:"category"`
}
