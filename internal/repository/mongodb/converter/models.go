package converter

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductDocument представляет документ коллекции products.
type ProductDocument struct {
	ID            string               `bson:"_id"`
	Name          string               `bson:"name"`
	Description   string               `bson:"description"`
	Price         primitive.Decimal128 `bson:"price"`
	StockQuantity int                  `bson:"stockQuantity"`
	Category      string               `bson:"category"`
	ImageURL      string               `bson:"imageUrl,omitempty"`
	Active        bool                 `bson:"active"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
	Reviews       []ReviewDocument     `bson:"reviews"`
}

// ReviewDocument представляет документ коллекции reviews и встроенную копию отзыва в товаре.
type ReviewDocument struct {
	ID        string    `bson:"_id"`
	ProductID string    `bson:"productId"`
	UserID    string    `bson:"userId"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}
