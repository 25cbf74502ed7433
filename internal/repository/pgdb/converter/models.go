package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Цена читается как текст (price::text), встроенные отзывы хранятся в jsonb.
type ProductModel struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Price         string    `db:"price"`
	StockQuantity int       `db:"stock_quantity"`
	Category      string    `db:"category"`
	ImageURL      string    `db:"image_url"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	Reviews       []byte    `db:"reviews"`
}

// ReviewModel представляет запись таблицы reviews и элемент jsonb-массива products.reviews.
type ReviewModel struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"productId"`
	UserID    string    `db:"user_id" json:"userId"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
