package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога.
// Товар виден покупателям, только пока Active == true; удаление — это сброс флага.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Category      string
	ImageURL      string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Reviews       []Review // копии отзывов в порядке добавления
}

func NewProduct(name, description string, price decimal.Decimal, stock int, category, imageURL string) *Product {
	return &Product{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stock,
		Category:      category,
		ImageURL:      imageURL,
		Reviews:       []Review{},
	}
}

// Clone возвращает глубокую копию товара вместе со списком отзывов.
func (p *Product) Clone() *Product {
	c := *p
	c.Reviews = make([]Review, len(p.Reviews))
	copy(c.Reviews, p.Reviews)

	return &c
}
