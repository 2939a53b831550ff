package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Author          string           `json:"author"`
	Publisher       string           `json:"publisher"`
	PublicationDate *time.Time       `json:"publication_date"`
	ISBN            *string          `json:"isbn"`
	Language        string           `json:"language"`
	Quantity        int              `json:"quantity"`
	MinThreshold    int              `json:"min_threshold"`
	SalePrice       decimal.Decimal  `json:"sale_price"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price"`
	ShelfLocation   string           `json:"shelf_location"`
	CategoryID      uuid.UUID        `json:"category_id"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Publisher, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Language, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.MinThreshold, validation.Min(0)),
		validation.Field(&r.CategoryID, validation.Required, validation.By(uuidRequired)),
		validation.Field(&r.SalePrice, validation.By(positivePrice)),
	)
}

type UpdateBookRequest struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Author          string           `json:"author"`
	Publisher       string           `json:"publisher"`
	PublicationDate *time.Time       `json:"publication_date"`
	ISBN            *string          `json:"isbn"`
	Language        string           `json:"language"`
	MinThreshold    int              `json:"min_threshold"`
	SalePrice       decimal.Decimal  `json:"sale_price"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price"`
	ShelfLocation   string           `json:"shelf_location"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Publisher, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Language, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.MinThreshold, validation.Min(0)),
		validation.Field(&r.SalePrice, validation.By(positivePrice)),
	)
}

func uuidRequired(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}

func positivePrice(value interface{}) error {
	price, _ := value.(decimal.Decimal)
	if price.IsNegative() || price.IsZero() {
		return validation.NewError("validation_positive", "must be greater than zero")
	}
	return nil
}

type BookFilter struct {
	Search      string
	CategoryID  *uuid.UUID
	StockStatus string
	Status      string
	Limit       int
	Offset      int
}

// BookResponse adds the derived stock status to the entity fields.
type BookResponse struct {
	Book
	StockStatus string `json:"stock_status"`
}

func ToBookResponse(b *Book) *BookResponse {
	return &BookResponse{
		Book:        *b,
		StockStatus: b.StockStatus(),
	}
}
