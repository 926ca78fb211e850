package menu

import (
	"errors"
	"time"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrUnknownCategory  = errors.New("menu item references an unknown category")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// MenuItem prices are whole rupiah.
type MenuItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	CategoryID  string    `json:"categoryId"`
	Image       string    `json:"image"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type NewMenuItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  string `json:"categoryId"`
	Image       string `json:"image"`
	IsAvailable bool   `json:"isAvailable"`
}

// UpdateMenuItem is a partial update; nil fields are left untouched.
type UpdateMenuItem struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty"`
	Image       *string `json:"image,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}

func (u UpdateMenuItem) IsEmpty() bool {
	return u.Name == nil &&
		u.Description == nil &&
		u.Price == nil &&
		u.CategoryID == nil &&
		u.Image == nil &&
		u.IsAvailable == nil
}
