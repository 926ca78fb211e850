package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still has menu items")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Order is the display rank, ascending. Duplicates are allowed.
	Order int `json:"order"`
}

type NewCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type UpdateCategory struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

func (u UpdateCategory) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Order == nil
}
