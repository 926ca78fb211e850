package menu

import "kantin-be/internal/validation"

func ValidateNew(in NewMenuItem) error {
	return validation.First(
		validation.Required("name", in.Name),
		validation.Required("description", in.Description),
		validation.Positive("price", in.Price),
		validation.Required("categoryId", in.CategoryID),
		validation.Required("image", in.Image),
	)
}

// ValidateUpdate checks only the fields being changed.
func ValidateUpdate(in UpdateMenuItem) error {
	if in.IsEmpty() {
		return ErrNoFieldsToUpdate
	}

	var errs []error
	if in.Name != nil {
		errs = append(errs, validation.Required("name", *in.Name))
	}
	if in.Description != nil {
		errs = append(errs, validation.Required("description", *in.Description))
	}
	if in.Price != nil {
		errs = append(errs, validation.Positive("price", *in.Price))
	}
	if in.CategoryID != nil {
		errs = append(errs, validation.Required("categoryId", *in.CategoryID))
	}
	if in.Image != nil {
		errs = append(errs, validation.Required("image", *in.Image))
	}
	return validation.First(errs...)
}
