package category

import "kantin-be/internal/validation"

func ValidateNew(in NewCategory) error {
	return validation.Required("name", in.Name)
}

func ValidateUpdate(in UpdateCategory) error {
	if in.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	if in.Name != nil {
		return validation.Required("name", *in.Name)
	}
	return nil
}
