package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"kantin-be/internal/category"
	"kantin-be/internal/logger"
	"kantin-be/internal/menu"
	"kantin-be/internal/user"
	"kantin-be/internal/utils"
	"kantin-be/internal/validation"

	"go.uber.org/zap"
)

var (
	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
	errBadJSON          = errors.New("request body is not valid JSON")
)

// statusFor maps domain errors to HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case validation.Is(err),
		errors.Is(err, errBadJSON),
		errors.Is(err, menu.ErrNoFieldsToUpdate),
		errors.Is(err, menu.ErrUnknownCategory),
		errors.Is(err, category.ErrNoFieldsToUpdate):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, menu.ErrMenuItemNotFound),
		errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, errRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, category.ErrCategoryInUse):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = "internal server error"
	}
	utils.WriteJSONError(w, msg, code)
}

const maxBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadJSON
	}
	return nil
}
