package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"message": message})
}

// errStatus maps the domain error taxonomy onto HTTP status codes.
func errStatus(err error) int {
	var insufficient *orders.InsufficientStockError
	var invalidState *orders.InvalidStateError
	switch {
	case errors.Is(err, auth.ErrTokenUnknown),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, orders.ErrNoItems),
		errors.Is(err, orders.ErrInvalidItems),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrInvalidInput),
		errors.As(err, &insufficient),
		errors.As(err, &invalidState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	code := errStatus(err)
	if code == http.StatusInternalServerError {
		// generic message; never leak transaction internals
		writeJSON(w, code, map[string]string{"message": "internal error", "error": err.Error()})
		return
	}
	writeError(w, code, err.Error())
}
