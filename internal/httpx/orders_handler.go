package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
)

type OrdersHandler struct {
	Svc *orders.Service
}

type createOrderReq struct {
	Items []orders.ItemInput `json:"items"`
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	os, err := h.Svc.List(ctx, ident)
	if err != nil {
		respondError(w, err)
		return
	}
	if os == nil {
		os = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": os})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Create(ctx, ident, req.Items, r.Header.Get("X-Request-Id"))
	if err != nil {
		// a vanished product is a request validation failure here, not a 404
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if errStatus(err) == http.StatusInternalServerError {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "Failed to create order",
				"error":   err.Error(),
			})
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   o,
	})
}

func (h *OrdersHandler) show(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Svc.Get(ctx, ident, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ident, _ := identityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Cancel(ctx, ident, chi.URLParam(r, "id"), r.Header.Get("X-Request-Id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order cancelled successfully",
		"order":   o,
	})
}
