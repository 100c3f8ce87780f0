package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/storefront/internal/core/port"
)

// GET v1/cart (200 OK)
// POST v1/cart/items JSON {"id": N} (201 Created, 400 Bad request, 415 Unsupported media type)
// DELETE v1/cart/items/{id} (200 OK, 400 Bad request)
// GET v1/cart/summary (200 OK)

type CartHandler struct {
	carts port.CartManager
}

func RegisterCartAPI(mux *http.ServeMux, carts port.CartManager) {
	h := CartHandler{carts}

	api := http.NewServeMux()
	api.HandleFunc("GET /v1/cart", h.GetCart)
	api.HandleFunc("POST /v1/cart/items", h.PostCartItem)
	api.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteCartItem)
	api.HandleFunc("GET /v1/cart/summary", h.GetCartSummary)

	handler := AllowJSON(api)
	mux.Handle("GET /v1/", handler)
	mux.Handle("POST /v1/", handler)
	mux.Handle("DELETE /v1/", handler)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	c, err := h.carts.ListCart(r.Context(), VisitorID(r.Context()))
	if err != nil {
		http.Error(w, "failed to load cart", http.StatusServiceUnavailable)
		log.Error("failed to load cart", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, cartFromDomain(c), log)
}

func (h CartHandler) PostCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostCartItem"
	log := slog.With("op", op)

	var item CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	c, err := h.carts.AddToCart(r.Context(), VisitorID(r.Context()), item.ID)
	if err != nil {
		http.Error(w, "failed to add to cart", http.StatusServiceUnavailable)
		log.Error("failed to add to cart", "err", err)
		return
	}

	writeJSON(w, http.StatusCreated, cartFromDomain(c), log)
	log.Info("added to cart", "productID", item.ID)
}

func (h CartHandler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCartItem"
	log := slog.With("op", op)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		log.Warn("invalid product id", "err", err)
		return
	}

	c, err := h.carts.RemoveFromCart(r.Context(), VisitorID(r.Context()), id)
	if err != nil {
		http.Error(w, "failed to remove from cart", http.StatusServiceUnavailable)
		log.Error("failed to remove from cart", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, cartFromDomain(c), log)
}

func (h CartHandler) GetCartSummary(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCartSummary"
	log := slog.With("op", op)

	s, err := h.carts.CartSummary(r.Context(), VisitorID(r.Context()))
	if err != nil {
		http.Error(w, "failed to load cart summary", http.StatusBadGateway)
		log.Error("failed to load cart summary", "err", err)
		return
	}

	writeJSON(w, http.StatusOK, cartSummaryFromDomain(s), log)
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
