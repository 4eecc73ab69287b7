package handler

import (
	"net/http"
)

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Create(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, c)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "cid")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid cart id")
		return
	}
	c, err := h.carts.GetByID(r.Context(), id)
	switch {
	case err != nil:
		writeError(w, r, err)
	case c == nil:
		writeMessage(w, http.StatusNotFound, "Cart not found")
	default:
		writeJSON(w, r, http.StatusOK, c)
	}
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(r, "cid")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid cart id")
		return
	}
	productID, ok := pathID(r, "pid")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	c, err := h.carts.AddProduct(r.Context(), cartID, productID, h.products)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}
