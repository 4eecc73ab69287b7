package handler

import (
	"io"
	"net/http"

	"github.com/ignaciociccioli3-cmd/Backend1/internal/domain/product"
)

const maxBodyBytes = 1 << 20

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	writeJSON(w, r, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "pid")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	p, err := h.products.GetByID(r.Context(), id)
	switch {
	case err != nil:
		writeError(w, r, err)
	case p == nil:
		writeMessage(w, http.StatusNotFound, "Product not found")
	default:
		writeJSON(w, r, http.StatusOK, p)
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "pid")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	in, ok := readInput(w, r)
	if !ok {
		return
	}
	p, err := h.products.Update(r.Context(), id, in)
	switch {
	case err != nil:
		writeError(w, r, err)
	case p == nil:
		writeMessage(w, http.StatusNotFound, "Product not found")
	default:
		writeJSON(w, r, http.StatusOK, p)
	}
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "pid")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid product id")
		return
	}
	deleted, err := h.products.Delete(r.Context(), id)
	switch {
	case err != nil:
		writeError(w, r, err)
	case !deleted:
		writeMessage(w, http.StatusNotFound, "Product not found")
	default:
		writeJSON(w, r, http.StatusOK, deletedResponse{Status: "success", Message: "Product deleted"})
	}
}

type deletedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// readInput decodes the request body, answering 400 itself when the body is
// unreadable or not a JSON object.
func readInput(w http.ResponseWriter, r *http.Request) (product.Input, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return product.Input{}, false
	}
	in, err := product.DecodeInput(body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return product.Input{}, false
	}
	return in, true
}
