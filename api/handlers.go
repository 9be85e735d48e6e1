package api

import (
	"errors"
	"net/http"

	"catalog/service"
	"catalog/storage"

	"github.com/gorilla/mux"
)

// writeServiceError maps catalog core errors onto the HTTP taxonomy:
// validation and malformed identifiers are 400, missing records 404,
// anything else is a store-level 500.
func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, storage.ErrInvalidID):
		a.writeError(w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, storage.ErrProductNotFound):
		a.writeError(w, http.StatusNotFound, err.Error(), err)
	default:
		a.writeError(w, http.StatusInternalServerError, err.Error(), err)
	}
}

// createCategory handles POST /categories
func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		return
	}

	category, err := a.catalog.CreateCategory(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.respondJSON(w, category, http.StatusCreated)
}

// createProduct handles POST /products
func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		return
	}

	product, err := a.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.respondJSON(w, product, http.StatusCreated)
}

// getProducts handles GET /products
func (a *API) getProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.ListProducts(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.respondJSON(w, products, http.StatusOK)
}

// getProduct handles GET /products/{id}
func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := a.catalog.GetProduct(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.respondJSON(w, product, http.StatusOK)
}

// updateProduct handles PUT /products/{id}
func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req service.ProductRequest
	if err := a.decodeJSONBody(w, r, &req); err != nil {
		return
	}

	if err := a.catalog.UpdateProduct(r.Context(), id, req); err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.respondJSON(w, map[string]string{"message": "product updated"}, http.StatusOK)
}

// deleteProduct handles DELETE /products/{id}
func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := a.catalog.DeleteProduct(r.Context(), id); err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// healthCheck handles GET /health
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := a.db.HealthCheck(r.Context()); err != nil {
		a.writeError(w, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	a.respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
