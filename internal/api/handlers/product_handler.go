package handlers

import (
	"errors"
	"net/http"

	"github.com/farmaciavallenar/backend/internal/application/services"
	"github.com/farmaciavallenar/backend/internal/domain/repositories"
	apperrors "github.com/farmaciavallenar/backend/pkg/errors"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productRepo   repositories.ProductRepository
	searchService *services.SearchService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productRepo repositories.ProductRepository, searchService *services.SearchService) *ProductHandler {
	return &ProductHandler{
		productRepo:   productRepo,
		searchService: searchService,
	}
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	product, err := h.productRepo.GetByID(r.Context(), productID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

// GetAlternatives handles GET /api/products/{id}/alternatives
func (h *ProductHandler) GetAlternatives(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	product, err := h.productRepo.GetByID(r.Context(), productID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	// The product's own clean name is the substitution query.
	result, err := h.searchService.Search(r.Context(), product.CleanName)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to find alternatives")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"product":      product,
		"alternatives": result.Candidates,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
