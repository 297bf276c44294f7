package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Avzolem/yugioh-server/internal/catalog"
	"github.com/Avzolem/yugioh-server/internal/middleware"
	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/observability"
	"github.com/Avzolem/yugioh-server/internal/services"
)

// CardHandler handles card identity and per-card endpoints
type CardHandler struct {
	resolverService *services.ResolverService
	syncService     *services.SyncService
	listService     *services.ListService
	imageCache      *services.ImageCacheService
	metrics         *observability.BusinessMetrics
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(
	resolverService *services.ResolverService,
	syncService *services.SyncService,
	listService *services.ListService,
	imageCache *services.ImageCacheService,
	metrics *observability.BusinessMetrics,
) *CardHandler {
	return &CardHandler{
		resolverService: resolverService,
		syncService:     syncService,
		listService:     listService,
		imageCache:      imageCache,
		metrics:         metrics,
	}
}

// Resolve asks the catalog for the card behind a set code
func (h *CardHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Set code required", http.StatusBadRequest)
		return
	}

	result, err := h.resolverService.ResolveSetCode(r.Context(), code)
	if h.metrics != nil {
		usedFallback := err == nil && result.UsedFallback
		h.metrics.RecordCatalogLookup(r.Context(), usedFallback, err == nil)
	}
	if err != nil {
		var notFound *catalog.NotFoundError
		switch {
		case errors.As(err, &notFound):
			http.Error(w, "No card found for that set code", http.StatusNotFound)
		case err == models.ErrSetCodeRequired:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Catalog lookup failed", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ToggleForSale flips a collection entry's for-sale flag
func (h *CardHandler) ToggleForSale(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.ToggleForSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	forSale, err := h.syncService.ToggleForSale(r.Context(), user.ID, req.SetCode)
	if err != nil {
		switch err {
		case models.ErrCardNotInList:
			http.Error(w, "Card not found in collection", http.StatusNotFound)
		case models.ErrSetCodeRequired:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to toggle for-sale state", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"isForSale": forSale})
}

// CacheImage downloads a card image into local storage and records
// the path on the list entry
func (h *CardHandler) CacheImage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CacheImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !models.IsValidListType(req.ListType) {
		http.Error(w, "Invalid list type", http.StatusBadRequest)
		return
	}
	if req.SetCode == "" || req.ImageURL == "" {
		http.Error(w, "Set code and image URL required", http.StatusBadRequest)
		return
	}

	path, err := h.imageCache.CacheCardImage(r.Context(), user.ID, models.NormalizeSetCode(req.SetCode), req.ImageURL)
	if err != nil {
		http.Error(w, "Failed to cache card image", http.StatusBadGateway)
		return
	}

	listType := models.ListType(req.ListType)
	if err := h.listService.CacheImagePath(r.Context(), user.ID, listType, req.SetCode, path); err != nil {
		if err == models.ErrCardNotInList {
			http.Error(w, "Card not found in list", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to record cached image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.CacheImageResponse{LocalImagePath: path})
}

// ServeImage streams a cached card image from local storage
func (h *CardHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	relativePath := r.URL.Query().Get("path")
	if relativePath == "" {
		http.Error(w, "Image path required", http.StatusBadRequest)
		return
	}

	fullPath, err := h.imageCache.ServePath(relativePath)
	if err != nil {
		http.Error(w, "Invalid image path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, fullPath)
}
