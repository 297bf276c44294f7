package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Avzolem/yugioh-server/internal/middleware"
	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/observability"
	"github.com/Avzolem/yugioh-server/internal/services"
)

// ListHandler handles card-list API endpoints. Mutations touching the
// collection/for-sale pair are routed through the synchronizer so the
// mirror invariant holds no matter which endpoint the client hits.
type ListHandler struct {
	listService *services.ListService
	syncService *services.SyncService
	metrics     *observability.BusinessMetrics
}

// NewListHandler creates a new ListHandler
func NewListHandler(listService *services.ListService, syncService *services.SyncService, metrics *observability.BusinessMetrics) *ListHandler {
	return &ListHandler{
		listService: listService,
		syncService: syncService,
		metrics:     metrics,
	}
}

// GetList returns one list with its total value
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	user, listType, ok := h.userAndType(w, r)
	if !ok {
		return
	}

	list, err := h.listService.GetList(r.Context(), user.ID, listType)
	if err != nil {
		http.Error(w, "Failed to load list", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.ListResponse{
		List:       list,
		TotalValue: list.TotalValue(),
	})
}

// AddCard adds a card to a list. Adds to the for-sale list run
// through the synchronizer so the collection entry is flagged too.
func (h *ListHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	user, listType, ok := h.userAndType(w, r)
	if !ok {
		return
	}

	var req models.AddCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	entry := req.ToEntry()

	if listType == models.ListForSale {
		if err := h.syncService.AddToForSale(r.Context(), user.ID, entry); err != nil {
			h.writeListError(w, err)
			return
		}
	} else {
		if _, err := h.listService.AddCard(r.Context(), user.ID, listType, entry); err != nil {
			h.writeListError(w, err)
			return
		}
	}

	if h.metrics != nil {
		h.metrics.RecordCardAdded(r.Context(), user.ID, string(listType), entry.Quantity)
	}

	list, err := h.listService.GetList(r.Context(), user.ID, listType)
	if err != nil {
		http.Error(w, "Failed to load list", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.ListResponse{
		List:       list,
		TotalValue: list.TotalValue(),
	})
}

// RemoveCard deletes an entry outright. Collection deletes cascade
// into for-sale; for-sale deletes lower the collection flag.
func (h *ListHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	user, listType, ok := h.userAndType(w, r)
	if !ok {
		return
	}

	setCode := r.URL.Query().Get("setCode")
	if setCode == "" {
		http.Error(w, "Set code required", http.StatusBadRequest)
		return
	}

	if err := h.removeSyncAware(r, user.ID, listType, setCode); err != nil {
		h.writeListError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// UpdateCard applies quantity/price/notes changes. A quantity of zero
// or less removes the entry, with the same cascade as RemoveCard.
func (h *ListHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	user, listType, ok := h.userAndType(w, r)
	if !ok {
		return
	}

	var req models.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Quantity != nil && *req.Quantity <= 0 {
		if err := h.removeSyncAware(r, user.ID, listType, req.SetCode); err != nil {
			h.writeListError(w, err)
			return
		}
	} else {
		if err := h.listService.UpdateCard(r.Context(), user.ID, listType, &req); err != nil {
			h.writeListError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ClearList empties one list
func (h *ListHandler) ClearList(w http.ResponseWriter, r *http.Request) {
	user, listType, ok := h.userAndType(w, r)
	if !ok {
		return
	}

	if err := h.listService.ClearList(r.Context(), user.ID, listType); err != nil {
		http.Error(w, "Failed to clear list", http.StatusInternalServerError)
		return
	}

	// Clearing the collection leaves nothing to sell
	if listType == models.ListCollection {
		if err := h.listService.ClearList(r.Context(), user.ID, models.ListForSale); err != nil {
			http.Error(w, "Failed to clear for-sale list", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ClearAll empties all three lists
func (h *ListHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	for _, t := range models.AllListTypes() {
		if err := h.listService.ClearList(r.Context(), user.ID, t); err != nil {
			http.Error(w, "Failed to clear lists", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *ListHandler) removeSyncAware(r *http.Request, userID string, listType models.ListType, setCode string) error {
	switch listType {
	case models.ListCollection:
		return h.syncService.RemoveFromCollection(r.Context(), userID, setCode)
	case models.ListForSale:
		return h.syncService.RemoveFromForSale(r.Context(), userID, setCode)
	default:
		return h.listService.RemoveCard(r.Context(), userID, listType, setCode)
	}
}

func (h *ListHandler) userAndType(w http.ResponseWriter, r *http.Request) (*models.User, models.ListType, bool) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, "", false
	}

	listType := chi.URLParam(r, "type")
	if !models.IsValidListType(listType) {
		http.Error(w, "Invalid list type", http.StatusBadRequest)
		return nil, "", false
	}

	return user, models.ListType(listType), true
}

func (h *ListHandler) writeListError(w http.ResponseWriter, err error) {
	switch err {
	case models.ErrCardNotInList:
		http.Error(w, "Card not found in list", http.StatusNotFound)
	case models.ErrSetCodeRequired, models.ErrCardNameRequired, models.ErrInvalidQuantity,
		models.ErrNegativePrice, models.ErrInvalidListType:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "List operation failed", http.StatusInternalServerError)
	}
}
