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

// DeckHandler handles deck API endpoints
type DeckHandler struct {
	deckService *services.DeckService
	metrics     *observability.BusinessMetrics
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(deckService *services.DeckService, metrics *observability.BusinessMetrics) *DeckHandler {
	return &DeckHandler{
		deckService: deckService,
		metrics:     metrics,
	}
}

func (h *DeckHandler) recordMutation(r *http.Request, userID, operation string) {
	if h.metrics != nil {
		h.metrics.RecordDeckMutation(r.Context(), userID, operation)
	}
}

// ListDecks returns the user's decks
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	decks, err := h.deckService.GetDecks(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to list decks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.DeckListResponse{Decks: decks})
}

// CreateDeck creates a new empty deck
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), user.ID, &req)
	if err != nil {
		h.writeDeckError(w, err)
		return
	}
	h.recordMutation(r, user.ID, "create")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.DeckResponse{Deck: deck})
}

// GetDeck returns one deck
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), chi.URLParam(r, "deckId"), user.ID)
	if err != nil {
		h.writeDeckError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.DeckResponse{Deck: deck})
}

// UpdateDeck dispatches a deck mutation: metadata edit, card add,
// card remove or bulk replace
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	deckID := chi.URLParam(r, "deckId")
	if deckID == "" {
		http.Error(w, "Deck ID required", http.StatusBadRequest)
		return
	}

	var req models.DeckActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var deck *models.Deck
	var err error

	switch req.Action {
	case "meta":
		if err = h.deckService.UpdateMeta(r.Context(), deckID, user.ID, req.Name, req.Description); err == nil {
			deck, err = h.deckService.GetDeck(r.Context(), deckID, user.ID)
		}
	case "addCard":
		if req.Card == nil {
			http.Error(w, "Card required for addCard", http.StatusBadRequest)
			return
		}
		deck, err = h.deckService.AddCard(r.Context(), deckID, user.ID, *req.Card)
	case "removeCard":
		if !models.IsValidZone(req.Zone) {
			http.Error(w, "Invalid zone", http.StatusBadRequest)
			return
		}
		deck, err = h.deckService.RemoveCard(r.Context(), deckID, user.ID, req.CardID, models.DeckZone(req.Zone))
	case "replaceCards":
		deck, err = h.deckService.ReplaceCards(r.Context(), deckID, user.ID, req.Cards)
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	if err != nil {
		h.writeDeckError(w, err)
		return
	}
	h.recordMutation(r, user.ID, req.Action)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.DeckResponse{Deck: deck})
}

// DeleteDeck removes a deck
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), chi.URLParam(r, "deckId"), user.ID); err != nil {
		h.writeDeckError(w, err)
		return
	}
	h.recordMutation(r, user.ID, "delete")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *DeckHandler) writeDeckError(w http.ResponseWriter, err error) {
	switch err {
	case models.ErrDeckNotFound:
		http.Error(w, "Deck not found", http.StatusNotFound)
	case models.ErrCardNotInDeck:
		http.Error(w, "Card not found in that deck zone", http.StatusNotFound)
	case models.ErrDeckLimitReached:
		http.Error(w, err.Error(), http.StatusConflict)
	case models.ErrMaxCopiesExceeded, models.ErrMainDeckFull, models.ErrExtraDeckFull,
		models.ErrSideDeckFull:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case models.ErrDeckNameRequired, models.ErrDeckUserRequired, models.ErrInvalidQuantity:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Deck operation failed", http.StatusInternalServerError)
	}
}
