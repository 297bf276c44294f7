package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Avzolem/yugioh-server/internal/models"
)

// errForced is returned by fakes wired to fail a specific call.
var errForced = errors.New("forced failure")

type listKey struct {
	userID string
	t      models.ListType
}

// fakeListRepo is an in-memory ListRepo. failUpsert / failRemove make
// the next matching write fail, for exercising rollback paths.
type fakeListRepo struct {
	lists      map[listKey]*models.List
	failUpsert map[listKey]bool
	failRemove map[listKey]bool
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{
		lists:      map[listKey]*models.List{},
		failUpsert: map[listKey]bool{},
		failRemove: map[listKey]bool{},
	}
}

func (r *fakeListRepo) GetOrCreate(ctx context.Context, userID string, t models.ListType) (*models.List, error) {
	key := listKey{userID, t}
	if list, ok := r.lists[key]; ok {
		return list, nil
	}
	list := &models.List{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      t,
		Cards:     []models.CardEntry{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	r.lists[key] = list
	return list, nil
}

func (r *fakeListRepo) UpsertCard(ctx context.Context, userID string, t models.ListType, entry models.CardEntry) error {
	key := listKey{userID, t}
	if r.failUpsert[key] {
		return errForced
	}
	list, _ := r.GetOrCreate(ctx, userID, t)
	if entry.Quantity < 1 {
		entry.Quantity = 1
	}
	if existing := list.FindCard(entry.SetCode); existing != nil {
		existing.Quantity += entry.Quantity
		return nil
	}
	entry.AddedAt = time.Now().UTC()
	list.Cards = append(list.Cards, entry)
	return nil
}

func (r *fakeListRepo) RemoveCard(ctx context.Context, userID string, t models.ListType, setCode string) (bool, error) {
	key := listKey{userID, t}
	if r.failRemove[key] {
		return false, errForced
	}
	list, _ := r.GetOrCreate(ctx, userID, t)
	for i := range list.Cards {
		if list.Cards[i].SetCode == setCode {
			list.Cards = append(list.Cards[:i], list.Cards[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeListRepo) SetQuantity(ctx context.Context, userID string, t models.ListType, setCode string, quantity int) (bool, error) {
	list, _ := r.GetOrCreate(ctx, userID, t)
	if entry := list.FindCard(setCode); entry != nil {
		entry.Quantity = quantity
		return true, nil
	}
	return false, nil
}

func (r *fakeListRepo) UpdateDetails(ctx context.Context, userID string, t models.ListType, setCode string, price *float64, notes *string) (bool, error) {
	if price == nil && notes == nil {
		return true, nil
	}
	list, _ := r.GetOrCreate(ctx, userID, t)
	entry := list.FindCard(setCode)
	if entry == nil {
		return false, nil
	}
	if price != nil {
		entry.Price = price
	}
	if notes != nil {
		entry.Notes = notes
	}
	return true, nil
}

func (r *fakeListRepo) SetForSale(ctx context.Context, userID string, t models.ListType, setCode string, forSale bool) (bool, error) {
	list, _ := r.GetOrCreate(ctx, userID, t)
	if entry := list.FindCard(setCode); entry != nil {
		entry.IsForSale = forSale
		return true, nil
	}
	return false, nil
}

func (r *fakeListRepo) SetLocalImagePath(ctx context.Context, userID string, t models.ListType, setCode, path string) (bool, error) {
	list, _ := r.GetOrCreate(ctx, userID, t)
	if entry := list.FindCard(setCode); entry != nil {
		entry.LocalImagePath = &path
		return true, nil
	}
	return false, nil
}

func (r *fakeListRepo) Clear(ctx context.Context, userID string, t models.ListType) error {
	list, _ := r.GetOrCreate(ctx, userID, t)
	list.Cards = []models.CardEntry{}
	return nil
}

func (r *fakeListRepo) TotalValue(ctx context.Context, userID string, t models.ListType) (float64, error) {
	list, _ := r.GetOrCreate(ctx, userID, t)
	return list.TotalValue(), nil
}

func (r *fakeListRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	for key := range r.lists {
		if key.userID == userID {
			delete(r.lists, key)
		}
	}
	return nil
}

func (r *fakeListRepo) GetCount(ctx context.Context) (int, error) {
	return len(r.lists), nil
}

// fakeDeckRepo is an in-memory DeckRepo.
type fakeDeckRepo struct {
	decks map[string]*models.Deck
}

func newFakeDeckRepo() *fakeDeckRepo {
	return &fakeDeckRepo{decks: map[string]*models.Deck{}}
}

func (r *fakeDeckRepo) Add(ctx context.Context, deck *models.Deck) error {
	copied := *deck
	r.decks[deck.ID] = &copied
	return nil
}

func (r *fakeDeckRepo) GetByID(ctx context.Context, deckID, userID string) (*models.Deck, error) {
	deck, ok := r.decks[deckID]
	if !ok || deck.UserID != userID {
		return nil, nil
	}
	return deck, nil
}

func (r *fakeDeckRepo) GetAllForUser(ctx context.Context, userID string) ([]*models.Deck, error) {
	var out []*models.Deck
	for _, deck := range r.decks {
		if deck.UserID == userID {
			out = append(out, deck)
		}
	}
	return out, nil
}

func (r *fakeDeckRepo) CountForUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, deck := range r.decks {
		if deck.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeDeckRepo) UpdateMeta(ctx context.Context, deckID, userID string, name, description *string) (bool, error) {
	deck, _ := r.GetByID(ctx, deckID, userID)
	if deck == nil {
		return false, nil
	}
	if name != nil {
		deck.Name = *name
	}
	if description != nil {
		deck.Description = description
	}
	return true, nil
}

func (r *fakeDeckRepo) UpsertCard(ctx context.Context, deckID string, card models.CardInDeck) error {
	deck, ok := r.decks[deckID]
	if !ok {
		return fmt.Errorf("deck %s not found", deckID)
	}
	if existing := deck.FindCard(card.CardID, card.Zone); existing != nil {
		existing.Quantity += card.Quantity
		return nil
	}
	deck.Cards = append(deck.Cards, card)
	return nil
}

func (r *fakeDeckRepo) SetCardQuantity(ctx context.Context, deckID string, cardID int64, zone models.DeckZone, quantity int) (bool, error) {
	deck, ok := r.decks[deckID]
	if !ok {
		return false, nil
	}
	if entry := deck.FindCard(cardID, zone); entry != nil {
		entry.Quantity = quantity
		return true, nil
	}
	return false, nil
}

func (r *fakeDeckRepo) RemoveCardEntry(ctx context.Context, deckID string, cardID int64, zone models.DeckZone) (bool, error) {
	deck, ok := r.decks[deckID]
	if !ok {
		return false, nil
	}
	for i := range deck.Cards {
		if deck.Cards[i].CardID == cardID && deck.Cards[i].Zone == zone {
			deck.Cards = append(deck.Cards[:i], deck.Cards[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDeckRepo) ReplaceCards(ctx context.Context, deckID, userID string, cards []models.CardInDeck) (bool, error) {
	deck, _ := r.GetByID(ctx, deckID, userID)
	if deck == nil {
		return false, nil
	}
	deck.Cards = append([]models.CardInDeck{}, cards...)
	return true, nil
}

func (r *fakeDeckRepo) SetCoverImageIfEmpty(ctx context.Context, deckID, image string) error {
	deck, ok := r.decks[deckID]
	if !ok {
		return nil
	}
	if deck.CoverImage == nil || *deck.CoverImage == "" {
		deck.CoverImage = &image
	}
	return nil
}

func (r *fakeDeckRepo) Delete(ctx context.Context, deckID, userID string) (bool, error) {
	deck, _ := r.GetByID(ctx, deckID, userID)
	if deck == nil {
		return false, nil
	}
	delete(r.decks, deckID)
	return true, nil
}

func (r *fakeDeckRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	for id, deck := range r.decks {
		if deck.UserID == userID {
			delete(r.decks, id)
		}
	}
	return nil
}

func (r *fakeDeckRepo) GetCount(ctx context.Context) (int, error) {
	return len(r.decks), nil
}

// fakeSharedLinkRepo is an in-memory SharedLinkRepo.
type fakeSharedLinkRepo struct {
	links map[string]*models.SharedLink
}

func newFakeSharedLinkRepo() *fakeSharedLinkRepo {
	return &fakeSharedLinkRepo{links: map[string]*models.SharedLink{}}
}

func (r *fakeSharedLinkRepo) Add(ctx context.Context, link *models.SharedLink) error {
	copied := *link
	r.links[link.Token] = &copied
	return nil
}

func (r *fakeSharedLinkRepo) GetByToken(ctx context.Context, token string) (*models.SharedLink, error) {
	link, ok := r.links[token]
	if !ok {
		return nil, nil
	}
	return link, nil
}

func (r *fakeSharedLinkRepo) Delete(ctx context.Context, token string) (bool, error) {
	if _, ok := r.links[token]; !ok {
		return false, nil
	}
	delete(r.links, token)
	return true, nil
}

func (r *fakeSharedLinkRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	count := 0
	for token, link := range r.links {
		if !now.Before(link.ExpiresAt) {
			delete(r.links, token)
			count++
		}
	}
	return count, nil
}

func (r *fakeSharedLinkRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	for token, link := range r.links {
		if link.UserID == userID {
			delete(r.links, token)
		}
	}
	return nil
}

func (r *fakeSharedLinkRepo) CountActive(ctx context.Context, now time.Time) (int, error) {
	count := 0
	for _, link := range r.links {
		if now.Before(link.ExpiresAt) {
			count++
		}
	}
	return count, nil
}

// fakeUserRepo is an in-memory UserRepo.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Add(ctx context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeUserRepo) GetCount(ctx context.Context) (int, error) {
	return len(r.users), nil
}

// fakeSessionRepo is an in-memory WebSessionRepo.
type fakeSessionRepo struct {
	sessions map[string]*models.WebSession
	touched  []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.WebSession{}}
}

func (r *fakeSessionRepo) Add(ctx context.Context, session *models.WebSession) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.WebSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) Touch(ctx context.Context, id string) error {
	r.touched = append(r.touched, id)
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}
