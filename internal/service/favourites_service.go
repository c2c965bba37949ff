package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

const favouritesPrefix = "favourites_"

// favouritesService implements FavouritesService over the session store.
// Favourites therefore end with the session, unlike the cart.
type favouritesService struct {
	sessions storage.Store
	codec    *storage.Codec
	products ProductService
	logger   zerolog.Logger
}

// NewFavouritesService creates a new favourites service.
func NewFavouritesService(sessions storage.Store, codec *storage.Codec, products ProductService, logger zerolog.Logger) FavouritesService {
	return &favouritesService{
		sessions: sessions,
		codec:    codec,
		products: products,
		logger:   logger.With().Str("service", "favourites").Logger(),
	}
}

func favouritesKey(email string) string {
	return favouritesPrefix + strings.ToLower(email)
}

// customerEmail returns the email of a customer session, or "" for anyone else.
func customerEmail(session *model.Session) string {
	if session == nil || session.Kind != model.SessionCustomer {
		return ""
	}
	return session.Email
}

// List returns the favourite product IDs. Anonymous callers get an empty list.
func (s *favouritesService) List(ctx context.Context, session *model.Session) ([]int64, error) {
	email := customerEmail(session)
	if email == "" {
		return []int64{}, nil
	}
	return s.load(ctx, email)
}

// Toggle adds the product if absent and removes it if present.
func (s *favouritesService) Toggle(ctx context.Context, session *model.Session, productID int64) (bool, error) {
	email := customerEmail(session)
	if email == "" {
		return false, model.ErrLoginRequired
	}

	ids, err := s.load(ctx, email)
	if err != nil {
		return false, err
	}

	if i := indexOfID(ids, productID); i >= 0 {
		ids = append(ids[:i], ids[i+1:]...)
		if err := s.save(ctx, email, ids); err != nil {
			return false, err
		}
		s.logger.Debug().Str("email", email).Int64("product_id", productID).Msg("favourite removed")
		return false, nil
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return false, err
	}

	ids = append(ids, productID)
	if err := s.save(ctx, email, ids); err != nil {
		return false, err
	}
	s.logger.Debug().Str("email", email).Int64("product_id", productID).Msg("favourite added")
	return true, nil
}

// Remove drops the product from the favourites. Anonymous callers and
// unknown products are a no-op.
func (s *favouritesService) Remove(ctx context.Context, session *model.Session, productID int64) error {
	email := customerEmail(session)
	if email == "" {
		return nil
	}

	ids, err := s.load(ctx, email)
	if err != nil {
		return err
	}

	i := indexOfID(ids, productID)
	if i < 0 {
		return nil
	}
	return s.save(ctx, email, append(ids[:i], ids[i+1:]...))
}

// Products returns the favourite products sorted by category then name.
func (s *favouritesService) Products(ctx context.Context, session *model.Session) ([]model.Product, error) {
	ids, err := s.List(ctx, session)
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// Clear deletes every favourite of the customer with the given email.
func (s *favouritesService) Clear(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, favouritesKey(email)); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to clear favourites")
		return fmt.Errorf("failed to clear favourites: %w", err)
	}
	return nil
}

// load reads the stored IDs, dropping non-positive and repeated ones.
func (s *favouritesService) load(ctx context.Context, email string) ([]int64, error) {
	var stored []int64
	if _, err := s.codec.Load(ctx, s.sessions, favouritesKey(email), &stored); err != nil {
		return nil, fmt.Errorf("failed to load favourites: %w", err)
	}

	ids := make([]int64, 0, len(stored))
	for _, id := range stored {
		if id > 0 && indexOfID(ids, id) < 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *favouritesService) save(ctx context.Context, email string, ids []int64) error {
	if err := s.codec.Save(ctx, s.sessions, favouritesKey(email), ids); err != nil {
		return fmt.Errorf("failed to save favourites: %w", err)
	}
	return nil
}

func indexOfID(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
