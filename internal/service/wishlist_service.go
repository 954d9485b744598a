package service

import (
	"context"
	"strings"
	"time"

	"spendly/internal/model"
	"spendly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// wishlistService implements the WishlistService interface.
type wishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	logger    zerolog.Logger
	now       func() time.Time
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, logger zerolog.Logger) WishlistService {
	return &wishlistService{
		wishlists: wishlists,
		products:  products,
		logger:    logger.With().Str("service", "wishlist").Logger(),
		now:       time.Now,
	}
}

// List retrieves the user's wishlists.
func (s *wishlistService) List(ctx context.Context, userID string) ([]model.Wishlist, error) {
	return s.wishlists.ListByUser(ctx, userID)
}

// Create adds a named wishlist for the user.
func (s *wishlistService) Create(ctx context.Context, userID, name string, public bool) (*model.Wishlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Wishlist name is required")
	}

	wishlist := &model.Wishlist{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		IsPublic:  public,
		CreatedAt: s.now(),
	}
	if err := s.wishlists.Create(ctx, wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}

// owned fetches a wishlist and checks the caller owns it. Someone else's
// list is WISHLIST_NOT_FOUND, never forbidden.
func (s *wishlistService) owned(ctx context.Context, userID string, id uuid.UUID) (*model.Wishlist, error) {
	wishlist, err := s.wishlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wishlist == nil || wishlist.UserID != userID {
		return nil, model.ErrWishlistNotFound
	}
	return wishlist, nil
}

// SetPublic toggles sharing on one of the user's wishlists.
func (s *wishlistService) SetPublic(ctx context.Context, userID string, id uuid.UUID, public bool) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.wishlists.SetPublic(ctx, id, public)
}

// Items retrieves a wishlist's items. Public lists are readable by anyone.
func (s *wishlistService) Items(ctx context.Context, userID string, id uuid.UUID) ([]model.WishlistItem, error) {
	wishlist, err := s.wishlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wishlist == nil || (!wishlist.IsPublic && wishlist.UserID != userID) {
		return nil, model.ErrWishlistNotFound
	}
	return s.wishlists.ListItems(ctx, id)
}

// defaultList finds or lazily creates the user's Default wishlist.
func (s *wishlistService) defaultList(ctx context.Context, userID string) (*model.Wishlist, error) {
	lists, err := s.wishlists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].Name == model.DefaultWishlistName {
			return &lists[i], nil
		}
	}

	wishlist := &model.Wishlist{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      model.DefaultWishlistName,
		CreatedAt: s.now(),
	}
	if err := s.wishlists.Create(ctx, wishlist); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("user_id", userID).Msg("default wishlist created")
	return wishlist, nil
}

// AddItem snapshots the product's current effective price into the wishlist.
// A nil wishlist id targets the lazily created Default list.
func (s *wishlistService) AddItem(ctx context.Context, userID string, id *uuid.UUID, productID string, notifyOnSale bool) (*model.WishlistItem, error) {
	var wishlist *model.Wishlist
	var err error
	if id == nil {
		wishlist, err = s.defaultList(ctx, userID)
	} else {
		wishlist, err = s.owned(ctx, userID, *id)
	}
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	now := s.now()
	item := &model.WishlistItem{
		ID:           uuid.New(),
		WishlistID:   wishlist.ID,
		ProductID:    product.ID,
		PriceAtAdd:   product.EffectiveUnitPrice(now),
		NotifyOnSale: notifyOnSale,
		AddedAt:      now,
	}
	if err := s.wishlists.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an item from one of the user's wishlists.
func (s *wishlistService) RemoveItem(ctx context.Context, userID string, id, itemID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.wishlists.RemoveItem(ctx, itemID)
}
