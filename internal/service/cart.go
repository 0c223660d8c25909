package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/pvolkov/cart_service/internal/logging"
	"github.com/pvolkov/cart_service/internal/models"
	"github.com/pvolkov/cart_service/internal/repo"
	"github.com/pvolkov/cart_service/internal/transport"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// EventPublisher publishes cart domain events. Implementations must be safe
// for concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

type CartService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

// AddItem merges the quantity into an existing line for (userID, productID)
// or creates a new one. Reports whether a new line was created.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, bool, error) {
	if userID == 0 {
		return nil, false, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if productID == 0 {
		return nil, false, fmt.Errorf("product id is required: %w", ErrValidation)
	}
	if quantity == 0 {
		return nil, false, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	created, err := s.Repo.AddItem(ctx, &item)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, fmt.Errorf("concurrent add for the same product: %w", ErrConflict)
		}
		return nil, false, err
	}

	s.publish(ctx, "cart_item_added", userID, map[string]any{
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
		"created":   created,
	})
	return &item, created, nil
}

// GetCart returns the user's lines joined with current product data plus the
// total in minor units. An empty cart is ErrNotFound, not an empty list.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*transport.CartPayload, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required: %w", ErrValidation)
	}

	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items in cart: %w", ErrNotFound)
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	payload := &transport.CartPayload{Items: make([]transport.CartEntry, 0, len(items))}
	for _, it := range items {
		entry := newCartEntry(&it, products[it.ProductID])
		payload.Total += int64(entry.Quantity) * entry.Product.Price
		payload.Items = append(payload.Items, entry)
	}
	return payload, nil
}

// UpdateQuantity sets the absolute quantity of the user's line item. A nil
// quantity re-saves the line unchanged; zero or negative deletes it, reported
// through the removed flag.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity *int) (*transport.CartEntry, bool, error) {
	if userID == 0 {
		return nil, false, fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if itemID == 0 {
		return nil, false, fmt.Errorf("item id is required: %w", ErrValidation)
	}

	if quantity != nil && *quantity <= 0 {
		if err := s.Repo.DeleteItem(ctx, userID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, fmt.Errorf("cart item not found: %w", ErrNotFound)
			}
			return nil, false, err
		}
		s.publish(ctx, "cart_item_deleted", userID, map[string]any{
			"userID": userID,
			"itemID": itemID,
		})
		return nil, true, nil
	}

	var (
		item *models.CartItem
		err  error
	)
	if quantity == nil {
		item, err = s.Repo.TouchItem(ctx, userID, itemID)
	} else {
		item, err = s.Repo.SetQuantity(ctx, userID, itemID, uint(*quantity))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return nil, false, err
	}

	products, err := s.Repo.GetProducts(ctx, []uint{item.ProductID})
	if err != nil {
		return nil, false, err
	}
	entry := newCartEntry(item, products[item.ProductID])

	s.publish(ctx, "cart_item_updated", userID, map[string]any{
		"userID":   userID,
		"itemID":   itemID,
		"quantity": item.Quantity,
	})
	return &entry, false, nil
}

func (s *CartService) DeleteItem(ctx context.Context, userID, itemID uint) error {
	if userID == 0 {
		return fmt.Errorf("user id is required: %w", ErrValidation)
	}
	if itemID == 0 {
		return fmt.Errorf("item id is required: %w", ErrValidation)
	}

	if err := s.Repo.DeleteItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return err
	}

	s.publish(ctx, "cart_item_deleted", userID, map[string]any{
		"userID": userID,
		"itemID": itemID,
	})
	return nil
}

// ClearCart deletes every line of the user's cart. Clearing a cart that has
// no lines is ErrNotFound so callers can tell "nothing to clear" from success.
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return fmt.Errorf("user id is required: %w", ErrValidation)
	}

	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no cart items for user: %w", ErrNotFound)
		}
		return err
	}

	s.publish(ctx, "cart_cleared", userID, map[string]any{
		"userID": userID,
	})
	return nil
}

func newCartEntry(item *models.CartItem, product models.Product) transport.CartEntry {
	entry := transport.CartEntry{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if product.ID != 0 {
		entry.Product = transport.ProductSnapshot{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
		}
	}
	return entry
}

// Event publishing is best effort: a broker outage must not fail the mutation.
func (s *CartService) publish(ctx context.Context, eventType string, userID uint, payload any) {
	if s.Events == nil {
		return
	}
	key := strconv.FormatUint(uint64(userID), 10)
	if err := s.Events.Publish(ctx, eventType, key, payload); err != nil {
		logging.FromContext(ctx).Warn("cart_event_publish_failed", "type", eventType, "error", err)
	}
}
