package storefront

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

func (s *Session) cartItems(ctx context.Context) []models.CartItem {
	var items []models.CartItem
	s.load(ctx, KeyCart, &items)
	return items
}

// Cart возвращает текущую корзину.
func (s *Session) Cart(ctx context.Context) models.Cart {
	return models.NewCart(s.cartItems(ctx))
}

// AddToCart добавляет снимок товара в конец корзины.
func (s *Session) AddToCart(ctx context.Context, productID string) (models.Cart, error) {
	const op = "storefront.AddToCart"
	p, ok := s.svc.product(productID)
	if !ok {
		return models.Cart{}, fmt.Errorf("%s: %q: %w", op, productID, ErrProductNotFound)
	}

	items := append(s.cartItems(ctx), p)
	s.save(ctx, KeyCart, items)
	return models.NewCart(items), nil
}

// RemoveFromCart удаляет позицию index (с нуля).
func (s *Session) RemoveFromCart(ctx context.Context, index int) (models.Cart, error) {
	const op = "storefront.RemoveFromCart"
	items := s.cartItems(ctx)
	if index < 0 || index >= len(items) {
		return models.Cart{}, fmt.Errorf("%s: %d: %w", op, index, ErrCartIndex)
	}

	items = append(items[:index], items[index+1:]...)
	s.save(ctx, KeyCart, items)
	return models.NewCart(items), nil
}
