package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/orderplus/orderplus-backend/pkg/config"
	pkgerrors "github.com/orderplus/orderplus-backend/pkg/errors"
	"github.com/orderplus/orderplus-backend/pkg/redis"
)

// Line is one cart entry. The wire shape matches the legacy cookie cart.
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Store keeps per-visitor cart state server-side, keyed by an opaque token
// the client carries instead of the cart contents themselves.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore builds a cart store on the shared redis client.
func NewStore(client *redis.Client, cfg config.CartConfig) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{redis: client, ttl: ttl}
}

// NewToken mints a fresh cart token.
func (s *Store) NewToken() string {
	return uuid.NewString()
}

// Get returns the cart lines for a token. A missing or expired cart is an
// empty cart, not an error.
func (s *Store) Get(ctx context.Context, token string) ([]Line, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	raw, err := s.redis.Get(ctx, s.redis.CartKey(token))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Line{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return lines, nil
}

// Add merges a line into the cart. Quantities for an existing product id are
// summed; the TTL restarts on every write.
func (s *Store) Add(ctx context.Context, token string, line Line) ([]Line, error) {
	if line.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if line.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	lines, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}

	if err := s.save(ctx, token, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove drops a product from the cart. Removing an absent product is a
// no-op.
func (s *Store) Remove(ctx context.Context, token string, productID int64) ([]Line, error) {
	lines, err := s.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}

	if len(kept) == 0 {
		if err := s.Clear(ctx, token); err != nil {
			return nil, err
		}
		return []Line{}, nil
	}
	if err := s.save(ctx, token, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear deletes the cart entirely.
func (s *Store) Clear(ctx context.Context, token string) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	if err := s.redis.Del(ctx, s.redis.CartKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *Store) save(ctx context.Context, token string, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.redis.Set(ctx, s.redis.CartKey(token), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}
