// Package cart holds the shopping cart state manager: an ordered list of line
// items mirrored to durable key/value storage under a single key.
package cart

import (
	"context"
	"io"
	"log"
	"math"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
)

// DefaultKey is the storage key used when none is given.
const DefaultKey = "silkspeed-cart"

// Storage is the durable key/value contract the store persists through.
// Get must return domain.ErrNotFound for a key that was never written.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recovered load problems.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp addedAt.
func WithClock(clock Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Store owns one cart. Every mutation updates memory, persists the whole cart
// and only then notifies observers; a failed write rolls memory back.
//
// A Store is not safe for concurrent use. Callers serialize access, the way a
// UI event loop would.
type Store struct {
	repo   Storage
	key    string
	logger *log.Logger
	clock  Clock

	items     []domain.LineItem
	observers []subscription
	nextSubID int
}

// Open loads the cart stored under key. Missing or corrupt data yields an empty
// cart; only a failing storage read is returned as an error.
func Open(ctx context.Context, repo Storage, key string, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, errors.New("cart storage required")
	}
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		repo:   repo,
		key:    key,
		logger: log.New(io.Discard, "", 0),
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		s.items = []domain.LineItem{}
		return nil
	}
	if err != nil {
		return &domain.StorageError{Op: "get", Key: s.key, Err: err}
	}
	items, err := Decode(raw)
	if err != nil {
		s.logger.Printf("cart store: key=%s starting empty, persisted cart unreadable: %v", s.key, err)
		s.items = []domain.LineItem{}
		return nil
	}
	s.items = items
	return nil
}

// AddItem merges candidate into the slot with the same identity, or appends a
// new slot stamped with the current time.
func (s *Store) AddItem(ctx context.Context, candidate domain.LineItem) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	idx, ok := s.Find(candidate.ProductID, candidate.Size, candidate.Color)
	if ok && candidate.Quantity > math.MaxInt-s.items[idx].Quantity {
		return errors.Wrapf(domain.ErrInvalidQuantity, "product %q quantity %d + %d overflows",
			candidate.ProductID, s.items[idx].Quantity, candidate.Quantity)
	}
	prev := cloneItems(s.items)
	if ok {
		s.items[idx].Quantity += candidate.Quantity
	} else {
		item := candidate.Clone()
		item.AddedAt = s.clock.Now().UTC()
		s.items = append(s.items, item)
		idx = len(s.items) - 1
	}
	return s.commit(ctx, prev, Event{Kind: EventAdded, Index: idx})
}

// RemoveItem deletes the slot at index; later slots shift down by one.
func (s *Store) RemoveItem(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	prev := cloneItems(s.items)
	s.items = append(s.items[:index:index], s.items[index+1:]...)
	return s.commit(ctx, prev, Event{Kind: EventRemoved, Index: index})
}

// SetQuantity sets the slot quantity absolutely. A quantity below 1 removes
// the slot instead.
func (s *Store) SetQuantity(ctx context.Context, index, quantity int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if quantity < 1 {
		return s.RemoveItem(ctx, index)
	}
	prev := cloneItems(s.items)
	s.items[index].Quantity = quantity
	return s.commit(ctx, prev, Event{Kind: EventQuantityChanged, Index: index})
}

// Increase adds one to the slot quantity.
func (s *Store) Increase(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if s.items[index].Quantity == math.MaxInt {
		return errors.Wrapf(domain.ErrInvalidQuantity, "index %d quantity at maximum", index)
	}
	return s.SetQuantity(ctx, index, s.items[index].Quantity+1)
}

// Decrease subtracts one from the slot quantity, removing the slot at zero.
func (s *Store) Decrease(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	return s.SetQuantity(ctx, index, s.items[index].Quantity-1)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	prev := cloneItems(s.items)
	s.items = []domain.LineItem{}
	return s.commit(ctx, prev, Event{Kind: EventCleared, Index: NoIndex})
}

// Find returns the index of the slot with the given identity.
func (s *Store) Find(productID string, size, color *string) (int, bool) {
	for i := range s.items {
		if s.items[i].Matches(productID, size, color) {
			return i, true
		}
	}
	return -1, false
}

// Total is the exact sum of unitPrice * quantity over all slots.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Len is the number of distinct slots.
func (s *Store) Len() int {
	return len(s.items)
}

// Snapshot returns a copy of the slots in insertion order.
func (s *Store) Snapshot() []domain.LineItem {
	return cloneItems(s.items)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return errors.Wrapf(domain.ErrIndexOutOfRange, "index %d, cart has %d items", index, len(s.items))
	}
	return nil
}

func (s *Store) commit(ctx context.Context, prev []domain.LineItem, ev Event) error {
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return err
	}
	s.notify(ev)
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	data, err := Encode(s.items)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, s.key, data); err != nil {
		return &domain.StorageError{Op: "set", Key: s.key, Err: err}
	}
	return nil
}

func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
