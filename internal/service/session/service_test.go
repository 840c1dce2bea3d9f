package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/cart"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/repository/kv"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStorage) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

func (failingStorage) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func shoe() domain.LineItem {
	return domain.LineItem{
		ProductID: "p1",
		Name:      "Velocity Runner",
		UnitPrice: decimal.RequireFromString("89.99"),
		Quantity:  1,
	}
}

func TestIssueReturnsUUID(t *testing.T) {
	svc := New(kv.NewMemory(), Config{})
	id := svc.Issue()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("issued id is not a uuid: %q", id)
	}
	if svc.Issue() == id {
		t.Fatalf("expected distinct ids")
	}
	if svc.Active() != 0 {
		t.Fatalf("issuing should not allocate a session")
	}
}

func TestDoRejectsInvalidSession(t *testing.T) {
	svc := New(kv.NewMemory(), Config{})
	called := false
	err := svc.Do(context.Background(), "not-a-session", func(*cart.Store) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if called {
		t.Fatalf("callback must not run for an invalid session")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemory()
	svc := New(repo, Config{CartKey: "shop"})
	a, b := svc.Issue(), svc.Issue()

	if err := svc.Do(ctx, a, func(s *cart.Store) error { return s.AddItem(ctx, shoe()) }); err != nil {
		t.Fatalf("add: %v", err)
	}
	var count int
	if err := svc.Do(ctx, b, func(s *cart.Store) error { count = s.ItemCount(); return nil }); err != nil {
		t.Fatalf("read: %v", err)
	}
	if count != 0 {
		t.Fatalf("session b sees session a's cart: %d", count)
	}
	if _, err := repo.Get(ctx, "shop:"+a); err != nil {
		t.Fatalf("expected cart persisted under session key: %v", err)
	}
}

func TestDoNormalizesSessionID(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemory()
	svc := New(repo, Config{})
	id := uuid.New()

	upper := "URN:UUID:" + id.String()
	if err := svc.Do(ctx, upper, func(s *cart.Store) error { return s.AddItem(ctx, shoe()) }); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := repo.Get(ctx, cart.DefaultKey+":"+id.String()); err != nil {
		t.Fatalf("expected canonical storage key: %v", err)
	}
}

func TestDoSerializesAccess(t *testing.T) {
	ctx := context.Background()
	svc := New(kv.NewMemory(), Config{})
	id := svc.Issue()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Do(ctx, id, func(s *cart.Store) error { return s.AddItem(ctx, shoe()) }); err != nil {
				t.Errorf("add: %v", err)
			}
		}()
	}
	wg.Wait()

	err := svc.Do(ctx, id, func(s *cart.Store) error {
		if s.Len() != 1 || s.ItemCount() != 50 {
			t.Fatalf("expected one slot with quantity 50, got len=%d count=%d", s.Len(), s.ItemCount())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
}

func TestEvictReloadsFromStorage(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := New(kv.NewMemory(), Config{IdleTTL: time.Minute, Clock: clock})
	id := svc.Issue()

	if err := svc.Do(ctx, id, func(s *cart.Store) error { return s.AddItem(ctx, shoe()) }); err != nil {
		t.Fatalf("add: %v", err)
	}
	if n := svc.Evict(clock.Now().Add(30 * time.Second)); n != 0 {
		t.Fatalf("evicted a session before its ttl: %d", n)
	}
	clock.Advance(time.Minute)
	if n := svc.Evict(clock.Now()); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if svc.Active() != 0 {
		t.Fatalf("expected no active sessions")
	}

	err := svc.Do(ctx, id, func(s *cart.Store) error {
		if s.ItemCount() != 1 {
			t.Fatalf("expected cart reloaded from storage, count=%d", s.ItemCount())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestEvictSkipsSessionsInUse(t *testing.T) {
	ctx := context.Background()
	clock := &manualClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := New(kv.NewMemory(), Config{IdleTTL: time.Minute, Clock: clock})
	id := svc.Issue()

	err := svc.Do(ctx, id, func(*cart.Store) error {
		if n := svc.Evict(clock.Now().Add(time.Hour)); n != 0 {
			t.Errorf("evicted a session in use")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestEvictDisabledWithoutTTL(t *testing.T) {
	svc := New(kv.NewMemory(), Config{})
	_ = svc.Do(context.Background(), svc.Issue(), func(*cart.Store) error { return nil })
	if n := svc.Evict(time.Now().Add(24 * time.Hour)); n != 0 {
		t.Fatalf("expected no eviction without ttl, got %d", n)
	}
}

func TestDoReportsStorageFailureOnOpen(t *testing.T) {
	svc := New(failingStorage{}, Config{})
	err := svc.Do(context.Background(), svc.Issue(), func(*cart.Store) error { return nil })
	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestDoPropagatesCallbackError(t *testing.T) {
	svc := New(kv.NewMemory(), Config{})
	want := errors.New("boom")
	if err := svc.Do(context.Background(), svc.Issue(), func(*cart.Store) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestForgetDropsPersistedCart(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemory()
	svc := New(repo, Config{CartKey: "shop"})
	id := svc.Issue()

	if err := svc.Do(ctx, id, func(s *cart.Store) error { return s.AddItem(ctx, shoe()) }); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Forget(ctx, id); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, err := repo.Get(ctx, "shop:"+id); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected persisted cart deleted, got %v", err)
	}

	err := svc.Do(ctx, id, func(s *cart.Store) error {
		if s.Len() != 0 {
			t.Fatalf("expected empty cart after forget, len=%d", s.Len())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do after forget: %v", err)
	}
}

func TestForgetErrors(t *testing.T) {
	ctx := context.Background()
	if err := New(kv.NewMemory(), Config{}).Forget(ctx, "nope"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	svc := New(failingStorage{}, Config{})
	if err := svc.Forget(ctx, svc.Issue()); !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}
