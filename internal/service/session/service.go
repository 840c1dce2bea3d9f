// Package session keeps one cart per shopper session and serializes access to
// each of them.
package session

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/cart"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
)

var ErrInvalidSession = errors.New("invalid session id")

// Repository is the storage session carts are kept in.
type Repository interface {
	cart.Storage
	Delete(ctx context.Context, key string) error
}

// Config tunes a Service. Zero values fall back to defaults.
type Config struct {
	CartKey string
	IdleTTL time.Duration
	Logger  *log.Logger
	Clock   cart.Clock
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type entry struct {
	mu    sync.Mutex
	store *cart.Store

	// guarded by Service.mu
	inUse    int
	lastUsed time.Time
}

type Service struct {
	repo    Repository
	cartKey string
	idleTTL time.Duration
	logger  *log.Logger
	clock   cart.Clock

	mu       sync.Mutex
	sessions map[string]*entry
}

func New(repo Repository, cfg Config) *Service {
	if cfg.CartKey == "" {
		cfg.CartKey = cart.DefaultKey
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	return &Service{
		repo:     repo,
		cartKey:  cfg.CartKey,
		idleTTL:  cfg.IdleTTL,
		logger:   cfg.Logger,
		clock:    cfg.Clock,
		sessions: make(map[string]*entry),
	}
}

// Issue returns a fresh session id. No state is allocated until the id is used.
func (s *Service) Issue() string {
	return uuid.NewString()
}

// Normalize validates id and returns its canonical form.
func Normalize(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSession, "%q", id)
	}
	return parsed.String(), nil
}

// StorageKey is the key the cart of session id is persisted under.
func (s *Service) StorageKey(id string) string {
	return s.cartKey + ":" + id
}

// Do runs fn with exclusive access to the cart of session id, opening it from
// storage on first use.
func (s *Service) Do(ctx context.Context, id string, fn func(*cart.Store) error) error {
	id, err := Normalize(id)
	if err != nil {
		return err
	}

	e := s.acquire(id)
	defer s.release(e)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		store, err := cart.Open(ctx, s.repo, s.StorageKey(id), cart.WithLogger(s.logger), cart.WithClock(s.clock))
		if err != nil {
			s.logger.Printf("session: open cart session=%s error=%v", id, err)
			return errors.Wrap(err, "open cart")
		}
		e.store = store
	}
	return fn(e.store)
}

// Forget deletes the persisted cart of session id. The next Do on the same id
// starts from an empty cart.
func (s *Service) Forget(ctx context.Context, id string) error {
	id, err := Normalize(id)
	if err != nil {
		return err
	}

	e := s.acquire(id)
	defer s.release(e)

	e.mu.Lock()
	defer e.mu.Unlock()

	key := s.StorageKey(id)
	if err := s.repo.Delete(ctx, key); err != nil {
		s.logger.Printf("session: forget cart session=%s error=%v", id, err)
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	e.store = nil
	return nil
}

func (s *Service) acquire(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
		s.sessions[id] = e
	}
	e.inUse++
	return e
}

func (s *Service) release(e *entry) {
	s.mu.Lock()
	e.inUse--
	e.lastUsed = s.clock.Now()
	s.mu.Unlock()
}

// Active reports how many sessions currently hold a cart in memory.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions idle for at least the configured TTL. Their carts stay
// in storage and are reloaded on next use. Returns the number evicted.
func (s *Service) Evict(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, e := range s.sessions {
		if e.inUse > 0 || now.Sub(e.lastUsed) < s.idleTTL {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

// Run evicts idle sessions periodically until ctx is done.
func (s *Service) Run(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	interval := s.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(s.clock.Now()); n > 0 {
				s.logger.Printf("session: evicted idle sessions count=%d active=%d", n, s.Active())
			}
		}
	}
}
