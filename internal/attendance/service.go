package attendance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrEmptyName rejects check-ins without an identity label.
var ErrEmptyName = errors.New("name required")

// unknownLabel is what the browser-side recognizer reports when it cannot
// resolve a face; it must never produce a ledger record.
const unknownLabel = "unknown"

// Ledger is the storage surface the service needs.
type Ledger interface {
	RecentExists(ctx context.Context, name string, since time.Time) (bool, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
}

// Service coordinates check-ins and deduplication.
type Service struct {
	repo        Ledger
	dedupWindow time.Duration
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a service backed by a ledger store.
func NewService(repo Ledger, dedupWindow time.Duration) *Service {
	if dedupWindow <= 0 {
		dedupWindow = 60 * time.Second
	}
	return &Service{
		repo:        repo,
		dedupWindow: dedupWindow,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

// CheckIn records a check-in for name unless one exists inside the trailing
// dedup window. It returns the created record and true, or nil and false
// when the call was deduplicated. Check-ins are serialized per name so the
// window check and the insert act as one step.
func (s *Service) CheckIn(ctx context.Context, name string) (*Record, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}
	if strings.EqualFold(name, unknownLabel) {
		return nil, false, nil
	}

	lock := s.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()
	recent, err := s.repo.RecentExists(ctx, name, now.Add(-s.dedupWindow))
	if err != nil {
		return nil, false, err
	}
	if recent {
		return nil, false, nil
	}

	rec, err := s.repo.Insert(ctx, Record{
		Name:      name,
		Timestamp: now,
		Status:    "present",
	})
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

// List returns ledger records matching the filter, most recent first.
func (s *Service) List(ctx context.Context, f Filter) ([]Record, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) nameLock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}
