package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/drinkbook/client/internal/debounce"
	"github.com/drinkbook/client/internal/domain"
	"go.uber.org/zap"
)

// DefaultLookupTimeout is how long a lookup waits for an absent recipe
const DefaultLookupTimeout = 3 * time.Second

// LookupStatus is the outcome of a recipe lookup
type LookupStatus int

const (
	LookupPending LookupStatus = iota
	LookupFound
	LookupNotFound
)

func (s LookupStatus) String() string {
	switch s {
	case LookupPending:
		return "pending"
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("LookupStatus(%d)", int(s))
	}
}

// MarshalText renders the status by name in JSON payloads
func (s LookupStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LookupResult is the state of a lookup. Recipe is only set when Found.
type LookupResult struct {
	Status LookupStatus
	Recipe domain.Recipe
}

// RecipeLookupConfig holds configuration for recipe lookups
type RecipeLookupConfig struct {
	Timeout time.Duration
	Clock   debounce.Clock
}

// RecipeLookup resolves a recipe id against the store, waiting a bounded
// time for recipes that have not been loaded yet
type RecipeLookup struct {
	store   *DrinkStore
	clock   debounce.Clock
	timeout time.Duration
	log     *zap.Logger
}

// NewRecipeLookup creates a lookup service over store
func NewRecipeLookup(store *DrinkStore, config RecipeLookupConfig, log *zap.Logger) *RecipeLookup {
	if config.Timeout <= 0 {
		config.Timeout = DefaultLookupTimeout
	}
	if config.Clock == nil {
		config.Clock = debounce.RealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RecipeLookup{
		store:   store,
		clock:   config.Clock,
		timeout: config.Timeout,
		log:     log.Named("lookup"),
	}
}

// Timeout returns how long an absent recipe is waited for
func (l *RecipeLookup) Timeout() time.Duration {
	return l.timeout
}

// PendingLookup is a lookup in progress
type PendingLookup struct {
	id   string
	done chan struct{}
	stop chan struct{}

	mu      sync.Mutex
	result  LookupResult
	stopped bool
}

// Start begins resolving id. A recipe already in the store resolves before
// Start returns; otherwise every collection update is checked until the
// recipe appears or the timeout elapses.
func (l *RecipeLookup) Start(id string) *PendingLookup {
	p := &PendingLookup{
		id:   id,
		done: make(chan struct{}),
		stop: make(chan struct{}),
	}

	// Subscribe before the first check so an update between the two is not lost.
	sub := l.store.Subscribe()
	if recipe, ok := l.store.Lookup(id); ok {
		l.store.Unsubscribe(sub)
		p.finish(LookupResult{Status: LookupFound, Recipe: recipe})
		return p
	}

	timer := l.clock.AfterFunc(l.timeout, func() {
		if recipe, ok := l.store.Lookup(id); ok {
			p.finish(LookupResult{Status: LookupFound, Recipe: recipe})
			return
		}
		if p.finish(LookupResult{Status: LookupNotFound}) {
			l.log.Info("recipe not found", zap.String("id", id), zap.Duration("waited", l.timeout))
		}
	})

	go func() {
		defer l.store.Unsubscribe(sub)
		defer timer.Stop()

		for {
			select {
			case <-sub.C():
				if recipe, ok := l.store.Lookup(id); ok {
					p.finish(LookupResult{Status: LookupFound, Recipe: recipe})
					return
				}
			case <-p.done:
				return
			case <-p.stop:
				return
			}
		}
	}()

	return p
}

// Find resolves id, blocking until it is found, the timeout elapses or ctx
// is done. A cancelled context yields a Pending result.
func (l *RecipeLookup) Find(ctx context.Context, id string) LookupResult {
	return l.Start(id).Wait(ctx)
}

// ID returns the recipe id being looked up
func (p *PendingLookup) ID() string {
	return p.id
}

// Result returns the current state without blocking
func (p *PendingLookup) Result() LookupResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Done is closed once the lookup resolves to Found or NotFound
func (p *PendingLookup) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the lookup resolves or ctx is done. When ctx ends first
// the lookup is cancelled and stays Pending.
func (p *PendingLookup) Wait(ctx context.Context) LookupResult {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.Cancel()
	}
	return p.Result()
}

// Cancel abandons an unresolved lookup, leaving it Pending
func (p *PendingLookup) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || p.result.Status != LookupPending {
		return
	}
	p.stopped = true
	close(p.stop)
}

// finish records the first resolution; later ones are ignored
func (p *PendingLookup) finish(result LookupResult) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || p.result.Status != LookupPending {
		return false
	}
	p.result = result
	close(p.done)
	return true
}
