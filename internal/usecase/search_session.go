package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/drinkbook/client/internal/debounce"
	"github.com/drinkbook/client/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxImagePage is the last page offered by the image picker
const DefaultMaxImagePage = 4

// MsgImageSearchFailed is shown inline when an image search fails
const MsgImageSearchFailed = "Looks like our image mixer is out of juice. Try searching again!"

// SearchState is the lifecycle state of a search session
type SearchState int

const (
	SearchIdle SearchState = iota
	SearchDebouncing
	SearchLoading
	SearchSettled
	SearchFailed
)

func (s SearchState) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchDebouncing:
		return "debouncing"
	case SearchLoading:
		return "loading"
	case SearchSettled:
		return "settled"
	case SearchFailed:
		return "failed"
	default:
		return fmt.Sprintf("SearchState(%d)", int(s))
	}
}

// MarshalText renders the state by name in JSON payloads
func (s SearchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SearchSnapshot is a point-in-time view of a search session
type SearchSnapshot struct {
	ID         string            `json:"id"`
	Query      string            `json:"query"`
	Page       int               `json:"page"`
	MaxPage    int               `json:"maxPage"`
	State      SearchState       `json:"state"`
	Results    []domain.ImageRef `json:"results"`
	Error      string            `json:"error,omitempty"`
	Generation uint64            `json:"generation"`
}

// SearchSessionConfig holds configuration for a search session
type SearchSessionConfig struct {
	Debounce time.Duration
	MaxPage  int
	Clock    debounce.Clock
}

// SearchSession is the state machine behind one image picker. Query changes
// are debounced; page changes load immediately. Every load takes a new
// generation and a response is only applied while its generation is still
// current, so the results shown always belong to the latest request.
type SearchSession struct {
	id        string
	ctx       context.Context
	cancel    context.CancelFunc
	images    *ImageSearchCache
	scheduler *debounce.Scheduler
	maxPage   int
	log       *zap.Logger

	mu          sync.Mutex
	query       string
	page        int
	state       SearchState
	results     []domain.ImageRef
	errMsg      string
	generation  uint64
	debounceSeq uint64
	closed      bool
	onChange    func(SearchSnapshot)
}

// NewSearchSession creates an idle session searching through images
func NewSearchSession(images *ImageSearchCache, config SearchSessionConfig, log *zap.Logger) *SearchSession {
	if config.MaxPage <= 0 {
		config.MaxPage = DefaultMaxImagePage
	}
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchSession{
		id:        id,
		ctx:       ctx,
		cancel:    cancel,
		images:    images,
		scheduler: debounce.NewScheduler(config.Clock, config.Debounce),
		maxPage:   config.MaxPage,
		log:       log.Named("search").With(zap.String("session", id)),
		page:      1,
	}
}

// ID returns the session identifier
func (s *SearchSession) ID() string {
	return s.id
}

// OnChange registers fn to be called with a snapshot after every state
// change. It replaces any earlier callback. fn runs with the session locked
// and must not call back into the session.
func (s *SearchSession) OnChange(fn func(SearchSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Snapshot returns the current state of the session
func (s *SearchSession) Snapshot() SearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetQuery records a new query and restarts the debounce window. The query
// is kept verbatim and the page resets to 1. A blank query settles
// immediately with no results.
func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	// A response still in flight belongs to an older generation and is
	// dropped when it lands.
	s.query = query
	s.page = 1
	s.errMsg = ""
	s.generation++

	if strings.TrimSpace(query) == "" {
		s.scheduler.Cancel()
		s.state = SearchSettled
		s.results = nil
		s.notifyUnlock()
		return
	}

	s.state = SearchDebouncing
	s.debounceSeq++
	seq := s.debounceSeq
	s.scheduler.Schedule(func() { s.debounceElapsed(seq) })
	s.notifyUnlock()
}

// SetPage loads the given page of the current query right away. Pages run
// from 1 to the configured maximum. With a blank query it does nothing.
func (s *SearchSession) SetPage(page int) error {
	if page < 1 || page > s.maxPage {
		return fmt.Errorf("%w: page must be between 1 and %d, got %d", domain.ErrValidation, s.maxPage, page)
	}

	s.mu.Lock()
	if s.closed || strings.TrimSpace(s.query) == "" {
		s.mu.Unlock()
		return nil
	}

	s.scheduler.Cancel()
	s.debounceSeq++
	s.page = page
	s.loadLocked()
	s.notifyUnlock()
	return nil
}

// NextPage moves one page forward, stopping at the last page
func (s *SearchSession) NextPage() {
	s.mu.Lock()
	page := min(s.page+1, s.maxPage)
	s.mu.Unlock()
	_ = s.SetPage(page)
}

// PrevPage moves one page back, stopping at the first page
func (s *SearchSession) PrevPage() {
	s.mu.Lock()
	page := max(s.page-1, 1)
	s.mu.Unlock()
	_ = s.SetPage(page)
}

// Close releases the debounce timer and cancels any in-flight request.
// Results arriving afterwards are dropped.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.scheduler.Stop()
	s.cancel()
	s.log.Debug("search session closed")
}

func (s *SearchSession) debounceElapsed(seq uint64) {
	s.mu.Lock()
	// A newer query or page change arrived after the timer fired.
	if s.closed || seq != s.debounceSeq || s.state != SearchDebouncing {
		s.mu.Unlock()
		return
	}
	s.loadLocked()
	s.notifyUnlock()
}

// loadLocked starts a fetch for the current query and page; s.mu must be held
func (s *SearchSession) loadLocked() {
	s.generation++
	gen := s.generation
	query, page := s.query, s.page

	s.state = SearchLoading
	s.errMsg = ""

	s.log.Debug("loading images", zap.String("query", query), zap.Int("page", page), zap.Uint64("generation", gen))
	go s.fetch(s.ctx, gen, query, page)
}

func (s *SearchSession) fetch(ctx context.Context, gen uint64, query string, page int) {
	refs, err := s.images.Fetch(ctx, query, page)

	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		s.log.Debug("discarding stale image results", zap.Uint64("generation", gen))
		return
	}

	if err != nil {
		s.log.Warn("image search failed", zap.String("query", query), zap.Int("page", page), zap.Error(err))
		s.state = SearchFailed
		s.results = nil
		s.errMsg = MsgImageSearchFailed
	} else {
		s.state = SearchSettled
		s.results = refs
		s.errMsg = ""
	}
	s.notifyUnlock()
}

// notifyUnlock hands a snapshot to the observer and releases s.mu.
// Delivering under the lock keeps observers seeing states in order.
func (s *SearchSession) notifyUnlock() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
	s.mu.Unlock()
}

func (s *SearchSession) snapshotLocked() SearchSnapshot {
	return SearchSnapshot{
		ID:         s.id,
		Query:      s.query,
		Page:       s.page,
		MaxPage:    s.maxPage,
		State:      s.state,
		Results:    s.results,
		Error:      s.errMsg,
		Generation: s.generation,
	}
}
