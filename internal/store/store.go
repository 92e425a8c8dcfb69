// Package store holds the loaded quake records and the time-window selection
// the map front end filters them by.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrAlreadyLoaded is returned by Load after a successful load.
	ErrAlreadyLoaded = errors.New("store already loaded")

	// ErrNotLoaded is returned by operations that need a loaded record set.
	ErrNotLoaded = errors.New("store not loaded")
)

// FeedSource supplies the raw feed text.
type FeedSource interface {
	Fetch(ctx context.Context) (string, error)
}

// Snapshot is a point-in-time view of the store passed to subscribers.
type Snapshot struct {
	Loaded      bool
	SelectedMin float64
	SelectedMax float64
	RangeMin    float64
	RangeMax    float64
	Total       int
	Visible     int
}

// Option configures a Store.
type Option func(*Store)

// WithLocation sets the zone feed timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithGeocoder enables place enrichment between parsing and sorting.
func WithGeocoder(g domain.Geocoder) Option {
	return func(s *Store) { s.geocoder = g }
}

// WithClock swaps the time source used for LoadedAt.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store owns the full record set and the selection bounds. The record set is
// written once by Load and never mutated afterwards; the bounds are written by
// the setters without clamping or ordering checks.
type Store struct {
	source   FeedSource
	loc      *time.Location
	geocoder domain.Geocoder
	clock    clockwork.Clock
	logger   *slog.Logger

	mu          sync.RWMutex
	loaded      bool
	loadedAt    time.Time
	quakes      []domain.Quake
	selectedMin float64
	selectedMax float64
	version     uint64

	subMu      sync.Mutex
	subs       map[int]func(Snapshot)
	nextID     int
	pending    Snapshot
	pendingVer uint64
	sentVer    uint64
	delivering bool
}

// New creates an unloaded Store reading from source.
func New(source FeedSource, opts ...Option) *Store {
	s := &Store{
		source: source,
		loc:    time.Local,
		clock:  clockwork.NewRealClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and parses the feed, sorts the records by occurrence time and
// initializes the selection to the full range. Fetch and parse failures are
// returned and leave the store unloaded. Load succeeds at most once.
func (s *Store) Load(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return ErrAlreadyLoaded
	}

	text, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}

	quakes, err := domain.ParseFeed(text, s.loc)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	quakes = domain.EnrichWithPlaces(ctx, quakes, s.geocoder, s.logger)

	slices.SortStableFunc(quakes, func(a, b domain.Quake) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.quakes = quakes
	s.loaded = true
	s.loadedAt = s.clock.Now()
	if len(quakes) > 0 {
		s.selectedMin = quakes[0].Seconds()
		s.selectedMax = quakes[len(quakes)-1].Seconds()
	}
	snap, ver := s.commitLocked()
	s.mu.Unlock()

	s.logger.Info("feed loaded",
		"quakes", snap.Total,
		"selected_min", snap.SelectedMin,
		"selected_max", snap.SelectedMax,
	)
	s.notify(snap, ver)
	return nil
}

// SetMin overwrites the lower selection bound.
func (s *Store) SetMin(v float64) {
	s.mu.Lock()
	s.selectedMin = v
	snap, ver := s.commitLocked()
	s.mu.Unlock()
	s.notify(snap, ver)
}

// SetMax overwrites the upper selection bound.
func (s *Store) SetMax(v float64) {
	s.mu.Lock()
	s.selectedMax = v
	snap, ver := s.commitLocked()
	s.mu.Unlock()
	s.notify(snap, ver)
}

// SetRange applies one range-control interaction: SetMin(lo) then SetMax(hi),
// with a single notification.
func (s *Store) SetRange(lo, hi float64) {
	s.mu.Lock()
	s.selectedMin = lo
	s.selectedMax = hi
	snap, ver := s.commitLocked()
	s.mu.Unlock()
	s.notify(snap, ver)
}

// Selection returns the current bounds in epoch seconds.
func (s *Store) Selection() (lo, hi float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedMin, s.selectedMax
}

// Filtered returns the records whose occurrence time lies within the
// selection, inclusive, in stored order.
func (s *Store) Filtered() []domain.Quake {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked()
}

// All returns a copy of the full record set.
func (s *Store) All() []domain.Quake {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.quakes)
}

// FirstQuake returns the earliest record, or false if the set is empty.
func (s *Store) FirstQuake() (domain.Quake, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.quakes) == 0 {
		return domain.Quake{}, false
	}
	return s.quakes[0], true
}

// LastQuake returns the latest record, or false if the set is empty.
func (s *Store) LastQuake() (domain.Quake, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.quakes) == 0 {
		return domain.Quake{}, false
	}
	return s.quakes[len(s.quakes)-1], true
}

// Loaded reports whether Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadedAt returns when Load succeeded, or the zero time.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Location returns the zone feed timestamps are interpreted in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called after every mutation, in subscription
// order. Deliveries never overlap. A mutation made while another goroutine is
// delivering is handed to that goroutine, which delivers the newest snapshot
// before returning, so intermediate snapshots may be skipped but the last one
// a subscriber sees always reflects the latest mutation. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// commitLocked stamps a mutation with the next version. Callers hold mu.
func (s *Store) commitLocked() (Snapshot, uint64) {
	s.version++
	return s.snapshotLocked(), s.version
}

func (s *Store) notify(snap Snapshot, ver uint64) {
	s.subMu.Lock()
	if ver > s.pendingVer {
		s.pending, s.pendingVer = snap, ver
	}
	if s.delivering {
		s.subMu.Unlock()
		return
	}
	s.delivering = true

	for s.pendingVer > s.sentVer {
		next := s.pending
		s.sentVer = s.pendingVer
		fns := s.subscribersLocked()
		s.subMu.Unlock()

		for _, fn := range fns {
			fn(next)
		}

		s.subMu.Lock()
	}
	s.delivering = false
	s.subMu.Unlock()
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	return fns
}

func (s *Store) filteredLocked() []domain.Quake {
	out := make([]domain.Quake, 0, len(s.quakes))
	for _, q := range s.quakes {
		t := q.Seconds()
		if t >= s.selectedMin && t <= s.selectedMax {
			out = append(out, q)
		}
	}
	return out
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Loaded:      s.loaded,
		SelectedMin: s.selectedMin,
		SelectedMax: s.selectedMax,
		Total:       len(s.quakes),
		Visible:     len(s.filteredLocked()),
	}
	if len(s.quakes) > 0 {
		snap.RangeMin = s.quakes[0].Seconds()
		snap.RangeMax = s.quakes[len(s.quakes)-1].Seconds()
	}
	return snap
}
