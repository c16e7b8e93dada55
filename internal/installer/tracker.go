package installer

import (
	"context"
	"sync"
	"time"

	"github.com/modelget/model-installer/internal/logging"
	"github.com/modelget/model-installer/internal/model"
	"github.com/modelget/model-installer/internal/platform"
)

// Progress polling constants
const (
	// DefaultProgressInterval is the fixed period between byte-count polls
	// for one in-flight download.
	DefaultProgressInterval = 1 * time.Second

	// DefaultRemoveDelay keeps a completed entry pinned at 100% for a
	// short moment before it disappears from the panel.
	DefaultRemoveDelay = 2 * time.Second
)

// trackerEntry is one tracked download: a progress record plus the timer
// goroutine polling it
type trackerEntry struct {
	identity   model.Identity
	progress   *model.DownloadProgress
	onComplete func()
	stop       chan struct{}
	stopped    bool
}

// ProgressRegistry owns the mapping from download key to tracker entry: the
// single progress surface shared by all item controllers. Each entry polls
// the status endpoint on a fixed period, derives rate and ETA from byte
// deltas, and signals completion back to its owning controller.
type ProgressRegistry struct {
	backend     Backend
	log         *logging.Logger
	interval    time.Duration
	removeDelay time.Duration

	mu      sync.Mutex
	entries map[string]*trackerEntry

	onUpdate func(model.DownloadProgress)
	onRemove func(key string)
}

// NewProgressRegistry creates an empty registry polling at the default period
func NewProgressRegistry(backend Backend, log *logging.Logger) *ProgressRegistry {
	if log == nil {
		log = logging.Nop()
	}
	return &ProgressRegistry{
		backend:     backend,
		log:         log,
		interval:    DefaultProgressInterval,
		removeDelay: DefaultRemoveDelay,
		entries:     make(map[string]*trackerEntry),
	}
}

// SetIntervals overrides the poll period and removal delay. Used by tests
// and the settings layer.
func (r *ProgressRegistry) SetIntervals(interval, removeDelay time.Duration) {
	if interval > 0 {
		r.interval = interval
	}
	if removeDelay > 0 {
		r.removeDelay = removeDelay
	}
}

// SetCallbacks wires the presentation layer. onUpdate receives a snapshot
// after every poll; onRemove fires when an entry leaves the registry.
func (r *ProgressRegistry) SetCallbacks(onUpdate func(model.DownloadProgress), onRemove func(key string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onUpdate = onUpdate
	r.onRemove = onRemove
}

// Track starts tracking a download, idempotently per key: tracking an
// already-tracked key updates its expected hint and completion callback
// instead of duplicating the entry. When no expected size is known a
// best-effort lookup fills it in asynchronously.
func (r *ProgressRegistry) Track(id model.Identity, expectedHint int64, onComplete func()) {
	key := id.Key()

	r.mu.Lock()
	if e, exists := r.entries[key]; exists {
		e.progress.SetExpected(expectedHint)
		if onComplete != nil {
			e.onComplete = onComplete
		}
		r.mu.Unlock()
		return
	}

	e := &trackerEntry{
		identity:   id,
		progress:   model.NewDownloadProgress(key, expectedHint),
		onComplete: onComplete,
		stop:       make(chan struct{}),
	}
	r.entries[key] = e
	r.mu.Unlock()

	r.log.Info().Str("key", key).Int64("expected", expectedHint).Msg("tracking download")

	if expectedHint <= 0 {
		go r.lookupExpected(e)
	}
	go r.run(e)
}

// lookupExpected resolves the expected byte count after the fact. The first
// few polls may race this and read the size as unknown; that is tolerated.
func (r *ProgressRegistry) lookupExpected(e *trackerEntry) {
	expected := r.backend.ExpectedSize(context.Background(), platform.NormalizeURL(e.identity.URL))
	if expected <= 0 {
		return
	}
	r.mu.Lock()
	e.progress.SetExpected(expected)
	snapshot := *e.progress
	onUpdate := r.onUpdate
	r.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snapshot)
	}
}

// run drives one entry's fixed-period poll loop until dismissal or completion
func (r *ProgressRegistry) run(e *trackerEntry) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			if r.poll(e) {
				return
			}
		}
	}
}

// poll samples the remote byte count once. Returns true when the download
// completed and the loop should end.
func (r *ProgressRegistry) poll(e *trackerEntry) bool {
	status, err := r.backend.Status(context.Background(), e.identity)
	if err != nil {
		// Transient; keep the timer running and try again next tick.
		r.log.Debug().Err(err).Str("key", e.progress.Key).Msg("progress poll failed")
		return false
	}

	r.mu.Lock()
	if e.stopped {
		r.mu.Unlock()
		return true
	}
	if status.Expected > 0 {
		e.progress.SetExpected(status.Expected)
	}
	e.progress.Sample(status.Size, time.Now())

	done := status.Present && e.progress.Complete()
	if done {
		// Pin the display at 100% for the removal grace period.
		e.progress.BytesDownloaded = e.progress.ExpectedBytes
		e.stopped = true
	}
	snapshot := *e.progress
	onUpdate := r.onUpdate
	onComplete := e.onComplete
	key := e.progress.Key
	r.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snapshot)
	}
	if done {
		r.log.Info().Str("key", key).Msg("download complete")
		time.AfterFunc(r.removeDelay, func() { r.remove(key) })
		if onComplete != nil {
			onComplete()
		}
	}
	return done
}

// Dismiss detaches an entry at the user's request. The timer stops; no
// cancellation is sent to the server, so a live download keeps going
// server-side.
func (r *ProgressRegistry) Dismiss(key string) {
	r.mu.Lock()
	e, exists := r.entries[key]
	if exists {
		if !e.stopped {
			e.stopped = true
			close(e.stop)
		}
		delete(r.entries, key)
	}
	onRemove := r.onRemove
	r.mu.Unlock()

	if exists && onRemove != nil {
		onRemove(key)
	}
}

// remove drops a completed entry once its grace period expires
func (r *ProgressRegistry) remove(key string) {
	r.mu.Lock()
	_, exists := r.entries[key]
	delete(r.entries, key)
	onRemove := r.onRemove
	r.mu.Unlock()

	if exists && onRemove != nil {
		onRemove(key)
	}
}

// Get returns a snapshot of the progress record for a key
func (r *ProgressRegistry) Get(key string) (model.DownloadProgress, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, exists := r.entries[key]
	if !exists {
		return model.DownloadProgress{}, false
	}
	return *e.progress, true
}

// Len returns the number of tracked downloads
func (r *ProgressRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
