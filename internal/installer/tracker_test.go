package installer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelget/model-installer/internal/api"
	"github.com/modelget/model-installer/internal/model"
)

var testIdentity = model.Identity{
	Directory: "loras",
	Filename:  "x.safetensors",
	URL:       "https://huggingface.co/a/b/resolve/main/x.safetensors?download=true",
}

// waitFor polls cond until it holds or the deadline expires
func waitFor(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func newTestRegistry(backend Backend) *ProgressRegistry {
	r := NewProgressRegistry(backend, nil)
	r.SetIntervals(5*time.Millisecond, 20*time.Millisecond)
	return r
}

func TestProgressRegistry_TrackIsIdempotent(t *testing.T) {
	backend := &fakeBackend{
		statusFn: func(model.Identity) (*api.StatusResponse, error) {
			return &api.StatusResponse{State: api.StateDownloading, Size: 10}, nil
		},
	}
	r := newTestRegistry(backend)
	defer r.Dismiss(testIdentity.Key())

	r.Track(testIdentity, 0, nil)
	r.Track(testIdentity, 1000, nil)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", r.Len())
	}
	p, ok := r.Get(testIdentity.Key())
	if !ok {
		t.Fatal("entry missing")
	}
	if p.ExpectedBytes != 1000 {
		t.Errorf("ExpectedBytes = %d, expected 1000 from second Track", p.ExpectedBytes)
	}
}

func TestProgressRegistry_CompletionCycle(t *testing.T) {
	var size atomic.Int64
	size.Store(400)
	backend := &fakeBackend{
		statusFn: func(model.Identity) (*api.StatusResponse, error) {
			n := size.Add(300)
			return &api.StatusResponse{
				Present:  n >= 1000,
				State:    api.StateDownloading,
				Size:     n,
				Expected: 1000,
			}, nil
		},
	}
	r := newTestRegistry(backend)

	var completed atomic.Bool
	var removed atomic.Bool
	r.SetCallbacks(nil, func(key string) { removed.Store(true) })
	r.Track(testIdentity, 1000, func() { completed.Store(true) })

	waitFor(t, time.Second, completed.Load, "completion callback never fired")

	p, ok := r.Get(testIdentity.Key())
	if ok {
		if p.Percent() != 100 {
			t.Errorf("Percent() = %d, expected pinned 100 before removal", p.Percent())
		}
	}
	waitFor(t, time.Second, removed.Load, "entry was not auto-removed after completion")
	if r.Len() != 0 {
		t.Errorf("Len() = %d, expected 0 after removal", r.Len())
	}
}

func TestProgressRegistry_NeverCompletesWithUnknownExpected(t *testing.T) {
	backend := &fakeBackend{
		statusFn: func(model.Identity) (*api.StatusResponse, error) {
			// Bytes flow and the file reads present, but expected stays 0.
			return &api.StatusResponse{Present: true, Size: 5_000_000}, nil
		},
	}
	r := newTestRegistry(backend)
	defer r.Dismiss(testIdentity.Key())

	var completed atomic.Bool
	r.Track(testIdentity, 0, func() { completed.Store(true) })

	time.Sleep(60 * time.Millisecond)
	if completed.Load() {
		t.Fatal("tracker declared done while expected size was unknown")
	}
	p, ok := r.Get(testIdentity.Key())
	if !ok {
		t.Fatal("entry should still exist")
	}
	if p.Percent() != -1 {
		t.Errorf("Percent() = %d, expected -1 (unknown)", p.Percent())
	}
}

func TestProgressRegistry_DismissStopsPollingOnly(t *testing.T) {
	backend := &fakeBackend{
		statusFn: func(model.Identity) (*api.StatusResponse, error) {
			return &api.StatusResponse{State: api.StateDownloading, Size: 1}, nil
		},
	}
	r := newTestRegistry(backend)

	var removedKey atomic.Value
	r.SetCallbacks(nil, func(key string) { removedKey.Store(key) })
	r.Track(testIdentity, 1000, nil)

	waitFor(t, time.Second, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return backend.statusCalls > 0
	}, "tracker never polled")

	r.Dismiss(testIdentity.Key())
	if got, _ := removedKey.Load().(string); got != testIdentity.Key() {
		t.Errorf("onRemove key = %q, expected %q", got, testIdentity.Key())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, expected 0 after dismiss", r.Len())
	}

	// The detach is UI-only: nothing is sent to the server.
	backend.mu.Lock()
	uninstalls := len(backend.uninstallCalls)
	calls := backend.statusCalls
	backend.mu.Unlock()
	if uninstalls != 0 {
		t.Error("dismiss must not issue server requests")
	}
	time.Sleep(30 * time.Millisecond)
	backend.mu.Lock()
	after := backend.statusCalls
	backend.mu.Unlock()
	if after > calls+1 {
		t.Errorf("polling continued after dismiss: %d -> %d", calls, after)
	}
}

func TestProgressRegistry_AsyncExpectedLookup(t *testing.T) {
	backend := &fakeBackend{
		statusFn: func(model.Identity) (*api.StatusResponse, error) {
			return &api.StatusResponse{State: api.StateDownloading, Size: 10}, nil
		},
		expectedFn: func(url string) int64 {
			if url != testIdentity.URL {
				t.Errorf("size lookup used %q, expected normalized URL %q", url, testIdentity.URL)
			}
			return 123456
		},
	}
	r := newTestRegistry(backend)
	defer r.Dismiss(testIdentity.Key())

	r.Track(testIdentity, 0, nil)

	waitFor(t, time.Second, func() bool {
		p, ok := r.Get(testIdentity.Key())
		return ok && p.ExpectedBytes == 123456
	}, "expected size was never filled in asynchronously")
}
