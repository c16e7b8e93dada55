package installer

import (
	"context"
	"sync"
	"time"

	"github.com/modelget/model-installer/internal/api"
	"github.com/modelget/model-installer/internal/logging"
	"github.com/modelget/model-installer/internal/model"
	"github.com/modelget/model-installer/internal/platform"
)

// Controller owns one item's observable state: it queries status, drives
// install/uninstall requests, interprets their outcomes, and hands active
// downloads to the progress registry. All transitions are serialized through
// its mutex; status responses carry a per-controller sequence number so a
// stale poll arriving late cannot revert a fresher state.
type Controller struct {
	backend  Backend
	registry *ProgressRegistry
	auth     *AuthFlow
	log      *logging.Logger

	mu   sync.Mutex
	item *model.Item
	seq  uint64

	onUpdate func(model.Item)
	notify   Notifier
}

// NewController creates the controller for one registered item
func NewController(item *model.Item, backend Backend, registry *ProgressRegistry, auth *AuthFlow, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		backend:  backend,
		registry: registry,
		auth:     auth,
		log:      log,
		item:     item,
	}
}

// SetCallbacks wires the presentation layer: onUpdate receives an item
// snapshot after every state change, notify surfaces business failures
func (c *Controller) SetCallbacks(onUpdate func(model.Item), notify Notifier) {
	c.mu.Lock()
	c.onUpdate = onUpdate
	c.notify = notify
	c.mu.Unlock()
}

// Key returns the item's registry key
func (c *Controller) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item.Identity.Key()
}

// Item returns a snapshot of the item's current state
func (c *Controller) Item() model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.item
}

// SelectPath records the user's storage-path choice for the next install
func (c *Controller) SelectPath(path string) {
	c.mu.Lock()
	c.item.SelectedPath = path
	c.mu.Unlock()
	c.emit()
}

// Refresh is the controller's entry action: query status and settle into a
// display state. Runs on construction and after every settling event. A
// response belonging to a superseded query is discarded.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	id := c.item.Identity
	c.item.Status = model.StatusQuerying
	c.mu.Unlock()
	c.emit()

	status, err := c.backend.Status(ctx, id)

	c.mu.Lock()
	if seq != c.seq {
		// A newer query was issued while this one was in flight.
		c.mu.Unlock()
		return
	}
	c.applyStatus(status, err)
	c.mu.Unlock()
	c.emit()
}

// applyStatus maps a status result onto the item. Caller holds c.mu.
func (c *Controller) applyStatus(status *api.StatusResponse, err error) {
	it := c.item
	it.Intent = model.IntentNone
	it.UpdatedAt = time.Now()

	if err != nil {
		// Fail open: an unreachable backend renders as installable
		// rather than blocking the control.
		c.log.Warn().Err(err).Str("key", it.Identity.Key()).Msg("status query failed")
		it.Status = model.StatusAbsent
		return
	}

	if status.Folder != "" {
		it.Folder = status.Folder
	}
	if status.Path != "" {
		it.Path = status.Path
	}
	it.Size = status.Size
	if status.Expected > 0 {
		it.Expected = status.Expected
	}
	if status.StorageInfo != nil {
		it.StorageOptions = storageOptionsFor(status.StorageInfo, c.storageDirLocked())
	}

	switch {
	case status.State == api.StateDownloading:
		it.Status = model.StatusDownloading
		it.LastError = ""
		// Re-attach a tracker if none exists, e.g. after the user
		// dismissed the panel entry and revisited the dialog.
		c.registry.Track(it.Identity, status.Expected, c.trackerComplete)
	case status.State == api.StateFailed:
		it.Status = model.StatusFailed
		it.LastError = status.Error
	case status.Present:
		it.Status = model.StatusPresent
		it.LastError = ""
	default:
		it.Status = model.StatusAbsent
		it.LastError = ""
	}
}

// storageDirLocked returns the directory whose storage options apply to
// this item. Caller holds c.mu.
func (c *Controller) storageDirLocked() string {
	if c.item.Identity.Directory != "" {
		return c.item.Identity.Directory
	}
	return c.item.Folder
}

// Activate performs the action behind the item's control. The intent is
// fixed from the currently displayed label before any request goes out, so
// a poll landing mid-click cannot flip an install into an uninstall.
func (c *Controller) Activate(ctx context.Context) {
	c.mu.Lock()
	if !c.item.ButtonEnabled() || c.item.Intent != model.IntentNone {
		c.mu.Unlock()
		return
	}
	if c.item.ButtonLabel() == model.LabelUninstall {
		c.item.Intent = model.IntentUninstall
	} else {
		c.item.Intent = model.IntentInstall
	}
	intent := c.item.Intent
	c.mu.Unlock()
	c.emit()

	if intent == model.IntentUninstall {
		c.uninstall(ctx)
	} else {
		c.install(ctx)
	}
}

// install issues the create request and interprets its outcome
func (c *Controller) install(ctx context.Context) {
	c.mu.Lock()
	id := c.item.Identity
	name := id.Filename
	if name == "" {
		name = platform.FilenameFromURL(id.URL)
	}
	req := api.InstallRequest{
		Name:      name,
		Directory: id.Directory,
		URL:       platform.NormalizeURL(id.URL),
		Path:      c.selectedPathLocked(),
	}
	c.mu.Unlock()

	c.log.Info().Str("key", id.Key()).Str("url", req.URL).Msg("install requested")
	resp, err := c.backend.Install(ctx, req)

	if err != nil && api.IsAuthRequired(err) {
		if authErr := c.auth.Run(ctx); authErr == nil {
			// The one automatic retry in the system.
			resp, err = c.backend.Install(ctx, req)
		}
	}

	if err != nil {
		c.log.Warn().Err(err).Str("key", id.Key()).Msg("install failed")
		c.mu.Lock()
		c.item.Status = model.StatusFailed
		c.item.LastError = err.Error()
		c.item.Intent = model.IntentNone
		c.item.UpdatedAt = time.Now()
		notify := c.notify
		msg := c.item.LastError
		c.mu.Unlock()
		c.emit()
		if notify != nil {
			notify("Install failed", msg)
		}
		return
	}

	c.mu.Lock()
	c.item.Status = model.StatusDownloading
	c.item.LastError = ""
	c.item.Intent = model.IntentNone
	c.item.UpdatedAt = time.Now()
	if resp.Folder != "" {
		c.item.Folder = resp.Folder
	}
	if resp.Path != "" {
		c.item.Path = resp.Path
	}
	if resp.Expected > 0 {
		c.item.Expected = resp.Expected
	}
	expected := c.item.Expected
	c.mu.Unlock()
	c.emit()

	c.registry.Track(id, expected, c.trackerComplete)
}

// selectedPathLocked returns the storage path to send with an install, or
// "" when the chooser holds the default. Caller holds c.mu.
func (c *Controller) selectedPathLocked() string {
	sel := c.item.SelectedPath
	if sel == "" {
		return ""
	}
	if len(c.item.StorageOptions) > 0 && sel == c.item.StorageOptions[0].Path {
		// First option is the server default; sending it adds nothing.
		return ""
	}
	return sel
}

// uninstall issues the removal request keyed by the last known folder and
// basename
func (c *Controller) uninstall(ctx context.Context) {
	c.mu.Lock()
	folder := c.item.Folder
	if folder == "" {
		folder = c.item.Identity.Directory
	}
	req := api.UninstallRequest{Directory: folder, Name: c.item.BasePath()}
	prior := c.item.Status
	c.mu.Unlock()

	c.log.Info().Str("directory", req.Directory).Str("name", req.Name).Msg("uninstall requested")
	if _, err := c.backend.Uninstall(ctx, req); err != nil {
		// Restore the prior enabled state; retrying stays manual.
		c.log.Warn().Err(err).Str("name", req.Name).Msg("uninstall failed")
		c.mu.Lock()
		c.item.Status = prior
		c.item.LastError = err.Error()
		c.item.Intent = model.IntentNone
		c.item.UpdatedAt = time.Now()
		notify := c.notify
		msg := c.item.LastError
		c.mu.Unlock()
		c.emit()
		if notify != nil {
			notify("Uninstall failed", msg)
		}
		return
	}

	c.Refresh(ctx)
}

// trackerComplete is invoked by the progress registry once the download
// finishes; the controller re-queries and settles into Present
func (c *Controller) trackerComplete() {
	c.Refresh(context.Background())
}

// emit publishes an item snapshot to the presentation layer
func (c *Controller) emit() {
	c.mu.Lock()
	onUpdate := c.onUpdate
	snapshot := *c.item
	c.mu.Unlock()
	if onUpdate != nil {
		onUpdate(snapshot)
	}
}

// storageOptionsFor converts the wire storage map for one directory into
// the domain representation, replacing the previous list wholesale
func storageOptionsFor(info api.StorageInfo, directory string) []model.StorageOption {
	wire := info[directory]
	opts := make([]model.StorageOption, 0, len(wire))
	for _, o := range wire {
		opts = append(opts, model.StorageOption{Path: o.Path, AvailableBytes: o.AvailableBytes})
	}
	return opts
}
