package model

import (
	"strings"
	"time"
)

// Identity addresses one missing-model entry across status, install and
// uninstall calls. Directory and Filename are empty when the source label did
// not resolve; the item is then identified by URL alone. Immutable once
// created for a given entry.
type Identity struct {
	Directory string
	Filename  string
	URL       string
}

// Key returns the stable registry key for the identity:
// "<directory>/<filename>" when both are known, otherwise the URL
func (id Identity) Key() string {
	if id.Directory != "" && id.Filename != "" {
		return id.Directory + "/" + id.Filename
	}
	return id.URL
}

// Resolved returns true if both directory and filename are known
func (id Identity) Resolved() bool {
	return id.Directory != "" && id.Filename != ""
}

// Installable returns true if the identity carries enough information to
// issue an install request
func (id Identity) Installable() bool {
	return id.URL != "" || id.Resolved()
}

// Item is the observable state of one missing-model entry. One Item exists
// per Identity; all mutation goes through its controller.
type Item struct {
	ID       string
	Identity Identity

	Status    ItemStatus
	Intent    Intent
	LastError string

	// Server-reported location from the last status response. Folder and
	// Path feed the uninstall request; Size/Expected feed progress seeding.
	Folder   string
	Path     string
	Size     int64
	Expected int64

	// Storage options for the resolved directory, replaced wholesale on
	// every status response.
	StorageOptions []StorageOption
	SelectedPath   string

	UpdatedAt time.Time
}

// Button labels for the item control
const (
	LabelInstall      = "Install"
	LabelUninstall    = "Uninstall"
	LabelInstalled    = "Installed"
	LabelDownloading  = "Downloading…"
	LabelRetryInstall = "Retry Install"
)

// ButtonLabel returns the control text for the item's current status
func (it *Item) ButtonLabel() string {
	switch it.Status {
	case StatusPresent:
		return LabelUninstall
	case StatusDownloading:
		return LabelDownloading
	case StatusFailed:
		return LabelRetryInstall
	default:
		return LabelInstall
	}
}

// ButtonEnabled returns whether the control should accept clicks
func (it *Item) ButtonEnabled() bool {
	if !it.Status.IsActionable() {
		return false
	}
	if it.Status == StatusPresent {
		return true
	}
	return it.Identity.Installable()
}

// PathChooserEnabled reports whether the storage-path chooser should be
// interactive: only when the item is installable and more than one storage
// option exists for its directory.
func (it *Item) PathChooserEnabled() bool {
	if it.Status == StatusDownloading || it.Status == StatusPresent {
		return false
	}
	return len(it.StorageOptions) > 1
}

// BasePath returns the basename of the server-reported path, used as the
// uninstall request's name field
func (it *Item) BasePath() string {
	p := it.Path
	if p == "" {
		return it.Identity.Filename
	}
	if idx := strings.LastIndexAny(p, "/\\"); idx >= 0 {
		p = p[idx+1:]
	}
	return p
}

// DisplayTitle returns the best human-readable name for the item
func (it *Item) DisplayTitle() string {
	if it.Identity.Resolved() {
		return it.Identity.Directory + " / " + it.Identity.Filename
	}
	return it.Identity.URL
}
