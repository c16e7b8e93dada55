package model

// ItemStatus represents the installation status of a model item
type ItemStatus string

const (
	// StatusUnknown means the item has not been queried yet
	StatusUnknown ItemStatus = "Unknown"

	// StatusQuerying means a status query is in flight
	StatusQuerying ItemStatus = "Querying"

	// StatusAbsent means the model file is not installed
	StatusAbsent ItemStatus = "Absent"

	// StatusPresent means the model file is installed
	StatusPresent ItemStatus = "Present"

	// StatusDownloading means the server reports an active download
	StatusDownloading ItemStatus = "Downloading"

	// StatusFailed means the last install attempt failed
	StatusFailed ItemStatus = "Failed"
)

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// IsSettled returns true if the status is a stable display state rather than
// a transient query phase
func (s ItemStatus) IsSettled() bool {
	return s == StatusAbsent || s == StatusPresent || s == StatusDownloading || s == StatusFailed
}

// IsActionable returns true if the item's control should accept clicks
func (s ItemStatus) IsActionable() bool {
	return s == StatusAbsent || s == StatusPresent || s == StatusFailed
}

// Intent represents a user action in flight for an item. It is set
// synchronously when the control is activated and cleared when the
// controller settles, so a stale poll cannot flip the meaning of a click.
type Intent int

const (
	// IntentNone means no action is in flight
	IntentNone Intent = iota

	// IntentInstall means an install request was issued
	IntentInstall

	// IntentUninstall means an uninstall request was issued
	IntentUninstall
)

// String returns the string representation of Intent
func (i Intent) String() string {
	switch i {
	case IntentInstall:
		return "Install"
	case IntentUninstall:
		return "Uninstall"
	default:
		return "None"
	}
}
