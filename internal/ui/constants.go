package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	StatusLabelWidth float32 = 110
	RateLabelWidth   float32 = 150

	RowMinWidth float32 = 420

	WindowDefaultWidth  float32 = 640
	WindowDefaultHeight float32 = 480

	AuthDialogWidth  float32 = 420
	AuthDialogHeight float32 = 200
)
