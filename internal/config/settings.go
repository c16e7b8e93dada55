package config

import (
	"time"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyServerURL        = "server_base_url"
	KeyProgressInterval = "progress_poll_interval_seconds"
	KeyRemoveDelay      = "completed_remove_delay_seconds"
	KeyAllowUninstall   = "allow_uninstall"
)

// Default values
const (
	DefaultServerURL        = "http://127.0.0.1:8188"
	DefaultProgressInterval = 1
	DefaultRemoveDelay      = 2
	DefaultAllowUninstall   = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetServerURL returns the base URL of the download service
func (s *Settings) GetServerURL() string {
	url := s.app.Preferences().String(KeyServerURL)
	if url == "" {
		s.SetServerURL(DefaultServerURL)
		return DefaultServerURL
	}
	return url
}

// SetServerURL sets the base URL of the download service
func (s *Settings) SetServerURL(url string) {
	if url == "" {
		url = DefaultServerURL
	}
	s.app.Preferences().SetString(KeyServerURL, url)
}

// GetProgressInterval returns the period between progress polls
func (s *Settings) GetProgressInterval() time.Duration {
	seconds := s.app.Preferences().Int(KeyProgressInterval)
	if seconds <= 0 {
		s.SetProgressInterval(DefaultProgressInterval)
		return DefaultProgressInterval * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// SetProgressInterval sets the progress poll period in seconds
func (s *Settings) SetProgressInterval(seconds int) {
	if seconds < 1 {
		seconds = 1
	}
	if seconds > 30 {
		seconds = 30
	}
	s.app.Preferences().SetInt(KeyProgressInterval, seconds)
}

// GetRemoveDelay returns how long a finished download stays pinned at 100%
func (s *Settings) GetRemoveDelay() time.Duration {
	seconds := s.app.Preferences().Int(KeyRemoveDelay)
	if seconds <= 0 {
		s.SetRemoveDelay(DefaultRemoveDelay)
		return DefaultRemoveDelay * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// SetRemoveDelay sets the pinned-completion delay in seconds
func (s *Settings) SetRemoveDelay(seconds int) {
	if seconds < 1 {
		seconds = 1
	}
	if seconds > 60 {
		seconds = 60
	}
	s.app.Preferences().SetInt(KeyRemoveDelay, seconds)
}

// GetAllowUninstall returns whether installed files may be removed from the
// dialog
func (s *Settings) GetAllowUninstall() bool {
	return s.app.Preferences().BoolWithFallback(KeyAllowUninstall, DefaultAllowUninstall)
}

// SetAllowUninstall sets whether installed files may be removed from the
// dialog
func (s *Settings) SetAllowUninstall(allow bool) {
	s.app.Preferences().SetBool(KeyAllowUninstall, allow)
}
