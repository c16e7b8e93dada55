package model

import "fmt"

// File size formatting constants
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// StorageOption is one candidate location for a directory, with the space
// the server last reported for it
type StorageOption struct {
	Path           string
	AvailableBytes int64
}

// Label returns the option formatted for a select widget, e.g.
// "/data/models/loras (12.3 GB free)"
func (o StorageOption) Label() string {
	if o.AvailableBytes <= 0 {
		return o.Path
	}
	return fmt.Sprintf("%s (%s free)", o.Path, FormatFileSize(o.AvailableBytes))
}

// FormatFileSize formats a byte count as a human readable size
func FormatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}
