package model

import (
	"fmt"
	"math"
	"time"
)

// Progress calculation constants
const (
	MaxProgressPercent = 100

	// MinSampleInterval floors the elapsed time between two samples so a
	// burst of polls cannot divide by zero or inflate the rate.
	MinSampleInterval = time.Millisecond
)

// DownloadProgress tracks byte counts for one in-flight download. One
// instance exists per active download key; ExpectedBytes starts at zero
// (unknown) and is filled in once the best-effort size lookup resolves.
type DownloadProgress struct {
	Key             string
	BytesDownloaded int64
	ExpectedBytes   int64

	lastSampleBytes int64
	lastSampleTime  time.Time

	// Rate is the instantaneous throughput in bytes per second computed
	// from the two most recent samples.
	Rate float64
}

// NewDownloadProgress creates a progress record for a download key
func NewDownloadProgress(key string, expected int64) *DownloadProgress {
	return &DownloadProgress{
		Key:            key,
		ExpectedBytes:  expected,
		lastSampleTime: time.Now(),
	}
}

// SetExpected updates the expected byte count once the size lookup resolves.
// A zero or negative value is ignored so a failed lookup cannot erase a
// known size.
func (dp *DownloadProgress) SetExpected(expected int64) {
	if expected > 0 {
		dp.ExpectedBytes = expected
	}
}

// Sample records a new byte count observation at the given time and updates
// the instantaneous rate
func (dp *DownloadProgress) Sample(bytesNow int64, now time.Time) {
	deltaBytes := bytesNow - dp.lastSampleBytes
	if deltaBytes < 0 {
		deltaBytes = 0
	}
	elapsed := now.Sub(dp.lastSampleTime)
	if elapsed < MinSampleInterval {
		elapsed = MinSampleInterval
	}
	dp.Rate = float64(deltaBytes) / elapsed.Seconds()
	dp.BytesDownloaded = bytesNow
	dp.lastSampleBytes = bytesNow
	dp.lastSampleTime = now
}

// Percent returns the completion percentage 0..100, or -1 when the expected
// size is unknown
func (dp *DownloadProgress) Percent() int {
	if dp.ExpectedBytes <= 0 {
		return -1
	}
	pct := int(math.Round(float64(dp.BytesDownloaded) / float64(dp.ExpectedBytes) * 100))
	if pct > MaxProgressPercent {
		pct = MaxProgressPercent
	}
	return pct
}

// Complete returns true once the expected size is known and the byte count
// has reached it. It never reports done while the expected size is unknown,
// regardless of how many bytes have arrived.
func (dp *DownloadProgress) Complete() bool {
	return dp.ExpectedBytes > 0 && dp.BytesDownloaded >= dp.ExpectedBytes
}

// ETASeconds returns the estimated seconds remaining, or -1 if unknown
func (dp *DownloadProgress) ETASeconds() int {
	if dp.ExpectedBytes <= 0 || dp.Rate <= 0 {
		return -1
	}
	remaining := dp.ExpectedBytes - dp.BytesDownloaded
	if remaining < 0 {
		remaining = 0
	}
	return int(float64(remaining) / dp.Rate)
}

// ETAString returns the remaining time formatted as mm:ss, or "—" if unknown
func (dp *DownloadProgress) ETAString() string {
	eta := dp.ETASeconds()
	if eta < 0 {
		return "—"
	}
	return fmt.Sprintf("%02d:%02d", eta/60, eta%60)
}

// RateString returns the throughput formatted as MB/s
func (dp *DownloadProgress) RateString() string {
	if dp.Rate <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1fMB/s", dp.Rate/1024/1024)
}
