package model

import "testing"

func TestItemStatus_IsSettled(t *testing.T) {
	tests := []struct {
		status   ItemStatus
		expected bool
	}{
		{StatusUnknown, false},
		{StatusQuerying, false},
		{StatusAbsent, true},
		{StatusPresent, true},
		{StatusDownloading, true},
		{StatusFailed, true},
	}

	for _, test := range tests {
		result := test.status.IsSettled()
		if result != test.expected {
			t.Errorf("ItemStatus(%s).IsSettled() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestItemStatus_IsActionable(t *testing.T) {
	tests := []struct {
		status   ItemStatus
		expected bool
	}{
		{StatusUnknown, false},
		{StatusQuerying, false},
		{StatusAbsent, true},
		{StatusPresent, true},
		{StatusDownloading, false},
		{StatusFailed, true},
	}

	for _, test := range tests {
		result := test.status.IsActionable()
		if result != test.expected {
			t.Errorf("ItemStatus(%s).IsActionable() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestIntent_String(t *testing.T) {
	tests := []struct {
		intent   Intent
		expected string
	}{
		{IntentNone, "None"},
		{IntentInstall, "Install"},
		{IntentUninstall, "Uninstall"},
	}

	for _, test := range tests {
		if result := test.intent.String(); result != test.expected {
			t.Errorf("Intent.String() = %s, expected %s", result, test.expected)
		}
	}
}
