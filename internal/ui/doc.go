// Package ui contains the Fyne widgets for the missing-models dialog:
// the root window, per-item rows, the shared download progress panel, and
// the credential prompt dialog.
package ui
