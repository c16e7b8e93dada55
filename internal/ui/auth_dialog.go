package ui

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// AuthPrompt shows a modal access-token dialog over the main window. It
// implements the credential prompt the installer service asks for when the
// remote host demands authentication.
type AuthPrompt struct {
	window fyne.Window
}

// NewAuthPrompt creates the prompt bound to the main window
func NewAuthPrompt(window fyne.Window) *AuthPrompt {
	return &AuthPrompt{window: window}
}

// PromptToken blocks the calling goroutine until the user submits a
// non-empty token or dismisses the dialog. The confirm button stays
// disabled while the field is empty, so an accidental empty submission
// never leaves the dialog. Safe to call off the UI thread.
func (a *AuthPrompt) PromptToken(ctx context.Context) (string, bool) {
	type result struct {
		token string
		ok    bool
	}
	done := make(chan result, 1)

	var d dialog.Dialog
	fyne.Do(func() {
		entry := widget.NewPasswordEntry()
		entry.PlaceHolder = "hf_..."
		entry.Validator = func(s string) error {
			if s == "" {
				return errors.New("token must not be empty")
			}
			return nil
		}
		hint := widget.NewLabel("This file requires a Hugging Face account.\nPaste an access token to continue.")
		hint.Wrapping = fyne.TextWrapWord

		items := []*widget.FormItem{
			{Text: "", Widget: hint},
			{Text: "Token", Widget: entry},
		}
		d = dialog.NewForm("Authentication required", "Sign in", "Cancel", items,
			func(confirmed bool) {
				done <- result{token: entry.Text, ok: confirmed}
			}, a.window)
		d.Resize(fyne.NewSize(AuthDialogWidth, AuthDialogHeight))
		d.Show()
		a.window.Canvas().Focus(entry)
	})

	select {
	case r := <-done:
		return r.token, r.ok
	case <-ctx.Done():
		fyne.Do(func() {
			if d != nil {
				d.Hide()
			}
		})
		return "", false
	}
}
