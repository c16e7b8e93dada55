package installer

import (
	"context"
	"errors"

	"github.com/modelget/model-installer/internal/logging"
)

// ErrAuthCancelled means the user dismissed the credential prompt
var ErrAuthCancelled = errors.New("authentication cancelled")

// AuthFlow runs the one-shot re-authentication sub-flow: prompt for a
// token, exchange it with the backend, report the outcome. It holds no
// state between runs and never retains the credential.
type AuthFlow struct {
	backend  Backend
	prompter TokenPrompter
	log      *logging.Logger
}

// NewAuthFlow creates the authentication sub-flow
func NewAuthFlow(backend Backend, prompter TokenPrompter, log *logging.Logger) *AuthFlow {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthFlow{backend: backend, prompter: prompter, log: log}
}

// Run prompts for a token and exchanges it with the login endpoint. It
// returns nil when the backend accepted the token, ErrAuthCancelled when the
// user dismissed the prompt, and the login error otherwise. The caller owns
// the single retry of the request that triggered the flow.
func (f *AuthFlow) Run(ctx context.Context) error {
	if f.prompter == nil {
		return ErrAuthCancelled
	}
	// Distinguishes "no token configured" from "configured token was
	// rejected" in the logs; the prompt runs either way.
	if known, err := f.backend.HFAuthStatus(ctx); err == nil && known {
		f.log.Info().Msg("backend holds a token but the host rejected the request")
	}
	token, ok := f.prompter.PromptToken(ctx)
	if !ok || token == "" {
		f.log.Debug().Msg("auth prompt cancelled")
		return ErrAuthCancelled
	}

	if err := f.backend.HFLogin(ctx, token); err != nil {
		f.log.Warn().Err(err).Msg("token exchange failed")
		return err
	}
	f.log.Info().Msg("token accepted by backend")
	return nil
}
