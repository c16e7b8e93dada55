package installer

import (
	"context"

	"github.com/modelget/model-installer/internal/api"
	"github.com/modelget/model-installer/internal/model"
)

// Backend is the slice of the HTTP contract the installer core consumes.
// *api.Client satisfies it; tests may substitute fakes.
type Backend interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
	Status(ctx context.Context, id model.Identity) (*api.StatusResponse, error)
	Install(ctx context.Context, req api.InstallRequest) (*api.InstallResponse, error)
	Uninstall(ctx context.Context, req api.UninstallRequest) (*api.UninstallResponse, error)
	ExpectedSize(ctx context.Context, rawURL string) int64
	HFLogin(ctx context.Context, token string) error
	HFAuthStatus(ctx context.Context) (bool, error)
}

// TokenPrompter collects a credential from the user. Implementations must
// return the trimmed token with ok=true, or ok=false on explicit
// cancellation; empty submissions are re-prompted in place and never
// returned here.
type TokenPrompter interface {
	PromptToken(ctx context.Context) (token string, ok bool)
}

// Notifier surfaces a blocking user-facing notice for business failures.
// The UI provides one; a nil notifier drops the notice.
type Notifier func(title, message string)
