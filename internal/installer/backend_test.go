package installer

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelget/model-installer/internal/api"
	"github.com/modelget/model-installer/internal/model"
)

// fakeBackend scripts the HTTP contract for tests and records the requests
// it receives
type fakeBackend struct {
	mu sync.Mutex

	statusFn     func(model.Identity) (*api.StatusResponse, error)
	installFn    func(api.InstallRequest) (*api.InstallResponse, error)
	uninstallFn  func(api.UninstallRequest) (*api.UninstallResponse, error)
	expectedFn   func(string) int64
	loginFn      func(string) error
	healthFn     func() (*api.HealthResponse, error)
	authStatusFn func() (bool, error)

	installCalls   []api.InstallRequest
	uninstallCalls []api.UninstallRequest
	loginCalls     []string
	statusCalls    int
}

func (f *fakeBackend) Health(ctx context.Context) (*api.HealthResponse, error) {
	f.mu.Lock()
	fn := f.healthFn
	f.mu.Unlock()
	if fn == nil {
		return &api.HealthResponse{OK: true}, nil
	}
	return fn()
}

func (f *fakeBackend) Status(ctx context.Context, id model.Identity) (*api.StatusResponse, error) {
	f.mu.Lock()
	f.statusCalls++
	fn := f.statusFn
	f.mu.Unlock()
	if fn == nil {
		return &api.StatusResponse{}, nil
	}
	return fn(id)
}

func (f *fakeBackend) Install(ctx context.Context, req api.InstallRequest) (*api.InstallResponse, error) {
	f.mu.Lock()
	f.installCalls = append(f.installCalls, req)
	fn := f.installFn
	f.mu.Unlock()
	if fn == nil {
		return &api.InstallResponse{Status: "queued"}, nil
	}
	return fn(req)
}

func (f *fakeBackend) Uninstall(ctx context.Context, req api.UninstallRequest) (*api.UninstallResponse, error) {
	f.mu.Lock()
	f.uninstallCalls = append(f.uninstallCalls, req)
	fn := f.uninstallFn
	f.mu.Unlock()
	if fn == nil {
		return &api.UninstallResponse{Status: "uninstalled"}, nil
	}
	return fn(req)
}

func (f *fakeBackend) ExpectedSize(ctx context.Context, rawURL string) int64 {
	f.mu.Lock()
	fn := f.expectedFn
	f.mu.Unlock()
	if fn == nil {
		return 0
	}
	return fn(rawURL)
}

func (f *fakeBackend) HFLogin(ctx context.Context, token string) error {
	f.mu.Lock()
	f.loginCalls = append(f.loginCalls, token)
	fn := f.loginFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(token)
}

func (f *fakeBackend) HFAuthStatus(ctx context.Context) (bool, error) {
	f.mu.Lock()
	fn := f.authStatusFn
	f.mu.Unlock()
	if fn == nil {
		return false, nil
	}
	return fn()
}

func (f *fakeBackend) installCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.installCalls)
}

func (f *fakeBackend) lastInstall() (api.InstallRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.installCalls) == 0 {
		return api.InstallRequest{}, fmt.Errorf("no install calls recorded")
	}
	return f.installCalls[len(f.installCalls)-1], nil
}

func (f *fakeBackend) lastUninstall() (api.UninstallRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.uninstallCalls) == 0 {
		return api.UninstallRequest{}, fmt.Errorf("no uninstall calls recorded")
	}
	return f.uninstallCalls[len(f.uninstallCalls)-1], nil
}

// fakePrompter scripts the credential prompt
type fakePrompter struct {
	token   string
	ok      bool
	prompts int
}

func (p *fakePrompter) PromptToken(ctx context.Context) (string, bool) {
	p.prompts++
	return p.token, p.ok
}
