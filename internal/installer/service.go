package installer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/modelget/model-installer/internal/api"
	"github.com/modelget/model-installer/internal/logging"
	"github.com/modelget/model-installer/internal/model"
	"github.com/modelget/model-installer/internal/platform"
)

// Service is the item-registration surface the host hands dialog entries
// to. It dedupes by stable item key, owns one controller per item, and gates
// the whole feature on the backend health probe.
type Service struct {
	backend  Backend
	registry *ProgressRegistry
	auth     *AuthFlow
	log      *logging.Logger

	mu          sync.RWMutex
	controllers map[string]*Controller
	order       []string
	storage     api.StorageInfo
	enabled     bool

	onItemUpdate func(model.Item)
	notify       Notifier
}

// NewService creates the installer service
func NewService(backend Backend, prompter TokenPrompter, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		backend:     backend,
		registry:    NewProgressRegistry(backend, log),
		auth:        NewAuthFlow(backend, prompter, log),
		log:         log,
		controllers: make(map[string]*Controller),
	}
}

// SetCallbacks wires the presentation layer for item updates and failure
// notices. Progress callbacks are wired on Progress() directly.
func (s *Service) SetCallbacks(onItemUpdate func(model.Item), notify Notifier) {
	s.mu.Lock()
	s.onItemUpdate = onItemUpdate
	s.notify = notify
	s.mu.Unlock()
}

// Progress returns the shared progress registry
func (s *Service) Progress() *ProgressRegistry {
	return s.registry
}

// Activate probes backend health and enables the feature when the installer
// endpoints are available. The health response's storage info seeds the
// path choosers of items registered before their first status response.
func (s *Service) Activate(ctx context.Context) (bool, error) {
	health, err := s.backend.Health(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("health probe failed, feature stays off")
		return false, err
	}
	if !health.OK {
		s.log.Info().Msg("backend reports not ok, feature stays off")
		return false, nil
	}

	s.mu.Lock()
	s.enabled = true
	s.storage = health.StorageInfo
	s.mu.Unlock()
	s.log.Info().Str("version", health.Version).Msg("installer feature active")
	return true, nil
}

// Enabled reports whether Activate succeeded
func (s *Service) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Register adds one dialog entry, resolving its identity from the free-text
// label and source URL. Registering the same item again returns the existing
// controller; each item gets exactly one. The new controller immediately
// queries status in the background.
func (s *Service) Register(ctx context.Context, label, rawURL string) (*Controller, error) {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return nil, fmt.Errorf("installer feature is not active")
	}

	id := platform.ResolveIdentity(label, rawURL)
	key := id.Key()
	if key == "" {
		s.mu.Unlock()
		return nil, fmt.Errorf("entry has no usable identity: label=%q url=%q", label, rawURL)
	}

	if existing, exists := s.controllers[key]; exists {
		s.mu.Unlock()
		return existing, nil
	}

	item := &model.Item{
		ID:             newItemID(),
		Identity:       id,
		Status:         model.StatusUnknown,
		StorageOptions: storageOptionsFor(s.storage, id.Directory),
	}
	ctrl := NewController(item, s.backend, s.registry, s.auth, s.log)
	ctrl.SetCallbacks(s.itemUpdated, s.notifyUser)
	s.controllers[key] = ctrl
	s.order = append(s.order, key)
	s.mu.Unlock()

	s.log.Info().Str("key", key).Str("label", label).Msg("item registered")
	go ctrl.Refresh(ctx)
	return ctrl, nil
}

// Controller returns the controller for an item key
func (s *Service) Controller(key string) (*Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctrl, exists := s.controllers[key]
	return ctrl, exists
}

// Items returns snapshots of all registered items in registration order
func (s *Service) Items() []model.Item {
	s.mu.RLock()
	controllers := make([]*Controller, 0, len(s.order))
	for _, key := range s.order {
		controllers = append(controllers, s.controllers[key])
	}
	s.mu.RUnlock()

	items := make([]model.Item, 0, len(controllers))
	for _, ctrl := range controllers {
		items = append(items, ctrl.Item())
	}
	return items
}

// itemUpdated forwards controller snapshots to the presentation layer
func (s *Service) itemUpdated(item model.Item) {
	s.mu.RLock()
	onUpdate := s.onItemUpdate
	s.mu.RUnlock()
	if onUpdate != nil {
		onUpdate(item)
	}
}

// notifyUser forwards failure notices to the presentation layer
func (s *Service) notifyUser(title, message string) {
	s.mu.RLock()
	notify := s.notify
	s.mu.RUnlock()
	if notify != nil {
		notify(title, message)
	}
}

// newItemID generates a unique registration ID
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
