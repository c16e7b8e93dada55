package api

// Wire types for the model installer HTTP contract. Field names follow the
// server's JSON exactly; zero values stand in for omitted fields.

// StorageOption is one candidate install location for a directory
type StorageOption struct {
	Path           string `json:"path"`
	AvailableBytes int64  `json:"available_bytes"`
}

// StorageInfo maps a directory name to its ordered storage options
type StorageInfo map[string][]StorageOption

// StatusResponse is the payload of GET /models/status
type StatusResponse struct {
	Present     bool        `json:"present"`
	State       string      `json:"state,omitempty"`
	Folder      string      `json:"folder,omitempty"`
	Path        string      `json:"path,omitempty"`
	Size        int64       `json:"size,omitempty"`
	Expected    int64       `json:"expected,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	Error       string      `json:"error,omitempty"`
	StorageInfo StorageInfo `json:"storage_info,omitempty"`
}

// Remote state values reported in StatusResponse.State
const (
	StateDownloading = "downloading"
	StateFailed      = "failed"
)

// InstallRequest is the body of POST /models/install. Path is included only
// when the user picked a non-default storage location.
type InstallRequest struct {
	Name      string `json:"name"`
	Directory string `json:"directory"`
	URL       string `json:"url"`
	Path      string `json:"path,omitempty"`
}

// InstallResponse is the 2xx payload of POST /models/install
type InstallResponse struct {
	Status   string `json:"status"`
	Folder   string `json:"folder,omitempty"`
	Path     string `json:"path,omitempty"`
	Expected int64  `json:"expected,omitempty"`
}

// UninstallRequest is the body of POST /models/uninstall
type UninstallRequest struct {
	Directory string `json:"directory"`
	Name      string `json:"name"`
}

// UninstallResponse is the 2xx payload of POST /models/uninstall. Status is
// "uninstalled" when a file was removed and "absent" when there was nothing
// to remove; both are success.
type UninstallResponse struct {
	Status string `json:"status"`
	Folder string `json:"folder,omitempty"`
	Path   string `json:"path,omitempty"`
}

// ExpectedSizeResponse is the payload of GET /models/expected_size
type ExpectedSizeResponse struct {
	Expected int64 `json:"expected"`
}

// LoginRequest is the body of POST /auth/hf_login
type LoginRequest struct {
	Token string `json:"token"`
}

// LoginResponse is the 2xx payload of POST /auth/hf_login
type LoginResponse struct {
	OK     bool   `json:"ok,omitempty"`
	Status string `json:"status,omitempty"`
}

// AuthStatusResponse is the payload of GET /auth/hf_status
type AuthStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// HealthResponse is the payload of GET /model_installer/health
type HealthResponse struct {
	OK          bool        `json:"ok"`
	Version     string      `json:"version,omitempty"`
	Name        string      `json:"name,omitempty"`
	StorageInfo StorageInfo `json:"storage_info,omitempty"`
}

// errorBody is the shape servers use for failure payloads
type errorBody struct {
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
}
