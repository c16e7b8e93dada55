package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelget/model-installer/internal/logging"
	"github.com/modelget/model-installer/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, logging.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, srv
}

func TestNewClientRejectsEmptyBaseURL(t *testing.T) {
	if _, err := NewClient("", logging.Nop()); err == nil {
		t.Fatal("NewClient() should return error for empty base URL")
	}
	if _, err := NewClient("   ", logging.Nop()); err == nil {
		t.Fatal("NewClient() should return error for blank base URL")
	}
}

func TestClient_Status_KeyedByDirectoryAndFilename(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(StatusResponse{Present: true, Folder: "loras", Path: "/models/loras/x.safetensors"})
	})

	id := model.Identity{Directory: "loras", Filename: "x.safetensors", URL: "https://example.com/x"}
	status, err := client.Status(context.Background(), id)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.Present {
		t.Error("Present = false, expected true")
	}
	if got := gotQuery["directory"]; len(got) != 1 || got[0] != "loras" {
		t.Errorf("directory query = %v, expected [loras]", got)
	}
	if got := gotQuery["filename"]; len(got) != 1 || got[0] != "x.safetensors" {
		t.Errorf("filename query = %v, expected [x.safetensors]", got)
	}
	if _, ok := gotQuery["url"]; ok {
		t.Error("url query should be absent when directory+filename are known")
	}
}

func TestClient_Status_KeyedByURLWhenUnresolved(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(StatusResponse{Present: false})
	})

	id := model.Identity{URL: "https://example.com/x.safetensors"}
	if _, err := client.Status(context.Background(), id); err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if got := gotQuery["url"]; len(got) != 1 || got[0] != id.URL {
		t.Errorf("url query = %v, expected [%s]", got, id.URL)
	}
}

func TestClient_Status_ParsesStorageInfo(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"present": false,
			"state": "failed",
			"error": "disk full",
			"storage_info": {
				"loras": [
					{"path": "/fast/loras", "available_bytes": 100},
					{"path": "/slow/loras", "available_bytes": 900}
				]
			}
		}`))
	})

	status, err := client.Status(context.Background(), model.Identity{URL: "u"})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.State != StateFailed || status.Error != "disk full" {
		t.Errorf("state/error = %s/%s, expected failed/disk full", status.State, status.Error)
	}
	opts := status.StorageInfo["loras"]
	if len(opts) != 2 {
		t.Fatalf("storage options = %d, expected 2", len(opts))
	}
	if opts[0].Path != "/fast/loras" || opts[0].AvailableBytes != 100 {
		t.Errorf("first option = %+v, expected /fast/loras with 100 bytes", opts[0])
	}
}

func TestClient_Install_SendsBodyAndParsesAcceptance(t *testing.T) {
	var gotBody InstallRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/models/install" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(InstallResponse{Status: "queued", Folder: "loras", Path: "/models/loras/x.safetensors", Expected: 1000})
	})

	req := InstallRequest{
		Name:      "x.safetensors",
		Directory: "loras",
		URL:       "https://huggingface.co/a/b/resolve/main/x.safetensors?download=true",
	}
	resp, err := client.Install(context.Background(), req)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if resp.Status != "queued" || resp.Expected != 1000 {
		t.Errorf("response = %+v, expected queued with expected=1000", resp)
	}
	if gotBody != req {
		t.Errorf("server saw body %+v, expected %+v", gotBody, req)
	}
}

func TestClient_Install_AuthRequired(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_code":"auth_required","provider":"huggingface","message":"Authentication required to download this file."}`))
	})

	_, err := client.Install(context.Background(), InstallRequest{Name: "x", Directory: "loras", URL: "u"})
	if err == nil {
		t.Fatal("Install() should return error on 401")
	}
	if !IsAuthRequired(err) {
		t.Errorf("IsAuthRequired(%v) = false, expected true", err)
	}
}

func TestClient_Install_BusinessError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"disk full"}`))
	})

	_, err := client.Install(context.Background(), InstallRequest{Name: "x", Directory: "loras", URL: "u"})
	if err == nil {
		t.Fatal("Install() should return error on 500")
	}
	if IsAuthRequired(err) {
		t.Error("IsAuthRequired should be false for a 500")
	}
	if err.Error() != "disk full" {
		t.Errorf("error message = %q, expected %q", err.Error(), "disk full")
	}
}

func TestClient_Bare401IsNotAuthRequired(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"nope"}`))
	})

	_, err := client.Install(context.Background(), InstallRequest{Name: "x", Directory: "loras", URL: "u"})
	if err == nil {
		t.Fatal("Install() should return error on 401")
	}
	if IsAuthRequired(err) {
		t.Error("a 401 without error_code=auth_required must not trigger the auth flow")
	}
}

func TestClient_Uninstall(t *testing.T) {
	var gotBody UninstallRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(UninstallResponse{Status: "uninstalled", Folder: "loras"})
	})

	resp, err := client.Uninstall(context.Background(), UninstallRequest{Directory: "loras", Name: "x.safetensors"})
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if resp.Status != "uninstalled" {
		t.Errorf("status = %s, expected uninstalled", resp.Status)
	}
	if gotBody.Directory != "loras" || gotBody.Name != "x.safetensors" {
		t.Errorf("server saw body %+v", gotBody)
	}
}

func TestClient_ExpectedSize_BestEffort(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") == "known" {
			json.NewEncoder(w).Encode(ExpectedSizeResponse{Expected: 12345})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"missing url"}`))
	})

	if got := client.ExpectedSize(context.Background(), "known"); got != 12345 {
		t.Errorf("ExpectedSize(known) = %d, expected 12345", got)
	}
	if got := client.ExpectedSize(context.Background(), "unknown"); got != 0 {
		t.Errorf("ExpectedSize(unknown) = %d, expected 0 on server failure", got)
	}
}

func TestClient_ExpectedSize_TransportFailureIsZero(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", logging.Nop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if got := client.ExpectedSize(context.Background(), "u"); got != 0 {
		t.Errorf("ExpectedSize() = %d, expected 0 on transport failure", got)
	}
}

func TestClient_HFLogin(t *testing.T) {
	var gotBody LoginRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		if gotBody.Token == "good" {
			json.NewEncoder(w).Encode(LoginResponse{Status: "authenticated"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"token rejected"}`))
	})

	if err := client.HFLogin(context.Background(), "good"); err != nil {
		t.Errorf("HFLogin(good) error = %v", err)
	}
	if err := client.HFLogin(context.Background(), "bad"); err == nil {
		t.Error("HFLogin(bad) should return error")
	}
}

func TestClient_Health(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model_installer/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"ok": true, "storage_info": {"vae": [{"path": "/models/vae", "available_bytes": 42}]}}`))
	})

	health, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if !health.OK {
		t.Error("OK = false, expected true")
	}
	if len(health.StorageInfo["vae"]) != 1 {
		t.Errorf("storage info = %+v, expected one vae option", health.StorageInfo)
	}
}

func TestClient_GetRetriesTransientFailures(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(StatusResponse{Present: true})
	})

	status, err := client.Status(context.Background(), model.Identity{URL: "u"})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.Present {
		t.Error("Present = false, expected true after retry")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, expected 2", attempts)
	}
}

func TestClient_PostNeverRetries(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"bad gateway"}`))
	})

	if _, err := client.Install(context.Background(), InstallRequest{Name: "x", Directory: "d", URL: "u"}); err == nil {
		t.Fatal("Install() should return error on 502")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, expected exactly 1 for a POST", attempts)
	}
}
