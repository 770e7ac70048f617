package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"bibsnet/internal/models"
)

const fixtureManifest = `
[[model]]
task = 512
description = "combined"
t1 = true
t2 = true
url = "https://example.com/Task512.zip"
name = "Task512_Combined"

[[model]]
task = 514
description = "t1 only"
t1 = true
t2 = false
url = "https://example.com/Task514.zip"
name = "Task514_T1Only"
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing test manifest: %v", err)
	}
	return path
}

func TestLoadFromPath(t *testing.T) {
	reg, err := LoadFromPath(writeManifest(t, fixtureManifest))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	tasks := reg.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	entry, err := reg.Resolve(512)
	if err != nil {
		t.Fatalf("Resolve(512): %v", err)
	}
	if entry.Name != "Task512_Combined" {
		t.Errorf("expected name 'Task512_Combined', got %q", entry.Name)
	}
	if !entry.T1 || !entry.T2 {
		t.Errorf("expected both modalities required, got t1=%v t2=%v", entry.T1, entry.T2)
	}
}

func TestLoadFromPath_NotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/models.toml")
	if err == nil {
		t.Fatal("expected error for nonexistent manifest")
	}
	if models.KindOf(err) != models.ErrConfig {
		t.Errorf("expected config error, got %s", models.KindOf(err))
	}
}

func TestLoadFromPath_InvalidTOML(t *testing.T) {
	_, err := LoadFromPath(writeManifest(t, "not [valid toml"))
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	if models.KindOf(err) != models.ErrConfig {
		t.Errorf("expected config error, got %s", models.KindOf(err))
	}
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	_, err := LoadFromPath(writeManifest(t, `
[[model]]
task = 512
t1 = true
name = "Task512"
flavor = "wrong"
`))
	if err == nil {
		t.Fatal("expected error for unknown manifest key")
	}
}

func TestLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureManifest))
	}))
	defer server.Close()

	reg, err := LoadFromURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("LoadFromURL: %v", err)
	}

	if _, err := reg.Resolve(514); err != nil {
		t.Errorf("Resolve(514): %v", err)
	}
}

func TestLoadFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := LoadFromURL(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for HTTP 404")
	}
}

func TestLoad_Dispatch(t *testing.T) {
	// A plain path must not be treated as a URL.
	reg, err := Load(context.Background(), writeManifest(t, fixtureManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reg.Tasks()) != 2 {
		t.Errorf("expected 2 tasks, got %d", len(reg.Tasks()))
	}
}
