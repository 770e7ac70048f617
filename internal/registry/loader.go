package registry

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"bibsnet/internal/models"
)

// manifest is the on-disk TOML shape of the model registry.
type manifest struct {
	Models []manifestEntry `toml:"model"`
}

type manifestEntry struct {
	Task        int    `toml:"task"`
	Description string `toml:"description"`
	T1          bool   `toml:"t1"`
	T2          bool   `toml:"t2"`
	URL         string `toml:"url"`
	Name        string `toml:"name"`
}

// Load reads a manifest from a local path or an http(s) URL and builds
// the registry from it.
func Load(ctx context.Context, pathOrURL string) (*Registry, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return LoadFromURL(ctx, pathOrURL)
	}
	return LoadFromPath(pathOrURL)
}

// LoadFromPath loads a manifest from a local filesystem path.
func LoadFromPath(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.Wrapf(models.ErrConfig, err, "reading manifest %s", path)
	}
	return decode(data)
}

// LoadFromURL loads a manifest from a remote URL.
func LoadFromURL(ctx context.Context, url string) (*Registry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, models.Wrapf(models.ErrConfig, err, "creating manifest request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, models.Wrapf(models.ErrConfig, err, "fetching manifest %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.Errf(models.ErrConfig, "fetching manifest %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.Wrapf(models.ErrConfig, err, "reading manifest body")
	}

	return decode(data)
}

func decode(data []byte) (*Registry, error) {
	var m manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, models.Wrapf(models.ErrConfig, err, "parsing manifest TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, models.Errf(models.ErrConfig, "manifest has unknown key %q", undecoded[0].String())
	}

	entries := make([]models.ModelEntry, len(m.Models))
	for i, e := range m.Models {
		entries[i] = models.ModelEntry{
			Task:        e.Task,
			Description: e.Description,
			T1:          e.T1,
			T2:          e.T2,
			URL:         e.URL,
			Name:        e.Name,
		}
	}

	return New(entries)
}
