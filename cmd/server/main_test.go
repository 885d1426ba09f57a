package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undead2146/genhub-core/internal/activation"
	"github.com/undead2146/genhub-core/internal/api"
	"github.com/undead2146/genhub-core/internal/cache"
	"github.com/undead2146/genhub-core/internal/catalog"
	"github.com/undead2146/genhub-core/internal/health"
	"github.com/undead2146/genhub-core/internal/service"
)

func TestSetupLogger_Levels(t *testing.T) {
	defer os.Unsetenv("LOG_LEVEL")
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		env  string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			os.Setenv("LOG_LEVEL", tt.env)
			setupLogger()
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

// TestServerWiring assembles the full component graph the way main does and
// verifies a loaded catalog is reachable through the HTTP surface.
func TestServerWiring(t *testing.T) {
	dir := t.TempDir()
	manifest := `id: 1.2.cnclabs.mod.urbanchaos
name: Urban Chaos
version: "2.0"
content_type: mod
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mod.manifest.yaml"), []byte(manifest), 0644))

	store := catalog.NewStore(catalog.StoreConfig{ManifestDir: dir})
	require.NoError(t, store.Load(context.Background()))

	lruCache := cache.NewLRUCache(100)
	router := api.SetupRouter(api.RouterDependencies{
		Identity:      service.NewIdentityService(lruCache),
		Catalog:       store,
		Cache:         lruCache,
		Activation:    activation.NewValidator(),
		HealthChecker: health.NewSystemHealthChecker(store, lruCache),
	}, api.RouterConfig{BodyLimit: 1048576})
	defer router.Cleanup()

	resp, err := router.App.Test(httptest.NewRequest("GET", "/health", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = router.App.Test(httptest.NewRequest("GET", "/v1/manifests/1.2.cnclabs.mod.urbanchaos", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
