package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ignaciociccioli3-cmd/Backend1/pkg/health"
	"github.com/ignaciociccioli3-cmd/Backend1/pkg/httpmiddleware"
)

func testConfig(dir string) *Config {
	return &Config{
		Addr: defaultAddr,
		Storage: StorageConfig{
			Backend:      BackendFile,
			ProductsPath: filepath.Join(dir, "data", "products.json"),
			CartsPath:    filepath.Join(dir, "data", "carts.json"),
		},
		CORS: CORSConfig{Origins: []string{"*"}},
	}
}

func openTestRepos(t *testing.T, cfg *Config) *Repositories {
	t.Helper()
	repos, err := OpenRepositories(context.Background(), zap.NewNop(), cfg.Storage,
		metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())
	require.NoError(t, err)
	t.Cleanup(repos.Close)
	return repos
}

func TestOpenRepositories_CreatesFiles(t *testing.T) {
	cfg := testConfig(t.TempDir())
	repos := openTestRepos(t, cfg)

	for _, path := range []string{cfg.Storage.ProductsPath, cfg.Storage.CartsPath} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}
	assert.Len(t, repos.pingers, 2)
}

func TestOpenRepositories_MalformedFile(t *testing.T) {
	cfg := testConfig(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Storage.ProductsPath), 0o755))
	require.NoError(t, os.WriteFile(cfg.Storage.ProductsPath, []byte("{broken"), 0o644))

	_, err := OpenRepositories(context.Background(), zap.NewNop(), cfg.Storage,
		metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())
	assert.ErrorContains(t, err, "load products")
}

func TestNewHTTPHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := testConfig(t.TempDir())
	repos := openTestRepos(t, cfg)
	healthSvc := health.New()
	healthSvc.SetReady(true)

	h := NewHTTPHandler(ctx, zaptest.NewLogger(t), cfg, repos, healthSvc,
		metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Origin", "https://shop.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(httpmiddleware.RequestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(http.MethodPost, "/api/products", `{"title":"Yerba","description":"500g","code":"YB-500",
		"price":"4.75","stock":"20","category":"food"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(http.MethodPost, "/api/carts", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(http.MethodPost, "/api/carts/1/product/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"products":[{"product":1,"quantity":1}]}`, w.Body.String())

	data, err := os.ReadFile(cfg.Storage.CartsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"quantity": 1`)
}
