package integration

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/fautil/internal/application"
	"github.com/eugenenazirov/fautil/internal/config"
	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/settings"
)

const configYAML = `
app:
  title: integration
  port: 8100
kafka:
  bootstrap_servers: kafka:9092
  group_id: fautil
`

const dotenv = `
# redis is only configured through the .env file
FAUTIL_REDIS_URL=redis://:hunter2@cache:6379/0
FAUTIL_APP_CORS_ORIGINS=https://a.example, https://b.example
FAUTIL_APP__PORT=8200
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func performRequest(t *testing.T, handler http.Handler, target string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if out != nil {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", target, err)
		}
	}
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), configYAML)
	envPath := filepath.Join(dir, "local.env")
	writeFile(t, envPath, dotenv)
	t.Setenv("FAUTIL_APP__PORT", "8300")

	cfg, resolved, err := config.Load(&config.Overrides{ConfigFile: dir, EnvFile: envPath})
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	if cfg.App.Title != "integration" || cfg.App.Port != 8300 {
		t.Fatalf("unexpected app settings: %+v", cfg.App)
	}
	if want := []string{"https://a.example", "https://b.example"}; !slices.Equal(cfg.App.CorsOrigins, want) {
		t.Fatalf("expected cors origins %v, got %v", want, cfg.App.CorsOrigins)
	}
	if cfg.Redis == nil || cfg.Redis.URL != "redis://:hunter2@cache:6379/0" || cfg.Redis.MaxConnections != 10 {
		t.Fatalf("unexpected redis settings: %+v", cfg.Redis)
	}
	if cfg.Kafka == nil || cfg.Kafka.AutoOffsetReset != "earliest" {
		t.Fatalf("unexpected kafka settings: %+v", cfg.Kafka)
	}
	if cfg.DB != nil || cfg.Minio != nil {
		t.Fatalf("expected unconfigured sections to be absent")
	}

	app, err := application.New(cfg, resolved, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("build application: %v", err)
	}
	handler := app.Handler()

	if rec := performRequest(t, handler, "/api/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	var sources struct {
		Entries []settings.Entry `json:"entries"`
	}
	performRequest(t, handler, "/api/settings/sources", &sources)

	got := make(map[string]settings.Entry, len(sources.Entries))
	for _, entry := range sources.Entries {
		got[entry.Key] = entry
	}
	want := map[string]layer.Source{
		"app.title":               layer.SourceFile,
		"app.port":                layer.SourceEnv,
		"app.cors_origins":        layer.SourceDotenv,
		"redis.url":               layer.SourceDotenv,
		"redis.db":                layer.SourceDefault,
		"kafka.bootstrap_servers": layer.SourceFile,
	}
	for key, source := range want {
		if got[key].Source != source {
			t.Fatalf("expected %s from %s, got %+v", key, source, got[key])
		}
	}
	if got["redis.url"].Value != settings.Mask {
		t.Fatalf("expected redis.url to be masked, got %v", got["redis.url"].Value)
	}
	if _, ok := got["db.url"]; ok {
		t.Fatalf("expected db section to be absent from sources")
	}
}

func TestIntegrationRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	writeFile(t, path, `{"app": {"port": "eighty"}, "minio": {"endpoint": "s3:9000"}}`)
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "")

	_, _, err := config.Load(&config.Overrides{ConfigFile: path, EnvFile: envPath})
	var verr *settings.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// app.port, minio.access_key and minio.secret_key
	if len(verr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", verr.Problems)
	}
}
