package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eugenenazirov/fautil/internal/envname"
	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/schema"
	"github.com/eugenenazirov/fautil/internal/settings"
	"github.com/eugenenazirov/fautil/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler exposes the resolved settings held in storage over HTTP.
type Handler struct {
	storage storage.Storage
	schema  *schema.Schema
	mapper  *envname.Mapper

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithEnvPrefix changes the prefix used when listing environment variable names.
func WithEnvPrefix(prefix string) HandlerOption {
	return func(h *Handler) {
		h.mapper = envname.New(h.schema, envname.WithPrefix(prefix))
	}
}

// NewHandler constructs a Handler serving settings described by s.
func NewHandler(store storage.Storage, s *schema.Schema, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		schema:  s,
		mapper:  envname.New(s),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	if _, err := h.storage.Snapshot(); err != nil {
		resp.Status = "initialising"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	_ = r

	resp := settingsResponse{
		Settings:   snap.Resolved.Masked(h.schema),
		ConfigFile: snap.Resolved.ConfigFile,
		EnvFile:    snap.Resolved.EnvFile,
		Debug:      snap.Settings.IsDebug(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSources(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	var filter layer.Source
	if raw := strings.TrimSpace(r.URL.Query().Get("source")); raw != "" {
		filter = layer.Source(strings.ToLower(raw))
		if !validSource(filter) {
			writeError(w, http.StatusBadRequest, "Invalid source", "source must be one of default, file, dotenv, env")
			return
		}
	}

	entries := make([]settings.Entry, 0)
	for _, entry := range snap.Resolved.Entries(h.schema, true) {
		if filter != "" && entry.Source != filter {
			continue
		}
		entries = append(entries, entry)
	}
	writeJSON(w, http.StatusOK, sourcesResponse{Entries: entries})
}

func (h *Handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}

	key := r.PathValue("key")
	path := layer.SplitPath(key)
	field, found := h.schema.Lookup(path)
	if !found || !field.IsLeaf() {
		writeError(w, http.StatusNotFound, "Unknown setting", key+" is not a setting key")
		return
	}

	for _, entry := range snap.Resolved.Entries(h.schema, true) {
		if entry.Key == key {
			writeJSON(w, http.StatusOK, entry)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Setting not configured", key+" belongs to a section that is not configured")
}

func (h *Handler) handleGetEnv(w http.ResponseWriter, r *http.Request) {
	_ = r
	leaves := h.schema.Leaves()
	vars := make([]envVariable, 0, len(leaves))
	for _, leaf := range leaves {
		vars = append(vars, envVariable{
			Key:      layer.JoinPath(leaf.Path),
			Names:    h.mapper.Names(leaf.Path),
			Kind:     leaf.Field.Kind.String(),
			Required: leaf.Field.Required,
			Secret:   leaf.Field.Secret,
		})
	}
	writeJSON(w, http.StatusOK, envResponse{Variables: vars})
}

func (h *Handler) snapshot(w http.ResponseWriter) (storage.Snapshot, bool) {
	snap, err := h.storage.Snapshot()
	if err != nil {
		if errors.Is(err, storage.ErrNotInitialised) {
			writeError(w, http.StatusServiceUnavailable, "Settings unavailable", err.Error())
			return storage.Snapshot{}, false
		}
		writeInternalError(w, err)
		return storage.Snapshot{}, false
	}
	return snap, true
}

func validSource(s layer.Source) bool {
	switch s {
	case layer.SourceDefault, layer.SourceFile, layer.SourceDotenv, layer.SourceEnv:
		return true
	}
	return false
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type settingsResponse struct {
	Settings   layer.Layer `json:"settings"`
	ConfigFile string      `json:"configFile,omitempty"`
	EnvFile    string      `json:"envFile,omitempty"`
	Debug      bool        `json:"debug"`
}

type sourcesResponse struct {
	Entries []settings.Entry `json:"entries"`
}

type envVariable struct {
	Key      string   `json:"key"`
	Names    []string `json:"names"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required,omitempty"`
	Secret   bool     `json:"secret,omitempty"`
}

type envResponse struct {
	Variables []envVariable `json:"variables"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
