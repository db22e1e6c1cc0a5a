package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tagcloud/pkg/history"
	"github.com/matzehuels/tagcloud/pkg/observability"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
)

const sampleText = "go gophers go cloud cloud cloud tags spiral spiral layout"

func newTestServer(t *testing.T, store *history.Store) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{
		Defaults: pipeline.Options{Width: 400, Height: 300},
		Runner:   pipeline.NewRunner(nil, nil, logger),
		History:  store,
		Logger:   logger,
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestFormats(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/formats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var formats []map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&formats); err != nil {
		t.Fatal(err)
	}
	if len(formats) == 0 || formats[0]["name"] != "png" {
		t.Errorf("formats = %v", formats)
	}
}

func TestRenderPlainText(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		query       string
		contentType string
		prefix      string
	}{
		{"", "image/png", "\x89PNG"},
		{"?format=svg", "image/svg+xml", "<svg"},
		{"?format=json&width=500", "application/json", "{"},
		{"?format=jpg", "image/jpeg", "\xff\xd8"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/render"+tt.query, "text/plain", strings.NewReader(sampleText))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %+v", resp.StatusCode, decodeError(t, resp))
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if resp.Header.Get("X-Render-Id") == "" {
				t.Error("missing X-Render-Id")
			}
			if got := resp.Header.Get("X-Tags-Placed"); got != "6" {
				t.Errorf("X-Tags-Placed = %q, want 6", got)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.HasPrefix(string(body), tt.prefix) {
				t.Errorf("body starts with %q", body[:min(len(body), 8)])
			}
		})
	}
}

func TestRenderJSONRequest(t *testing.T) {
	ts := newTestServer(t, nil)
	req := `{"text": "` + sampleText + `", "formats": ["json"], "exclude": ["cloud"], "width": 640}`
	resp, err := http.Post(ts.URL+"/render", "application/json; charset=utf-8", strings.NewReader(req))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %+v", resp.StatusCode, decodeError(t, resp))
	}
	var out struct {
		Width int `json:"width"`
		Tags  []struct {
			Word string `json:"word"`
		} `json:"tags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Width != 640 {
		t.Errorf("width = %d, want 640", out.Width)
	}
	for _, tag := range out.Tags {
		if tag.Word == "cloud" {
			t.Error("excluded word was rendered")
		}
	}
	if len(out.Tags) != 5 {
		t.Errorf("tags = %d, want 5", len(out.Tags))
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"empty body", "", "text/plain", "  ", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", "?format=pdf", "text/plain", sampleText, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad width", "?width=wide", "text/plain", sampleText, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad canvas", "?width=-5", "text/plain", sampleText, http.StatusBadRequest, "INVALID_CANVAS"},
		{"inverted font range", "?min_font=50&max_font=10", "text/plain", sampleText, http.StatusBadRequest, "INVALID_FONT_RANGE"},
		{"does not fit", "?width=30&height=30", "text/plain", sampleText, http.StatusUnprocessableEntity, "OUT_OF_CANVAS"},
		{"bad json", "", "application/json", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"font file", "?font=/etc/fonts/evil.ttf", "text/plain", sampleText, http.StatusBadRequest, "INVALID_INPUT"},
		{"huge font", "?max_font=100000", "text/plain", sampleText, http.StatusBadRequest, "INVALID_FONT_RANGE"},
		{"tiny grid cell", "", "application/json", `{"text":"alpha beta gamma","grid_cell":0.05}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"tiny angle step", "", "application/json", `{"text":"alpha beta gamma delta","angle_step":1e-9}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"tiny radius step", "", "application/json", `{"text":"alpha beta","radius_step":1e-20}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unbounded samples", "", "application/json", `{"text":"alpha beta","max_samples":1000000000000}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"json font range", "", "application/json", `{"text":"alpha beta","font_range":{"min":10,"max":5000}}`, http.StatusBadRequest, "INVALID_FONT_RANGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/render"+tt.query, tt.contentType, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if e := decodeError(t, resp); e.Code != tt.code {
				t.Errorf("code = %q (%s), want %q", e.Code, e.Error, tt.code)
			}
		})
	}
}

func TestRenderBodyLimit(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{MaxBodyBytes: 16, Logger: logger})
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(strings.Repeat("word ", 10)))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHistoryRoutes(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ts := newTestServer(t, store)

	resp, err := http.Post(ts.URL+"/render?format=svg", "text/plain", strings.NewReader(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	id := resp.Header.Get("X-Render-Id")

	resp, err = http.Get(ts.URL + "/history")
	if err != nil {
		t.Fatal(err)
	}
	var entries []history.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(entries) != 1 || entries[0].ID != id || entries[0].Outputs != "svg" {
		t.Fatalf("entries = %+v, want one with id %s", entries, id)
	}

	resp, err = http.Get(ts.URL + "/history/" + id)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /history/{id} status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/history/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing entry status = %d, want 404", resp.StatusCode)
	}
}

func TestHistoryDisabled(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/history")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", resp.StatusCode)
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	routes chan string
}

func (h recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.routes <- method + " " + route + " " + http.StatusText(status)
}

func TestServerHooks(t *testing.T) {
	hooks := recordingHooks{routes: make(chan string, 1)}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	select {
	case got := <-hooks.routes:
		if got != "GET /healthz OK" {
			t.Errorf("hook saw %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("OnResponse not called")
	}
}

func TestListenAndServeShutsDown(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", Logger: log.NewWithOptions(io.Discard, log.Options{})})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
