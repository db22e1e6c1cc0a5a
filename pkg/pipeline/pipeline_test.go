package pipeline

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/config"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/sizing"
	"github.com/matzehuels/tagcloud/pkg/words"
)

const sampleText = "Gophers write Go. Go compiles fast; gophers like fast builds. " +
	"The cloud shows words, and words that repeat grow: cloud cloud cloud."

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Text: []byte("x")}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if opts.Width != 800 || opts.Height != 600 {
		t.Errorf("canvas = %dx%d, want 800x600", opts.Width, opts.Height)
	}
	if opts.FontRange != (sizing.Range{Min: 15, Max: 35}) {
		t.Errorf("FontRange = %+v", opts.FontRange)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png"}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Text: []byte("x"), Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
		{"bad canvas", Options{Text: []byte("x"), Width: -1}, errors.ErrCodeInvalidCanvas},
		{"bad overflow", Options{Text: []byte("x"), Overflow: "wrap"}, errors.ErrCodeInvalidInput},
		{"negative min length", Options{Text: []byte("x"), MinLength: -1}, errors.ErrCodeInvalidInput},
		{"negative angle step", Options{Text: []byte("x"), AngleStep: -0.1}, errors.ErrCodeInvalidInput},
		{"tiny angle step", Options{Text: []byte("x"), AngleStep: 1e-9}, errors.ErrCodeInvalidInput},
		{"tiny radius step", Options{Text: []byte("x"), RadiusStep: 1e-20}, errors.ErrCodeInvalidInput},
		{"tiny grid cell", Options{Text: []byte("x"), GridCell: 0.05}, errors.ErrCodeInvalidInput},
		{"tiny compaction", Options{Text: []byte("x"), Compaction: 1e-9}, errors.ErrCodeInvalidInput},
		{"too many samples", Options{Text: []byte("x"), MaxSamples: 1 << 40}, errors.ErrCodeInvalidInput},
		{"tuned within bounds", Options{Text: []byte("x"), AngleStep: 0.1, RadiusStep: 1, GridCell: 8, Compaction: 0.5, MaxSamples: 5000}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.SetDefaults()
			err := opts.Validate()
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q (err %v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestOptionsNormalizeFormats(t *testing.T) {
	opts := Options{Text: []byte("x"), Formats: []string{"JPG", "jpeg", "svg", "tif"}}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	if want := []string{"jpeg", "svg", "tiff"}; !reflect.DeepEqual(opts.Formats, want) {
		t.Errorf("Formats = %v, want %v", opts.Formats, want)
	}
}

func TestSettingsHash(t *testing.T) {
	a := Options{Text: []byte("a")}
	b := Options{Text: []byte("b"), Formats: []string{"svg"}}
	if a.SettingsHash() != b.SettingsHash() {
		t.Error("input and formats must not affect the settings hash")
	}
	b.Width = 1000
	if a.SettingsHash() == b.SettingsHash() {
		t.Error("width must affect the settings hash")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Source:  "inline",
		Text:    []byte(sampleText),
		Formats: []string{"png", "svg", "json"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.ID == "" {
		t.Error("missing run ID")
	}
	if res.Words[0] != (words.Stat{Word: "cloud", Count: 4}) {
		t.Errorf("top word = %+v, want cloud x4", res.Words[0])
	}
	if res.Stats.Placed != len(res.Words) || res.Stats.Dropped != 0 {
		t.Errorf("placed %d dropped %d of %d", res.Stats.Placed, res.Stats.Dropped, len(res.Words))
	}
	if res.Cloud == nil {
		t.Fatal("Cloud is nil on a fresh render")
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if !bytes.Contains(res.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact is not an SVG")
	}
	if !bytes.Contains(res.Artifacts["json"], []byte(`"cloud"`)) {
		t.Error("json artifact does not mention the top word")
	}
}

func TestExecuteUsesCache(t *testing.T) {
	r := newFileRunner(t)
	ctx := context.Background()
	opts := Options{Text: []byte(sampleText), Formats: []string{"png"}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.StatsHit || first.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.StatsHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if second.Cloud != nil {
		t.Error("Cloud should be nil when served from cache")
	}
	if second.Stats.Placed != first.Stats.Placed {
		t.Errorf("cached placed = %d, want %d", second.Stats.Placed, first.Stats.Placed)
	}
	if !bytes.Equal(first.Artifacts["png"], second.Artifacts["png"]) {
		t.Error("cached artifact differs")
	}
	if first.ID == second.ID {
		t.Error("runs share an ID")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.StatsHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run hit the cache: %+v", third.CacheInfo)
	}

	// A new format is a render miss but a stats hit.
	fourth, err := r.Execute(ctx, Options{Text: []byte(sampleText), Formats: []string{"svg"}})
	if err != nil {
		t.Fatal(err)
	}
	if !fourth.CacheInfo.StatsHit || fourth.CacheInfo.RenderHit {
		t.Errorf("new format: %+v", fourth.CacheInfo)
	}
}

// ttlCache records the lifetime of every write.
type ttlCache struct {
	cache.Cache
	ttls map[time.Duration]int
}

func (c *ttlCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.ttls[ttl]++
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestExecuteArtifactTTL(t *testing.T) {
	c := &ttlCache{Cache: cache.NewNullCache(), ttls: map[time.Duration]int{}}
	r := NewRunner(c, nil, nil)
	r.ArtifactTTL = time.Hour

	if _, err := r.Execute(context.Background(), Options{Text: []byte(sampleText), Formats: []string{"png", "svg"}}); err != nil {
		t.Fatal(err)
	}
	// png, svg and the summary entry use the configured lifetime.
	if c.ttls[time.Hour] != 3 {
		t.Errorf("writes with ArtifactTTL = %d, want 3 (%v)", c.ttls[time.Hour], c.ttls)
	}
	if c.ttls[cache.TTLStats] != 1 {
		t.Errorf("stats writes = %d, want 1", c.ttls[cache.TTLStats])
	}
}

func TestExecuteExclude(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Text: []byte(sampleText), Exclude: []string{"Cloud", "go"}})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range res.Words {
		if s.Word == "cloud" || s.Word == "go" {
			t.Errorf("excluded word %q was rendered", s.Word)
		}
	}
}

func TestExecuteBoringFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boring.txt")
	if err := os.WriteFile(path, []byte("# noise\ncloud words\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Text: []byte(sampleText), BoringPath: path})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range res.Words {
		if s.Word == "cloud" || s.Word == "words" {
			t.Errorf("boring word %q was rendered", s.Word)
		}
	}
}

func TestExecuteStats(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	stats := []words.Stat{{Word: "alpha", Count: 3}, {Word: "beta", Count: 1}}
	res, err := r.Execute(context.Background(), Options{Stats: stats, Exclude: []string{"beta"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Words) != 1 || res.Words[0].Word != "alpha" {
		t.Errorf("Words = %+v", res.Words)
	}
}

func TestExecuteURLSource(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>" + sampleText + "</p><script>var ignored;</script></body></html>"))
	}))
	defer srv.Close()

	r := newFileRunner(t)
	opts := Options{Source: srv.URL + "/speech.html"}
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Words[0] != (words.Stat{Word: "cloud", Count: 4}) {
		t.Errorf("top word = %+v", res.Words[0])
	}
	for _, s := range res.Words {
		if s.Word == "ignored" {
			t.Error("script text was counted")
		}
	}

	// The download is cached; refresh fetches again.
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d after cached run, want 1", calls.Load())
	}
	opts.Refresh = true
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d after refresh, want 2", calls.Load())
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing file", Options{Source: filepath.Join(t.TempDir(), "nope.txt")}, errors.ErrCodeFileNotFound},
		{"inverted font range", Options{Text: []byte(sampleText), FontRange: sizing.Range{Min: 40, Max: 10}}, errors.ErrCodeInvalidFontRange},
		{"too small to fit", Options{Text: []byte(sampleText), Width: 20, Height: 20}, errors.ErrCodeOutOfCanvas},
		{"unknown palette", Options{Text: []byte(sampleText), Palette: "rainbow"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q (err %v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestExecuteSkipOverflow(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Text:     []byte(sampleText),
		Width:    120,
		Height:   60,
		Overflow: "skip",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Dropped == 0 || res.Stats.Placed+res.Stats.Dropped != len(res.Words) {
		t.Errorf("placed %d dropped %d of %d", res.Stats.Placed, res.Stats.Dropped, len(res.Words))
	}
}

func TestFromSettings(t *testing.T) {
	s := config.Default()
	s.Canvas.Width = 640
	s.Layout.Algorithm = "rows"
	s.Output.Formats = []string{"svg"}

	opts := FromSettings(s)
	opts.Text = []byte(sampleText)
	if opts.Width != 640 || opts.Algorithm != "rows" || opts.FontRange.Max != s.Font.Max {
		t.Errorf("FromSettings = %+v", opts)
	}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Artifacts["svg"]; !ok {
		t.Errorf("artifacts = %v", res.Artifacts)
	}
}
