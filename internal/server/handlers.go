package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tagcloud/pkg/buildinfo"
	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/history"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
)

// renderRequest is the JSON form of POST /render.
type renderRequest struct {
	Text string `json:"text"`
	pipeline.Options
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	formats := sink.Formats()
	out := make([]map[string]string, len(formats))
	for i, f := range formats {
		out[i] = map[string]string{"name": string(f), "content_type": f.ContentType()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}

	format, err := requestFormat(r, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{string(format)}

	res, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.cfg.History != nil {
		_, err := s.cfg.History.Record(r.Context(), history.Entry{
			ID:        res.ID,
			Source:    opts.Source,
			Algorithm: opts.Algorithm,
			Width:     opts.Width,
			Height:    opts.Height,
			Words:     res.Stats.Words,
			Placed:    res.Stats.Placed,
			Dropped:   res.Stats.Dropped,
			Outputs:   string(format),
			Duration:  res.Stats.ParseTime + res.Stats.RenderTime,
		})
		if err != nil {
			s.cfg.Logger.Warn("record history", "error", err)
		}
	}

	cacheStatus := "miss"
	if res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("X-Render-Id", res.ID)
	h.Set("X-Cache", cacheStatus)
	h.Set("X-Tags-Placed", strconv.Itoa(res.Stats.Placed))
	h.Set("X-Tags-Dropped", strconv.Itoa(res.Stats.Dropped))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[string(format)])
}

// requestOptions builds pipeline options from the server defaults and the
// request body and query.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Source = "http"
	opts.Logger = nil

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return opts, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		req := renderRequest{Options: opts}
		if err := json.Unmarshal(body, &req); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
		}
		opts = req.Options
		opts.Text = []byte(req.Text)
	} else {
		opts.Text = body
	}
	if len(strings.TrimSpace(string(opts.Text))) == 0 {
		return opts, errors.New(errors.ErrCodeInvalidInput, "request contains no text")
	}

	q := r.URL.Query()
	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"max_words", &opts.MaxUnique},
		{"min_font", &opts.FontRange.Min},
		{"max_font", &opts.FontRange.Max},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query parameter %s must be an integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	strs := []struct {
		name string
		dst  *string
	}{
		{"algorithm", &opts.Algorithm},
		{"palette", &opts.Palette},
		{"overflow", &opts.Overflow},
		{"font", &opts.Font},
	}
	for _, p := range strs {
		if v := q.Get(p.name); v != "" {
			*p.dst = v
		}
	}
	// Font files on the server host are off limits to clients.
	if opts.Font != s.cfg.Defaults.Font && filepath.Ext(opts.Font) != "" {
		return opts, errors.New(errors.ErrCodeInvalidInput, "font must name a built-in font, got %q", opts.Font)
	}
	return opts, nil
}

// requestFormat picks the single output format: the format query
// parameter, then the first requested format, then PNG.
func requestFormat(r *http.Request, opts pipeline.Options) (sink.Format, error) {
	name := r.URL.Query().Get("format")
	if name == "" && len(opts.Formats) > 0 {
		name = opts.Formats[0]
	}
	if name == "" {
		return pipeline.DefaultFormat, nil
	}
	return sink.ParseFormat(name)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "history is disabled"))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	entries, err := s.cfg.History.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "history is disabled"))
		return
	}
	e, err := s.cfg.History.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}
