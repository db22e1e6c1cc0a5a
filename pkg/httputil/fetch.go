package httputil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/matzehuels/tagcloud/pkg/buildinfo"
	"github.com/matzehuels/tagcloud/pkg/errors"
)

const (
	httpTimeout = 30 * time.Second

	// DefaultMaxBytes limits downloaded documents.
	DefaultMaxBytes = 8 << 20
)

// Client downloads text documents. The zero value is not usable; call
// [NewClient].
type Client struct {
	HTTP      *http.Client
	Backoff   Backoff
	MaxBytes  int64
	UserAgent string
}

// NewClient returns a client with a 30s timeout, [DefaultBackoff] and
// [DefaultMaxBytes].
func NewClient() *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: httpTimeout},
		Backoff:   DefaultBackoff,
		MaxBytes:  DefaultMaxBytes,
		UserAgent: "tagcloud/" + buildinfo.Version,
	}
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FetchText downloads rawURL and returns its text as UTF-8.
func (c *Client) FetchText(ctx context.Context, rawURL string) ([]byte, error) {
	if !IsURL(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not an http(s) URL: %q", rawURL)
	}

	var text []byte
	err := c.Backoff.Do(ctx, func() error {
		var err error
		text, err = c.fetchOnce(ctx, rawURL)
		return err
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
	return text, nil
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/plain, text/markdown;q=0.9, text/html;q=0.8, */*;q=0.1")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if !textual(mediaType) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is %s, not text", rawURL, mediaType)
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(raw)) > limit {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is larger than %d bytes", rawURL, limit)
	}

	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", rawURL)
	}
	if mediaType == "text/html" || mediaType == "application/xhtml+xml" {
		return ExtractText(r)
	}
	return io.ReadAll(r)
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return errors.New(errors.ErrCodeFileNotFound, "%s: %s", resp.Request.URL, resp.Status)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{
			Err:   fmt.Errorf("%s: %s", resp.Request.URL, resp.Status),
			After: retryAfter(resp.Header.Get("Retry-After")),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: %s", resp.Request.URL, resp.Status)
	}
}

// retryAfter parses a Retry-After header given in seconds or as a date.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(time.Until(t), 0)
	}
	return 0
}

// textual reports whether a media type can be counted as words. An
// unlabeled body is given the benefit of the doubt.
func textual(mediaType string) bool {
	switch {
	case mediaType == "", strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/json", mediaType == "application/xml",
		mediaType == "application/xhtml+xml", strings.HasSuffix(mediaType, "+xml"):
		return true
	}
	return false
}

// skipped elements never contribute visible text.
var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "title": true,
}

// block elements end a line so words on either side are not glued together.
var block = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true, "blockquote": true, "pre": true,
}

// ExtractText returns the visible text of an HTML document.
func ExtractText(r io.Reader) ([]byte, error) {
	var (
		out   bytes.Buffer
		depth int // nesting inside skipped elements
	)
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse HTML")
			}
			return bytes.TrimSpace(out.Bytes()), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipped[tag] {
				depth++
			} else if block[tag] {
				out.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipped[tag] && depth > 0 {
				depth--
			} else if block[tag] {
				out.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			if name, _ := z.TagName(); block[string(name)] {
				out.WriteByte('\n')
			}
		case html.TextToken:
			if depth > 0 {
				continue
			}
			if t := strings.TrimSpace(string(z.Text())); t != "" {
				out.WriteString(t)
				out.WriteByte(' ')
			}
		}
	}
}
