package renderer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// DefaultEngineTimeout bounds engine startup and each screenshot
const DefaultEngineTimeout = 30 * time.Second

// maxScreenshotSize caps the PNG body read back from an engine
const maxScreenshotSize = 64 << 20

// Engine starts sessions on an external rendering engine, such as a
// headless browser that rasterizes SVG markup.
type Engine interface {
	Open(ctx context.Context) (EngineSession, error)
}

// EngineSession is one acquired engine. Close must be called on every path.
type EngineSession interface {
	Screenshot(ctx context.Context, svg []byte, width, height int) ([]byte, error)
	Close() error
}

// HTTPEngine talks to a screenshot service: GET <URL>/health when a session
// opens, then POST <URL>/screenshot with the SVG body for each capture.
type HTTPEngine struct {
	URL      string
	Token    string
	RetryMax int
	Timeout  time.Duration
}

var _ Engine = (*HTTPEngine)(nil)

type httpSession struct {
	base   string
	token  string
	client *retryablehttp.Client
}

func (e *HTTPEngine) Open(ctx context.Context) (EngineSession, error) {
	if e.URL == "" {
		return nil, fmt.Errorf("engine URL is empty")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = e.RetryMax
	client.Logger = nil
	if e.Timeout > 0 {
		client.HTTPClient.Timeout = e.Timeout
	}

	s := &httpSession{
		base:   strings.TrimSuffix(e.URL, "/"),
		token:  e.Token,
		client: client,
	}

	resp, err := s.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		s.Close()
		return nil, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.Close()
		return nil, fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return s, nil
}

func (s *httpSession) Screenshot(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))

	resp, err := s.do(ctx, http.MethodPost, "/screenshot?"+q.Encode(), svg)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScreenshotSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("screenshot returned status %d: %s", resp.StatusCode, excerpt(body))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("screenshot returned an empty body")
	}
	return body, nil
}

func (s *httpSession) Close() error {
	s.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (s *httpSession) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, s.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "image/svg+xml")
	}
	req.Header.Set("Accept", "image/png")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	return s.client.Do(req)
}

// screenshotWithEngine rasterizes svg markup through engine. The session is
// closed before any error is returned, and the whole exchange is bounded by
// timeout.
func screenshotWithEngine(ctx context.Context, engine Engine, svg []byte, b Bounds, scale float64, timeout time.Duration) (out []byte, err error) {
	if timeout <= 0 {
		timeout = DefaultEngineTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	session, err := engine.Open(ctx)
	if err != nil {
		return nil, &ExternalResourceError{Op: "start", Err: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			out, err = nil, &ExternalResourceError{Op: "close", Err: cerr}
		}
	}()

	width := int(math.Ceil(b.Width * scale))
	height := int(math.Ceil(b.Height * scale))
	tflog.Debug(ctx, "Capturing screenshot from rendering engine", map[string]interface{}{
		"width":  width,
		"height": height,
	})

	png, err := session.Screenshot(ctx, svg, width, height)
	if err != nil {
		return nil, &ExternalResourceError{Op: "screenshot", Err: err}
	}
	return png, nil
}

func excerpt(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
