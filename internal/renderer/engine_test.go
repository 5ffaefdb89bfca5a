package renderer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

var fakePNG = []byte("\x89PNG\r\n\x1a\nfake")

// fakeEngine hands out sessions whose behavior is set by the test
type fakeEngine struct {
	openErr  error
	shotErr  error
	block    bool
	closed   int
	captured []byte
}

type fakeSession struct {
	engine *fakeEngine
}

func (e *fakeEngine) Open(ctx context.Context) (EngineSession, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	return &fakeSession{engine: e}, nil
}

func (s *fakeSession) Screenshot(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	s.engine.captured = svg
	if s.engine.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.engine.shotErr != nil {
		return nil, s.engine.shotErr
	}
	return fakePNG, nil
}

func (s *fakeSession) Close() error {
	s.engine.closed++
	return nil
}

func engineScene() *scene.Scene {
	return &scene.Scene{Elements: []scene.Element{rect(0, 0, 100, 50)}}
}

func TestRenderSceneWithEngine(t *testing.T) {
	engine := &fakeEngine{}
	data, err := RenderScene(context.Background(), engineScene(), RenderOptions{Format: FormatPNG, Engine: engine})
	if err != nil {
		t.Fatalf("RenderScene() error = %v", err)
	}

	if !bytes.Equal(data, fakePNG) {
		t.Errorf("RenderScene() = %q, want engine output", data)
	}
	if !bytes.HasPrefix(engine.captured, []byte("<?xml")) {
		t.Errorf("engine received %q, want SVG markup", engine.captured)
	}
	if engine.closed != 1 {
		t.Errorf("session closed %d times, want 1", engine.closed)
	}
}

func TestRenderSceneEngineFailures(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeEngine
		timeout    time.Duration
		op         string
		wantCause  error
		wantClosed int
	}{
		{
			name:       "start fails",
			engine:     &fakeEngine{openErr: errors.New("browser missing")},
			op:         "start",
			wantClosed: 0,
		},
		{
			name:       "screenshot fails",
			engine:     &fakeEngine{shotErr: errors.New("page crashed")},
			op:         "screenshot",
			wantClosed: 1,
		},
		{
			name:       "screenshot times out",
			engine:     &fakeEngine{block: true},
			timeout:    20 * time.Millisecond,
			op:         "screenshot",
			wantCause:  context.DeadlineExceeded,
			wantClosed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderScene(context.Background(), engineScene(), RenderOptions{
				Format:        FormatPNG,
				Engine:        tt.engine,
				EngineTimeout: tt.timeout,
			})

			var external *ExternalResourceError
			if !errors.As(err, &external) {
				t.Fatalf("RenderScene() error = %v, want ExternalResourceError", err)
			}
			if external.Op != tt.op {
				t.Errorf("Op = %q, want %q", external.Op, tt.op)
			}
			if tt.wantCause != nil && !errors.Is(err, tt.wantCause) {
				t.Errorf("error %v does not wrap %v", err, tt.wantCause)
			}
			if data != nil {
				t.Errorf("partial output returned: %q", data)
			}
			if tt.engine.closed != tt.wantClosed {
				t.Errorf("session closed %d times, want %d", tt.engine.closed, tt.wantClosed)
			}
			if Describe(err).Kind != FailureExternalResource {
				t.Errorf("Describe() kind = %q", Describe(err).Kind)
			}
		})
	}
}

func TestHTTPEngine(t *testing.T) {
	var gotAuth, gotQuery, gotType string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/screenshot":
			gotAuth = r.Header.Get("Authorization")
			gotType = r.Header.Get("Content-Type")
			gotQuery = r.URL.RawQuery
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "image/png")
			w.Write(fakePNG)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	engine := &HTTPEngine{URL: server.URL + "/", Token: "secret", Timeout: 5 * time.Second}
	data, err := RenderScene(context.Background(), engineScene(), RenderOptions{Format: FormatPNG, Scale: 2, Engine: engine})
	if err != nil {
		t.Fatalf("RenderScene() error = %v", err)
	}

	if !bytes.Equal(data, fakePNG) {
		t.Errorf("RenderScene() = %q", data)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotType != "image/svg+xml" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if gotQuery != "height=260&width=360" {
		t.Errorf("query = %q, want height=260&width=360", gotQuery)
	}
	if !bytes.Contains(gotBody, []byte(`width="360" height="260"`)) {
		t.Errorf("engine did not receive the scaled SVG: %s", gotBody)
	}
}

func TestHTTPEngineErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		op      string
	}{
		{
			name: "health check rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			op: "start",
		},
		{
			name: "screenshot rejected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/health" {
					return
				}
				http.Error(w, "bad markup", http.StatusBadRequest)
			},
			op: "screenshot",
		},
		{
			name: "empty screenshot",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			op: "screenshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			engine := &HTTPEngine{URL: server.URL, Timeout: 5 * time.Second}
			_, err := RenderScene(context.Background(), engineScene(), RenderOptions{Format: FormatPNG, Engine: engine})

			var external *ExternalResourceError
			if !errors.As(err, &external) {
				t.Fatalf("RenderScene() error = %v, want ExternalResourceError", err)
			}
			if external.Op != tt.op {
				t.Errorf("Op = %q, want %q", external.Op, tt.op)
			}
		})
	}
}

func TestHTTPEngineEmptyURL(t *testing.T) {
	_, err := RenderScene(context.Background(), engineScene(), RenderOptions{Format: FormatPNG, Engine: &HTTPEngine{}})

	var external *ExternalResourceError
	if !errors.As(err, &external) || external.Op != "start" {
		t.Fatalf("RenderScene() error = %v, want start ExternalResourceError", err)
	}
}
