package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/dispatchq/internal/config"
	"github.com/rzbill/dispatchq/internal/runtime"
	logpkg "github.com/rzbill/dispatchq/pkg/log"
)

// flushWriter is a minimal http.ResponseWriter that streams writes
// straight to an io.Writer and treats Flush as a no-op marker, so a
// handler using SSE-style incremental writes can be driven against a pipe
// instead of buffering everything in an httptest.ResponseRecorder.
type flushWriter struct {
	header http.Header
	w      io.Writer
}

func (f *flushWriter) Header() http.Header        { return f.header }
func (f *flushWriter) Write(b []byte) (int, error) { return f.w.Write(b) }
func (f *flushWriter) WriteHeader(statusCode int)  {}
func (f *flushWriter) Flush()                      {}

func newTestServer(t *testing.T) (*Server, *runtime.Runtime) {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	logger := logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	return New(rt, logger), rt
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestNSCreateAndStats(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"namespace":"orders"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/ns/create", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	w = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status: %d", w.Code)
	}
	var out struct {
		Namespaces []struct {
			Name string `json:"name"`
		} `json:"namespaces"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Namespaces) != 1 || out.Namespaces[0].Name != "orders" {
		t.Fatalf("unexpected stats: %+v", out)
	}
}

func TestPublishWithoutSubscriberIsAccepted(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"namespace":"orders","key":"order-1","payload":"aGVsbG8="}`
	req := httptest.NewRequest(http.MethodPost, "/v1/publish", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestSubscribeSSEDeliversPublishedValue(t *testing.T) {
	s, rt := newTestServer(t)
	_ = rt.EnsureNamespace("orders")

	req := httptest.NewRequest(http.MethodGet, "/v1/subscribe?namespace=orders&key=order-1", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()
	req = req.WithContext(ctx)

	pr, pw := io.Pipe()
	rec := &flushWriter{header: make(http.Header), w: pw}

	done := make(chan struct{})
	go func() {
		s.srv.Handler.ServeHTTP(rec, req)
		pw.Close()
		close(done)
	}()

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)
	proc := rt.EnsureNamespace("orders")
	proc.Enqueue("order-1", []byte("hello"))

	scanner := bufio.NewScanner(pr)
	if !scanner.Scan() {
		t.Fatalf("expected an SSE line, scan err: %v", scanner.Err())
	}
	var got map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if got["key"] != "order-1" {
		t.Fatalf("unexpected event: %+v", got)
	}

	cancel()
	<-done
}

func TestAuditEndpointWithoutTrailReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/audit", nil)
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: %d", w.Code)
	}
}
