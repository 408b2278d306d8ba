package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/rzbill/dispatchq/internal/audit"
	"github.com/rzbill/dispatchq/internal/runtime"
	"github.com/rzbill/dispatchq/pkg/id"
	"github.com/rzbill/dispatchq/pkg/log"
	"github.com/rzbill/dispatchq/pkg/mqproc"
)

// Server is a minimal REST gateway over a runtime.Runtime: namespace
// creation, publish, SSE subscribe, health, and stats. There is no request
// framework here — the teacher hand-rolls its HTTP layer on stdlib
// net/http too, so this does the same.
type Server struct {
	rt     *runtime.Runtime
	logger log.Logger
	srv    *http.Server
	lis    net.Listener
	subGen *id.Generator
}

// New builds a Server over rt, logging through logger.
func New(rt *runtime.Runtime, logger log.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{rt: rt, logger: logger, subGen: id.NewGenerator(), srv: &http.Server{Handler: cors(mux)}}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/stats", s.handleStats)
	mux.HandleFunc("/v1/ns/create", s.handleNSCreate)
	mux.HandleFunc("/v1/publish", s.handlePublish)
	mux.HandleFunc("/v1/subscribe", s.handleSubscribeSSE)
	mux.HandleFunc("/v1/audit", s.handleAudit)
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Close closes the underlying listener without a graceful shutdown.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_serving"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type namespaceStat struct {
	Name        string `json:"name"`
	CreatedAtMs int64  `json:"createdAtMs"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	names := s.rt.Namespaces()
	stats := make([]namespaceStat, 0, len(names))
	for _, name := range names {
		stats = append(stats, namespaceStat{Name: name})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"namespaces": stats})
}

type nsCreateReq struct {
	Namespace string `json:"namespace"`
}

func (s *Server) handleNSCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req nsCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Namespace == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.rt.EnsureNamespace(req.Namespace)
	s.namespaceLogger(req.Namespace).Info("namespace created")
	w.WriteHeader(http.StatusCreated)
}

// namespaceLogger scopes s.logger to a single namespace via the context
// keys log.ContextExtractor understands, so every log line the handler
// emits for this request already carries "namespace" without a WithField
// call at every site.
func (s *Server) namespaceLogger(namespace string) log.Logger {
	ctx := context.WithValue(context.Background(), log.NamespaceKey, namespace)
	return s.logger.WithContext(ctx)
}

type publishReq struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Payload   []byte `json:"payload"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req publishReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Namespace == "" || req.Key == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	proc := s.rt.EnsureNamespace(req.Namespace)
	proc.Enqueue(req.Key, req.Payload)
	s.namespaceLogger(req.Namespace).With(log.Str(log.DispatchKeyKey, req.Key)).Debug("published")
	w.WriteHeader(http.StatusAccepted)
}

// handleSubscribeSSE streams every value delivered to (namespace, key) as a
// server-sent event until the client disconnects. An optional "filter"
// query parameter is a CEL expression evaluated against each value before
// it is forwarded; non-matching values are silently skipped, same as
// mqproc.FilteredConsumer. Up to 16 values are buffered for a slow client;
// a value that arrives while the buffer is full is dropped.
func (s *Server) handleSubscribeSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ns := r.URL.Query().Get("namespace")
	key := r.URL.Query().Get("key")
	if ns == "" {
		ns = s.rt.Config().DefaultNamespaceName
	}
	if key == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var consumer mqproc.Consumer[string, []byte]
	values := make(chan []byte, 16)
	base := mqproc.NewConsumerFunc(func(_ string, value []byte) {
		select {
		case values <- value:
		default:
		}
	})
	consumer = base

	if expr := r.URL.Query().Get("filter"); expr != "" {
		filter, err := mqproc.NewCELFilter(expr)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		consumer = &mqproc.FilteredConsumer{Filter: filter, Consumer: base}
	}

	// A consumer handle identifies this SSE connection across log lines and
	// audit records; pkg/id's sortable IDs are minted for it the same way
	// they are for audit records, just from this Server's own Generator
	// instead of the audit trail's.
	handle := s.subGen.Next()
	subLogger := s.namespaceLogger(ns).With(log.Str(log.DispatchKeyKey, key), log.Str(log.ConsumerKey, handle.String()))
	subLogger.Info("subscribe started")
	defer subLogger.Info("subscribe ended")

	proc := s.rt.EnsureNamespace(ns)
	proc.Subscribe(key, consumer)
	defer proc.Unsubscribe(key, consumer)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Consumer-Id", handle.String())
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case v := <-values:
			_ = json.NewEncoder(w).Encode(map[string]any{"key": key, "payload": v})
			w.Write([]byte("\n\n"))
			if flusher != nil {
				flusher.Flush()
			}
			if s.rt.AuditTrail() != nil {
				_ = s.rt.RecordDelivery(audit.Entry{
					Namespace:     ns,
					Key:           key,
					Consumer:      handle.String(),
					DeliveredAtMs: time.Now().UnixMilli(),
				})
			}
		}
	}
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	trail := s.rt.AuditTrail()
	if trail == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "audit trail not configured"})
		return
	}
	entries, err := trail.Scan()
	if err != nil {
		s.logger.WithError(err).Error("audit scan failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"entries": entries})
}
