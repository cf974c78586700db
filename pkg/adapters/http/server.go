package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/ports"
)

const (
	// DefaultMaxBodySize caps uploaded protocols. Real protocols stay well
	// below 5 MiB.
	DefaultMaxBodySize = 16 << 20

	defaultLockTTL = 30 * time.Second
)

// Server exposes a ProtocolParser and a ProtocolStore over HTTP.
type Server struct {
	Parser  ports.ProtocolParser
	Store   ports.ProtocolStore
	Locker  ports.DistributedLocker
	Streams *StreamManager

	logger      *slog.Logger
	metrics     http.Handler
	lockTTL     time.Duration
	maxBodySize int64
	now         func() time.Time
}

type Option func(*Server)

// WithLocker serializes uploads per document id.
func WithLocker(l ports.DistributedLocker) Option {
	return func(s *Server) {
		s.Locker = l
	}
}

// WithLockTTL sets how long an upload may hold its lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.lockTTL = ttl
	}
}

// WithStreams publishes parse events on GET /events. The same manager's
// Hooks must be attached to the parser.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// documentResponse is a stored document plus the sections that degraded
// while parsing it.
type documentResponse struct {
	domain.Document
	Degraded []string `json:"degraded,omitempty"`
}

// NewHandler creates the HTTP handler.
func NewHandler(parser ports.ProtocolParser, store ports.ProtocolStore, opts ...Option) http.Handler {
	s := &Server{
		Parser:      parser,
		Store:       store,
		logger:      slog.Default(),
		lockTTL:     defaultLockTTL,
		maxBodySize: DefaultMaxBodySize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/protocols", func(r chi.Router) {
		r.Post("/", s.ParseProtocol)
		r.Get("/", s.ListProtocols)
		r.Get("/{id}", s.GetProtocol)
		r.Delete("/{id}", s.DeleteProtocol)
	})
	r.Get("/events", s.SubscribeEvents)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Plenum API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ParseProtocol handles POST /protocols. The body is the raw protocol text.
func (s *Server) ParseProtocol(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodySize)
	defer body.Close()

	record, err := s.Parser.Parse(r.Context(), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			http.Error(w, "Protocol too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, plenum.ErrInvalidEncoding):
			http.Error(w, fmt.Sprintf("Invalid protocol: %v", err), http.StatusBadRequest)
		default:
			http.Error(w, fmt.Sprintf("Parse error: %v", err), http.StatusUnprocessableEntity)
		}
		s.logger.Warn("ParseProtocol: parse failed", "error", err)
		return
	}

	q := r.URL.Query()
	fallback := q.Get("id")
	if fallback == "" {
		fallback = fmt.Sprintf("upload-%d", s.now().UnixNano())
	}
	id := domain.DocumentID(record, fallback)
	doc, err := domain.NewDocument(id, q.Get("source"), record, s.now())
	if err != nil {
		http.Error(w, fmt.Sprintf("Snapshot error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ParseProtocol: snapshot failed", "id", id, "error", err)
		return
	}

	if s.Locker != nil {
		unlock, err := s.Locker.Lock(r.Context(), id, s.lockTTL)
		if err != nil {
			http.Error(w, fmt.Sprintf("Lock error: %v", err), http.StatusServiceUnavailable)
			s.logger.Error("ParseProtocol: lock failed", "id", id, "error", err)
			return
		}
		defer func() {
			if err := unlock(r.Context()); err != nil {
				s.logger.Warn("ParseProtocol: unlock failed", "id", id, "error", err)
			}
		}()
	}

	if err := s.Store.Save(r.Context(), doc); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ParseProtocol: save failed", "id", id, "error", err)
		return
	}

	degraded := record.Degraded()
	s.logger.Info("protocol stored", "id", id, "sections", len(record.Sections()), "degraded", len(degraded))
	w.Header().Set("Location", "/protocols/"+id)
	writeJSON(w, s.logger, http.StatusCreated, documentResponse{Document: doc, Degraded: degraded})
}

// ListProtocols handles GET /protocols.
func (s *Server) ListProtocols(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListProtocols failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, map[string][]string{"ids": ids})
}

// GetProtocol handles GET /protocols/{id}.
func (s *Server) GetProtocol(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Protocol not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetProtocol failed", "id", id, "error", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, documentResponse{Document: doc})
}

// DeleteProtocol handles DELETE /protocols/{id}.
func (s *Server) DeleteProtocol(w http.ResponseWriter, r *http.Request) {
	deleter, ok := s.Store.(ports.ProtocolDeleter)
	if !ok {
		http.Error(w, "Store does not support deletion", http.StatusMethodNotAllowed)
		return
	}
	id := chi.URLParam(r, "id")
	if err := deleter.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Store error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteProtocol failed", "id", id, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":         "plenum-http",
		"version":     strings.TrimSpace(plenum.Version),
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /events (SSE). ?section=AGENDA narrows the
// stream to one section.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	topic := r.URL.Query().Get("section")
	if topic == "" {
		topic = allSections
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(topic)
	defer cancel()
	s.logger.Info("SSE: client subscribed", "topic", topic)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "topic", topic)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: section\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
