package receiver

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/synheart/synheart-hrv/internal/hrv"
	"github.com/synheart/synheart-hrv/internal/models"
)

// Config holds the receiver server configuration
type Config struct {
	Host       string
	Port       int
	Token      string
	OutDir     string
	Format     string // "json" or "ndjson"
	AcceptGzip bool
}

// Server accepts R-R interval uploads over HTTP, analyzes them, and
// hands the results to a Writer.
type Server struct {
	config     Config
	engine     *hrv.Engine
	writer     Writer
	idempotent *IdempotencyStore
	server     *http.Server
	mu         sync.RWMutex
	stats      Stats
}

// Stats holds server statistics
type Stats struct {
	TotalReceived   int
	TotalDuplicates int
	TotalErrors     int
}

// NewServer creates a new receiver server
func NewServer(config Config, writer Writer) *Server {
	return &Server{
		config:     config,
		engine:     hrv.NewEngine(),
		writer:     writer,
		idempotent: NewIdempotencyStore(),
	}
}

// Start starts the receiver server
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/hrv/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// GetAddress returns the server address
func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// GetStats returns current server statistics
func (s *Server) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service":  "synheart-hrv-receiver",
		"version":  "1.0.0",
		"endpoint": "/v1/hrv/analyze",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.validateAuth(r) {
		s.recordError()
		s.writeError(w, http.StatusUnauthorized, "invalid or missing authorization token")
		return
	}

	if err := s.validateHeaders(r); err != nil {
		s.recordError()
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = r.Header.Get("X-Synheart-Upload-Id")
	}

	isDuplicate := s.idempotent.Exists(idempotencyKey)

	body, err := s.readBody(r)
	if err != nil {
		s.recordError()
		s.writeError(w, http.StatusBadRequest, "failed to read request body: "+err.Error())
		return
	}

	var upload models.Upload
	if err := json.Unmarshal(body, &upload); err != nil {
		s.recordError()
		s.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := upload.Validate(); err != nil {
		s.recordError()
		s.writeError(w, http.StatusBadRequest, "schema validation failed: "+err.Error())
		return
	}

	result := s.analyze(&upload)

	s.idempotent.Mark(idempotencyKey)

	if err := s.writer.Write(result); err != nil {
		s.recordError()
		s.writeError(w, http.StatusInternalServerError, "failed to write result: "+err.Error())
		return
	}

	s.mu.Lock()
	s.stats.TotalReceived++
	if isDuplicate {
		s.stats.TotalDuplicates++
	}
	s.mu.Unlock()

	receipt := models.NewAnalysisReceipt(&upload, isDuplicate)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"receipt": receipt,
		"metrics": result.Metrics,
	})
}

// analyze runs the HRV engine over the uploaded intervals. Uploads that
// carry only a vendor SDNN get the fixed-ratio RMSSD estimate instead.
func (s *Server) analyze(upload *models.Upload) *AnalyzedUpload {
	result := &AnalyzedUpload{Upload: *upload}

	windowSeconds := upload.WindowSeconds
	if windowSeconds == 0 && len(upload.IntervalsMS) > 0 {
		for _, rr := range upload.IntervalsMS {
			windowSeconds += rr / 1000.0
		}
	}

	if len(upload.IntervalsMS) > 0 {
		result.Metrics = s.engine.Calculate(upload.IntervalsMS, windowSeconds)
	}

	if upload.SDNNOnlyMS != nil {
		estimate := hrv.EstimateRMSSDFromSDNN(*upload.SDNNOnlyMS)
		result.EstimatedRMSSDMS = &estimate
	}

	return result
}

func (s *Server) recordError() {
	s.mu.Lock()
	s.stats.TotalErrors++
	s.mu.Unlock()
}

func (s *Server) validateAuth(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return false
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return false
	}

	return parts[1] == s.config.Token
}

func (s *Server) validateHeaders(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return fmt.Errorf("Content-Type must be application/json")
	}

	schema := r.Header.Get("X-Synheart-Schema")
	if schema != "" && schema != models.UploadSchema {
		return fmt.Errorf("unsupported schema version: %s", schema)
	}

	uploadID := r.Header.Get("X-Synheart-Upload-Id")
	if uploadID == "" {
		return fmt.Errorf("X-Synheart-Upload-Id header is required")
	}

	return nil
}

func (s *Server) readBody(r *http.Request) ([]byte, error) {
	var reader io.Reader = r.Body

	if s.config.AcceptGzip && r.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	// Limit body size to 10MB
	limitReader := io.LimitReader(reader, 10*1024*1024)
	return io.ReadAll(limitReader)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// IdempotencyStore tracks processed upload IDs
type IdempotencyStore struct {
	seen map[string]time.Time
	mu   sync.RWMutex
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		seen: make(map[string]time.Time),
	}
}

// Exists checks if an ID has been processed
func (s *IdempotencyStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[id]
	return exists
}

// Mark records an ID as processed
func (s *IdempotencyStore) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = time.Now()
}
