package receiver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/synheart/synheart-hrv/internal/hrv"
	"github.com/synheart/synheart-hrv/internal/models"
)

// AnalyzedUpload pairs an upload with its computed metrics.
type AnalyzedUpload struct {
	Upload  models.Upload `json:"upload"`
	Metrics hrv.Metrics   `json:"metrics"`

	// EstimatedRMSSDMS is the fixed-ratio estimate for SDNN-only uploads.
	EstimatedRMSSDMS *float64 `json:"estimated_rmssd_ms,omitempty"`
}

// Writer defines the interface for analysis output writers
type Writer interface {
	Write(result *AnalyzedUpload) error
	Close() error
}

// StdoutWriter writes analysis results to stdout
type StdoutWriter struct {
	out    io.Writer
	format string // "json" or "ndjson"
	mu     sync.Mutex
}

// NewStdoutWriter creates a new stdout writer
func NewStdoutWriter(out io.Writer, format string) *StdoutWriter {
	return &StdoutWriter{
		out:    out,
		format: format,
	}
}

// Write writes a result to stdout
func (w *StdoutWriter) Write(result *AnalyzedUpload) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var data []byte
	var err error

	if w.format == "ndjson" {
		data, err = json.Marshal(result)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	data = append(data, '\n')

	_, err = w.out.Write(data)
	return err
}

// Close is a no-op for stdout writer
func (w *StdoutWriter) Close() error {
	return nil
}

// FileWriter writes analysis results to individual files in a directory
type FileWriter struct {
	dir    string
	format string
	mu     sync.Mutex
}

// NewFileWriter creates a new file writer
func NewFileWriter(dir string, format string) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &FileWriter{
		dir:    dir,
		format: format,
	}, nil
}

// Write writes a result to a file named after its upload ID
func (w *FileWriter) Write(result *AnalyzedUpload) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	filename := fmt.Sprintf("hrv_analysis_%s.json", result.Upload.UploadID)
	path := filepath.Join(w.dir, filename)

	var data []byte
	var err error

	if w.format == "ndjson" {
		data, err = json.Marshal(result)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Close is a no-op for file writer
func (w *FileWriter) Close() error {
	return nil
}

// MultiWriter writes to multiple destinations
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a writer that writes to multiple destinations
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes to all underlying writers
func (w *MultiWriter) Write(result *AnalyzedUpload) error {
	for _, writer := range w.writers {
		if err := writer.Write(result); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all underlying writers
func (w *MultiWriter) Close() error {
	for _, writer := range w.writers {
		if err := writer.Close(); err != nil {
			return err
		}
	}
	return nil
}
