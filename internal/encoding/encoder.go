package encoding

import (
	"encoding/json"

	"github.com/synheart/synheart-hrv/internal/hrv"
)

// Format represents a wire encoding format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatProtobuf Format = "protobuf"
)

// Encoder encodes HRV data points to bytes for broadcast.
type Encoder interface {
	Encode(point hrv.DataPoint) ([]byte, error)
	ContentType() string
}

// JSONEncoder encodes data points as JSON.
type JSONEncoder struct{}

func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

func (e *JSONEncoder) Encode(point hrv.DataPoint) ([]byte, error) {
	return json.Marshal(point)
}

func (e *JSONEncoder) ContentType() string {
	return "application/json"
}

// NewEncoder creates an encoder for the given format.
func NewEncoder(format Format) Encoder {
	switch format {
	case FormatProtobuf:
		return NewProtobufEncoder()
	default:
		return NewJSONEncoder()
	}
}
