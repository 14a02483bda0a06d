package encoding

import (
	"time"

	"github.com/synheart/synheart-hrv/internal/hrv"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtobufEncoder encodes data points as protobuf Struct frames. The
// schema-light Struct keeps consumers decoupled from a generated type
// while staying on the protobuf wire format.
type ProtobufEncoder struct{}

func NewProtobufEncoder() *ProtobufEncoder {
	return &ProtobufEncoder{}
}

func (e *ProtobufEncoder) Encode(point hrv.DataPoint) ([]byte, error) {
	frame, err := structpb.NewStruct(map[string]any{
		"id":          point.ID,
		"ts":          point.Timestamp.UTC().Format(time.RFC3339Nano),
		"rmssd_ms":    point.RMSSD,
		"mean_hr_bpm": point.MeanHR,
		"is_valid":    point.IsValid,
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(frame)
}

func (e *ProtobufEncoder) ContentType() string {
	return "application/x-protobuf"
}
