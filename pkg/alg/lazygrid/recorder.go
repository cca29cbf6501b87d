package lazygrid

import (
	"log/slog"
	"time"
)

// Recorder receives telemetry from tree operations. Implementations must
// be cheap: RecordOp fires once per public call and RecordPush once per
// materializing push during descent. The op label is one of the Op*
// constants and status is StatusOK or StatusError.
type Recorder interface {
	RecordOp(op, status string, elapsed time.Duration)
	RecordPush(children int)
}

// nopRecorder is the default Recorder; it discards everything.
type nopRecorder struct{}

func (nopRecorder) RecordOp(string, string, time.Duration) {}

func (nopRecorder) RecordPush(int) {}

// Option configures a Tree at construction.
type Option func(*Tree)

// WithRecorder attaches a telemetry recorder. A nil recorder is ignored.
func WithRecorder(rec Recorder) Option {
	return func(t *Tree) {
		if rec != nil {
			t.rec = rec
		}
	}
}

// WithLogger attaches a logger; construction emits a Debug summary of the
// built tree. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}
