package graph

import "time"

// Recorder receives operation measurements. backend/pkg/metrics provides
// the Prometheus implementation.
type Recorder interface {
	ObserveIngest(mode Mode, result *IngestResult, err error, elapsed time.Duration)
	ObserveQuery(operation string, err error, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveIngest(Mode, *IngestResult, error, time.Duration) {}
func (nopRecorder) ObserveQuery(string, error, time.Duration)               {}
