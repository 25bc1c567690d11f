package recorder

import "IndexSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ Trigger, _ *model.Report, _ *model.Assessment) (string, error) {
	return "", nil
}
func (n *NoopRecorder) RecentRuns(_ string, _ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                     { return nil }
