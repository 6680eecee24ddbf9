package recorder

import "StockReturns/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTickerReturn(_ *model.ReturnRecord) error { return nil }
func (n *NoopRecorder) RecordBatch(_ *BatchRun) error                  { return nil }
func (n *NoopRecorder) Close() error                                   { return nil }
