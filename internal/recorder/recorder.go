package recorder

import "StockReturns/internal/model"

// Batch run sources.
const (
	SourceRequest = "REQUEST"
	SourceWarmup  = "WARMUP"
)

// BatchRun holds one computed batch result for the journal.
type BatchRun struct {
	ID     string // assigned by the recorder when empty
	Start  string
	End    string
	Source string // SourceRequest or SourceWarmup
	Result *model.BatchResult
}

// Recorder journals freshly computed results for later analysis.
type Recorder interface {
	RecordTickerReturn(rec *model.ReturnRecord) error
	RecordBatch(run *BatchRun) error
	Close() error
}
