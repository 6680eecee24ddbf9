package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/guregu/null/v6"
)

// DateLayout is the wire format of every date in requests and responses.
const DateLayout = "2006-01-02"

// DefaultSymbols is the batch basket, in response order.
var DefaultSymbols = []string{"MSFT", "AAPL", "GOOGL", "AMZN", "NVDA", "META", "TSLA"}

// ReturnRecord is the outcome of a single-ticker, single-day lookup.
// Either Return (with both prices) or Error is set, never both.
type ReturnRecord struct {
	Symbol        string      `json:"ticker"`
	Date          string      `json:"date"`
	Return        null.Float  `json:"return"`
	Price         null.Float  `json:"price,omitzero"`
	PreviousPrice null.Float  `json:"previous_price,omitzero"`
	Error         null.String `json:"error,omitzero"`
}

// NewReturnRecord creates a successful record.
func NewReturnRecord(symbol, date string, ret, price, previousPrice float64) *ReturnRecord {
	return &ReturnRecord{
		Symbol:        strings.ToUpper(symbol),
		Date:          date,
		Return:        null.FloatFrom(ret),
		Price:         null.FloatFrom(price),
		PreviousPrice: null.FloatFrom(previousPrice),
	}
}

// NewErrorRecord creates a record carrying only a failure reason.
func NewErrorRecord(symbol, date, reason string) *ReturnRecord {
	return &ReturnRecord{
		Symbol: strings.ToUpper(symbol),
		Date:   date,
		Error:  null.StringFrom(reason),
	}
}

// Failed reports whether the record holds an error instead of a return.
func (r *ReturnRecord) Failed() bool {
	return r.Error.Valid
}

// ReturnPoint is one day-over-day return inside a batch result.
type ReturnPoint struct {
	Date   string  `json:"date"`
	Return float64 `json:"return"`
}

// Summary holds min/max/mean of a symbol's returns.
// The zero value is the "no returns" sentinel; check the point list, not the numbers.
type Summary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// BatchResult holds per-symbol returns and statistics for a date range.
type BatchResult struct {
	Symbols []string
	Data    map[string][]ReturnPoint
	Summary map[string]Summary
}

// NewBatchResult creates an empty result for the given basket.
func NewBatchResult(symbols []string) *BatchResult {
	return &BatchResult{
		Symbols: append([]string(nil), symbols...),
		Data:    make(map[string][]ReturnPoint, len(symbols)),
		Summary: make(map[string]Summary, len(symbols)),
	}
}

// Put stores a symbol's points and summary. A nil slice is stored as empty.
func (b *BatchResult) Put(symbol string, points []ReturnPoint, summary Summary) {
	if points == nil {
		points = []ReturnPoint{}
	}
	b.Data[symbol] = points
	b.Summary[symbol] = summary
}

// MarshalJSON writes "data" and "summary" with keys in basket order.
func (b *BatchResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"data":{`)
	for i, sym := range b.Symbols {
		if i > 0 {
			buf.WriteByte(',')
		}
		points := b.Data[sym]
		if points == nil {
			points = []ReturnPoint{}
		}
		if err := writeMember(&buf, sym, points); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`},"summary":{`)
	for i, sym := range b.Symbols {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, sym, b.Summary[sym]); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}
