package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"StockReturns/internal/model"
)

// Validation messages returned in the detail field.
const (
	msgInvalidDate    = "Invalid date format. Use YYYY-MM-DD"
	msgStartAfterEnd  = "Start date must be before end date"
	msgEndInFuture    = "End date cannot be in the future"
	msgDateInFuture   = "Date cannot be in the future"
	msgFetchErrPrefix = "Error fetching stock data: "
)

// Querier answers the two query shapes.
type Querier interface {
	TickerReturn(ctx context.Context, symbol string, date time.Time) (*model.ReturnRecord, error)
	Returns(ctx context.Context, start, end time.Time) (*model.BatchResult, error)
}

// Handler serves the HTTP endpoints.
type Handler struct {
	Service Querier
	Logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(svc Querier, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, Logger: logger, now: time.Now}
}

type detail struct {
	Detail string `json:"detail"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Returns serves GET /returns?start=&end=.
func (h *Handler) Returns(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "Returns"))
	q := r.URL.Query()

	rawStart, ok := required(w, q, "start")
	if !ok {
		return
	}
	rawEnd, ok := required(w, q, "end")
	if !ok {
		return
	}
	start, err1 := time.Parse(model.DateLayout, rawStart)
	end, err2 := time.Parse(model.DateLayout, rawEnd)
	if err1 != nil || err2 != nil {
		writeDetail(w, http.StatusBadRequest, msgInvalidDate)
		return
	}
	if !start.Before(end) {
		writeDetail(w, http.StatusBadRequest, msgStartAfterEnd)
		return
	}
	if end.After(h.today()) {
		writeDetail(w, http.StatusBadRequest, msgEndInFuture)
		return
	}

	res, err := h.Service.Returns(r.Context(), start, end)
	if err != nil {
		logger.Error(fmt.Errorf("compute returns: %w", err).Error())
		writeDetail(w, http.StatusInternalServerError, msgFetchErrPrefix+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// TickerReturn serves GET /ticker-return?ticker=&date=.
func (h *Handler) TickerReturn(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "TickerReturn"))
	q := r.URL.Query()

	// present but empty is allowed and reported in the record
	ticker, ok := required(w, q, "ticker")
	if !ok {
		return
	}
	rawDate, ok := required(w, q, "date")
	if !ok {
		return
	}
	date, err := time.Parse(model.DateLayout, rawDate)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, msgInvalidDate)
		return
	}
	if date.After(h.today()) {
		writeDetail(w, http.StatusBadRequest, msgDateInFuture)
		return
	}

	rec, err := h.Service.TickerReturn(r.Context(), ticker, date)
	if err != nil {
		logger.Error(fmt.Errorf("ticker return: %w", err).Error(), zap.String("ticker", ticker))
		writeDetail(w, http.StatusInternalServerError, msgFetchErrPrefix+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// today is the current calendar date at UTC midnight, comparable with parsed query dates.
func (h *Handler) today() time.Time {
	y, m, d := h.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func required(w http.ResponseWriter, q url.Values, name string) (string, bool) {
	if _, ok := q[name]; !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "Missing required query parameter: "+name)
		return "", false
	}
	return q.Get(name), true
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
