package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/tou"
	"github.com/meddlesome/hoymiles-mea-tou/pkg/api"
)

var _ api.ServerInterface = (*server)(nil)

var (
	errRangeOrder       = errors.New("from must not be after to")
	errNoStore          = errors.New("no aggregate store configured")
	errNotFound         = errors.New("not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

type aggregateStore interface {
	GetAggregates(ctx context.Context, from, to civil.Date) (model.DayAggregates, error)
}

// PublishFunc hands a computed aggregate to the configured sinks.
type PublishFunc func(ctx context.Context, agg model.DayAggregate) error

type server struct {
	engine  *tou.Engine
	store   aggregateStore
	publish PublishFunc
	stream  http.Handler
	keyHash string
	logger  *zap.Logger
}

// New returns the HTTP API. store and publish are optional.
func New(engine *tou.Engine, store aggregateStore, publish PublishFunc) *server {
	return &server{engine: engine, store: store, publish: publish, logger: zap.L()}
}

// WithStream serves live aggregates on /v1/stream.
func (s *server) WithStream(stream http.Handler) *server {
	s.stream = stream
	return s
}

// WithAPIKeyHash requires a bearer key matching the bcrypt hash on writes.
func (s *server) WithAPIKeyHash(hash string) *server {
	s.keyHash = hash
	return s
}

// Handler routes the OpenAPI operations behind request validation, plus the
// websocket stream when one is configured. middlewares wrap every route.
func (s *server) Handler(middlewares ...api.MiddlewareFunc) (http.Handler, error) {
	swagger, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	validate, err := s.validator(swagger)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handleError(w, http.StatusNotFound, errNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handleError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})
	if s.stream != nil {
		stream := s.stream
		for _, mw := range middlewares {
			stream = mw(stream)
		}
		r.Handle("/v1/stream", stream).Methods(http.MethodGet)
	}

	return api.HandlerWithOptions(s, api.GorillaServerOptions{
		BaseRouter:  r,
		Middlewares: append([]api.MiddlewareFunc{validate}, middlewares...),
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			handleError(w, http.StatusBadRequest, err)
		},
	}), nil
}

func (s *server) PostAggregate(w http.ResponseWriter, r *http.Request) {
	req, err := unmarshalPayload[api.PostAggregateJSONRequestBody](r)
	if err != nil {
		handleError(w, http.StatusBadRequest, err)
		return
	}

	agg, err := s.engine.Compute(req.Date, req.Readings)
	if err != nil {
		handleError(w, statusOf(err), err)
		return
	}
	if req.Publish && s.publish != nil {
		if err := s.publish(r.Context(), agg); err != nil {
			s.logger.Error("failed to publish aggregate", zap.Error(err), zap.String("date", agg.Date))
			handleError(w, http.StatusBadGateway, err)
			return
		}
	}
	s.logger.Info("aggregated day", zap.String("date", agg.Date), zap.Bool("tou_date", agg.TouDate), zap.Int("readings", len(req.Readings)))
	writeJSON(w, http.StatusOK, agg)
}

func (s *server) GetDay(w http.ResponseWriter, _ *http.Request, date string) {
	d, err := tou.ParseDate(date)
	if err != nil {
		handleError(w, http.StatusBadRequest, err)
		return
	}
	cal := s.engine.Calendar()
	dayType := cal.ClassifyDay(d)
	holiday, _ := cal.Holidays().Name(d)
	writeJSON(w, http.StatusOK, api.DayResponse{
		Date:    d.String(),
		TouDate: dayType == tou.AllOffPeak,
		DayType: api.DayResponseDayType(dayType.String()),
		Weekend: cal.IsWeekend(d),
		Holiday: holiday,
		OnPeak:  cal.OnPeak().String(),
	})
}

func (s *server) GetAggregates(w http.ResponseWriter, r *http.Request, params api.GetAggregatesParams) {
	if s.store == nil {
		handleError(w, http.StatusNotFound, errNoStore)
		return
	}
	from, err := tou.ParseDate(params.From)
	if err != nil {
		handleError(w, http.StatusBadRequest, err)
		return
	}
	to, err := tou.ParseDate(params.To)
	if err != nil {
		handleError(w, http.StatusBadRequest, err)
		return
	}
	if from.After(to) {
		handleError(w, http.StatusBadRequest, errRangeOrder)
		return
	}

	aggs, err := s.store.GetAggregates(r.Context(), from, to)
	if err != nil {
		s.logger.Error("failed to read aggregates", zap.Error(err))
		handleError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, aggs)
}

func statusOf(err error) int {
	if tou.ErrInvalidDate.Has(err) || tou.ErrInvalidReading.Has(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func handleError(w http.ResponseWriter, status int, err error) {
	resp := api.ErrorResponse{Error: err.Error()}
	var readingErr *tou.ReadingError
	if errors.As(err, &readingErr) {
		resp.Index = &readingErr.Index
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("failed to write response", zap.Error(err))
	}
}

func unmarshalPayload[T any](r *http.Request) (*T, error) {
	var out T
	if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &out, nil
}
