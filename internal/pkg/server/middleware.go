package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"go.uber.org/zap"

	"github.com/meddlesome/hoymiles-mea-tou/pkg/api"
	"github.com/meddlesome/hoymiles-mea-tou/pkg/hasher"
)

var errUnauthorized = errors.New("missing or invalid api key")

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func LoggingMiddleware(next http.Handler) http.Handler {
	logger := zap.L()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		logger.Info(r.RequestURI,
			zap.String("method", r.Method),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// validator checks each request against the OpenAPI document. Bearer keys for
// secured operations are verified by authenticate.
func (s *server) validator(swagger *openapi3.T) (api.MiddlewareFunc, error) {
	// match on path only, whatever host the API is served from.
	swagger.Servers = nil
	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("openapi router: %w", err)
	}
	options := &openapi3filter.Options{AuthenticationFunc: s.authenticate}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			var secErr *openapi3filter.SecurityRequirementsError
			switch {
			case errors.As(err, &secErr):
				handleError(w, http.StatusUnauthorized, errUnauthorized)
			case err != nil:
				handleError(w, http.StatusBadRequest, err)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}, nil
}

// authenticate accepts any request when no key hash is configured.
func (s *server) authenticate(_ context.Context, input *openapi3filter.AuthenticationInput) error {
	if s.keyHash == "" {
		return nil
	}
	key, ok := strings.CutPrefix(input.RequestValidationInput.Request.Header.Get("Authorization"), "Bearer ")
	if !ok || !hasher.KeyCorrect(key, s.keyHash) {
		return errUnauthorized
	}
	return nil
}
