package devapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewServer builds the full dev backend handler: the JSON API under /api and
// the push hubs under /hubs. A nil hub server leaves the hub routes out.
func NewServer(store *Store, hubs *HubServer) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(bearerAuth(store))

	cfg := huma.DefaultConfig("QuoteDesk Dev API", "1.0.0")
	api := humachi.New(router, cfg)

	registerAuthHandlers(api, store)
	registerCompanyHandlers(api, store)
	registerStockHandlers(api, store)
	registerUserHandlers(api, store)

	if hubs != nil {
		router.Get("/hubs/{hub}", hubs.Handle)
	}
	return router
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// openEndpoints can be reached without a token.
var openEndpoints = map[string]struct{}{
	"/api/Auth/Login":    {},
	"/api/Auth/Register": {},
}

// bearerAuth rejects unauthenticated /api requests. Hub routes authenticate
// during their own handshake; docs and schema routes stay open.
func bearerAuth(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}
			if _, open := openEndpoints[r.URL.Path]; open {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := store.UserForToken(bearerToken(r)); !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return token
	}
	return r.URL.Query().Get("access_token")
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case CodeValidation:
			return huma.Error400BadRequest(coded.Message)
		case CodeNotFound:
			return huma.Error404NotFound(coded.Message)
		case CodeConflict:
			return huma.Error409Conflict(coded.Message)
		case CodeUnauthorized:
			return huma.Error401Unauthorized(coded.Message)
		}
	}
	return huma.Error500InternalServerError(err.Error())
}
