package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/pkg/e"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-Id"

type ctxKey int

const (
	ctxKeyTraceID ctxKey = iota
	ctxKeySubject
)

func TraceIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyTraceID).(string)
	return v
}

// SubjectFromContext возвращает subject проверенного токена.
func SubjectFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeySubject).(string)
	return v
}

// HTTPObserver учитывает завершённые запросы (см. metrics.Collector).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// Tracing присваивает запросу trace id, отдаёт его в заголовке X-Trace-Id
// и логирует начало и завершение запроса.
func Tracing(log logger.Logger, observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			traceID := uuid.NewString()
			w.Header().Set(TraceIDHeader, traceID)

			log.Infof("Incoming request. trace_id: %s, method: %s, path: %s, remote: %s", traceID, r.Method, r.URL.Path, r.RemoteAddr)

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), ctxKeyTraceID, traceID)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			if observer != nil {
				observer.ObserveHTTP(r.Method, routePattern(r), status, elapsed)
			}

			log.Infof("Request completed. trace_id: %s, status: %d, duration: %s", traceID, status, elapsed)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return "unmatched"
}

// Authenticate пропускает запрос только с bearer-токеном, подписанным secret (HS256/384/512).
// Subject токена кладётся в контекст как идентификатор действующего пользователя.
func Authenticate(secret []byte, log logger.Logger) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{
			jwt.SigningMethodHS256.Alg(),
			jwt.SigningMethodHS384.Alg(),
			jwt.SigningMethodHS512.Alg(),
		}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeErrorLogged(w, r, log, e.ErrMissingToken)
				return
			}

			var claims jwt.RegisteredClaims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				writeErrorLogged(w, r, log, e.Wrap(err.Error(), e.ErrInvalidToken))
				return
			}
			if claims.Subject == "" {
				writeErrorLogged(w, r, log, e.Wrap("empty subject", e.ErrInvalidToken))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeySubject, claims.Subject)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
