package httpapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/auth"
	"github.com/olympiadqr/olympiadqr/internal/domain"
	"github.com/olympiadqr/olympiadqr/internal/logging"
	"github.com/olympiadqr/olympiadqr/internal/workflow"
)

// requestLogger emits one structured log line per request: method, path,
// status, latency and the chi request id, so every line correlates back
// to the same fields the workflow layer logs during that request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		fields := logging.HTTPFields(r.Method, r.URL.Path, ww.Status()).
			Duration(time.Since(start)).
			RequestID(middleware.GetReqID(r.Context()))

		entry := logrus.WithFields(fields.ToLogrus())
		switch {
		case ww.Status() >= 500:
			entry.Error("request completed")
		case ww.Status() >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	})
}

// recoverer turns a panic in any downstream handler into a 500 response
// instead of killing the connection, mirroring the workflow layer's
// ErrorTypeInternal mapping.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.WithField("panic", rec).Error("recovered from panic")
				writeError(w, r, apperrors.New(apperrors.ErrorTypeInternal, "internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticator validates the bearer token on every request it wraps and
// binds the resulting Subject into the request context. Handlers read it
// back with subjectFrom and pass it to workflow.RequireRole/RequireOwnership.
func authenticator(tokens *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, r, apperrors.NewAuthError("missing bearer token"))
				return
			}
			claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, r, err)
				return
			}
			userID, err := claims.ParsedUserID()
			if err != nil {
				writeError(w, r, apperrors.NewAuthError("malformed token subject"))
				return
			}
			subject := &workflow.Subject{UserID: userID, Role: domain.Role(claims.Role), IsActive: true}
			next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), subject)))
		})
	}
}

// ipRateLimiter keeps one token-bucket limiter per source IP, used for the
// login and registration endpoints named in the configured rate limits.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
	}
}

func (l *ipRateLimiter) forIP(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.forIP(ip).Allow() {
			writeError(w, r, apperrors.NewRateLimitError("too many requests, slow down"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return r.RemoteAddr
}
