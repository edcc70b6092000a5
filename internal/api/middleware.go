package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/auth"
	"github.com/vladislavdragonenkov/pottery/internal/domain"
	"github.com/vladislavdragonenkov/pottery/internal/metrics"
)

type contextKey string

const claimsContextKey contextKey = "claims"

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyTTL       = 24 * time.Hour
)

// Auth проверяет Bearer-токен и кладёт claims в контекст запроса.
func Auth(manager *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "authorization token is required")
				return
			}

			claims, err := manager.ParseAccessToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					respondError(w, http.StatusUnauthorized, "token has expired")
					return
				}
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает только пользователей с ролью admin.
// Должен стоять после Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authorization token is required")
			return
		}
		if !claims.IsAdmin() {
			respondError(w, http.StatusForbidden, "admin role is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

func customerIDFrom(ctx context.Context) string {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return ""
	}
	return claims.UserID
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// statusRecorder перехватывает статус и тело ответа для idempotency-кэша
// и метрик.
type statusRecorder struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func newStatusRecorder(w http.ResponseWriter, captureBody bool) *statusRecorder {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	if captureBody {
		rec.body = &bytes.Buffer{}
	}
	return rec
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(data []byte) (int, error) {
	if r.body != nil {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

// Observe пишет структурированный лог и HTTP-метрики каждого запроса.
func Observe(logger *log.Entry, shopMetrics *metrics.ShopMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := newStatusRecorder(w, false)

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = r.URL.Path
			}
			duration := time.Since(started)

			if shopMetrics != nil {
				shopMetrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.status), duration)
			}
			if logger != nil {
				logger.WithFields(log.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      rec.status,
					"duration_ms": duration.Milliseconds(),
				}).Debug("http request")
			}
		})
	}
}

// Idempotency кэширует ответ мутации по заголовку Idempotency-Key:
// повторный запрос с тем же ключом и телом получает сохранённый ответ,
// с другим телом — 409.
func Idempotency(repo domain.IdempotencyRepository, logger *log.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if repo == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				respondError(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashIdempotencyRequest(r.Method, r.URL.Path, body)

			record, err := repo.CreateProcessing(key, requestHash, time.Now().UTC().Add(idempotencyTTL))
			if err != nil {
				replayIdempotency(w, err, record, logger)
				return
			}

			rec := newStatusRecorder(w, true)
			next.ServeHTTP(rec, r)

			cached := rec.body.Bytes()
			if rec.status < http.StatusBadRequest {
				err = repo.MarkDone(key, cached, rec.status)
			} else {
				err = repo.MarkFailed(key, cached, rec.status)
			}
			if err != nil && logger != nil {
				logger.WithError(err).WithField("idempotency_key", key).Warn("failed to store idempotency response")
			}
		})
	}
}

func replayIdempotency(w http.ResponseWriter, createErr error, record domain.IdempotencyRecord, logger *log.Entry) {
	switch {
	case errors.Is(createErr, domain.ErrIdempotencyHashMismatch):
		respondError(w, http.StatusConflict, "idempotency key is already used with different request payload")
	case errors.Is(createErr, domain.ErrIdempotencyKeyAlreadyExists):
		switch record.Status {
		case domain.IdempotencyStatusProcessing:
			respondError(w, http.StatusConflict, "request with the same idempotency key is already processing")
		case domain.IdempotencyStatusDone, domain.IdempotencyStatusFailed:
			replayStoredResponse(w, record)
		default:
			respondError(w, http.StatusInternalServerError, "unknown idempotency record status")
		}
	default:
		if logger != nil {
			logger.WithError(createErr).Warn("failed to create idempotency record")
		}
		respondError(w, http.StatusInternalServerError, "failed to initialize idempotency request")
	}
}

func replayStoredResponse(w http.ResponseWriter, record domain.IdempotencyRecord) {
	status := record.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(record.ResponseBody)
}

func hashIdempotencyRequest(method, path string, body []byte) string {
	payload := make([]byte, 0, len(method)+len(path)+len(body)+2)
	payload = append(payload, method...)
	payload = append(payload, ':')
	payload = append(payload, path...)
	payload = append(payload, ':')
	payload = append(payload, body...)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
