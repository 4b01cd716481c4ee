package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"taskBoard/internal/logger"
	"time"

	"go.uber.org/zap"
)

// bucket - счётчик одного клиента в текущем окне
type bucket struct {
	hits    int
	resetAt time.Time
}

// limiter - фиксированное окно на каждый IP.
// Истёкшие окна удаляются не чаще раза за окно
type limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mtx       sync.Mutex
	buckets   map[string]*bucket
	nextPurge time.Time
}

// quota - решение по одному запросу
type quota struct {
	allowed   bool
	remaining int
	resetAt   time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	return &limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *limiter) take(ip string) quota {
	now := l.now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.purge(now)

	b, ok := l.buckets[ip]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[ip] = b
	}
	if b.hits >= l.limit {
		return quota{resetAt: b.resetAt}
	}

	b.hits++
	return quota{allowed: true, remaining: l.limit - b.hits, resetAt: b.resetAt}
}

func (l *limiter) purge(now time.Time) {
	if now.Before(l.nextPurge) {
		return
	}
	for ip, b := range l.buckets {
		if !now.Before(b.resetAt) {
			delete(l.buckets, ip)
		}
	}
	l.nextPurge = now.Add(l.window)
}

// RateLimit ограничивает число запросов с одного IP за окно. limit <= 0 отключает ограничение
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newLimiter(limit, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			q := l.take(ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(q.resetAt.Unix(), 10))

			if !q.allowed {
				tooManyRequests(w, r, ip, q.resetAt)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter, r *http.Request, ip string, resetAt time.Time) {
	// округление вверх, чтобы клиент не вернулся раньше конца окна
	retryAfter := int((time.Until(resetAt) + time.Second - 1) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}

	logger.Warn("HTTP: Превышен лимит запросов",
		zap.String("client_ip", ip),
		zap.Int("retry_after", retryAfter))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Слишком много запросов. Попробуйте позже.",
		"retry_after": retryAfter,
		"request_id":  GetRequestID(r.Context()),
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
