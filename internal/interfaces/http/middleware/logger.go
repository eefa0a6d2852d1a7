package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dreschagin/prompt-server/pkg/logger"
)

// Logger middleware пишет одну строку на запрос в формате access log:
// <ip> - "<METHOD> <URI> <PROTO>" <status> <bytes>
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Создаем wrapper для response writer чтобы захватить status code и размер ответа
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			// Строка пишется и тогда, когда handler паникует
			defer func() {
				log.Access(accessLine(r, wrapped.statusCode, wrapped.bytes),
					"request_id", r.Header.Get(RequestIDHeader),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

func accessLine(r *http.Request, status int, bytes int64) string {
	return fmt.Sprintf("%s - \"%s %s %s\" %d %d",
		clientIP(r), r.Method, r.URL.RequestURI(), r.Proto, status, bytes)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int64
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Hijack реализует http.Hijacker интерфейс для поддержки WebSocket
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	if !rw.wroteHeader {
		rw.statusCode = http.StatusSwitchingProtocols
		rw.wroteHeader = true
	}
	return hijacker.Hijack()
}
