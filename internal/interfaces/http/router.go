package http

import (
	"net/http"

	"github.com/dreschagin/prompt-server/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/prompt-server/internal/interfaces/http/handler"
	"github.com/dreschagin/prompt-server/internal/interfaces/http/middleware"
	"github.com/dreschagin/prompt-server/pkg/logger"
)

// route: точное совпадение метода и пути
type route struct {
	method  string
	path    string
	handler http.Handler
}

// Router настраивает маршруты приложения
type Router struct {
	routes           []route
	promptAPIHandler *handler.PromptAPIHandler
	websocketHandler *handler.WebSocketHandler
	staticHandler    http.Handler
	metrics          *metrics.Metrics
	logger           *logger.Logger
}

// NewRouter создает новый router. metrics может быть nil, тогда /metrics не публикуется.
func NewRouter(
	promptAPIHandler *handler.PromptAPIHandler,
	websocketHandler *handler.WebSocketHandler,
	staticHandler http.Handler,
	promMetrics *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		promptAPIHandler: promptAPIHandler,
		websocketHandler: websocketHandler,
		staticHandler:    staticHandler,
		metrics:          promMetrics,
		logger:           logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	rt.routes = nil

	// Prompt API, порядок важен: таблица проверяется сверху вниз
	rt.handle(http.MethodGet, "/list-prompts", http.HandlerFunc(rt.promptAPIHandler.ListPrompts))
	rt.handle(http.MethodGet, "/check-prompt-exists", http.HandlerFunc(rt.promptAPIHandler.CheckPromptExists))
	rt.handle(http.MethodPost, "/save-prompt", http.HandlerFunc(rt.promptAPIHandler.SavePrompt))
	rt.handle(http.MethodPost, "/delete-prompt", http.HandlerFunc(rt.promptAPIHandler.DeletePrompt))

	// WebSocket
	rt.handle(http.MethodGet, "/ws", http.HandlerFunc(rt.websocketHandler.HandleConnection))

	if rt.metrics != nil {
		rt.handle(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	rt.handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	// Применяем middleware
	var handler http.Handler = http.HandlerFunc(rt.dispatch)
	handler = middleware.CORS(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	// Recovery внутри Logger, чтобы ответ 500 после panic попал в access log
	handler = middleware.Recovery(rt.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Logger(rt.logger)(handler)

	return handler
}

func (rt *Router) handle(method, path string, h http.Handler) {
	rt.routes = append(rt.routes, route{method: method, path: path, handler: h})
}

func (rt *Router) dispatch(w http.ResponseWriter, r *http.Request) {
	for _, candidate := range rt.routes {
		if candidate.method == r.Method && candidate.path == r.URL.Path {
			candidate.handler.ServeHTTP(w, r)
			return
		}
	}

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet, http.MethodHead:
		rt.staticHandler.ServeHTTP(w, r)
	case http.MethodPost:
		http.Error(w, "Endpoint not found", http.StatusNotFound)
	default:
		http.Error(w, "Unsupported method", http.StatusNotImplemented)
	}
}
