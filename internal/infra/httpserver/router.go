package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bryanwahyu/foresight-engine/internal/application/analysis"
	"github.com/bryanwahyu/foresight-engine/internal/domain/ai"
	"github.com/bryanwahyu/foresight-engine/internal/domain/reports"
	"github.com/bryanwahyu/foresight-engine/internal/middleware"
)

// ErrBadRequest marks a request the handler could not decode.
var ErrBadRequest = errors.New("bad request")

// Options configures NewRouter. Zero values are usable except Analysis.
type Options struct {
	Analysis       *analysis.Service
	ServiceName    string
	KeyEnv         string // credential variable named in the unconfigured error
	AllowedOrigins []string
	Limiter        *middleware.RateLimiter
	Checkers       map[string]middleware.HealthChecker
	Gatherer       prometheus.Gatherer
	Logger         *zap.Logger
}

type Router struct {
	svc         *analysis.Service
	serviceName string
	keyEnv      string
	logger      *zap.Logger
}

func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	keyEnv := opts.KeyEnv
	if keyEnv == "" {
		keyEnv = "GEMINI_API_KEY"
	}
	r := &Router{svc: opts.Analysis, serviceName: opts.ServiceName, keyEnv: keyEnv, logger: logger}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/", r.handleRoot)
	mux.Get("/healthz", middleware.HealthHandler(opts.Checkers))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.Group(func(rt chi.Router) {
		if opts.Limiter != nil {
			rt.Use(middleware.RateLimit(opts.Limiter))
		}
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
	})
	mux.Get("/reports", r.wrap(r.handleLatest))
	mux.Get("/reports/{id}", r.wrap(r.handleGet))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var (
			genErr     *ai.GenerationError
			persistErr *reports.PersistenceError
		)
		switch {
		case errors.Is(err, ErrBadRequest):
			middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ai.ErrNotConfigured):
			middleware.WriteError(w, http.StatusInternalServerError, r.keyEnv+" not configured on the server.")
		case errors.Is(err, reports.ErrNotFound):
			middleware.WriteError(w, http.StatusNotFound, "report not found")
		case errors.As(err, &genErr), errors.As(err, &persistErr):
			middleware.WriteError(w, http.StatusInternalServerError, "An error occurred during AI analysis: "+err.Error())
		default:
			r.logger.Error("unhandled error", zap.Error(err), zap.String("path", req.URL.Path),
				zap.String("request_id", middleware.GetRequestID(req.Context())))
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		}
	}
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Hello": r.serviceName + " is Online"})
}

// POST /analyze
// Body: {"text": "<client problem>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text *string `json:"text"`
	}
	// any string is accepted; invalid UTF-8 is decoded to U+FFFD by encoding/json
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	if body.Text == nil {
		return fmt.Errorf("%w: field \"text\" is required", ErrBadRequest)
	}

	res, err := r.svc.Analyze(req.Context(), *body.Text)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

// GET /reports?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	limit, err := middleware.ParseLimit(req.URL.Query().Get("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	list, err := r.svc.Latest(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*reports.Report{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /reports/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ParseReportID(chi.URLParam(req, "id"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	rep, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rep)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
