package adapthttp

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"espresso/internal/app"
)

// Server is the driving HTTP adapter that routes requests to the espresso
// service.
type Server struct {
	espresso *app.EspressoService
	gatherer prometheus.Gatherer
	log      *zap.Logger
}

// New creates a Server wired to the given service. Metrics are served from
// gatherer.
func New(es *app.EspressoService, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	return &Server{espresso: es, gatherer: gatherer, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/machine", s.handleMachine).Methods(http.MethodGet)

	r.HandleFunc("/espresso", s.handleEspresso).Methods(http.MethodPost)
	r.HandleFunc("/espressos", s.handleEspressos).Methods(http.MethodPost)
	r.HandleFunc("/descale", s.handleDescale).Methods(http.MethodPost)
	r.HandleFunc("/beans", s.handleAddBeans).Methods(http.MethodPost)
	r.HandleFunc("/water", s.handleAddWater).Methods(http.MethodPost)

	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return s.loggingMiddleware(withNoCache(r))
}
