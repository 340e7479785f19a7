package handlers

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"fittrack-dashboard/config"
)

// View is one page of the dashboard.
type View struct {
	Name     string
	Title    string
	Subtitle string
}

var views = []View{
	{Name: "overview", Title: "Overview", Subtitle: "Personal summary & today's snapshot"},
	{Name: "activity", Title: "Activity", Subtitle: "Track & manage activities"},
	{Name: "meals", Title: "Meals", Subtitle: "Plan and track meals"},
	{Name: "insights", Title: "Insights", Subtitle: "Insights & weekly summary"},
}

// ResolveView maps a navigation token to its view. An empty token means
// the overview.
func ResolveView(token string) (View, bool) {
	if token == "" {
		token = "overview"
	}
	for _, v := range views {
		if v.Name == token {
			return v, true
		}
	}
	return View{}, false
}

// Routes builds the router. protect, when non-nil, guards the HTML pages and
// form posts; the JSON API relies on CORS instead.
func (d *Deps) Routes(protect mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(recordRoute)

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(d.withSession)
	api.HandleFunc("/state", d.HandleGetState).Methods("GET")
	api.HandleFunc("/insights", d.HandleGetInsights).Methods("GET")
	api.HandleFunc("/activity", d.HandleCreateActivity).Methods("POST")
	api.HandleFunc("/activity/{id}", d.HandleDeleteActivity).Methods("DELETE")
	api.HandleFunc("/meals", d.HandleCreateMeal).Methods("POST")
	api.HandleFunc("/meals/{slot}/{index}", d.HandleDeleteMeal).Methods("DELETE")
	api.HandleFunc("/reset", d.HandleResetAPI).Methods("POST")

	web := r.NewRoute().Subrouter()
	web.Use(d.withSession)
	if protect != nil {
		web.Use(protect)
	}
	web.HandleFunc("/", d.HandleView).Methods("GET")
	web.HandleFunc("/summary.json", d.HandleExport).Methods("GET")
	web.HandleFunc("/activity", d.HandleAddActivityForm).Methods("POST")
	web.HandleFunc("/activity/{id}/delete", d.HandleDeleteActivityForm).Methods("POST")
	web.HandleFunc("/meals", d.HandleAddMealForm).Methods("POST")
	web.HandleFunc("/meals/{slot}/{index}/delete", d.HandleRemoveMealForm).Methods("POST")
	web.HandleFunc("/reset", d.HandleResetForm).Methods("POST")
	web.HandleFunc("/{view}", d.HandleView).Methods("GET")

	return r
}

// NewHandler wires the router with CSRF, request logging and CORS.
func NewHandler(cfg config.Config, d *Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.ExportPrefix == "" {
		d.ExportPrefix = cfg.ExportPrefix
	}
	d.SecureCookies = cfg.SecureCookies

	var protect mux.MiddlewareFunc
	if cfg.CSRFKey != "" {
		csrfMW := csrf.Protect([]byte(cfg.CSRFKey), csrf.Secure(cfg.SecureCookies), csrf.Path("/"))
		protect = func(next http.Handler) http.Handler {
			h := csrfMW(next)
			if cfg.SecureCookies {
				return h
			}
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
			})
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(d.loggingMiddleware(d.Routes(protect)))
}
