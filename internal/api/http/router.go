package http

import (
	"net/http"

	"hoteldesk-panel/internal/metrics"
	"hoteldesk-panel/internal/security"

	"github.com/gorilla/mux"
)

// RouterOptions wires the handlers and middleware of the desk API
type RouterOptions struct {
	Panels      *PanelHandler
	Submissions *SubmissionHandler
	Tokens      security.TokenManager
	Metrics     *metrics.Metrics

	// MetricsPath and MetricsHandler expose the prometheus scrape endpoint.
	// A nil handler leaves it unregistered.
	MetricsPath    string
	MetricsHandler http.Handler
}

func NewRouter(opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover, RequestLogger, opts.Metrics.Middleware, NewAuthMiddleware(opts.Tokens).Handler)

	r.HandleFunc("/healthz", health).Methods(http.MethodGet).Name("health")
	if opts.MetricsHandler != nil {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet).Name("metrics")
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	ph := opts.Panels
	api.HandleFunc("/panels", ph.Open).Methods(http.MethodPost).Name("panels.open")
	api.HandleFunc("/panels/{panelId}", ph.Get).Methods(http.MethodGet).Name("panels.get")
	api.HandleFunc("/panels/{panelId}", ph.Close).Methods(http.MethodDelete).Name("panels.close")
	api.HandleFunc("/panels/{panelId}/draft", ph.Patch).Methods(http.MethodPatch).Name("panels.patch")
	api.HandleFunc("/panels/{panelId}/references", ph.References).Methods(http.MethodGet).Name("panels.references")
	api.HandleFunc("/panels/{panelId}/companions", ph.AddCompanion).Methods(http.MethodPost).Name("panels.companions.add")
	api.HandleFunc("/panels/{panelId}/companions/{index}", ph.RemoveCompanion).Methods(http.MethodDelete).Name("panels.companions.remove")
	api.HandleFunc("/panels/{panelId}/units/editor", ph.UnitEditor).Methods(http.MethodGet).Name("panels.units.editor")
	api.HandleFunc("/panels/{panelId}/units", ph.SaveUnit).Methods(http.MethodPost).Name("panels.units.save")
	api.HandleFunc("/panels/{panelId}/guests/editor", ph.GuestEditor).Methods(http.MethodGet).Name("panels.guests.editor")
	api.HandleFunc("/panels/{panelId}/guests", ph.SaveGuest).Methods(http.MethodPost).Name("panels.guests.save")
	api.HandleFunc("/panels/{panelId}/submit", ph.Submit).Methods(http.MethodPost).Name("panels.submit")

	api.HandleFunc("/submissions/{submissionId}", opts.Submissions.Get).Methods(http.MethodGet).Name("submissions.get")

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
