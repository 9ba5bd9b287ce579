package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pharmopera/internal/auth"
	"pharmopera/internal/dashboard"
	"pharmopera/internal/filter"
	"pharmopera/internal/metrics"
	"pharmopera/internal/model"
	"pharmopera/internal/registry"
)

func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	// Public
	r.Post("/login", a.Login)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Secured
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware)

		r.Post("/api/dashboard", a.Dashboard)
		r.Get("/api/details", a.Details)
		r.Get("/api/events", a.Events)
	})

	return r
}

type loginRequest struct {
	PhoneNo    string `json:"phone_no"`
	UniqueCode string `json:"unique_code"`
}

// Login verifies a pharmacy against the onboarding tab and issues a JWT
// scoped to its pharmacy id.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	phoneNo := strings.TrimSpace(body.PhoneNo)
	if phoneNo == "" || body.UniqueCode == "" {
		http.Error(w, "phone_no and unique_code are required", http.StatusBadRequest)
		return
	}

	users, err := a.Source.Fetch(r.Context(), a.Cfg.Source.UsersTab)
	if err != nil {
		log.Printf("API: Users fetch failed: %v", err)
		http.Error(w, "could not verify users at this time", http.StatusServiceUnavailable)
		return
	}

	for _, u := range users {
		if strings.TrimSpace(u["phone_no"]) != phoneNo || u["unique_code"] != body.UniqueCode {
			continue
		}

		token, err := auth.GenerateToken(phoneNo, u["pharm_name"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		log.Printf("API: Pharmacy %s logged in", phoneNo)
		json.NewEncoder(w).Encode(map[string]string{
			"token":       token,
			"pharmacy_id": phoneNo,
			"pharm_name":  u["pharm_name"],
		})
		return
	}

	http.Error(w, "invalid credentials", http.StatusUnauthorized)
}

// Dashboard computes a fresh snapshot for the authenticated pharmacy under
// the posted filter criteria. An empty body means no constraints.
func (a *API) Dashboard(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetPharmacyID(r)
	if tenant == "" {
		http.Error(w, "unauthorized tenant", http.StatusUnauthorized)
		return
	}

	var criteria filter.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	snapshot := dashboard.Build(a.fetchRecords(r), tenant, criteria, time.Now())
	metrics.SnapshotsComputed.WithLabelValues(tenant).Inc()

	json.NewEncoder(w).Encode(snapshot)
}

// Details serves the drill-down rows behind one named metric. Unknown
// metric keys return an empty array.
func (a *API) Details(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetPharmacyID(r)
	if tenant == "" {
		http.Error(w, "unauthorized tenant", http.StatusUnauthorized)
		return
	}

	metric := r.URL.Query().Get("metric")
	now := time.Now()

	scoped := filter.Apply(a.fetchRecords(r), tenant, filter.Criteria{}, now)
	rows := dashboard.Details(scoped, metric, now)

	json.NewEncoder(w).Encode(rows)
}

// Events subscribes the caller to its pharmacy's refresh signals and streams
// them as server-sent events until the client disconnects. Events carry no
// payload; the client re-requests its snapshot on each one.
func (a *API) Events(w http.ResponseWriter, r *http.Request) {
	tenant := auth.GetPharmacyID(r)
	if tenant == "" {
		http.Error(w, "unauthorized tenant", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := registry.NewSignal()
	if err := a.Relay.Subscribe(tenant, ch); err != nil {
		log.Printf("API: Subscribe failed for tenant %s: %v", tenant, err)
		http.Error(w, "subscription unavailable", http.StatusServiceUnavailable)
		return
	}
	defer a.Relay.Unsubscribe(tenant, ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			fmt.Fprint(w, "event: refresh\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}

// fetchRecords pulls and parses the reminder tab. A fetch failure is logged
// and surfaces as an empty record set, never as a request error.
func (a *API) fetchRecords(r *http.Request) []model.Record {
	rows, err := a.Source.Fetch(r.Context(), a.Cfg.Source.ReminderTab)
	if err != nil {
		metrics.FetchFailures.Inc()
		log.Printf("API: Reminder fetch failed, serving empty set: %v", err)
		return nil
	}
	return model.ParseRecords(rows)
}
