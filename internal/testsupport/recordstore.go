// Package testsupport provides an in-process stand-in for the remote record
// store, serving the same wire shapes over a local HTTP listener.
package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"gitea.jw6.us/james/traindesk/internal/domain"
)

// RecordStore is a fake customer record store. It assigns identifiers,
// serves customers HAL-style with self links, and embeds customers into the
// training feed the way the real store does.
type RecordStore struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
	trainings map[string]storedTraining
	failing   bool

	srv *httptest.Server
}

type storedTraining struct {
	ID         string
	Date       string
	Duration   any
	Activity   string
	CustomerID string
}

func NewRecordStore() *RecordStore {
	s := &RecordStore{
		customers: make(map[string]domain.Customer),
		trainings: make(map[string]storedTraining),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers", s.listCustomers)
	mux.HandleFunc("POST /customers", s.createCustomer)
	mux.HandleFunc("PUT /customers/{id}", s.updateCustomer)
	mux.HandleFunc("DELETE /customers/{id}", s.deleteCustomer)
	mux.HandleFunc("GET /gettrainings", s.listTrainings)
	mux.HandleFunc("POST /trainings", s.createTraining)
	mux.HandleFunc("DELETE /trainings/{id}", s.deleteTraining)

	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.isFailing() {
			http.Error(w, "simulated outage", http.StatusInternalServerError)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	return s
}

// URL is the base URL clients should point at.
func (s *RecordStore) URL() string { return s.srv.URL }

func (s *RecordStore) Close() { s.srv.Close() }

// SetFailing makes every request answer 500 until cleared.
func (s *RecordStore) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

func (s *RecordStore) isFailing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failing
}

// SeedCustomer inserts a customer directly and returns its assigned id.
func (s *RecordStore) SeedCustomer(c domain.Customer) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.customers[c.ID] = c
	return c.ID
}

// SeedTraining inserts a training directly and returns its assigned id.
// duration may be an int, a string, or nil to exercise the tolerant decoder.
func (s *RecordStore) SeedTraining(date, activity string, duration any, customerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.trainings[id] = storedTraining{
		ID:         id,
		Date:       date,
		Duration:   duration,
		Activity:   activity,
		CustomerID: customerID,
	}
	return id
}

// CustomerCount reports the number of stored customers.
func (s *RecordStore) CustomerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

// TrainingCount reports the number of stored trainings.
func (s *RecordStore) TrainingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trainings)
}

func (s *RecordStore) listCustomers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wires := make([]map[string]any, 0, len(s.customers))
	for _, id := range sortedKeys(s.customers) {
		wires = append(wires, s.customerWireLocked(s.customers[id]))
	}
	writeJSON(w, map[string]any{
		"_embedded": map[string]any{"customers": wires},
	})
}

func (s *RecordStore) createCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	s.customers[c.ID] = c
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(s.customerWireLocked(c))
}

func (s *RecordStore) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	c.ID = id
	s.customers[id] = c
	writeJSON(w, s.customerWireLocked(c))
}

func (s *RecordStore) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	// No cascade: trainings keep their dangling customer reference.
	delete(s.customers, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *RecordStore) listTrainings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0, len(s.trainings))
	for _, id := range sortedKeys(s.trainings) {
		t := s.trainings[id]
		wire := map[string]any{
			"id":       t.ID,
			"date":     t.Date,
			"duration": t.Duration,
			"activity": t.Activity,
			"customer": nil,
		}
		if c, ok := s.customers[t.CustomerID]; ok {
			wire["customer"] = s.customerWireLocked(c)
		}
		out = append(out, wire)
	}
	writeJSON(w, out)
}

func (s *RecordStore) createTraining(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date     string `json:"date"`
		Activity string `json:"activity"`
		Duration int    `json:"duration"`
		Customer string `json:"customer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.trainings[id] = storedTraining{
		ID:         id,
		Date:       body.Date,
		Duration:   body.Duration,
		Activity:   body.Activity,
		CustomerID: body.Customer,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

func (s *RecordStore) deleteTraining(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trainings[id]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	delete(s.trainings, id)
	w.WriteHeader(http.StatusNoContent)
}

// customerWireLocked builds the HAL shape: fields flat, identifier only in
// the self link.
func (s *RecordStore) customerWireLocked(c domain.Customer) map[string]any {
	return map[string]any{
		"firstname":     c.FirstName,
		"lastname":      c.LastName,
		"email":         c.Email,
		"phone":         c.Phone,
		"streetaddress": c.StreetAddress,
		"postcode":      c.Postcode,
		"city":          c.City,
		"_links": map[string]any{
			"self": map[string]any{"href": s.srv.URL + "/customers/" + c.ID},
		},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return strings.Compare(keys[i], keys[j]) < 0 })
	return keys
}
