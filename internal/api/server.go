// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the enrichment pipeline and the paid provider's
// interactive search/reveal flow over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/credits"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/enrich"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/providers"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/internal/store"
	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

// Server wires the pipeline, the paid-search client, and the entity
// store into an HTTP surface.
type Server struct {
	Store    store.EntityStore
	Pipeline *enrich.Pipeline
	People   *providers.PeopleClient
	Ledger   *credits.Ledger
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/entities/{type}/{id}/contacts", s.handleGetContacts).Methods(http.MethodGet)
	r.HandleFunc("/entities/{type}/{id}/contacts", s.handleAddContact).Methods(http.MethodPost)
	r.HandleFunc("/entities/{type}/{id}/enrich", s.handleEnrich).Methods(http.MethodPost)
	r.HandleFunc("/people-search", s.handlePeopleSearch).Methods(http.MethodPost)
	r.HandleFunc("/reveal", s.handleReveal).Methods(http.MethodPost)
	r.HandleFunc("/credits", s.handleCredits).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	return r
}

func entityRef(r *http.Request) (types.EntityType, string) {
	vars := mux.Vars(r)
	return types.EntityType(vars["type"]), vars["id"]
}

func (s *Server) handleGetContacts(w http.ResponseWriter, r *http.Request) {
	entityType, entityID := entityRef(r)
	info, err := s.Store.GetEntityContacts(r.Context(), entityType, entityID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, info)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	entityType, entityID := entityRef(r)

	var c types.ContactRecord
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	c.Source = types.SourceManual
	if !c.Actionable() {
		http.Error(w, "manual contact needs a name, email, or LinkedIn URL", http.StatusBadRequest)
		return
	}

	if err := s.Store.AddSingleContact(r.Context(), entityType, entityID, c); err != nil {
		log.Printf("add contact: %v", err)
		http.Error(w, "could not store contact", http.StatusInternalServerError)
		return
	}

	info, err := s.Store.GetEntityContacts(r.Context(), entityType, entityID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, info)
}

// enrichResponse is the soft-success envelope: the run reports which
// stages contributed what, even when every optional stage failed.
type enrichResponse struct {
	Contacts []types.ContactRecord `json:"contacts"`
	Stats    types.EnrichStats     `json:"stats"`
	Credits  *types.CreditReport   `json:"credits,omitempty"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	entityType, entityID := entityRef(r)
	usePaid := r.URL.Query().Get("paid") == "true"

	info, err := s.Store.GetEntityContacts(r.Context(), entityType, entityID)
	if err != nil {
		// The one fatal case: the existing roster cannot be read.
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	out, err := s.Pipeline.Enrich(r.Context(), info, usePaid, io.Discard)
	if err != nil {
		log.Printf("enrich %s/%s: %v", entityType, entityID, err)
		http.Error(w, "enrichment aborted", http.StatusInternalServerError)
		return
	}

	contacts, err := s.Store.ReplaceEntityContacts(r.Context(), entityType, entityID, out.Contacts)
	if err != nil {
		log.Printf("replace roster %s/%s: %v", entityType, entityID, err)
		http.Error(w, "could not store roster", http.StatusInternalServerError)
		return
	}

	writeJSON(w, enrichResponse{Contacts: contacts, Stats: out.Stats, Credits: out.Credits})
}

type peopleSearchRequest struct {
	Domain      string `json:"domain"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	Limit       int    `json:"limit"`
}

func (s *Server) handlePeopleSearch(w http.ResponseWriter, r *http.Request) {
	var req peopleSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	criteria := providers.Criteria{
		Domain:      req.Domain,
		CompanyName: req.CompanyName,
		Location:    req.Location,
	}
	cands, err := s.People.SearchCandidates(r.Context(), criteria, req.Limit)
	if err != nil {
		writeProviderError(w, err)
		return
	}

	writeJSON(w, enrich.RankCandidates(cands, s.Pipeline.Merger.Region))
}

type revealRequest struct {
	IDs    []string              `json:"ids"`
	Points []providers.DataPoint `json:"points"`
}

type revealResponse struct {
	Revealed map[string]providers.RevealedValues `json:"revealed"`
	Credits  types.CreditReport                  `json:"credits"`
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(req.Points) == 0 {
		req.Points = []providers.DataPoint{providers.PointEmail}
	}

	// Balance reads are stale by default: refresh before the pre-flight.
	if bal, err := s.People.Balance(r.Context()); err == nil {
		s.Ledger.Observe(bal)
	}

	cost := credits.EstimateCost(len(req.IDs), len(req.Points))
	release, err := s.Ledger.Reserve(cost)
	if err != nil {
		writeProviderError(w, &providers.Error{
			Kind:     providers.KindInsufficientCredits,
			Provider: "paid_people_search",
			Err:      err,
		})
		return
	}
	defer release()

	outcome, err := s.People.Reveal(r.Context(), req.IDs, req.Points)
	if err != nil {
		if bal, balErr := s.People.Balance(r.Context()); balErr == nil {
			s.Ledger.Observe(bal)
		}
		writeProviderError(w, err)
		return
	}

	used := outcome.CreditsUsed
	if used == 0 {
		used = cost
	}
	s.Ledger.AddUsed(used)
	if outcome.CreditsRemaining >= 0 {
		s.Ledger.Observe(outcome.CreditsRemaining)
	}

	_, remaining, _ := s.Ledger.Snapshot()
	writeJSON(w, revealResponse{
		Revealed: outcome.Revealed,
		Credits:  types.CreditReport{Used: used, Remaining: remaining},
	})
}

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	remaining, err := s.People.Balance(r.Context())
	if err != nil {
		writeProviderError(w, err)
		return
	}
	s.Ledger.Observe(remaining)

	used, _, _ := s.Ledger.Snapshot()
	writeJSON(w, types.CreditReport{Used: used, Remaining: remaining})
}

// writeProviderError maps the provider error taxonomy onto HTTP status
// codes the UI can act on.
func writeProviderError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch providers.KindOf(err) {
	case providers.KindNotConfigured:
		status = http.StatusServiceUnavailable
	case providers.KindRateLimited:
		status = http.StatusTooManyRequests
	case providers.KindMalformedQuery:
		status = http.StatusBadRequest
	case providers.KindInsufficientCredits:
		status = http.StatusPaymentRequired
	}
	if errors.Is(err, credits.ErrInsufficientCredits) {
		status = http.StatusPaymentRequired
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
