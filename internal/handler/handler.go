package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/domus-lending/quote-service/internal/engine"
	"github.com/domus-lending/quote-service/internal/integrations/zipregion"
	"github.com/domus-lending/quote-service/internal/models"
	"github.com/domus-lending/quote-service/internal/repository"
	"github.com/domus-lending/quote-service/internal/service"
	"github.com/gorilla/mux"
)

// RegionLookup resolves a postal code to its city and state.
type RegionLookup interface {
	Lookup(zip string) (*zipregion.Region, error)
}

// Handler wires HTTP routes to the quote service.
type Handler struct {
	svc    *service.Service
	sheets *engine.SheetStore
	zip    RegionLookup
}

// NewHandler creates the HTTP handler set.
func NewHandler(svc *service.Service, sheets *engine.SheetStore, zip RegionLookup) *Handler {
	return &Handler{svc: svc, sheets: sheets, zip: zip}
}

// SubmitQuote evaluates a submitted scenario and returns the stored quote.
func (h *Handler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	var in models.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.SubmitQuote(r.Context(), &in)
	if err != nil {
		if errors.Is(err, service.ErrInvalidScenario) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to evaluate scenario")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// GetQuote returns a previously stored quote.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	rec, err := h.svc.GetQuote(id)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			writeError(w, http.StatusNotFound, "quote not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load quote")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListQuotes returns headline rows for recent submissions.
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	summaries, err := h.svc.ListQuotes(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list quotes")
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// RateSheetVersion reports the active pricing sheet version.
func (h *Handler) RateSheetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": h.sheets.Current().Version,
	})
}

// ZipLookup resolves a postal code for form prefill.
func (h *Handler) ZipLookup(w http.ResponseWriter, r *http.Request) {
	region, err := h.zip.Lookup(mux.Vars(r)["zip"])
	if err != nil {
		writeError(w, http.StatusBadGateway, "zip lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, region)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
