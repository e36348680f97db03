package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/domus-lending/quote-service/internal/engine"
	"github.com/domus-lending/quote-service/internal/integrations/zipregion"
	"github.com/domus-lending/quote-service/internal/models"
	"github.com/domus-lending/quote-service/internal/repository"
	"github.com/domus-lending/quote-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	recs map[int64]*models.QuoteRecord
	next int64
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[int64]*models.QuoteRecord)}
}

func (m *memStore) SaveQuote(rec *models.QuoteRecord) error {
	m.next++
	rec.ID = m.next
	rec.SubmittedAt = time.Now()
	m.recs[rec.ID] = rec
	return nil
}

func (m *memStore) FindQuoteByID(id int64) (*models.QuoteRecord, error) {
	rec, ok := m.recs[id]
	if !ok {
		return nil, repository.ErrQuoteNotFound
	}
	return rec, nil
}

func (m *memStore) ListRecentQuotes(limit int) ([]models.QuoteSummary, error) {
	out := []models.QuoteSummary{}
	for id, rec := range m.recs {
		if len(out) == limit {
			break
		}
		out = append(out, models.QuoteSummary{ID: id, Band: rec.Result.Band})
	}
	return out, nil
}

type noopAnalyzer struct{}

func (noopAnalyzer) Analyze(_ context.Context, _ *models.ScenarioInput, _ *models.UnderwritingResult) *models.DealAnalysis {
	return &models.DealAnalysis{NarrativeSummary: "stub narrative"}
}

type fakeZip struct {
	region *zipregion.Region
	err    error
}

func (f *fakeZip) Lookup(zip string) (*zipregion.Region, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.region, nil
}

func newTestRouter(t *testing.T, zip RegionLookup) (*mux.Router, *engine.SheetStore) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	sheets := engine.NewSheetStore()
	svc := service.NewService(engine.New(sheets), newMemStore(),
		repository.NewMockCache(), noopAnalyzer{}, nil, log)
	h := NewHandler(svc, sheets, zip)

	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/rate-sheet", h.RateSheetVersion).Methods(http.MethodGet)
	r.HandleFunc("/zip-lookup/{zip}", h.ZipLookup).Methods(http.MethodGet)
	r.HandleFunc("/quotes/{id:[0-9]+}", h.GetQuote).Methods(http.MethodGet)
	r.HandleFunc("/quotes", h.ListQuotes).Methods(http.MethodGet)
	r.HandleFunc("/quotes", h.SubmitQuote).Methods(http.MethodPost)
	return r, sheets
}

func submitBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"zip_code":           "75201",
		"property_state":     "TX",
		"asset_type":         "Single Property",
		"number_of_units":    1,
		"loan_purpose":       "Purchase",
		"purchase_price":     400000,
		"as_is_value":        400000,
		"monthly_rent":       3200,
		"annual_tax":         4800,
		"annual_insurance":   1800,
		"fico_score":         760,
		"liquidity":          60000,
		"prepayment_penalty": "60 Months",
	})
	return body
}

func TestSubmitQuoteEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{})

	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(submitBody()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out models.QuoteRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, models.BandGreen, out.Result.Band)
	require.NotNil(t, out.Result.Quote)
	require.NotNil(t, out.Result.Quote.FinalRate)
	assert.Equal(t, 6.375, *out.Result.Quote.FinalRate)
}

func TestSubmitQuoteEndpointBadBody(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{})

	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitQuoteEndpointInvalidScenario(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{})

	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewBufferString(`{"asset_type":"Castle"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "asset type")
}

func TestGetQuoteEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{})

	req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(submitBody()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/quotes/1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out models.QuoteRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, int64(1), out.ID)
}

func TestGetQuoteEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{})

	req := httptest.NewRequest(http.MethodGet, "/quotes/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListQuotesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(submitBody()))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/quotes?limit=2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out []models.QuoteSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 2)
}

func TestRateSheetVersionEndpoint(t *testing.T) {
	r, sheets := newTestRouter(t, &fakeZip{})

	req := httptest.NewRequest(http.MethodGet, "/rate-sheet", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, sheets.Current().Version, out["version"])
}

func TestZipLookupEndpoint(t *testing.T) {
	zip := &fakeZip{region: &zipregion.Region{Zip: "75201", City: "DALLAS", State: "TX"}}
	r, _ := newTestRouter(t, zip)

	req := httptest.NewRequest(http.MethodGet, "/zip-lookup/75201", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out zipregion.Region
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "TX", out.State)
}

func TestZipLookupEndpointUpstreamFailure(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{err: fmt.Errorf("upstream down")})

	req := httptest.NewRequest(http.MethodGet, "/zip-lookup/75201", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeZip{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
