package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/domus-lending/quote-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ErrQuoteNotFound is returned when a quote id has no row.
var ErrQuoteNotFound = fmt.Errorf("quote not found")

// SaveQuote persists one submitted scenario with its evaluation result.
func (r *Repository) SaveQuote(rec *models.QuoteRecord) error {
	scenario, err := json.Marshal(rec.Scenario)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	var finalRate sql.NullFloat64
	if v, ok := rec.Result.FinalRate(); ok {
		finalRate = sql.NullFloat64{Float64: v, Valid: true}
	}

	query := `
		INSERT INTO underwriting.quotes
			(borrower_email, band, dscr, ltv, loan_amount, final_rate, scenario, result, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		RETURNING id, submitted_at`
	err = r.db.QueryRow(query,
		rec.Scenario.BorrowerEmail, string(rec.Result.Band), rec.Result.DSCR,
		rec.Result.LTV, rec.Result.LoanAmount, finalRate, scenario, result).
		Scan(&rec.ID, &rec.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}
	return nil
}

// FindQuoteByID retrieves a persisted quote
func (r *Repository) FindQuoteByID(id int64) (*models.QuoteRecord, error) {
	rec := &models.QuoteRecord{}
	var scenario, result []byte
	query := `
		SELECT id, submitted_at, scenario, result
		FROM underwriting.quotes
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&rec.ID, &rec.SubmittedAt, &scenario, &result)
	if err == sql.ErrNoRows {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find quote: %w", err)
	}
	if err := json.Unmarshal(scenario, &rec.Scenario); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return rec, nil
}

// ListRecentQuotes returns headline rows for the newest submissions.
func (r *Repository) ListRecentQuotes(limit int) ([]models.QuoteSummary, error) {
	query := `
		SELECT id, submitted_at, borrower_email, band, dscr, ltv, loan_amount, final_rate
		FROM underwriting.quotes
		ORDER BY submitted_at DESC
		LIMIT $1`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var summaries []models.QuoteSummary
	for rows.Next() {
		var s models.QuoteSummary
		var band string
		var finalRate sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.SubmittedAt, &s.BorrowerEmail, &band,
			&s.DSCR, &s.LTV, &s.LoanAmount, &finalRate); err != nil {
			return nil, fmt.Errorf("failed to scan quote row: %w", err)
		}
		s.Band = models.Band(band)
		if finalRate.Valid {
			s.FinalRate = &finalRate.Float64
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote rows: %w", err)
	}
	return summaries, nil
}
