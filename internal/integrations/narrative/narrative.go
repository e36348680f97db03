// Package narrative turns the engine's numeric output into prose through the
// Gemini API. It consumes results read-only and can never alter
// qualification; any API failure degrades to a canned analysis.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/domus-lending/quote-service/internal/config"
	"github.com/domus-lending/quote-service/internal/models"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// Generator produces deal narratives for qualified scenarios.
type Generator struct {
	apiKey  string
	model   string
	enabled bool
	timeout time.Duration
	log     *logrus.Logger
}

// NewGenerator creates a narrative generator. Without an API key the
// generator stays enabled but always returns the fallback analysis.
func NewGenerator(cfg *config.Config, log *logrus.Logger) *Generator {
	return &Generator{
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		enabled: cfg.GeminiAPIKey != "",
		timeout: 30 * time.Second,
		log:     log,
	}
}

// Analyze generates the prose analysis for an evaluated scenario. It never
// returns an error to the caller; a failed generation is logged and replaced
// by the deterministic fallback.
func (g *Generator) Analyze(ctx context.Context, in *models.ScenarioInput, result *models.UnderwritingResult) *models.DealAnalysis {
	if !result.Qualified {
		return DeclinedAnalysis()
	}
	if !g.enabled {
		return DefaultAnalysis()
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	analysis, err := g.generate(ctx, in, result)
	if err != nil {
		g.log.Errorf("Narrative generation failed: %v", err)
		return DefaultAnalysis()
	}
	return analysis
}

func (g *Generator) generate(ctx context.Context, in *models.ScenarioInput, result *models.UnderwritingResult) (*models.DealAnalysis, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"narrative_summary":     {Type: genai.TypeString},
				"whats_working":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"red_flags":             {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"deep_dive_areas":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"improvement_checklist": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"narrative_summary", "whats_working", "red_flags", "deep_dive_areas", "improvement_checklist"},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(g.buildPrompt(in, result)), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	analysis := &models.DealAnalysis{}
	if err := json.Unmarshal([]byte(resp.Text()), analysis); err != nil {
		return nil, fmt.Errorf("failed to parse narrative response: %w", err)
	}

	// Keep grounding citations when the model attached any.
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand.GroundingMetadata != nil {
			for _, chunk := range cand.GroundingMetadata.GroundingChunks {
				if chunk.Web != nil {
					analysis.Sources = append(analysis.Sources, chunk.Web.URI)
				}
			}
		}
	}

	return analysis, nil
}

func (g *Generator) buildPrompt(in *models.ScenarioInput, result *models.UnderwritingResult) string {
	return fmt.Sprintf(`Persona: Senior Credit Underwriter.
Tone: Professional, decisive, objective.

Task: Analyze this DSCR loan request for a real-estate investment property.

NARRATIVE GUIDELINES:
- Do NOT recite the loan program rules or LTV matrices.
- Mention that current DSCR and payment figures are calculated using a baseline 7.00%% interest rate for analysis purposes.
- Explicitly state that a full submission is required to lock the actual interest rate from the live pricing matrix.
- Focus on the STRENGTHS (e.g., strong rent-to-value, low leverage, property type stability).
- Focus on the RISKS (e.g., market volatility, tight DSCR).
- Provide a qualitative summary of the DEAL itself.

SPECIAL INSTRUCTION ON LIQUIDITY:
- Do NOT mention borrower liquidity, cash reserves, or "strong cash position".
- Focus strictly on the property and the deal economics.

SPECIAL INSTRUCTION ON RENT RISK:
- If the inputted rent ($%.0f/mo) yields a very high DSCR (>1.50x), flag the specific risk that the appraisal may return a lower market rent, which would reduce the DSCR and potentially cut the loan amount.

DEAL DATA:
- Loan Amount: $%.0f
- Asset: %s (%d units)
- Location: %s, %s
- Purpose: %s
- Calculated DSCR: %.2fx (assumed @ 7.00%%)
- LTV: %.1f%%
- Monthly Payment (benchmark): $%.2f
- STR Deal: %t
- Band: %s`,
		in.MonthlyRent,
		result.LoanAmount,
		in.AssetType, in.NumberOfUnits,
		in.ZipCode, in.PropertyState,
		in.LoanPurpose,
		result.DSCR,
		result.LTV*100,
		result.TotalMonthlyPayment,
		in.IsShortTermRental,
		result.Band,
	)
}

// DefaultAnalysis is the deterministic fallback used when generation is
// unavailable or fails.
func DefaultAnalysis() *models.DealAnalysis {
	return &models.DealAnalysis{
		NarrativeSummary:     "Quantitative metrics are being reviewed against local market conditions. Calculations assume a 7.00% baseline rate; submit for final pricing.",
		WhatsWorking:         []string{"Asset type aligns with current portfolio targets"},
		RedFlags:             []string{"Valuation consistency must be verified"},
		DeepDiveAreas:        []string{"Local market vacancy rates"},
		ImprovementChecklist: []string{"Provide full entity documents"},
	}
}

// DeclinedAnalysis is the canned narrative attached to unqualified scenarios;
// no generation call is made for them.
func DeclinedAnalysis() *models.DealAnalysis {
	return &models.DealAnalysis{
		NarrativeSummary:     "The current scenario does not meet the necessary criteria for our DSCR programs. Review the decline reasons for specific details.",
		WhatsWorking:         []string{},
		RedFlags:             []string{},
		DeepDiveAreas:        []string{},
		ImprovementChecklist: []string{"Adjust leverage or property occupancy status and re-run."},
	}
}
