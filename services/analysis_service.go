package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mrigankrai05/VitalSimple/models"
)

// AnalysisService is the structured-extraction generator. Summarize never
// fails: a degraded but valid Analysis JSON string stands in for every
// failure mode, so the upload flow always has something to return.
type AnalysisService struct {
	generator  Generator
	charBudget int
}

func NewAnalysisService(generator Generator, charBudget int) *AnalysisService {
	if charBudget <= 0 {
		charBudget = 6000
	}
	return &AnalysisService{generator: generator, charBudget: charBudget}
}

// Summarize asks the model for the structured analysis of reportText and
// returns it as a JSON string. The report is truncated to the configured
// character budget before prompt assembly so it fits the model's context
// window regardless of document length.
func (s *AnalysisService) Summarize(ctx context.Context, reportText string) string {
	if len(reportText) > s.charBudget {
		reportText = reportText[:s.charBudget]
	}

	reply, err := s.generator.Generate(ctx, "", analysisPrompt(reportText))
	if err != nil {
		log.Printf("ANALYSIS: Generation call failed: %v", err)
		return FallbackAnalysis("Server error.")
	}

	clean, ok := ExtractJSON(reply)
	if !ok {
		log.Printf("ANALYSIS: Model reply was not parseable JSON, returning fallback.")
		return FallbackAnalysis("Failed to parse data.")
	}
	return clean
}

// FallbackAnalysis is the canned Analysis JSON used when OCR or generation
// fails. It always marshals cleanly, so callers can rely on the analysis
// string parsing as JSON.
func FallbackAnalysis(summary string) string {
	analysis := models.Analysis{
		Summary:       summary,
		RiskAreas:     []string{},
		ModerateAreas: []string{},
		HealthyAreas:  []string{},
		AllMetrics:    []models.Metric{},
	}
	data, _ := json.Marshal(analysis)
	return string(data)
}
