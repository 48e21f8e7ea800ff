package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mrigankrai05/VitalSimple/models"
)

// ReportService orchestrates the upload and chat flows.
type ReportService interface {
	Analyze(ctx context.Context, document []byte) (*models.AnalyzeResponse, error)
	Chat(ctx context.Context, req models.ChatRequest) (json.RawMessage, error)
}

// reportServiceImpl holds the dependencies it needs to do its job.
type reportServiceImpl struct {
	ocr      *OCRService
	builder  *StoreBuilder
	sessions *SessionService
	analysis *AnalysisService
	chat     *ChatService
}

// NewReportService creates a new report service instance.
func NewReportService(ocr *OCRService, builder *StoreBuilder, sessions *SessionService, analysis *AnalysisService, chat *ChatService) ReportService {
	return &reportServiceImpl{
		ocr:      ocr,
		builder:  builder,
		sessions: sessions,
		analysis: analysis,
		chat:     chat,
	}
}

// Analyze runs OCR, builds and registers the session's context store, and
// produces the initial structured analysis. It always returns a well-formed
// response: OCR and store-build failures degrade to a canned analysis and
// the session is never registered, so a later chat on that id gets a 404.
func (r *reportServiceImpl) Analyze(ctx context.Context, document []byte) (*models.AnalyzeResponse, error) {
	sessionID := r.sessions.NewID()

	pages, err := r.ocr.Extract(ctx, document)
	if err != nil {
		log.Printf("SERVICE: OCR failed for session %s: %v", sessionID, err)
		return &models.AnalyzeResponse{
			SessionID: sessionID,
			Analysis:  FallbackAnalysis("OCR Failed."),
		}, nil
	}

	store, err := r.builder.Build(ctx, sessionID, pages)
	if err != nil {
		log.Printf("SERVICE: Failed to build context store for session %s: %v", sessionID, err)
		return &models.AnalyzeResponse{
			SessionID: sessionID,
			Analysis:  FallbackAnalysis("Server error."),
		}, nil
	}
	r.sessions.Put(sessionID, store)
	log.Printf("SERVICE: Registered session %s (%d pages).", sessionID, len(pages))

	analysis := r.analysis.Summarize(ctx, JoinPages(pages))
	return &models.AnalyzeResponse{SessionID: sessionID, Analysis: analysis}, nil
}

// Chat answers a follow-up question against a registered session.
func (r *reportServiceImpl) Chat(ctx context.Context, req models.ChatRequest) (json.RawMessage, error) {
	session, err := r.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}

	log.Printf("SERVICE: Chat on session %s: '%s'", req.SessionID, req.Query)
	return r.chat.Answer(ctx, session.Store, req.Query)
}
