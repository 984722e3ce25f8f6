package domain

import (
	"context"

	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// ============ Usecase-layer DTOs ============

// ChatRequest is the internal chat request used by the usecase.
type ChatRequest struct {
	Query   string
	Machine string
}

// Response discriminators for ChatResponse.Type.
const (
	ResponseSuccess = "success"
	ResponseError   = "error"
)

// ChatResponse is the internal chat response. Response holds the raw
// model text; HTML holds the formatter output ready for a chat bubble.
type ChatResponse struct {
	Response string
	HTML     string
	Type     string
	Analysis *entity.Analysis
	Charts   []entity.Chart
}

// ExportRequest carries accumulated response text and charts to the
// report builder.
type ExportRequest struct {
	Content string
	Charts  []entity.Chart
}

// LLMClient talks to the completion backend.
type LLMClient interface {
	// AnalyzeQuery interprets a user query into a structured Analysis.
	// Implementations must degrade to a rule-based result rather than
	// fail when the backend is unreachable.
	AnalyzeQuery(ctx context.Context, query, machine string, summary *entity.Summary) *entity.Analysis

	// GenerateResponse produces the markdown answer text for a query.
	// Falls back to template reports when the backend is unreachable.
	GenerateResponse(ctx context.Context, query, machine string, summary *entity.Summary, analysis *entity.Analysis) string
}

// ChartGenerator renders charts for an analyzed query.
type ChartGenerator interface {
	Generate(analysis *entity.Analysis, machine string, records []entity.ShiftRecord, summary *entity.Summary) []entity.Chart
}

// ReportExporter builds a downloadable report document.
type ReportExporter interface {
	BuildPDF(content string, charts []entity.Chart) ([]byte, error)
}

// ChatUsecase is the chat use case interface.
type ChatUsecase interface {
	// Chat answers a natural-language query about one machine.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// ExportUsecase builds report documents from accumulated responses.
type ExportUsecase interface {
	ExportPDF(ctx context.Context, req *ExportRequest) ([]byte, error)
}
