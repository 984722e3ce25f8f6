package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oeelens/oee-apiserver/internal/analysis"
	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/markdown"
)

// chatUsecase coordinates the data store, the model backend and the
// chart generator to answer one query.
type chatUsecase struct {
	repo   domain.MachineRepository
	llm    domain.LLMClient
	charts domain.ChartGenerator
	logger *slog.Logger
	now    func() time.Time
}

// NewChatUsecase creates the chat use case.
func NewChatUsecase(
	repo domain.MachineRepository,
	llm domain.LLMClient,
	charts domain.ChartGenerator,
	logger *slog.Logger,
) domain.ChatUsecase {
	return &chatUsecase{
		repo:   repo,
		llm:    llm,
		charts: charts,
		logger: logger,
		now:    time.Now,
	}
}

// Chat answers a natural-language query about one machine.
//
// The flow: resolve the month window the query refers to, load the
// matching records, summarize them, ask the model backend for an
// interpretation and the answer text, render charts when asked for,
// and finally convert the markdown answer to HTML for the chat UI.
//
// A query that matches no records yields a ChatResponse with Type set
// to error rather than a Go error; the condition is an answer, not a
// failure.
func (u *chatUsecase) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := validateChatRequest(req); err != nil {
		return nil, err
	}

	period := analysis.ExtractPeriod(req.Query, u.now())
	start, end := analysis.PeriodRange(period)

	records, err := u.repo.QueryRange(ctx, req.Machine, start, end)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		u.logger.Info("query matched no records",
			"machine", req.Machine, "period", period.Label())
		text := fmt.Sprintf("No data found for machine %s. Please check if the machine folder exists and contains CSV files.", req.Machine)
		if period.Explicit {
			text = fmt.Sprintf("No data found for machine %s in %s. Please check if data for that period has been imported.", req.Machine, period.Label())
		}
		return &domain.ChatResponse{
			Response: text,
			HTML:     markdown.Format(text),
			Type:     domain.ResponseError,
		}, nil
	}

	summary := analysis.Summarize(records)
	a := u.llm.AnalyzeQuery(ctx, req.Query, req.Machine, summary)
	text := u.llm.GenerateResponse(ctx, req.Query, req.Machine, summary, a)

	if period.Explicit {
		text = fmt.Sprintf("**Analysis for %s:**\n\n%s", period.Label(), text)
	}

	resp := &domain.ChatResponse{
		Response: text,
		HTML:     markdown.Format(text),
		Type:     domain.ResponseSuccess,
		Analysis: a,
	}
	if a.NeedsChart {
		resp.Charts = u.charts.Generate(a, req.Machine, records, summary)
	}

	u.logger.Info("query answered",
		"machine", req.Machine,
		"intent", a.Intent,
		"records", len(records),
		"charts", len(resp.Charts))
	return resp, nil
}

func validateChatRequest(req *domain.ChatRequest) error {
	if req == nil {
		return domain.NewInvalidInputError("request is required")
	}
	if req.Query == "" {
		return domain.NewInvalidInputError("query is required")
	}
	if req.Machine == "" {
		return domain.NewInvalidInputError("machine is required")
	}
	return nil
}
