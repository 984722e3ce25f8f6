package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/handler/dto"
)

// ChatHandler serves the chat endpoint.
type ChatHandler struct {
	usecase domain.ChatUsecase
	logger  *slog.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(usecase domain.ChatUsecase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{usecase: usecase, logger: logger}
}

// Chat answers a natural-language query about one machine.
//
//	@Summary		Chat query
//	@Description	Answers a natural-language question about a machine's telemetry. A query that matches no data returns type "error" inside a 200 response.
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ChatRequest	true	"Query and machine"
//	@Success		200		{object}	dto.ChatResponse
//	@Failure		400		{object}	handler.Response
//	@Router			/chat [post]
func (h *ChatHandler) Chat(ctx context.Context, c *app.RequestContext) {
	var req dto.ChatRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		ErrorResponse(c, domain.NewInvalidInputError("request body must be JSON"))
		return
	}

	h.logger.Info("chat request received", "machine", req.Machine)

	resp, err := h.usecase.Chat(ctx, &domain.ChatRequest{
		Query:   req.Query,
		Machine: req.Machine,
	})
	if err != nil {
		h.logger.Error("chat failed", "machine", req.Machine, "error", err)
		ErrorResponse(c, err)
		return
	}

	charts := dto.ChartsFromEntities(resp.Charts)
	if charts == nil {
		charts = []dto.ChartData{}
	}

	// The dashboard consumes this shape directly, without the
	// envelope other endpoints use.
	c.JSON(200, dto.ChatResponse{
		Response: resp.Response,
		HTML:     resp.HTML,
		Type:     resp.Type,
		Analysis: resp.Analysis,
		Charts:   charts,
	})
}
