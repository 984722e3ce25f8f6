package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/handler/dto"
)

// ExportHandler serves the report download endpoint.
type ExportHandler struct {
	usecase domain.ExportUsecase
	logger  *slog.Logger
}

// NewExportHandler creates the export handler.
func NewExportHandler(usecase domain.ExportUsecase, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{usecase: usecase, logger: logger}
}

// ExportPDF builds a PDF from accumulated responses and returns it as
// an attachment.
//
//	@Summary		Export report PDF
//	@Description	Builds a PDF document from accumulated chat responses and charts
//	@Tags			export
//	@Accept			json
//	@Produce		application/pdf
//	@Param			request	body	dto.ExportRequest	true	"Report content and charts"
//	@Success		200		{file}	binary
//	@Failure		400		{object}	handler.Response
//	@Router			/export-pdf [post]
func (h *ExportHandler) ExportPDF(ctx context.Context, c *app.RequestContext) {
	var req dto.ExportRequest
	if err := c.BindJSON(&req); err != nil {
		h.logger.Error("failed to bind request", "error", err)
		ErrorResponse(c, domain.NewInvalidInputError("request body must be JSON"))
		return
	}

	out, err := h.usecase.ExportPDF(ctx, &domain.ExportRequest{
		Content: req.Content,
		Charts:  dto.ChartsToEntities(req.Charts),
	})
	if err != nil {
		h.logger.Error("export failed", "error", err)
		ErrorResponse(c, err)
		return
	}

	c.Response.Header.Set("Content-Disposition", `attachment; filename="manufacturing_report.pdf"`)
	c.Data(200, "application/pdf", out)
}
