package usecase

import (
	"context"
	"log/slog"

	"github.com/oeelens/oee-apiserver/internal/domain"
)

type exportUsecase struct {
	exporter domain.ReportExporter
	logger   *slog.Logger
}

// NewExportUsecase creates the report export use case.
func NewExportUsecase(exporter domain.ReportExporter, logger *slog.Logger) domain.ExportUsecase {
	return &exportUsecase{exporter: exporter, logger: logger}
}

// ExportPDF builds a PDF document from accumulated response content
// and charts.
func (u *exportUsecase) ExportPDF(ctx context.Context, req *domain.ExportRequest) ([]byte, error) {
	if req == nil || req.Content == "" {
		return nil, domain.NewInvalidInputError("content is required")
	}

	out, err := u.exporter.BuildPDF(req.Content, req.Charts)
	if err != nil {
		return nil, err
	}
	u.logger.Info("report exported", "bytes", len(out), "charts", len(req.Charts))
	return out, nil
}
