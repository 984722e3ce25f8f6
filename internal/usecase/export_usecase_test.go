package usecase

import (
	"context"
	"testing"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

type testExporter struct {
	out    []byte
	err    error
	charts int
}

func (e *testExporter) BuildPDF(content string, charts []entity.Chart) ([]byte, error) {
	e.charts = len(charts)
	return e.out, e.err
}

func TestExportPDF(t *testing.T) {
	exporter := &testExporter{out: []byte("%PDF-1.7 fake")}
	u := NewExportUsecase(exporter, testLogger())

	out, err := u.ExportPDF(context.Background(), &domain.ExportRequest{
		Content: "report text",
		Charts:  []entity.Chart{{Type: "bar"}, {Type: "pie"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "%PDF-1.7 fake" {
		t.Errorf("unexpected output: %q", out)
	}
	if exporter.charts != 2 {
		t.Errorf("exporter saw %d charts, want 2", exporter.charts)
	}
}

func TestExportPDFValidation(t *testing.T) {
	u := NewExportUsecase(&testExporter{}, testLogger())

	_, err := u.ExportPDF(context.Background(), nil)
	if !domain.IsInvalidInput(err) {
		t.Errorf("nil request: got %v", err)
	}
	_, err = u.ExportPDF(context.Background(), &domain.ExportRequest{})
	if !domain.IsInvalidInput(err) {
		t.Errorf("empty content: got %v", err)
	}
}

func TestListFilesValidation(t *testing.T) {
	u := NewMachineUsecase(&testMachineRepository{}, testLogger())
	_, err := u.ListFiles(context.Background(), "")
	if !domain.IsInvalidInput(err) {
		t.Errorf("empty machine: got %v", err)
	}
}

func TestListFilesNoData(t *testing.T) {
	u := NewMachineUsecase(&testMachineRepository{
		files: map[string][]entity.DataFile{"MC_PRESS_9": {}},
	}, testLogger())

	_, err := u.ListFiles(context.Background(), "MC_PRESS_9")
	if !domain.IsNoData(err) {
		t.Errorf("known machine without files: got %v, want no-data", err)
	}
}
