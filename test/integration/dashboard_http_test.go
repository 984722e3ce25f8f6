//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/network/netpoll"

	"github.com/oeelens/oee-apiserver/internal/chart"
	"github.com/oeelens/oee-apiserver/internal/export"
	"github.com/oeelens/oee-apiserver/internal/handler"
	"github.com/oeelens/oee-apiserver/internal/handler/dto"
	"github.com/oeelens/oee-apiserver/internal/infrastructure/llm"
	"github.com/oeelens/oee-apiserver/internal/infrastructure/telemetry"
	"github.com/oeelens/oee-apiserver/internal/router"
	"github.com/oeelens/oee-apiserver/internal/usecase"
	"github.com/oeelens/oee-apiserver/pkg/database"
)

const testCSV = `date,devicetype,shiftname,starthour,endhour,avg_oee,avg_avail,avg_perf,avg_quality,avg_current,ai_partcount,total_plannedpart,total_part_reject,avg_total_energy,powerunitcost
2025-01-06,PRESS,SH1,06:00,14:00,72.5,85.0,88.0,94.0,12.1,410,450,18,55.2,0.2
2025-01-06,PRESS,SH2,14:00,22:00,68.0,82.0,85.5,92.5,11.8,390,450,25,53.9,0.2
2025-01-07,PRESS,SH1,06:00,14:00,75.1,87.5,89.0,95.2,12.4,430,450,12,56.0,0.2
`

// TestDashboardHTTP boots the full stack on a loopback port and walks
// the dashboard endpoints end to end. The completion backend points at
// a closed port, so answers come from the rule-based fallback and the
// test needs no external services.
//
// Run with: go test -tags integration ./test/integration/
func TestDashboardHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	// Seed a data tree with one machine and one monthly CSV
	dataDir := t.TempDir()
	machineDir := filepath.Join(dataDir, "MC_PRESS_9")
	if err := os.MkdirAll(machineDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(machineDir, "january_2025.csv"), []byte(testCSV), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	db, err := database.Open(":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer database.Close(db, logger)

	store, err := telemetry.NewStore(db, logger)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	ctx := context.Background()
	if err := store.ImportDir(ctx, dataDir); err != nil {
		t.Fatalf("import: %v", err)
	}

	// Closed port forces the rule-based fallback path
	llmClient, err := llm.NewClient(llm.Config{
		BaseURL: "http://127.0.0.1:9",
		Model:   "test",
		Timeout: 500 * time.Millisecond,
	}, logger)
	if err != nil {
		t.Fatalf("create llm client: %v", err)
	}

	charts := chart.NewGenerator(logger)
	exporter := export.NewPDFExporter(logger)

	chatUC := usecase.NewChatUsecase(store, llmClient, charts, logger)
	machineUC := usecase.NewMachineUsecase(store, logger)
	exportUC := usecase.NewExportUsecase(exporter, logger)

	h := server.New(
		server.WithHostPorts("127.0.0.1:18080"),
		server.WithTransport(netpoll.NewTransporter),
	)
	router.Setup(h,
		handler.NewMachineHandler(machineUC, logger),
		handler.NewChatHandler(chatUC, logger),
		handler.NewExportHandler(exportUC, logger),
		handler.NewHealthHandler(db),
	)

	go func() {
		if err := h.Run(); err != nil {
			logger.Error("server failed", "error", err)
		}
	}()
	time.Sleep(2 * time.Second)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.Shutdown(ctx)
	}()

	baseURL := "http://127.0.0.1:18080"
	var chatAnswer dto.ChatResponse

	t.Run("list machines", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/v1/machines")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		var envelope struct {
			Code string                  `json:"code"`
			Data dto.MachineListResponse `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(envelope.Data.Machines) != 1 || envelope.Data.Machines[0] != "MC_PRESS_9" {
			t.Errorf("machines = %v", envelope.Data.Machines)
		}
	})

	t.Run("list machine files", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/api/v1/machines/MC_PRESS_9/files")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var envelope struct {
			Data dto.MachineFilesResponse `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(envelope.Data.Files) != 1 {
			t.Fatalf("files = %v", envelope.Data.Files)
		}
		f := envelope.Data.Files[0]
		if f.Filename != "january_2025.csv" || f.Records != 3 {
			t.Errorf("file = %+v", f)
		}
	})

	t.Run("chat answers from the fallback generator", func(t *testing.T) {
		body, _ := json.Marshal(dto.ChatRequest{
			Query:   "give me a comprehensive report for january 2025",
			Machine: "MC_PRESS_9",
		})
		resp, err := http.Post(baseURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&chatAnswer); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if chatAnswer.Type != "success" {
			t.Fatalf("type = %q, response = %q", chatAnswer.Type, chatAnswer.Response)
		}
		if !strings.Contains(chatAnswer.Response, "Analysis for january_2025") {
			t.Errorf("missing period prefix: %q", chatAnswer.Response)
		}
		if !strings.Contains(chatAnswer.HTML, "<br>") {
			t.Errorf("answer was not rendered to HTML")
		}
		if len(chatAnswer.Charts) == 0 {
			t.Errorf("comprehensive report should carry charts")
		}
	})

	t.Run("chat with unknown period returns error answer", func(t *testing.T) {
		body, _ := json.Marshal(dto.ChatRequest{
			Query:   "report for march 2024",
			Machine: "MC_PRESS_9",
		})
		resp, err := http.Post(baseURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("no-data answers ride a 200, got %d", resp.StatusCode)
		}
		var answer dto.ChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if answer.Type != "error" {
			t.Errorf("type = %q", answer.Type)
		}
	})

	t.Run("export chat answer as PDF", func(t *testing.T) {
		if chatAnswer.Response == "" {
			t.Skip("chat subtest did not produce an answer")
		}
		body, _ := json.Marshal(dto.ExportRequest{
			Content: chatAnswer.Response,
			Charts:  chatAnswer.Charts,
		})
		resp, err := http.Post(baseURL+"/api/v1/export-pdf", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "manufacturing_report.pdf") {
			t.Errorf("Content-Disposition = %q", cd)
		}
		pdf, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !bytes.HasPrefix(pdf, []byte("%PDF")) {
			t.Errorf("body is not a PDF (%d bytes)", len(pdf))
		}
	})

	t.Run("readiness probe", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/health/ready", baseURL))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})
}
