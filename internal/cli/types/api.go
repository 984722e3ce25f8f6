// Package types holds the wire shapes the CLI exchanges with the API server.
package types

// APIResponse is the standard response envelope used by most endpoints
type APIResponse[T any] struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// MachineListData is the payload of GET /api/v1/machines
type MachineListData struct {
	Machines []string `json:"machines"`
}

// MachineFile describes one imported telemetry source file
type MachineFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	Month    string `json:"month,omitempty"`
	Year     int    `json:"year,omitempty"`
	Records  int    `json:"records"`
}

// MachineFilesData is the payload of GET /api/v1/machines/:machine/files
type MachineFilesData struct {
	Machine string        `json:"machine"`
	Files   []MachineFile `json:"files"`
}

// ChatRequest is the POST /api/v1/chat request body
type ChatRequest struct {
	Query   string `json:"query"`
	Machine string `json:"machine"`
}

// ChatResponse is returned by the chat endpoint without an envelope
type ChatResponse struct {
	Response string      `json:"response"`
	HTML     string      `json:"html"`
	Type     string      `json:"type"` // success or error
	Charts   []ChartData `json:"charts"`
}

// ChartData is one rendered chart attached to a chat answer
type ChartData struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Image       string `json:"image"` // base64-encoded PNG
	Description string `json:"description,omitempty"`
}

// ExportRequest is the POST /api/v1/export-pdf request body
type ExportRequest struct {
	Content string      `json:"content"`
	Charts  []ChartData `json:"charts"`
}
