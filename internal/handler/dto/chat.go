// Package dto holds the request and response shapes of the HTTP API.
package dto

import "github.com/oeelens/oee-apiserver/internal/domain/entity"

// ChatRequest is the POST /api/v1/chat request body.
type ChatRequest struct {
	Query   string `json:"query"`
	Machine string `json:"machine"`
}

// ChatResponse is the chat answer returned to the dashboard. Response
// carries the raw markdown text; HTML carries the rendered form a chat
// bubble can display directly.
type ChatResponse struct {
	Response string           `json:"response"`
	HTML     string           `json:"html"`
	Type     string           `json:"type"` // success or error
	Analysis *entity.Analysis `json:"analysis,omitempty"`
	Charts   []ChartData      `json:"charts"`
}

// ChartData is one rendered chart for the UI.
type ChartData struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Image       string `json:"image"` // base64-encoded PNG
	Description string `json:"description,omitempty"`
}

// ExportRequest is the POST /api/v1/export-pdf request body.
type ExportRequest struct {
	Content string      `json:"content"`
	Charts  []ChartData `json:"charts"`
}

// ChartsFromEntities converts domain charts for the wire.
func ChartsFromEntities(charts []entity.Chart) []ChartData {
	out := make([]ChartData, len(charts))
	for i, c := range charts {
		out[i] = ChartData{
			Type:        c.Type,
			Title:       c.Title,
			Image:       c.Image,
			Description: c.Description,
		}
	}
	return out
}

// ChartsToEntities converts wire charts back to domain charts.
func ChartsToEntities(charts []ChartData) []entity.Chart {
	out := make([]entity.Chart, len(charts))
	for i, c := range charts {
		out[i] = entity.Chart{
			Type:        c.Type,
			Title:       c.Title,
			Image:       c.Image,
			Description: c.Description,
		}
	}
	return out
}
