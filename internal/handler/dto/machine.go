package dto

import (
	"time"

	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// MachineListResponse is the GET /api/v1/machines payload.
type MachineListResponse struct {
	Machines []string `json:"machines"`
}

// MachineFile describes one imported telemetry source file.
type MachineFile struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Month    string    `json:"month,omitempty"`
	Year     int       `json:"year,omitempty"`
	Records  int       `json:"records"`
}

// MachineFilesResponse is the GET /api/v1/machines/:machine/files payload.
type MachineFilesResponse struct {
	Machine string        `json:"machine"`
	Files   []MachineFile `json:"files"`
}

// FilesFromEntities converts domain data files for the wire.
func FilesFromEntities(files []entity.DataFile) []MachineFile {
	out := make([]MachineFile, len(files))
	for i, f := range files {
		out[i] = MachineFile{
			Filename: f.Filename,
			Size:     f.Size,
			Modified: f.Modified,
			Month:    f.Month,
			Year:     f.Year,
			Records:  f.Records,
		}
	}
	return out
}
