package domain

import (
	"context"
	"time"

	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// MachineRepository is the telemetry data store interface.
type MachineRepository interface {
	// ListMachines returns all known machine names, naturally sorted.
	ListMachines(ctx context.Context) ([]string, error)

	// ListFiles returns the imported source files for one machine.
	ListFiles(ctx context.Context, machine string) ([]entity.DataFile, error)

	// QueryRange returns shift records for a machine between two dates
	// (inclusive), ordered by date then start hour.
	QueryRange(ctx context.Context, machine string, start, end time.Time) ([]entity.ShiftRecord, error)
}

// MachineUsecase is the machine listing use case interface.
type MachineUsecase interface {
	ListMachines(ctx context.Context) ([]string, error)
	ListFiles(ctx context.Context, machine string) ([]entity.DataFile, error)
}
