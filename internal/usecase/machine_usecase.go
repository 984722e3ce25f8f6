package usecase

import (
	"context"
	"log/slog"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

type machineUsecase struct {
	repo   domain.MachineRepository
	logger *slog.Logger
}

// NewMachineUsecase creates the machine listing use case.
func NewMachineUsecase(repo domain.MachineRepository, logger *slog.Logger) domain.MachineUsecase {
	return &machineUsecase{repo: repo, logger: logger}
}

func (u *machineUsecase) ListMachines(ctx context.Context) ([]string, error) {
	return u.repo.ListMachines(ctx)
}

func (u *machineUsecase) ListFiles(ctx context.Context, machine string) ([]entity.DataFile, error) {
	if machine == "" {
		return nil, domain.NewInvalidInputError("machine is required")
	}
	files, err := u.repo.ListFiles(ctx, machine)
	if err != nil {
		return nil, err
	}
	// A machine can be known without any importable files behind it,
	// answer that case explicitly instead of with an empty listing.
	if len(files) == 0 {
		return nil, domain.NewNoDataError(machine)
	}
	return files, nil
}
