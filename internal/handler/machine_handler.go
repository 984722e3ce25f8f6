package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/handler/dto"
)

// MachineHandler serves machine discovery endpoints.
type MachineHandler struct {
	usecase domain.MachineUsecase
	logger  *slog.Logger
}

// NewMachineHandler creates the machine handler.
func NewMachineHandler(usecase domain.MachineUsecase, logger *slog.Logger) *MachineHandler {
	return &MachineHandler{usecase: usecase, logger: logger}
}

// List returns all known machines.
//
//	@Summary		List machines
//	@Description	Returns every machine with imported telemetry, naturally sorted
//	@Tags			machines
//	@Produce		json
//	@Success		200	{object}	handler.Response{data=dto.MachineListResponse}
//	@Router			/machines [get]
func (h *MachineHandler) List(ctx context.Context, c *app.RequestContext) {
	machines, err := h.usecase.ListMachines(ctx)
	if err != nil {
		h.logger.Error("failed to list machines", "error", err)
		ErrorResponse(c, err)
		return
	}
	if machines == nil {
		machines = []string{}
	}
	SuccessResponse(c, dto.MachineListResponse{Machines: machines})
}

// ListFiles returns the imported source files of one machine.
//
//	@Summary		List machine files
//	@Description	Returns the imported telemetry source files for a machine
//	@Tags			machines
//	@Produce		json
//	@Param			machine	path		string	true	"Machine name"
//	@Success		200		{object}	handler.Response{data=dto.MachineFilesResponse}
//	@Failure		404		{object}	handler.Response
//	@Router			/machines/{machine}/files [get]
func (h *MachineHandler) ListFiles(ctx context.Context, c *app.RequestContext) {
	machine := c.Param("machine")

	files, err := h.usecase.ListFiles(ctx, machine)
	if err != nil {
		h.logger.Error("failed to list files", "machine", machine, "error", err)
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, dto.MachineFilesResponse{
		Machine: machine,
		Files:   dto.FilesFromEntities(files),
	})
}
