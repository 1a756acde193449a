package scheduling

import (
	"context"
	"errors"
)

var ErrUnknownExportType = errors.New("unknown export type")

const (
	ExportAppointments = "appointments"
	ExportStaff        = "staff"
	ExportVehicles     = "vehicles"
)

// Export returns the full contents of the named store. An empty store
// exports as an empty slice, not an error.
func (s *Service) Export(ctx context.Context, storeName string) (any, error) {
	switch storeName {
	case ExportAppointments:
		return s.repo.ListAppointments(ctx, ListFilter{})
	case ExportStaff:
		return s.repo.ListStaff(ctx)
	case ExportVehicles:
		return s.repo.ListVehicles(ctx)
	default:
		return nil, ErrUnknownExportType
	}
}
