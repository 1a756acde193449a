package scheduling

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrVehicleNotFound     = errors.New("vehicle not found")
)

// ListFilter narrows an appointment listing. Nil fields match everything.
type ListFilter struct {
	UserID *uuid.UUID
	Status *AppointmentStatus
}

// Repository contains all store interactions needed by the service.
// Implementations must make each call individually safe for concurrent use;
// cross-call atomicity is the service's job (see Locker).
type Repository interface {
	CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	ListAppointments(ctx context.Context, filter ListFilter) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, mutate func(*Appointment)) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	CreateStaff(ctx context.Context, s Staff) (*Staff, error)
	ListStaff(ctx context.Context) ([]Staff, error)
	GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, mutate func(*Staff)) (*Staff, error)
	DeleteStaff(ctx context.Context, id uuid.UUID) error

	CreateVehicle(ctx context.Context, v Vehicle) (*Vehicle, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	GetVehicleByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, mutate func(*Vehicle)) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, id uuid.UUID) error
}
