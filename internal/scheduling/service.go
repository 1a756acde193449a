package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrStaffUnavailable        = errors.New("staff member is not available")
	ErrVehicleUnavailable      = errors.New("vehicle is not available")
	ErrInvalidStatusTransition = errors.New("invalid appointment status for this operation")
)

type Service struct {
	repo   Repository
	locker Locker
	log    zerolog.Logger
}

func NewService(repo Repository, locker Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		log:    log.With().Str("component", "scheduling").Logger(),
	}
}

// CreateAppointment registers a new pickup request. The repository assigns
// the id, the pending status and the creation timestamp.
func (s *Service) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	created, err := s.repo.CreateAppointment(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info().
		Str("appointment_id", created.ID.String()).
		Str("user_id", created.UserID.String()).
		Time("appointment_time", created.AppointmentTime).
		Msg("appointment created")

	return created, nil
}

func (s *Service) ListAppointments(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx, filter)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("appointment_id", id.String()).Msg("appointment deleted")
	return nil
}

// Assign binds one staff member and one vehicle to a pending appointment and
// marks both resources unavailable. The whole check-then-mutate sequence runs
// under the locker so a concurrent call cannot grab the same resources.
func (s *Service) Assign(ctx context.Context, appointmentID, staffID, vehicleID uuid.UUID) (*Appointment, error) {
	var assigned *Appointment

	err := s.locker.WithLock(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if appt.Status != StatusPending {
			return ErrInvalidStatusTransition
		}

		staff, err := s.repo.GetStaffByID(ctx, staffID)
		if err != nil {
			return err
		}
		vehicle, err := s.repo.GetVehicleByID(ctx, vehicleID)
		if err != nil {
			return err
		}

		// All checks before any mutation: a conflict must leave every record
		// untouched.
		if !staff.Available {
			return ErrStaffUnavailable
		}
		if !vehicle.Available {
			return ErrVehicleUnavailable
		}

		if _, err := s.repo.UpdateAppointment(ctx, appointmentID, func(a *Appointment) {
			a.Status = StatusAssigned
			sid, vid := staffID, vehicleID
			a.AssignedStaff = &sid
			a.AssignedVehicle = &vid
		}); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		if _, err := s.repo.UpdateStaff(ctx, staffID, func(st *Staff) {
			st.Available = false
		}); err != nil {
			return fmt.Errorf("mark staff unavailable: %w", err)
		}
		if _, err := s.repo.UpdateVehicle(ctx, vehicleID, func(v *Vehicle) {
			v.Available = false
		}); err != nil {
			return fmt.Errorf("mark vehicle unavailable: %w", err)
		}

		assigned, err = s.repo.GetAppointmentByID(ctx, appointmentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appointmentID.String()).
		Str("staff_id", staffID.String()).
		Str("vehicle_id", vehicleID.String()).
		Msg("appointment assigned")

	return assigned, nil
}

// Complete moves an assigned appointment to completed and releases its staff
// member and vehicle. Completing anything other than an assigned appointment
// fails; calling it twice is a caller bug and surfaces as such.
func (s *Service) Complete(ctx context.Context, appointmentID uuid.UUID) (*Appointment, error) {
	var completed *Appointment

	err := s.locker.WithLock(ctx, func(ctx context.Context) error {
		appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
		if err != nil {
			return err
		}
		if appt.Status != StatusAssigned {
			return ErrInvalidStatusTransition
		}

		completed, err = s.repo.UpdateAppointment(ctx, appointmentID, func(a *Appointment) {
			a.Status = StatusCompleted
		})
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		// Release is best-effort: a resource deleted while assigned is
		// tolerated, matching the unguarded resource deletion in the stores.
		if appt.AssignedStaff != nil {
			if _, err := s.repo.UpdateStaff(ctx, *appt.AssignedStaff, func(st *Staff) {
				st.Available = true
			}); err != nil && !errors.Is(err, ErrStaffNotFound) {
				return fmt.Errorf("release staff: %w", err)
			}
		}
		if appt.AssignedVehicle != nil {
			if _, err := s.repo.UpdateVehicle(ctx, *appt.AssignedVehicle, func(v *Vehicle) {
				v.Available = true
			}); err != nil && !errors.Is(err, ErrVehicleNotFound) {
				return fmt.Errorf("release vehicle: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appointmentID.String()).
		Msg("appointment completed")

	return completed, nil
}

// CreateStaff / staff passthroughs

func (s *Service) CreateStaff(ctx context.Context, st Staff) (*Staff, error) {
	return s.repo.CreateStaff(ctx, st)
}

func (s *Service) ListStaff(ctx context.Context) ([]Staff, error) {
	return s.repo.ListStaff(ctx)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.repo.GetStaffByID(ctx, id)
}

func (s *Service) UpdateStaff(ctx context.Context, id uuid.UUID, name, phone string) (*Staff, error) {
	return s.repo.UpdateStaff(ctx, id, func(st *Staff) {
		st.Name = name
		st.Phone = phone
	})
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteStaff(ctx, id)
}

// Vehicle passthroughs

func (s *Service) CreateVehicle(ctx context.Context, v Vehicle) (*Vehicle, error) {
	return s.repo.CreateVehicle(ctx, v)
}

func (s *Service) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	return s.repo.ListVehicles(ctx)
}

func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	return s.repo.GetVehicleByID(ctx, id)
}

func (s *Service) UpdateVehicle(ctx context.Context, id uuid.UUID, plate, vehicleType string) (*Vehicle, error) {
	return s.repo.UpdateVehicle(ctx, id, func(v *Vehicle) {
		v.Plate = plate
		v.Type = vehicleType
	})
}

func (s *Service) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteVehicle(ctx, id)
}
