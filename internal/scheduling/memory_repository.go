package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository keeps every store in process memory. State lives for the
// lifetime of the process; there is no persistence and no sharing across
// instances.
type MemoryRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]Appointment
	staff        map[uuid.UUID]Staff
	vehicles     map[uuid.UUID]Vehicle
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		appointments: make(map[uuid.UUID]Appointment),
		staff:        make(map[uuid.UUID]Staff),
		vehicles:     make(map[uuid.UUID]Vehicle),
	}
}

// Appointments

func (r *MemoryRepository) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = uuid.New()
	a.Status = StatusPending
	a.AssignedStaff = nil
	a.AssignedVehicle = nil
	a.CreatedAt = time.Now().UTC()

	r.appointments[a.ID] = a
	stored := a
	return &stored, nil
}

func (r *MemoryRepository) ListAppointments(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}

	// Newest first; ties broken by id so the order is deterministic.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	return out, nil
}

func (r *MemoryRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) UpdateAppointment(ctx context.Context, id uuid.UUID, mutate func(*Appointment)) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	mutate(&a)
	r.appointments[id] = a
	return &a, nil
}

func (r *MemoryRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	return nil
}

// Staff

func (r *MemoryRepository) CreateStaff(ctx context.Context, s Staff) (*Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.New()
	s.Available = true
	r.staff[s.ID] = s
	stored := s
	return &stored, nil
}

func (r *MemoryRepository) ListStaff(ctx context.Context) ([]Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Staff, 0, len(r.staff))
	for _, s := range r.staff {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) UpdateStaff(ctx context.Context, id uuid.UUID, mutate func(*Staff)) (*Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	mutate(&s)
	r.staff[id] = s
	return &s, nil
}

func (r *MemoryRepository) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.staff[id]; !ok {
		return ErrStaffNotFound
	}
	delete(r.staff, id)
	return nil
}

// Vehicles

func (r *MemoryRepository) CreateVehicle(ctx context.Context, v Vehicle) (*Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v.ID = uuid.New()
	v.Available = true
	r.vehicles[v.ID] = v
	stored := v
	return &stored, nil
}

func (r *MemoryRepository) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	return out, nil
}

func (r *MemoryRepository) GetVehicleByID(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return &v, nil
}

func (r *MemoryRepository) UpdateVehicle(ctx context.Context, id uuid.UUID, mutate func(*Vehicle)) (*Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	mutate(&v)
	r.vehicles[id] = v
	return &v, nil
}

func (r *MemoryRepository) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[id]; !ok {
		return ErrVehicleNotFound
	}
	delete(r.vehicles, id)
	return nil
}
