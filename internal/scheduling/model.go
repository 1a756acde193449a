package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusAssigned  AppointmentStatus = "assigned"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// LineItem is one entry of a pickup request, e.g. 5 document bags.
type LineItem struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"userId"`
	ContactName     string            `json:"contactName"`
	ContactPhone    string            `json:"contactPhone"`
	Address         string            `json:"address"`
	AppointmentTime time.Time         `json:"appointmentTime"`
	Items           []LineItem        `json:"items"`
	Status          AppointmentStatus `json:"status"`
	AssignedStaff   *uuid.UUID        `json:"assignedStaff"`
	AssignedVehicle *uuid.UUID        `json:"assignedVehicle"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type Staff struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Available bool      `json:"available"`
}

type Vehicle struct {
	ID        uuid.UUID `json:"id"`
	Plate     string    `json:"plate"`
	Type      string    `json:"type"`
	Available bool      `json:"available"`
}
