package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LineItemRequest struct {
	Type     string `json:"type" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type CreateAppointmentRequest struct {
	ContactName     string            `json:"contactName" validate:"required"`
	ContactPhone    string            `json:"contactPhone" validate:"required"`
	Address         string            `json:"address" validate:"required"`
	AppointmentTime time.Time         `json:"appointmentTime" validate:"required"`
	Items           []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type AssignRequest struct {
	StaffID   string `json:"staffId" validate:"required,uuid"`
	VehicleID string `json:"vehicleId" validate:"required,uuid"`
}

type StaffRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type VehicleRequest struct {
	Plate string `json:"plate" validate:"required"`
	Type  string `json:"type" validate:"required"`
}

// validationMessage flattens the first violation into the envelope message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", field)
		case "email":
			return fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			return fmt.Sprintf("%s must have at least %s", field, fe.Param())
		case "gt":
			return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
		case "uuid":
			return fmt.Sprintf("%s must be a valid UUID", field)
		default:
			return fmt.Sprintf("%s is invalid", field)
		}
	}
	return "invalid request"
}
