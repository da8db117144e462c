package scheduling

import (
	"context"
	"errors"
)

var (
	ErrNotRegistered      = errors.New("patient is not registered with a doctor")
	ErrNoAppointments     = errors.New("no appointments found")
	ErrInvalidAppointment = errors.New("invalid appointment")
	ErrDoctorMismatch     = errors.New("patient is registered with a different doctor")
)

type RegistrationRepository interface {
	Create(ctx context.Context, r *Registration) error
	// FirstByPatient returns the earliest registration row for the patient.
	// Later rows for the same patient are kept on disk but never consulted.
	FirstByPatient(ctx context.Context, patientID string) (*Registration, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Registration, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error)
	// LatestByPatient returns the patient's most recently appended appointment.
	LatestByPatient(ctx context.Context, patientID string) (*Appointment, error)
}
