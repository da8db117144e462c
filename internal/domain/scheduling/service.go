package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type Service struct {
	registrations RegistrationRepository
	appointments  AppointmentRepository
	log           zerolog.Logger
}

func NewService(reg RegistrationRepository, appt AppointmentRepository, logger zerolog.Logger) *Service {
	return &Service{registrations: reg, appointments: appt, log: logger}
}

// -- Registration --

// Register appends a registration row. An existing registration for the
// same patient is not checked; lookups keep returning the first row.
func (s *Service) Register(ctx context.Context, patientID, doctorID string) (*Registration, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(doctorID) == "" {
		return nil, fmt.Errorf("doctor_id is required")
	}
	reg := &Registration{PatientID: patientID, DoctorID: doctorID}
	if err := s.registrations.Create(ctx, reg); err != nil {
		return nil, err
	}
	s.log.Info().Str("patient_id", patientID).Str("doctor_id", doctorID).Msg("patient registered with doctor")
	return reg, nil
}

// DoctorOf returns the doctor the patient is registered with, or
// ErrNotRegistered.
func (s *Service) DoctorOf(ctx context.Context, patientID string) (string, error) {
	reg, err := s.registrations.FirstByPatient(ctx, patientID)
	if err != nil {
		return "", err
	}
	return reg.DoctorID, nil
}

// PatientIDsOf returns the ids of every patient registered with the doctor,
// in registration order.
func (s *Service) PatientIDsOf(ctx context.Context, doctorID string) ([]string, error) {
	regs, err := s.registrations.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(regs))
	for _, r := range regs {
		ids = append(ids, r.PatientID)
	}
	return ids, nil
}

// -- Appointment --

// Book stores a.
//
// A patient who is already registered books with the registered doctor:
// an empty a.DoctorID is filled in from the registration, and a different
// one fails with ErrDoctorMismatch. A patient with no registration is first
// registered with a.DoctorID. No double-booking check is made.
//
// The two appends are not atomic: if the appointment cannot be stored after
// a first-visit registration, the registration row stays.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	registered, err := s.DoctorOf(ctx, a.PatientID)
	switch {
	case err == nil:
		if a.DoctorID == "" {
			a.DoctorID = registered
		} else if a.DoctorID != registered {
			return fmt.Errorf("%w: %s is registered with %s", ErrDoctorMismatch, a.PatientID, registered)
		}
	case errors.Is(err, ErrNotRegistered):
		if a.DoctorID == "" {
			return err
		}
		if _, err := s.Register(ctx, a.PatientID, a.DoctorID); err != nil {
			return err
		}
	default:
		return err
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		return err
	}
	s.log.Info().
		Str("patient_id", a.PatientID).
		Str("doctor_id", a.DoctorID).
		Str("date", a.Date).
		Str("time", a.Time).
		Msg("appointment booked")
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return s.appointments.ListByPatient(ctx, patientID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return s.appointments.ListByDoctor(ctx, doctorID)
}

// LatestDoctor returns the doctor of the patient's last appended
// appointment, or ErrNoAppointments.
func (s *Service) LatestDoctor(ctx context.Context, patientID string) (string, error) {
	a, err := s.appointments.LatestByPatient(ctx, patientID)
	if err != nil {
		return "", err
	}
	return a.DoctorID, nil
}
