package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/ehr/clinicdesk/internal/platform/flatfile"
)

// -- Registration --

type registrationRepoFile struct{ table *flatfile.Table }

func NewRegistrationRepoFile(table *flatfile.Table) RegistrationRepository {
	return &registrationRepoFile{table: table}
}

func (r *registrationRepoFile) Create(ctx context.Context, reg *Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.table.Append(reg.Fields())
}

func (r *registrationRepoFile) FirstByPatient(ctx context.Context, patientID string) (*Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := r.table.FindFirst(ColRegPatientID, patientID)
	if errors.Is(err, flatfile.ErrNotFound) {
		return nil, fmt.Errorf("patient %s: %w", patientID, ErrNotRegistered)
	}
	if err != nil {
		return nil, err
	}
	return RegistrationFromRow(row)
}

func (r *registrationRepoFile) ListByDoctor(ctx context.Context, doctorID string) ([]*Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.table.FindAll(ColRegDoctorID, doctorID)
	if err != nil {
		return nil, err
	}
	result := make([]*Registration, 0, len(rows))
	for _, row := range rows {
		reg, err := RegistrationFromRow(row)
		if err != nil {
			continue
		}
		result = append(result, reg)
	}
	return result, nil
}

// -- Appointment --

type appointmentRepoFile struct{ table *flatfile.Table }

func NewAppointmentRepoFile(table *flatfile.Table) AppointmentRepository {
	return &appointmentRepoFile{table: table}
}

func (r *appointmentRepoFile) Create(ctx context.Context, a *Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.table.Append(a.Fields())
}

func (r *appointmentRepoFile) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	return r.listBy(ctx, ColApptPatientID, patientID)
}

func (r *appointmentRepoFile) ListByDoctor(ctx context.Context, doctorID string) ([]*Appointment, error) {
	return r.listBy(ctx, ColApptDoctorID, doctorID)
}

func (r *appointmentRepoFile) LatestByPatient(ctx context.Context, patientID string) (*Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := r.table.FindLast(ColApptPatientID, patientID)
	if errors.Is(err, flatfile.ErrNotFound) {
		return nil, fmt.Errorf("patient %s: %w", patientID, ErrNoAppointments)
	}
	if err != nil {
		return nil, err
	}
	return AppointmentFromRow(row)
}

func (r *appointmentRepoFile) listBy(ctx context.Context, column int, value string) ([]*Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.table.FindAll(column, value)
	if err != nil {
		return nil, err
	}
	result := make([]*Appointment, 0, len(rows))
	for _, row := range rows {
		a, err := AppointmentFromRow(row)
		if err != nil {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}
