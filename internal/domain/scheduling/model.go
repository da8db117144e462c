package scheduling

import (
	"fmt"
	"strings"

	"github.com/ehr/clinicdesk/internal/platform/flatfile"
)

// Column positions in the registration table.
const (
	ColRegPatientID = iota
	ColRegDoctorID

	RegistrationColumns
)

// Column positions in the appointment table.
const (
	ColApptPatientID = iota
	ColApptDoctorID
	ColApptDate
	ColApptTime
	ColApptNotes

	AppointmentColumns
)

// Registration links a patient to the doctor they are registered with.
type Registration struct {
	PatientID string
	DoctorID  string
}

func (r *Registration) Fields() []string {
	return []string{r.PatientID, r.DoctorID}
}

func RegistrationFromRow(row []string) (*Registration, error) {
	if !flatfile.HasColumns(row, RegistrationColumns) {
		return nil, fmt.Errorf("%w: registration row has %d columns, want %d", flatfile.ErrMalformedRow, len(row), RegistrationColumns)
	}
	return &Registration{PatientID: row[ColRegPatientID], DoctorID: row[ColRegDoctorID]}, nil
}

// Appointment is one booked visit. Date and Time are stored as entered and
// never parsed.
type Appointment struct {
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Notes     string
}

func (a *Appointment) Fields() []string {
	return []string{a.PatientID, a.DoctorID, a.Date, a.Time, a.Notes}
}

func AppointmentFromRow(row []string) (*Appointment, error) {
	if !flatfile.HasColumns(row, AppointmentColumns) {
		return nil, fmt.Errorf("%w: appointment row has %d columns, want %d", flatfile.ErrMalformedRow, len(row), AppointmentColumns)
	}
	return &Appointment{
		PatientID: row[ColApptPatientID],
		DoctorID:  row[ColApptDoctorID],
		Date:      row[ColApptDate],
		Time:      row[ColApptTime],
		Notes:     row[ColApptNotes],
	}, nil
}

// Validate requires patient, date and time. DoctorID may be empty before
// booking resolves it from the registration. Notes are optional.
func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.PatientID) == "" {
		return fmt.Errorf("%w: patient_id is required", ErrInvalidAppointment)
	}
	if strings.TrimSpace(a.Date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidAppointment)
	}
	if strings.TrimSpace(a.Time) == "" {
		return fmt.Errorf("%w: time is required", ErrInvalidAppointment)
	}
	if err := flatfile.ValidateFields(a.Fields()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppointment, err)
	}
	return nil
}
