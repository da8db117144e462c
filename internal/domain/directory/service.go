// Package directory answers the cross-table questions the menus ask: who a
// doctor's patients are, which doctor a patient sees, and what an
// appointment history looks like with names filled in. It holds no state of
// its own; every call reads the current files through the identity and
// scheduling services.
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/ehr/clinicdesk/internal/domain/identity"
	"github.com/ehr/clinicdesk/internal/domain/scheduling"
)

const (
	UnknownDoctor  = "Unknown Doctor"
	UnknownPatient = "Unknown Patient"
)

type Service struct {
	people *identity.Service
	sched  *scheduling.Service
}

func NewService(people *identity.Service, sched *scheduling.Service) *Service {
	return &Service{people: people, sched: sched}
}

// -- People --

// ListAllOfKind returns every well-formed person row of kind in file order.
func (s *Service) ListAllOfKind(ctx context.Context, kind identity.Kind) ([]*identity.Person, error) {
	return s.people.ListPersons(ctx, kind)
}

// AddPerson stores p as a new patient or doctor and fills in its generated
// ID and Secret.
func (s *Service) AddPerson(ctx context.Context, kind identity.Kind, p *identity.Person) error {
	return s.people.CreatePerson(ctx, kind, p)
}

func (s *Service) FindPersonByID(ctx context.Context, kind identity.Kind, id string) (*identity.Person, error) {
	return s.people.GetPerson(ctx, kind, id)
}

// PatientsOfDoctor resolves every registration naming doctorID to a patient
// record. Registrations pointing at a missing patient are dropped, and a
// patient registered twice with the same doctor is listed once.
func (s *Service) PatientsOfDoctor(ctx context.Context, doctorID string) ([]*identity.Person, error) {
	ids, err := s.sched.PatientIDsOf(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	var patients []*identity.Person
	for _, id := range lo.Uniq(ids) {
		p, err := s.people.GetPerson(ctx, identity.KindPatient, id)
		if errors.Is(err, identity.ErrPersonNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// -- Registration --

// DoctorOfPatient returns the doctor id of the patient's first registration.
func (s *Service) DoctorOfPatient(ctx context.Context, patientID string) (string, error) {
	return s.sched.DoctorOf(ctx, patientID)
}

// RegisteredDoctor is DoctorOfPatient resolved to the doctor's record.
func (s *Service) RegisteredDoctor(ctx context.Context, patientID string) (*identity.Person, error) {
	id, err := s.DoctorOfPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.people.GetPerson(ctx, identity.KindDoctor, id)
}

// RegisterPatientWithDoctor appends a registration after checking that both
// people exist. A patient who is already registered gets a second row; only
// the first one is ever read back.
func (s *Service) RegisterPatientWithDoctor(ctx context.Context, patientID, doctorID string) error {
	if _, err := s.people.GetPerson(ctx, identity.KindPatient, patientID); err != nil {
		return err
	}
	if _, err := s.people.GetPerson(ctx, identity.KindDoctor, doctorID); err != nil {
		return err
	}
	_, err := s.sched.Register(ctx, patientID, doctorID)
	return err
}

// -- Appointments --

// AppointmentsOf lists the appointments of a patient or a doctor in the
// order they were booked.
func (s *Service) AppointmentsOf(ctx context.Context, kind identity.Kind, id string) ([]*scheduling.Appointment, error) {
	switch kind {
	case identity.KindPatient:
		return s.sched.ListByPatient(ctx, id)
	case identity.KindDoctor:
		return s.sched.ListByDoctor(ctx, id)
	}
	return nil, fmt.Errorf("unknown person kind: %q", kind)
}

// MostRecentDoctorFor returns the doctor of the patient's last booked
// appointment. "Last" is position in the file, not the date field.
func (s *Service) MostRecentDoctorFor(ctx context.Context, patientID string) (string, error) {
	return s.sched.LatestDoctor(ctx, patientID)
}

// MyDoctor is MostRecentDoctorFor resolved to the doctor's record.
func (s *Service) MyDoctor(ctx context.Context, patientID string) (*identity.Person, error) {
	id, err := s.MostRecentDoctorFor(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.people.GetPerson(ctx, identity.KindDoctor, id)
}

// BookAppointment books with the patient's registered doctor. When the
// patient has no registration yet, doctorID must name an existing doctor and
// the patient is registered with them first. doctorID may be empty for a
// registered patient.
func (s *Service) BookAppointment(ctx context.Context, patientID, doctorID, date, at, notes string) (*scheduling.Appointment, error) {
	_, err := s.DoctorOfPatient(ctx, patientID)
	switch {
	case errors.Is(err, scheduling.ErrNotRegistered):
		if doctorID != "" {
			if _, err := s.people.GetPerson(ctx, identity.KindDoctor, doctorID); err != nil {
				return nil, err
			}
		}
	case err != nil:
		return nil, err
	}

	a := &scheduling.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      at,
		Notes:     notes,
	}
	if err := s.sched.Book(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AppointmentView is an appointment with both parties' display names.
type AppointmentView struct {
	scheduling.Appointment
	PatientName string
	DoctorName  string
}

// AppointmentHistory is AppointmentsOf with names resolved. A party with no
// person record shows as UnknownDoctor or UnknownPatient.
func (s *Service) AppointmentHistory(ctx context.Context, kind identity.Kind, id string) ([]AppointmentView, error) {
	appts, err := s.AppointmentsOf(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, appts)
}

// AppointmentsBetween lists a doctor's appointments with one patient. The
// patient must be registered with that doctor; otherwise the result is
// scheduling.ErrNotRegistered.
func (s *Service) AppointmentsBetween(ctx context.Context, doctorID, patientID string) ([]AppointmentView, error) {
	registered, err := s.DoctorOfPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if registered != doctorID {
		return nil, fmt.Errorf("patient %s with doctor %s: %w", patientID, doctorID, scheduling.ErrNotRegistered)
	}
	appts, err := s.sched.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	appts = lo.Filter(appts, func(a *scheduling.Appointment, _ int) bool {
		return a.DoctorID == doctorID
	})
	return s.resolve(ctx, appts)
}

func (s *Service) resolve(ctx context.Context, appts []*scheduling.Appointment) ([]AppointmentView, error) {
	names := map[string]string{}
	lookup := func(kind identity.Kind, id, unknown string) (string, error) {
		key := string(kind) + ":" + id
		if n, ok := names[key]; ok {
			return n, nil
		}
		p, err := s.people.GetPerson(ctx, kind, id)
		switch {
		case errors.Is(err, identity.ErrPersonNotFound):
			names[key] = unknown
		case err != nil:
			return "", err
		default:
			names[key] = p.FullName()
		}
		return names[key], nil
	}

	views := make([]AppointmentView, 0, len(appts))
	for _, a := range appts {
		doctor, err := lookup(identity.KindDoctor, a.DoctorID, UnknownDoctor)
		if err != nil {
			return nil, err
		}
		patient, err := lookup(identity.KindPatient, a.PatientID, UnknownPatient)
		if err != nil {
			return nil, err
		}
		views = append(views, AppointmentView{Appointment: *a, PatientName: patient, DoctorName: doctor})
	}
	return views, nil
}
