package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ehr/clinicdesk/internal/domain/identity"
	"github.com/ehr/clinicdesk/internal/domain/scheduling"
)

func (c *Console) doctorMenu(ctx context.Context, doctorID string) (outcome, error) {
	return c.menu(ctx, "Doctor Menu", []action{
		{label: "List Doctor Details", run: func(ctx context.Context) error {
			c.showPerson(ctx, identity.KindDoctor, doctorID)
			return nil
		}},
		{label: "List Patients", run: func(ctx context.Context) error { return c.myPatients(ctx, doctorID) }},
		{label: "List Appointments", run: func(ctx context.Context) error {
			return c.history(ctx, identity.KindDoctor, doctorID, "No appointments found for this doctor.")
		}},
		{label: "Check Particular Patient", run: func(ctx context.Context) error { return c.personDetails(ctx, identity.KindPatient) }},
		{label: "List Appointments with Patient", run: func(ctx context.Context) error { return c.appointmentsWith(ctx, doctorID) }},
		{label: "Logout", next: logout},
		{label: "Exit", next: quit},
	})
}

func (c *Console) myPatients(ctx context.Context, doctorID string) error {
	patients, err := c.dir.PatientsOfDoctor(ctx, doctorID)
	if err != nil {
		return err
	}
	if len(patients) == 0 {
		fmt.Fprintln(c.out, "No patients assigned to this doctor.")
		return nil
	}
	return PersonTable(c.out, patients)
}

func (c *Console) appointmentsWith(ctx context.Context, doctorID string) error {
	patientID, err := c.prompt("Enter Patient ID: ")
	if err != nil {
		return err
	}
	patientID = strings.TrimSpace(patientID)

	views, err := c.dir.AppointmentsBetween(ctx, doctorID, patientID)
	if errors.Is(err, scheduling.ErrNotRegistered) {
		fmt.Fprintf(c.out, "Patient %s is not registered with you.\n", patientID)
		return nil
	}
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Fprintf(c.out, "No appointments found for patient %s.\n", patientID)
		return nil
	}
	return AppointmentTable(c.out, views)
}

// history prints the appointments of a patient or doctor, or empty when
// there are none.
func (c *Console) history(ctx context.Context, kind identity.Kind, id, empty string) error {
	views, err := c.dir.AppointmentHistory(ctx, kind, id)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		fmt.Fprintln(c.out, empty)
		return nil
	}
	return AppointmentTable(c.out, views)
}
