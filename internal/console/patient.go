package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ehr/clinicdesk/internal/domain/identity"
	"github.com/ehr/clinicdesk/internal/domain/scheduling"
)

func (c *Console) patientMenu(ctx context.Context, patientID string) (outcome, error) {
	return c.menu(ctx, "Patient Menu", []action{
		{label: "List Patient Details", run: func(ctx context.Context) error {
			c.showPerson(ctx, identity.KindPatient, patientID)
			return nil
		}},
		{label: "List My Doctor Details", run: func(ctx context.Context) error { return c.myDoctor(ctx, patientID) }},
		{label: "List All Appointments", run: func(ctx context.Context) error {
			return c.history(ctx, identity.KindPatient, patientID, "No appointments have been booked yet.")
		}},
		{label: "Book Appointments", run: func(ctx context.Context) error { return c.book(ctx, patientID) }},
		{label: "Exit to Login", next: logout},
		{label: "Exit System", next: quit},
	})
}

func (c *Console) myDoctor(ctx context.Context, patientID string) error {
	doc, err := c.dir.MyDoctor(ctx, patientID)
	switch {
	case errors.Is(err, scheduling.ErrNoAppointments):
		fmt.Fprintln(c.out, "No appointment found for the patient.")
		return nil
	case errors.Is(err, identity.ErrPersonNotFound):
		fmt.Fprintln(c.out, "Doctor details not found.")
		return nil
	case err != nil:
		return err
	}
	PersonDetails(c.out, identity.KindDoctor, doc)
	return nil
}

func (c *Console) book(ctx context.Context, patientID string) error {
	var doctorID string
	_, err := c.dir.DoctorOfPatient(ctx, patientID)
	switch {
	case errors.Is(err, scheduling.ErrNotRegistered):
		fmt.Fprintln(c.out, "You are not registered with a doctor. Please choose a doctor to register:")
		doctorID, err = c.chooseDoctor(ctx)
		if err != nil {
			return err
		}
		if doctorID == "" {
			return nil
		}
	case err != nil:
		return err
	}

	date, err := c.prompt("Date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	at, err := c.prompt("Time (HH:MM): ")
	if err != nil {
		return err
	}
	notes, err := c.prompt("Additional Notes: ")
	if err != nil {
		return err
	}

	a, err := c.dir.BookAppointment(ctx, patientID, doctorID, strings.TrimSpace(date), strings.TrimSpace(at), strings.TrimSpace(notes))
	if errors.Is(err, scheduling.ErrInvalidAppointment) {
		fmt.Fprintf(c.out, "Could not book appointment: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\nYour appointment with %s on %s at %s has been successfully booked!\n", a.DoctorID, a.Date, a.Time)
	return nil
}

// chooseDoctor lists every doctor with a number and returns the chosen id,
// or "" after an invalid choice.
func (c *Console) chooseDoctor(ctx context.Context) (string, error) {
	doctors, err := c.dir.ListAllOfKind(ctx, identity.KindDoctor)
	if err != nil {
		return "", err
	}
	if len(doctors) == 0 {
		fmt.Fprintln(c.out, "No doctors are available.")
		return "", nil
	}

	fmt.Fprintln(c.out, "\nAvailable Doctors:")
	for i, d := range doctors {
		fmt.Fprintf(c.out, "%d. Doctor ID: %s, Name: %s\n", i+1, d.ID, d.FullName())
	}
	choice, err := c.prompt("\nPlease select a doctor by entering the corresponding number: ")
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(doctors) {
		fmt.Fprintln(c.out, "Invalid selection.")
		return "", nil
	}
	return doctors[n-1].ID, nil
}
