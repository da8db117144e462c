package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/ehr/clinicdesk/internal/domain/directory"
	"github.com/ehr/clinicdesk/internal/domain/identity"
)

const rule = "--------------------------------------"

func banner(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, " "+rule+" ")
	fmt.Fprintf(w, "| %-36s |\n", title)
	fmt.Fprintln(w, " "+rule+" ")
	fmt.Fprintln(w)
}

// writeTable prints rows as tab-aligned columns.
func writeTable(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// PersonTable renders people one per line with their contact details.
func PersonTable(w io.Writer, people []*identity.Person) error {
	rows := [][]string{{"ID", "NAME", "EMAIL", "PHONE", "ADDRESS"}}
	rows = append(rows, lo.Map(people, func(p *identity.Person, _ int) []string {
		return []string{p.ID, p.FullName(), p.Email, p.Phone, p.Address()}
	})...)
	return writeTable(w, rows)
}

// PersonDetails renders one person as labelled lines. The secret is never
// shown.
func PersonDetails(w io.Writer, kind identity.Kind, p *identity.Person) {
	label := "Patient ID"
	if kind == identity.KindDoctor {
		label = "Doctor ID"
	}
	fmt.Fprintf(w, "%s: %s\n", label, p.ID)
	fmt.Fprintf(w, "Full Name: %s\n", p.FullName())
	fmt.Fprintf(w, "Email: %s\n", p.Email)
	fmt.Fprintf(w, "Phone: %s\n", p.Phone)
	fmt.Fprintf(w, "Address: %s\n", p.Address())
	fmt.Fprintln(w, rule)
}

// AppointmentTable renders appointments with both parties named.
func AppointmentTable(w io.Writer, views []directory.AppointmentView) error {
	rows := [][]string{{"DATE", "TIME", "DOCTOR", "PATIENT", "NOTES"}}
	rows = append(rows, lo.Map(views, func(v directory.AppointmentView, _ int) []string {
		return []string{v.Date, v.Time, v.DoctorName, v.PatientName, v.Notes}
	})...)
	return writeTable(w, rows)
}
