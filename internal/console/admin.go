package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ehr/clinicdesk/internal/domain/identity"
)

func (c *Console) adminMenu(ctx context.Context) (outcome, error) {
	return c.menu(ctx, "Administrator Menu", []action{
		{label: "List All Doctors", run: func(ctx context.Context) error { return c.listPeople(ctx, identity.KindDoctor) }},
		{label: "Check Doctor Details", run: func(ctx context.Context) error { return c.personDetails(ctx, identity.KindDoctor) }},
		{label: "List All Patients", run: func(ctx context.Context) error { return c.listPeople(ctx, identity.KindPatient) }},
		{label: "Check Patient Details", run: func(ctx context.Context) error { return c.personDetails(ctx, identity.KindPatient) }},
		{label: "Add Doctor", run: func(ctx context.Context) error { return c.addPerson(ctx, identity.KindDoctor) }},
		{label: "Add Patient", run: func(ctx context.Context) error { return c.addPerson(ctx, identity.KindPatient) }},
		{label: "Logout", next: logout},
		{label: "Exit System", next: quit},
	})
}

func (c *Console) listPeople(ctx context.Context, kind identity.Kind) error {
	people, err := c.dir.ListAllOfKind(ctx, kind)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		fmt.Fprintf(c.out, "No %ss found in the system.\n", kind)
		return nil
	}
	return PersonTable(c.out, people)
}

func (c *Console) personDetails(ctx context.Context, kind identity.Kind) error {
	id, err := c.prompt(fmt.Sprintf("Enter %s ID: ", title(kind)))
	if err != nil {
		return err
	}
	c.showPerson(ctx, kind, strings.TrimSpace(id))
	return nil
}

// showPerson prints the record or a not-found line. Lookup failures other
// than not-found are reported the same way as a missing record.
func (c *Console) showPerson(ctx context.Context, kind identity.Kind, id string) {
	p, err := c.dir.FindPersonByID(ctx, kind, id)
	if err != nil {
		if !errors.Is(err, identity.ErrPersonNotFound) {
			c.log.Error().Err(err).Str("kind", string(kind)).Msg("person lookup failed")
		}
		fmt.Fprintf(c.out, "No %s found with ID %s.\n", kind, id)
		return
	}
	PersonDetails(c.out, kind, p)
}

var personPrompts = []struct {
	label string
	set   func(p *identity.Person, v string)
}{
	{"First Name", func(p *identity.Person, v string) { p.FirstName = v }},
	{"Last Name", func(p *identity.Person, v string) { p.LastName = v }},
	{"Email", func(p *identity.Person, v string) { p.Email = v }},
	{"Phone", func(p *identity.Person, v string) { p.Phone = v }},
	{"Street Number", func(p *identity.Person, v string) { p.StreetNumber = v }},
	{"Street", func(p *identity.Person, v string) { p.Street = v }},
	{"City", func(p *identity.Person, v string) { p.City = v }},
	{"State", func(p *identity.Person, v string) { p.State = v }},
}

func (c *Console) addPerson(ctx context.Context, kind identity.Kind) error {
	fmt.Fprintf(c.out, "Registering a new %s\n\n", kind)
	p := &identity.Person{}
	for _, f := range personPrompts {
		v, err := c.prompt(f.label + ": ")
		if err != nil {
			return err
		}
		f.set(p, strings.TrimSpace(v))
	}

	err := c.dir.AddPerson(ctx, kind, p)
	if errors.Is(err, identity.ErrInvalidPerson) {
		fmt.Fprintf(c.out, "Could not add %s: %v\n", kind, err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\n%s %s added successfully with ID %s.\n", title(kind), p.FullName(), p.ID)
	fmt.Fprintf(c.out, "Password: %s\n", p.Secret)
	return nil
}

func title(kind identity.Kind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
