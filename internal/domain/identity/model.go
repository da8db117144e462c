package identity

import (
	"fmt"
	"strings"

	"github.com/ehr/clinicdesk/internal/platform/flatfile"
)

// Kind selects which person table a record lives in.
type Kind string

const (
	KindPatient Kind = "patient"
	KindDoctor  Kind = "doctor"
)

// Prefix is the identifier prefix for records of this kind.
func (k Kind) Prefix() string {
	switch k {
	case KindPatient:
		return "P"
	case KindDoctor:
		return "D"
	}
	return ""
}

func (k Kind) Valid() bool { return k.Prefix() != "" }

// Column positions shared by the patient and doctor tables.
const (
	ColID = iota
	ColSecret
	ColFirstName
	ColLastName
	ColEmail
	ColPhone
	ColStreetNumber
	ColStreet
	ColCity
	ColState

	// PersonColumns is the column count of a well-formed person row.
	PersonColumns
)

// Person is one row of the patient or doctor table.
type Person struct {
	ID           string
	Secret       string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	StreetNumber string
	Street       string
	City         string
	State        string
}

// Fields returns the row in column order.
func (p *Person) Fields() []string {
	return []string{
		p.ID, p.Secret, p.FirstName, p.LastName, p.Email,
		p.Phone, p.StreetNumber, p.Street, p.City, p.State,
	}
}

// PersonFromRow decodes a raw row. Rows shorter than PersonColumns are
// rejected with flatfile.ErrMalformedRow.
func PersonFromRow(row []string) (*Person, error) {
	if !flatfile.HasColumns(row, PersonColumns) {
		return nil, fmt.Errorf("%w: person row has %d columns, want %d", flatfile.ErrMalformedRow, len(row), PersonColumns)
	}
	return &Person{
		ID:           row[ColID],
		Secret:       row[ColSecret],
		FirstName:    row[ColFirstName],
		LastName:     row[ColLastName],
		Email:        row[ColEmail],
		Phone:        row[ColPhone],
		StreetNumber: row[ColStreetNumber],
		Street:       row[ColStreet],
		City:         row[ColCity],
		State:        row[ColState],
	}, nil
}

func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Address formats the street address on one line.
func (p *Person) Address() string {
	return fmt.Sprintf("%s %s, %s, %s", p.StreetNumber, p.Street, p.City, p.State)
}

// Validate checks the caller-supplied fields. ID and Secret are generated
// and not checked here.
func (p *Person) Validate() error {
	required := []struct {
		name, value string
	}{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"email", p.Email},
		{"phone", p.Phone},
		{"street_number", p.StreetNumber},
		{"street", p.Street},
		{"city", p.City},
		{"state", p.State},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidPerson, f.name)
		}
		if err := flatfile.ValidateFields([]string{f.value}); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPerson, f.name, err)
		}
	}
	return nil
}
