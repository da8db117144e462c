// Package identitytest builds Person fixtures for tests.
package identitytest

import (
	"strconv"
	"strings"

	"github.com/Pallinder/go-randomdata"

	"github.com/ehr/clinicdesk/internal/domain/identity"
)

// NewPerson returns a Person with every caller-supplied field populated and
// no ID or Secret. Values never contain the column delimiter.
func NewPerson() *identity.Person {
	return &identity.Person{
		FirstName:    clean(randomdata.FirstName(randomdata.RandomGender)),
		LastName:     clean(randomdata.LastName()),
		Email:        clean(randomdata.Email()),
		Phone:        randomdata.StringNumber(3, "-"),
		StreetNumber: strconv.Itoa(randomdata.Number(1, 999)),
		Street:       clean(randomdata.Street()),
		City:         clean(randomdata.City()),
		State:        clean(randomdata.State(randomdata.Small)),
	}
}

func clean(s string) string {
	s = strings.ReplaceAll(s, ",", " ")
	if strings.TrimSpace(s) == "" {
		return "x"
	}
	return s
}
