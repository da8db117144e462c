// Package auth checks an ID and secret against the three credential tables
// and reports which role the pair belongs to.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehr/clinicdesk/internal/platform/flatfile"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// ErrInvalidCredentials indicates that no credential table holds the
	// supplied ID and secret pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CredentialColumns is the part of every credential row auth reads: the ID
// and the secret. Person tables carry more columns after these.
const CredentialColumns = 2

// AdminPrefix is the identifier prefix of administrator rows.
const AdminPrefix = "A"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

type source struct {
	role  Role
	table *flatfile.Table
}

// Authenticator resolves credentials to a role.
type Authenticator struct {
	sources []source
	admins  *flatfile.Table
	log     zerolog.Logger
}

// NewAuthenticator checks patients first, then doctors, then administrators.
// Each table should be a CredentialColumns view of its file.
func NewAuthenticator(patients, doctors, admins *flatfile.Table, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		sources: []source{
			{role: RolePatient, table: patients},
			{role: RoleDoctor, table: doctors},
			{role: RoleAdmin, table: admins},
		},
		admins: admins,
		log:    logger,
	}
}

// Authenticate returns the role of the first table holding a row whose ID
// and secret both match exactly. Read failures are returned as-is.
func (a *Authenticator) Authenticate(ctx context.Context, id, secret string) (Role, error) {
	if id == "" {
		return "", ErrInvalidCredentials
	}
	for _, src := range a.sources {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ok, err := matches(src.table, id, secret)
		if err != nil {
			return "", fmt.Errorf("authenticate %s: %w", src.role, err)
		}
		if ok {
			a.log.Info().Str("id", id).Str("role", string(src.role)).Msg("login succeeded")
			return src.role, nil
		}
	}
	a.log.Warn().Str("id", id).Msg("login failed")
	return "", ErrInvalidCredentials
}

func matches(t *flatfile.Table, id, secret string) (bool, error) {
	rows, err := t.FindAll(0, id)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if subtle.ConstantTimeCompare([]byte(row[1]), []byte(secret)) == 1 {
			return true, nil
		}
	}
	return false, nil
}

// Credential is a freshly issued ID and secret.
type Credential struct {
	ID     string
	Secret string
}

// AddAdmin appends an administrator row with a generated ID and secret.
// Nothing else in the program creates administrators.
func (a *Authenticator) AddAdmin(ctx context.Context) (*Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := a.admins.Insert(AdminPrefix, func(id, secret string) []string {
		return []string{id, secret}
	})
	if err != nil {
		return nil, fmt.Errorf("add admin: %w", err)
	}
	a.log.Info().Str("id", row[0]).Msg("admin created")
	return &Credential{ID: row[0], Secret: row[1]}, nil
}
