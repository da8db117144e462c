package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/ehr/clinicdesk/internal/platform/flatfile"
)

type personRepoFile struct {
	table *flatfile.Table
	kind  Kind
}

// NewPersonRepoFile stores persons of kind in table. The table must use the
// PersonColumns layout.
func NewPersonRepoFile(table *flatfile.Table, kind Kind) PersonRepository {
	return &personRepoFile{table: table, kind: kind}
}

func (r *personRepoFile) Create(ctx context.Context, p *Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row, err := r.table.Insert(r.kind.Prefix(), func(id, secret string) []string {
		rec := *p
		rec.ID, rec.Secret = id, secret
		return rec.Fields()
	})
	if err != nil {
		return fmt.Errorf("create %s: %w", r.kind, err)
	}
	p.ID, p.Secret = row[ColID], row[ColSecret]
	return nil
}

func (r *personRepoFile) GetByID(ctx context.Context, id string) (*Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := r.table.FindFirst(ColID, id)
	if errors.Is(err, flatfile.ErrNotFound) {
		return nil, fmt.Errorf("%s %s: %w", r.kind, id, ErrPersonNotFound)
	}
	if err != nil {
		return nil, err
	}
	return PersonFromRow(row)
}

func (r *personRepoFile) List(ctx context.Context) ([]*Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.table.Records()
	if err != nil {
		return nil, err
	}
	result := make([]*Person, 0, len(rows))
	for _, row := range rows {
		p, err := PersonFromRow(row)
		if err != nil {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}
