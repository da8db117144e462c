package identity

import (
	"context"
	"errors"
)

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrInvalidPerson  = errors.New("invalid person")
)

type PersonRepository interface {
	// Create assigns a fresh ID and Secret to p and stores it.
	Create(ctx context.Context, p *Person) error
	GetByID(ctx context.Context, id string) (*Person, error)
	List(ctx context.Context) ([]*Person, error)
}
