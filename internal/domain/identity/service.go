package identity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

type Service struct {
	patients PersonRepository
	doctors  PersonRepository
	log      zerolog.Logger
}

func NewService(patients, doctors PersonRepository, logger zerolog.Logger) *Service {
	return &Service{patients: patients, doctors: doctors, log: logger}
}

func (s *Service) repo(kind Kind) (PersonRepository, error) {
	switch kind {
	case KindPatient:
		return s.patients, nil
	case KindDoctor:
		return s.doctors, nil
	}
	return nil, fmt.Errorf("unknown person kind: %q", kind)
}

// CreatePerson validates p and stores it as a new record of kind. On success
// p carries its generated ID and Secret. Used by administrator add-flows and
// by self-registration alike.
func (s *Service) CreatePerson(ctx context.Context, kind Kind, p *Person) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := repo.Create(ctx, p); err != nil {
		return err
	}
	s.log.Info().Str("kind", string(kind)).Str("id", p.ID).Msg("person created")
	return nil
}

func (s *Service) GetPerson(ctx context.Context, kind Kind, id string) (*Person, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

func (s *Service) ListPersons(ctx context.Context, kind Kind) ([]*Person, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}
