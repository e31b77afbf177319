package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-log/internal/validate"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name                  string
	MedicationDays        string
	MedicationTime        string
	MedicationDescription string
}

// Validate aplica el esquema de medicación: name requerido (min 1 tras trim),
// el resto opcional con string vacío permitido.
func Validate(m Medication) validate.Violations {
	c := validate.New()
	c.Min("name", m.Name, 1)
	return c.Result()
}

func (s *Service) Create(ctx context.Context, dogID string, in CreateInput) (Medication, error) {
	if strings.TrimSpace(dogID) == "" {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:                    uuid.NewString(),
		DogID:                 dogID,
		Name:                  strings.TrimSpace(in.Name),
		MedicationDays:        strings.TrimSpace(in.MedicationDays),
		MedicationTime:        strings.TrimSpace(in.MedicationTime),
		MedicationDescription: strings.TrimSpace(in.MedicationDescription),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if v := Validate(m); v != nil {
		return Medication{}, v
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByDog(ctx context.Context, dogID string) ([]Medication, error) {
	return s.repo.ListByDog(ctx, dogID)
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar. Allow-list completa;
	// el campo dog no figura acá y por lo tanto no es re-asignable.
	Name                  *string
	MedicationDays        *string
	MedicationTime        *string
	MedicationDescription *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	merged := current
	if in.Name != nil {
		merged.Name = strings.TrimSpace(*in.Name)
	}
	if in.MedicationDays != nil {
		merged.MedicationDays = strings.TrimSpace(*in.MedicationDays)
	}
	if in.MedicationTime != nil {
		merged.MedicationTime = strings.TrimSpace(*in.MedicationTime)
	}
	if in.MedicationDescription != nil {
		merged.MedicationDescription = strings.TrimSpace(*in.MedicationDescription)
	}

	if v := Validate(merged); v != nil {
		return Medication{}, v
	}

	merged.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, merged); err != nil {
		return Medication{}, err
	}
	return merged, nil
}

// Delete borra por id. Un id inexistente devuelve ErrNotFound
// (misma política que el resto de los deletes).
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// DeleteByDog implementa dogs.MedicationPurger.
func (s *Service) DeleteByDog(ctx context.Context, dogID string) error {
	return s.repo.DeleteByDog(ctx, dogID)
}
