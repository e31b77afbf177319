package dogs

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
	ErrNotFound     = errors.New("dog not found")
	ErrForbidden    = errors.New("dog belongs to another user")
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
	Name    string
	Breed   string
	Weight  float64
	Gender  string
	Age     int
	VetInfo *VetInfo
}

// Validate aplica el esquema del perro: name y gender requeridos,
// el resto opcional con defaults en cero.
func Validate(d Dog) validate.Violations {
	c := validate.New()
	c.Required("name", d.Name)
	c.Required("gender", d.Gender)
	c.NonNegative("weight", d.Weight)
	c.NonNegative("age", float64(d.Age))
	return c.Result()
}

// Create registra un perro. El owner viene siempre del principal autenticado;
// cualquier owner que venga en el payload se ignora antes de llegar acá.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Dog, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Dog{}, ErrInvalidInput
	}

	now := s.now()
	d := Dog{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Breed:       strings.TrimSpace(in.Breed),
		Weight:      in.Weight,
		Gender:      strings.TrimSpace(in.Gender),
		Age:         in.Age,
		VetInfo:     trimVetInfo(in.VetInfo),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if v := Validate(d); v != nil {
		return Dog{}, v
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Dog, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) ListAll(ctx context.Context) ([]Dog, error) {
	return s.repo.ListAll(ctx)
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar.
	// Esta es exactamente la allow-list; campos fuera de ella nunca llegan acá.
	Name    *string
	Breed   *string
	Weight  *float64
	Gender  *string
	Age     *int
	VetInfo *VetInfoUpdate
}

// VetInfoUpdate permite tocar campos individuales del bloque vetInfo
// sin pisar el resto (merge anidado tipado).
type VetInfoUpdate struct {
	VetName         *string
	VetLocationName *string
	Address         *string
}

// Update hace merge de los campos presentes sobre el registro actual y valida
// el resultado. Exige que byUserID sea el owner del perro.
func (s *Service) Update(ctx context.Context, id, byUserID string, in UpdateInput) (Dog, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}
	if current.OwnerUserID != byUserID {
		return Dog{}, ErrForbidden
	}

	merged := current
	if in.Name != nil {
		merged.Name = strings.TrimSpace(*in.Name)
	}
	if in.Breed != nil {
		merged.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Weight != nil {
		merged.Weight = *in.Weight
	}
	if in.Gender != nil {
		merged.Gender = strings.TrimSpace(*in.Gender)
	}
	if in.Age != nil {
		merged.Age = *in.Age
	}
	if in.VetInfo != nil {
		vi := VetInfo{}
		if merged.VetInfo != nil {
			vi = *merged.VetInfo
		}
		if in.VetInfo.VetName != nil {
			vi.VetName = strings.TrimSpace(*in.VetInfo.VetName)
		}
		if in.VetInfo.VetLocationName != nil {
			vi.VetLocationName = strings.TrimSpace(*in.VetInfo.VetLocationName)
		}
		if in.VetInfo.Address != nil {
			vi.Address = strings.TrimSpace(*in.VetInfo.Address)
		}
		merged.VetInfo = &vi
	}

	// El owner nunca se toca: merged conserva el OwnerUserID actual.
	if v := Validate(merged); v != nil {
		return Dog{}, v
	}

	merged.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, merged); err != nil {
		return Dog{}, err
	}
	return merged, nil
}

// Delete borra el perro previa verificación de ownership.
// Un id inexistente devuelve ErrNotFound (política uniforme para deletes).
func (s *Service) Delete(ctx context.Context, id, byUserID string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OwnerUserID != byUserID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func trimVetInfo(vi *VetInfo) *VetInfo {
	if vi == nil {
		return nil
	}
	return &VetInfo{
		VetName:         strings.TrimSpace(vi.VetName),
		VetLocationName: strings.TrimSpace(vi.VetLocationName),
		Address:         strings.TrimSpace(vi.Address),
	}
}
