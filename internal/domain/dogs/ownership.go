package dogs

import "context"

// OwnerOf expone el ownerUserID de un perro.
// Lo usa el módulo de medicación para verificar ownership sin duplicar lógica.
func (s *Service) OwnerOf(ctx context.Context, dogID string) (string, error) {
	d, err := s.GetByID(ctx, dogID)
	if err != nil {
		return "", err
	}
	return d.OwnerUserID, nil
}

// MedicationPurger borra los registros de medicación de un perro.
// Se define acá para evitar un ciclo de imports (dogs <-> medications):
// el service de medicación lo implementa y el router lo inyecta.
type MedicationPurger interface {
	DeleteByDog(ctx context.Context, dogID string) error
}
