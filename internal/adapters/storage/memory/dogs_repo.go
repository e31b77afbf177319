package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-log/internal/domain/dogs"
)

type dogsRepo struct {
	mu   sync.RWMutex
	byID map[string]dogs.Dog
}

func NewDogsRepo() dogs.Repository {
	return &dogsRepo{
		byID: make(map[string]dogs.Dog),
	}
}

func (r *dogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dog id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dog already exists")
	}
	r.byID[d.ID] = clone(d)
	return nil
}

func (r *dogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return clone(d), nil
}

func (r *dogsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dogs.Dog, 0)
	for _, d := range r.byID {
		if d.OwnerUserID == ownerUserID {
			out = append(out, clone(d))
		}
	}

	sortByCreatedAt(out)
	return out, nil
}

func (r *dogsRepo) ListAll(ctx context.Context) ([]dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dogs.Dog, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, clone(d))
	}

	sortByCreatedAt(out)
	return out, nil
}

func (r *dogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[d.ID]; !exists {
		return dogs.ErrNotFound
	}
	r.byID[d.ID] = clone(d)
	return nil
}

func (r *dogsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return dogs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// clone copia defensiva: VetInfo es puntero y el caller no debe poder mutar
// lo que quedó guardado en el map.
func clone(d dogs.Dog) dogs.Dog {
	if d.VetInfo != nil {
		vi := *d.VetInfo
		d.VetInfo = &vi
	}
	return d
}

// Orden estable por created_at asc (consistencia en dev y tests).
func sortByCreatedAt(items []dogs.Dog) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
