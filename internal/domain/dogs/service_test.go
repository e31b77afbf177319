package dogs

import (
	"context"
	"errors"
	"testing"

	"pet-log/internal/validate"
)

// fakeRepo implementa Repository en memoria para tests del service.
type fakeRepo struct {
	byID map[string]Dog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]Dog{}}
}

func (f *fakeRepo) Create(_ context.Context, d Dog) error {
	f.byID[d.ID] = d
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Dog, error) {
	d, ok := f.byID[id]
	if !ok {
		return Dog{}, ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) ListByOwner(_ context.Context, ownerUserID string) ([]Dog, error) {
	var out []Dog
	for _, d := range f.byID {
		if d.OwnerUserID == ownerUserID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]Dog, error) {
	var out []Dog
	for _, d := range f.byID {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, d Dog) error {
	if _, ok := f.byID[d.ID]; !ok {
		return ErrNotFound
	}
	f.byID[d.ID] = d
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	svc := NewService(newFakeRepo())

	d, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:   "  Milo  ",
		Gender: "male",
		Weight: 12.5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == "" {
		t.Fatal("create must assign an id")
	}
	if d.Name != "Milo" {
		t.Fatalf("expected trimmed name, got %q", d.Name)
	}
	if d.OwnerUserID != "owner-1" {
		t.Fatalf("expected owner-1, got %q", d.OwnerUserID)
	}

	// Validación: name vacío
	_, err = svc.Create(context.Background(), "owner-1", CreateInput{Gender: "male"})
	var viols validate.Violations
	if !errors.As(err, &viols) {
		t.Fatalf("expected violations for empty name, got %v", err)
	}
	if len(viols) != 1 || viols[0].Field != "name" {
		t.Fatalf("expected single name violation, got %+v", viols)
	}

	// Owner vacío nunca entra
	if _, err := svc.Create(context.Background(), "", CreateInput{Name: "x", Gender: "male"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty owner, got %v", err)
	}
}

func TestService_Update_MergesAndKeepsOwner(t *testing.T) {
	svc := NewService(newFakeRepo())

	d, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Name:   "Milo",
		Breed:  "mixed",
		Gender: "male",
		VetInfo: &VetInfo{
			VetName: "Dra. Paz",
			Address: "Calle 1",
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Solo tocamos name y el address anidado; todo lo demás se conserva.
	updated, err := svc.Update(context.Background(), d.ID, "owner-1", UpdateInput{
		Name: strPtr("Milo II"),
		VetInfo: &VetInfoUpdate{
			Address: strPtr("Av. Siempreviva 742"),
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Milo II" || updated.Breed != "mixed" {
		t.Fatalf("merge lost fields: %+v", updated)
	}
	if updated.VetInfo == nil || updated.VetInfo.VetName != "Dra. Paz" || updated.VetInfo.Address != "Av. Siempreviva 742" {
		t.Fatalf("nested merge broken: %+v", updated.VetInfo)
	}
	if updated.OwnerUserID != "owner-1" {
		t.Fatalf("owner must be immutable, got %q", updated.OwnerUserID)
	}

	// vetInfo parcial sobre un perro sin vetInfo previo crea el bloque
	d2, _ := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Luna", Gender: "female"})
	u2, err := svc.Update(context.Background(), d2.ID, "owner-1", UpdateInput{
		VetInfo: &VetInfoUpdate{VetName: strPtr("Dr. Sosa")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u2.VetInfo == nil || u2.VetInfo.VetName != "Dr. Sosa" {
		t.Fatalf("expected vetInfo created on demand: %+v", u2.VetInfo)
	}

	// Un update no puede dejar el registro inválido
	if _, err := svc.Update(context.Background(), d.ID, "owner-1", UpdateInput{Name: strPtr("  ")}); err == nil {
		t.Fatal("expected violations for blank name update")
	}
}

func TestService_OwnershipChecks(t *testing.T) {
	svc := NewService(newFakeRepo())

	d, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Milo", Gender: "male"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(context.Background(), d.ID, "owner-2", UpdateInput{Name: strPtr("Hack")}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden update, got %v", err)
	}
	if err := svc.Delete(context.Background(), d.ID, "owner-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden delete, got %v", err)
	}

	// El registro sigue intacto
	got, err := svc.GetByID(context.Background(), d.ID)
	if err != nil || got.Name != "Milo" {
		t.Fatalf("dog mutated by forbidden ops: %+v err=%v", got, err)
	}
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newFakeRepo())

	d, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Milo", Gender: "male"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), d.ID, "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), d.ID, "owner-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeated delete, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
