package medications

import (
	"context"
	"errors"
	"testing"

	"pet-log/internal/validate"
)

type fakeRepo struct {
	byID map[string]Medication
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]Medication{}}
}

func (f *fakeRepo) Create(_ context.Context, m Medication) error {
	f.byID[m.ID] = m
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Medication, error) {
	m, ok := f.byID[id]
	if !ok {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) ListByDog(_ context.Context, dogID string) ([]Medication, error) {
	var out []Medication
	for _, m := range f.byID {
		if m.DogID == dogID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, m Medication) error {
	if _, ok := f.byID[m.ID]; !ok {
		return ErrNotFound
	}
	f.byID[m.ID] = m
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) DeleteByDog(_ context.Context, dogID string) error {
	for id, m := range f.byID {
		if m.DogID == dogID {
			delete(f.byID, id)
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_CreateAndValidate(t *testing.T) {
	svc := NewService(newFakeRepo())

	m, err := svc.Create(context.Background(), "dog-1", CreateInput{
		Name:           " Ivermectina ",
		MedicationDays: "lunes,jueves",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" || m.DogID != "dog-1" || m.Name != "Ivermectina" {
		t.Fatalf("create result incomplete: %+v", m)
	}

	// Name vacío (solo espacios) => violación
	_, err = svc.Create(context.Background(), "dog-1", CreateInput{Name: "  "})
	var viols validate.Violations
	if !errors.As(err, &viols) {
		t.Fatalf("expected violations for blank name, got %v", err)
	}

	// Sin dog no hay medicación
	if _, err := svc.Create(context.Background(), "", CreateInput{Name: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty dog id, got %v", err)
	}
}

func TestService_UpdateMergesAndKeepsDog(t *testing.T) {
	svc := NewService(newFakeRepo())

	m, err := svc.Create(context.Background(), "dog-1", CreateInput{
		Name:           "Ivermectina",
		MedicationDays: "lunes,jueves",
		MedicationTime: "08:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), m.ID, UpdateInput{
		MedicationTime: strPtr("20:00"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MedicationTime != "20:00" {
		t.Fatalf("expected updated time, got %+v", updated)
	}
	if updated.Name != "Ivermectina" || updated.MedicationDays != "lunes,jueves" {
		t.Fatalf("merge lost fields: %+v", updated)
	}
	if updated.DogID != "dog-1" {
		t.Fatalf("dog reference must be immutable, got %q", updated.DogID)
	}

	// El update no puede vaciar el name
	if _, err := svc.Update(context.Background(), m.ID, UpdateInput{Name: strPtr("  ")}); err == nil {
		t.Fatal("expected violations for blank name update")
	}
}

func TestService_DeleteByDog(t *testing.T) {
	svc := NewService(newFakeRepo())

	m1, _ := svc.Create(context.Background(), "dog-1", CreateInput{Name: "A"})
	m2, _ := svc.Create(context.Background(), "dog-1", CreateInput{Name: "B"})
	other, _ := svc.Create(context.Background(), "dog-2", CreateInput{Name: "C"})

	if err := svc.DeleteByDog(context.Background(), "dog-1"); err != nil {
		t.Fatalf("delete by dog: %v", err)
	}

	for _, id := range []string{m1.ID, m2.ID} {
		if _, err := svc.GetByID(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("medication %s should be purged, got %v", id, err)
		}
	}
	if _, err := svc.GetByID(context.Background(), other.ID); err != nil {
		t.Fatalf("other dog's medication must survive: %v", err)
	}
}
