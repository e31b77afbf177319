package medications

import "time"

// Medication es un registro de medicación de un perro.
// DogID referencia al perro dueño del registro; se fija al crear desde la URL
// y nunca desde el body.
type Medication struct {
	ID    string
	DogID string

	Name                  string
	MedicationDays        string
	MedicationTime        string
	MedicationDescription string

	CreatedAt time.Time
	UpdatedAt time.Time
}
