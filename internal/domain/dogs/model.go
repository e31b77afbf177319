package dogs

import "time"

// VetInfo agrupa los datos del veterinario de un perro.
// El bloque completo puede estar ausente (nil).
type VetInfo struct {
	VetName         string
	VetLocationName string
	Address         string
}

// Dog representa un perro registrado por un usuario.
// OwnerUserID se fija al crear y no es alterable por la vía de update.
type Dog struct {
	ID          string
	OwnerUserID string

	Name   string
	Breed  string
	Weight float64
	Gender string
	Age    int

	VetInfo *VetInfo

	CreatedAt time.Time
	UpdatedAt time.Time
}
