package validate

import (
	"fmt"
	"strings"
)

// Violation es una regla de esquema incumplida sobre un campo concreto.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations implementa error para poder fluir por las firmas de los services.
// Un slice nil significa "sin violaciones".
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, viol := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", viol.Field, viol.Message))
	}
	return strings.Join(parts, "; ")
}

// Check acumula violaciones sobre un registro candidato.
// Las reglas hacen trim antes de evaluar, igual que los esquemas declarativos
// que reemplaza.
type Check struct {
	violations Violations
}

func New() *Check {
	return &Check{}
}

// Required exige string no vacío después de trim.
func (c *Check) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Fail(field, "is required and may not be empty")
	}
}

// Min exige un largo mínimo después de trim.
func (c *Check) Min(field, value string, min int) {
	if len(strings.TrimSpace(value)) < min {
		c.Fail(field, fmt.Sprintf("must be at least %d characters", min))
	}
}

// NonNegative exige número >= 0.
func (c *Check) NonNegative(field string, value float64) {
	if value < 0 {
		c.Fail(field, "must not be negative")
	}
}

func (c *Check) Fail(field, message string) {
	c.violations = append(c.violations, Violation{Field: field, Message: message})
}

// Result devuelve nil si el candidato pasó todas las reglas.
func (c *Check) Result() Violations {
	if len(c.violations) == 0 {
		return nil
	}
	return c.violations
}
