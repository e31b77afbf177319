package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-log/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, dog_id,
	name, medication_days, medication_time, medication_description,
	created_at, updated_at`

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (`+medicationColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		m.ID,
		m.DogID,
		m.Name,
		m.MedicationDays,
		m.MedicationTime,
		m.MedicationDescription,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE id = $1
	`, id)

	var m medications.Medication
	if err := row.Scan(
		&m.ID,
		&m.DogID,
		&m.Name,
		&m.MedicationDays,
		&m.MedicationTime,
		&m.MedicationDescription,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}

	return m, nil
}

func (r *MedicationsRepo) ListByDog(ctx context.Context, dogID string) ([]medications.Medication, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE dog_id = $1
		ORDER BY created_at ASC
	`, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		var m medications.Medication
		if err := rows.Scan(
			&m.ID,
			&m.DogID,
			&m.Name,
			&m.MedicationDays,
			&m.MedicationTime,
			&m.MedicationDescription,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	// dog_id queda fuera del SET: la medicación no se re-asigna a otro perro.
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			medication_days = $3,
			medication_time = $4,
			medication_description = $5,
			updated_at = $6
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.MedicationDays,
		m.MedicationTime,
		m.MedicationDescription,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

// DeleteByDog es la cascada al borrar un perro; borrar cero filas no es error.
func (r *MedicationsRepo) DeleteByDog(ctx context.Context, dogID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE dog_id = $1`, dogID)
	return err
}
