package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-log/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

const dogColumns = `
	id, owner_user_id,
	name, breed, weight, gender, age,
	vet_name, vet_location_name, vet_address,
	created_at, updated_at`

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	vetName, vetLocation, vetAddress := toVetColumns(d.VetInfo)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (`+dogColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		d.ID,
		d.OwnerUserID,
		d.Name,
		d.Breed,
		d.Weight,
		d.Gender,
		d.Age,
		vetName,
		vetLocation,
		vetAddress,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		WHERE id = $1
	`, id)

	d, err := scanDog(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dogs.Dog{}, dogs.ErrNotFound
		}
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]dogs.Dog, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDogs(rows)
}

func (r *DogsRepo) ListAll(ctx context.Context) ([]dogs.Dog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+dogColumns+`
		FROM dogs
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDogs(rows)
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	vetName, vetLocation, vetAddress := toVetColumns(d.VetInfo)

	// owner_user_id queda fuera del SET a propósito: el owner no cambia.
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2,
			breed = $3,
			weight = $4,
			gender = $5,
			age = $6,
			vet_name = $7,
			vet_location_name = $8,
			vet_address = $9,
			updated_at = $10
		WHERE id = $1
	`,
		d.ID,
		d.Name,
		d.Breed,
		d.Weight,
		d.Gender,
		d.Age,
		vetName,
		vetLocation,
		vetAddress,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func collectDogs(rows *sql.Rows) ([]dogs.Dog, error) {
	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDog(scan func(...any) error) (dogs.Dog, error) {
	var d dogs.Dog
	var vetName, vetLocation, vetAddress sql.NullString

	if err := scan(
		&d.ID,
		&d.OwnerUserID,
		&d.Name,
		&d.Breed,
		&d.Weight,
		&d.Gender,
		&d.Age,
		&vetName,
		&vetLocation,
		&vetAddress,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}

	// Las tres columnas en NULL equivalen a vetInfo ausente.
	if vetName.Valid || vetLocation.Valid || vetAddress.Valid {
		d.VetInfo = &dogs.VetInfo{
			VetName:         vetName.String,
			VetLocationName: vetLocation.String,
			Address:         vetAddress.String,
		}
	}

	return d, nil
}

func toVetColumns(vi *dogs.VetInfo) (sql.NullString, sql.NullString, sql.NullString) {
	if vi == nil {
		return sql.NullString{}, sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: vi.VetName, Valid: true},
		sql.NullString{String: vi.VetLocationName, Valid: true},
		sql.NullString{String: vi.Address, Valid: true}
}
