package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type BicycleRepository struct {
	db *sql.DB
}

func NewBicycleRepository(db *sql.DB) *BicycleRepository {
	return &BicycleRepository{db: db}
}

const bicycleColumns = `id, name, brand, model, bike_type, status, current_status, frame, fork,
	transmission, brakes, wheels, components, maintenance_history,
	purchase_date, purchase_price, purchase_condition, image_url, total_kilometers,
	display_order, owner_id, serial_number, purchase_proof, identification_photos,
	physical_location, reception_notes, created_at, updated_at`

func scanBicycle(row interface{ Scan(...interface{}) error }) (*domain.Bicycle, error) {
	bike := &domain.Bicycle{}
	var (
		ownerID                                                       sql.NullString
		transmission, brakes, wheels, components, history, proof, ids []byte
		purchaseDate, imageURL, serial, location, notes               sql.NullString
	)
	err := row.Scan(
		&bike.ID,
		&bike.Name,
		&bike.Brand,
		&bike.Model,
		&bike.BikeType,
		&bike.Status,
		&bike.CurrentStatus,
		&bike.Frame,
		&bike.Fork,
		&transmission,
		&brakes,
		&wheels,
		&components,
		&history,
		&purchaseDate,
		&bike.PurchasePrice,
		&bike.PurchaseCondition,
		&imageURL,
		&bike.TotalKilometers,
		&bike.DisplayOrder,
		&ownerID,
		&serial,
		&proof,
		&ids,
		&location,
		&notes,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		if parsed, err := uuid.Parse(ownerID.String); err == nil {
			bike.OwnerID = &parsed
		}
	}
	bike.PurchaseDate = purchaseDate.String
	bike.ImageURL = imageURL.String
	bike.SerialNumber = serial.String
	bike.PhysicalLocation = location.String
	bike.ReceptionNotes = notes.String

	if err := unmarshalCamel(transmission, &bike.Transmission); err != nil {
		return nil, err
	}
	if err := unmarshalCamel(brakes, &bike.Brakes); err != nil {
		return nil, err
	}
	if err := unmarshalCamel(wheels, &bike.Wheels); err != nil {
		return nil, err
	}
	if err := unmarshalCamel(components, &bike.Components); err != nil {
		return nil, err
	}
	if err := unmarshalCamel(history, &bike.MaintenanceHistory); err != nil {
		return nil, err
	}
	if len(proof) > 0 && string(proof) != "null" {
		bike.PurchaseProof = &domain.PurchaseProof{}
		if err := unmarshalCamel(proof, bike.PurchaseProof); err != nil {
			return nil, err
		}
	}
	if err := unmarshalCamel(ids, &bike.IdentificationPhotos); err != nil {
		return nil, err
	}
	return bike, nil
}

func bicycleJSONArgs(bike *domain.Bicycle) ([][]byte, error) {
	out := make([][]byte, 0, 7)
	for _, v := range []interface{}{
		bike.Transmission,
		bike.Brakes,
		bike.Wheels,
		bike.Components,
		bike.MaintenanceHistory,
		bike.PurchaseProof,
		bike.IdentificationPhotos,
	} {
		raw, err := marshalSnake(v)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (r *BicycleRepository) CreateBicycle(ctx context.Context, bike *domain.Bicycle) (*domain.Bicycle, error) {
	jsonArgs, err := bicycleJSONArgs(bike)
	if err != nil {
		return nil, translateError(err)
	}

	query := `INSERT INTO bicycles (id, name, brand, model, bike_type, status, current_status, frame, fork,
			transmission, brakes, wheels, components, maintenance_history,
			purchase_date, purchase_price, purchase_condition, image_url, total_kilometers,
			display_order, owner_id, serial_number, purchase_proof, identification_photos,
			physical_location, reception_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			NULLIF($15, ''), $16, $17, NULLIF($18, ''), $19, $20, $21, NULLIF($22, ''), $23, $24,
			NULLIF($25, ''), NULLIF($26, ''))
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		bike.ID, bike.Name, bike.Brand, bike.Model, bike.BikeType, bike.Status, bike.CurrentStatus,
		bike.Frame, bike.Fork,
		jsonArgs[0], jsonArgs[1], jsonArgs[2], jsonArgs[3], jsonArgs[4],
		bike.PurchaseDate, bike.PurchasePrice, bike.PurchaseCondition, bike.ImageURL, bike.TotalKilometers,
		bike.DisplayOrder, nullableUUID(bike.OwnerID), bike.SerialNumber, jsonArgs[5], jsonArgs[6],
		bike.PhysicalLocation, bike.ReceptionNotes,
	).Scan(&bike.CreatedAt, &bike.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return bike, nil
}

func (r *BicycleRepository) GetBicycleByID(ctx context.Context, id uuid.UUID) (*domain.Bicycle, error) {
	query := `SELECT ` + bicycleColumns + ` FROM bicycles WHERE id = $1`
	bike, err := scanBicycle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return bike, nil
}

func (r *BicycleRepository) ListBicycles(ctx context.Context) ([]*domain.Bicycle, error) {
	query := `SELECT ` + bicycleColumns + ` FROM bicycles ORDER BY display_order ASC`
	return r.queryBicycles(ctx, query)
}

func (r *BicycleRepository) ListBicyclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Bicycle, error) {
	query := `SELECT ` + bicycleColumns + ` FROM bicycles WHERE owner_id = $1 ORDER BY display_order ASC`
	return r.queryBicycles(ctx, query, ownerID)
}

func (r *BicycleRepository) queryBicycles(ctx context.Context, query string, args ...interface{}) ([]*domain.Bicycle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var bikes []*domain.Bicycle
	for rows.Next() {
		bike, err := scanBicycle(rows)
		if err != nil {
			return nil, translateError(err)
		}
		bikes = append(bikes, bike)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return bikes, nil
}

func (r *BicycleRepository) UpdateBicycle(ctx context.Context, bike *domain.Bicycle) (*domain.Bicycle, error) {
	jsonArgs, err := bicycleJSONArgs(bike)
	if err != nil {
		return nil, translateError(err)
	}

	query := `UPDATE bicycles
		SET name = $1, brand = $2, model = $3, bike_type = $4, status = $5, current_status = $6,
			frame = $7, fork = $8, transmission = $9, brakes = $10, wheels = $11, components = $12,
			maintenance_history = $13, purchase_date = NULLIF($14, ''), purchase_price = $15,
			purchase_condition = $16, image_url = NULLIF($17, ''), total_kilometers = $18,
			display_order = $19, owner_id = $20, serial_number = NULLIF($21, ''),
			purchase_proof = $22, identification_photos = $23,
			physical_location = NULLIF($24, ''), reception_notes = NULLIF($25, ''),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $26
		RETURNING ` + bicycleColumns

	updated, err := scanBicycle(r.db.QueryRowContext(ctx, query,
		bike.Name, bike.Brand, bike.Model, bike.BikeType, bike.Status, bike.CurrentStatus,
		bike.Frame, bike.Fork,
		jsonArgs[0], jsonArgs[1], jsonArgs[2], jsonArgs[3], jsonArgs[4],
		bike.PurchaseDate, bike.PurchasePrice, bike.PurchaseCondition, bike.ImageURL, bike.TotalKilometers,
		bike.DisplayOrder, nullableUUID(bike.OwnerID), bike.SerialNumber, jsonArgs[5], jsonArgs[6],
		bike.PhysicalLocation, bike.ReceptionNotes,
		bike.ID,
	))
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

// UpdateDisplayOrder touches a single row. Bulk reorders issue one call per
// row with no transaction around them.
func (r *BicycleRepository) UpdateDisplayOrder(ctx context.Context, id uuid.UUID, displayOrder int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bicycles SET display_order = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		displayOrder, id)
	if err != nil {
		return translateError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BicycleRepository) DeleteBicycle(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bicycles WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
