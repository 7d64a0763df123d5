package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type MaintenanceRepository struct {
	db *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const maintenanceColumns = `id, bicycle_id, date, maintenance_type, description, cost,
	kilometers_at_maintenance, next_maintenance_kilometers, created_by, updated_by, created_at, updated_at`

func scanMaintenance(row interface{ Scan(...interface{}) error }) (*domain.Maintenance, error) {
	m := &domain.Maintenance{}
	var (
		cost                 sql.NullInt64
		kms, nextKms         sql.NullInt64
		createdBy, updatedBy sql.NullString
	)
	err := row.Scan(
		&m.ID,
		&m.BicycleID,
		&m.Date,
		&m.MaintenanceType,
		&m.Description,
		&cost,
		&kms,
		&nextKms,
		&createdBy,
		&updatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cost.Valid {
		v := cost.Int64
		m.Cost = &v
	}
	if kms.Valid {
		v := int(kms.Int64)
		m.KilometersAtMaintenance = &v
	}
	if nextKms.Valid {
		v := int(nextKms.Int64)
		m.NextMaintenanceKilometers = &v
	}
	if createdBy.Valid {
		if parsed, err := uuid.Parse(createdBy.String); err == nil {
			m.CreatedBy = &parsed
		}
	}
	if updatedBy.Valid {
		if parsed, err := uuid.Parse(updatedBy.String); err == nil {
			m.UpdatedBy = &parsed
		}
	}
	return m, nil
}

func (r *MaintenanceRepository) CreateMaintenance(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	query := `INSERT INTO maintenances (id, bicycle_id, date, maintenance_type, description, cost,
			kilometers_at_maintenance, next_maintenance_kilometers, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		m.ID,
		m.BicycleID,
		m.Date,
		m.MaintenanceType,
		m.Description,
		m.Cost,
		m.KilometersAtMaintenance,
		m.NextMaintenanceKilometers,
		nullableUUID(m.CreatedBy),
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

func (r *MaintenanceRepository) GetMaintenanceByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenances WHERE id = $1`
	m, err := scanMaintenance(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

func (r *MaintenanceRepository) ListMaintenancesByBicycle(ctx context.Context, bicycleID uuid.UUID) ([]*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenances WHERE bicycle_id = $1 ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, bicycleID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var maintenances []*domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, translateError(err)
		}
		maintenances = append(maintenances, m)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return maintenances, nil
}

func (r *MaintenanceRepository) UpdateMaintenance(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	query := `UPDATE maintenances
		SET date = $1, maintenance_type = $2, description = $3, cost = $4,
			kilometers_at_maintenance = $5, next_maintenance_kilometers = $6,
			updated_by = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + maintenanceColumns

	updated, err := scanMaintenance(r.db.QueryRowContext(ctx, query,
		m.Date,
		m.MaintenanceType,
		m.Description,
		m.Cost,
		m.KilometersAtMaintenance,
		m.NextMaintenanceKilometers,
		nullableUUID(m.UpdatedBy),
		m.ID,
	))
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

func (r *MaintenanceRepository) DeleteMaintenance(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM maintenances WHERE id = $1`, id)
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

func (r *MaintenanceRepository) TotalCost(ctx context.Context, bicycleID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost), 0) FROM maintenances WHERE bicycle_id = $1`,
		bicycleID).Scan(&total)
	if err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

// LastMaintenanceDate returns "" when the bicycle has no maintenance yet.
func (r *MaintenanceRepository) LastMaintenanceDate(ctx context.Context, bicycleID uuid.UUID) (string, error) {
	var date string
	err := r.db.QueryRowContext(ctx,
		`SELECT date FROM maintenances WHERE bicycle_id = $1 ORDER BY date DESC LIMIT 1`,
		bicycleID).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", translateError(err)
	}
	return date, nil
}
