package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type OwnerRepository struct {
	db *sql.DB
}

func NewOwnerRepository(db *sql.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

const ownerColumns = `id, user_id, rut, name, age, gender, email, phone, role, created_at, updated_at`

func scanOwner(row interface{ Scan(...interface{}) error }) (*domain.Owner, error) {
	owner := &domain.Owner{}
	var userID sql.NullString
	err := row.Scan(
		&owner.ID,
		&userID,
		&owner.RUT,
		&owner.Name,
		&owner.Age,
		&owner.Gender,
		&owner.Email,
		&owner.Phone,
		&owner.Role,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		parsed, err := uuid.Parse(userID.String)
		if err == nil {
			owner.UserID = &parsed
		}
	}
	return owner, nil
}

func (r *OwnerRepository) CreateOwner(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	query := `INSERT INTO owners (id, user_id, rut, name, age, gender, email, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		owner.ID,
		nullableUUID(owner.UserID),
		owner.RUT,
		owner.Name,
		owner.Age,
		owner.Gender,
		owner.Email,
		owner.Phone,
		owner.Role,
	).Scan(&owner.CreatedAt, &owner.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return owner, nil
}

func (r *OwnerRepository) GetOwnerByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE id = $1`
	owner, err := scanOwner(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return owner, nil
}

func (r *OwnerRepository) GetOwnerByUserID(ctx context.Context, userID uuid.UUID) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE user_id = $1`
	owner, err := scanOwner(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, translateError(err)
	}
	return owner, nil
}

func (r *OwnerRepository) GetOwnerByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE email = $1`
	owner, err := scanOwner(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err)
	}
	return owner, nil
}

func (r *OwnerRepository) GetOwnerByRUT(ctx context.Context, rut string) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE rut = $1`
	owner, err := scanOwner(r.db.QueryRowContext(ctx, query, rut))
	if err != nil {
		return nil, translateError(err)
	}
	return owner, nil
}

func (r *OwnerRepository) ListOwners(ctx context.Context) ([]*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners ORDER BY name ASC`
	return r.queryOwners(ctx, query)
}

func (r *OwnerRepository) ListOwnersByRole(ctx context.Context, role domain.Role) ([]*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE role = $1 ORDER BY name ASC`
	return r.queryOwners(ctx, query, role)
}

func (r *OwnerRepository) queryOwners(ctx context.Context, query string, args ...interface{}) ([]*domain.Owner, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var owners []*domain.Owner
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, translateError(err)
		}
		owners = append(owners, owner)
	}
	if err = rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return owners, nil
}

func (r *OwnerRepository) UpdateOwner(ctx context.Context, owner *domain.Owner) (*domain.Owner, error) {
	query := `UPDATE owners
		SET rut = $1, name = $2, age = $3, gender = $4, email = $5, phone = $6, role = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING ` + ownerColumns

	updated, err := scanOwner(r.db.QueryRowContext(ctx, query,
		owner.RUT,
		owner.Name,
		owner.Age,
		owner.Gender,
		owner.Email,
		owner.Phone,
		owner.Role,
		owner.ID,
	))
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

// LinkUserID persists the auth-account linkage discovered during identity
// resolution (the self-healing email match).
func (r *OwnerRepository) LinkUserID(ctx context.Context, ownerID, userID uuid.UUID) (*domain.Owner, error) {
	query := `UPDATE owners
		SET user_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING ` + ownerColumns

	owner, err := scanOwner(r.db.QueryRowContext(ctx, query, userID, ownerID))
	if err != nil {
		return nil, translateError(err)
	}
	return owner, nil
}

func (r *OwnerRepository) DeleteOwner(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id)
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

func (r *OwnerRepository) CountBicycles(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bicycles WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
