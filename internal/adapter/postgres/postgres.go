package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/lib/pq"
)

// translateError maps driver failures onto the domain taxonomy. Unique
// violations become ErrConflict, foreign-key violations ErrConstraint,
// not-null violations ErrValidation; anything else wraps ErrBackend.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s", domain.ErrConstraint, pqErr.Constraint)
		case "23502":
			return fmt.Errorf("%w: column %s is required", domain.ErrValidation, pqErr.Column)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrBackend, err)
}

// marshalSnake serializes a value for a jsonb column, rewriting the legacy
// camelCase keys to snake_case on the way in.
func marshalSnake(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(domain.ToSnakeCase(generic))
}

// unmarshalCamel reads a snake_case jsonb column back into a camelCase-tagged
// struct. The two conversions are symmetric, so the round trip is lossless.
func unmarshalCamel(data []byte, dst interface{}) error {
	if len(data) == 0 {
		return nil
	}
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	raw, err := json.Marshal(domain.ToCamelCase(generic))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
