package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

// classify maps constraint violations caused by caller input to
// domain.ErrValidation. Anything else is returned unchanged.
func classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "foreign_key_violation", "check_violation", "not_null_violation":
		return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Constraint)
	case "unique_violation":
		return fmt.Errorf("%w: duplicate %s", domain.ErrValidation, pqErr.Constraint)
	}
	return err
}
