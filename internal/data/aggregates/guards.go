package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

// VersionedUpdater is the compare-and-set primitive behind optimistic writes.
type VersionedUpdater interface {
	UpdateByVersion(dbc dbctx.Context, table, keyColumn string, id uuid.UUID, expectedVersion int, updates map[string]any) (bool, error)
}

// CASGuard provides optimistic concurrency helpers for aggregate writes.
type CASGuard struct {
	db *gorm.DB
}

var _ VersionedUpdater = CASGuard{}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// UpdateByVersion applies updates only while keyColumn=id and version=expectedVersion, and
// bumps version to expectedVersion+1 in the same statement.
func (g CASGuard) UpdateByVersion(dbc dbctx.Context, table, keyColumn string, id uuid.UUID, expectedVersion int, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	keyColumn = strings.TrimSpace(keyColumn)
	if keyColumn == "" {
		keyColumn = "id"
	}
	if table == "" || id == uuid.Nil {
		return false, ValidationError("table and id are required for UpdateByVersion")
	}
	if expectedVersion < 0 {
		return false, ValidationError("expectedVersion must be >= 0")
	}
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["version"] = expectedVersion + 1
	res := db.Table(table).
		Where(keyColumn+" = ? AND version = ?", id, expectedVersion).
		Updates(set)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}

// RequireNonNegative validates counters taken from client input.
func RequireNonNegative(fields map[string]int) error {
	for name, v := range fields {
		if v < 0 {
			return ValidationError(name + " must be >= 0")
		}
	}
	return nil
}
