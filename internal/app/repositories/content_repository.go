package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polycampus/backend/internal/app/models"
	"github.com/polycampus/backend/internal/app/schema"
	"github.com/polycampus/backend/internal/pkg/apperrors"
)

// ContentRepository performs list/insert/update/delete against one content
// collection. The same implementation serves every kind; the collection
// descriptor and the declared field rules drive the SQL. The repository
// performs no authorization and no uniqueness pre-checks: both belong to the
// store and the coordinator above it.
type ContentRepository struct {
	db   *pgxpool.Pool
	spec models.ContentSpec
	cols []string
}

// NewContentRepository creates a repository for one content collection.
func NewContentRepository(db *pgxpool.Pool, spec models.ContentSpec) *ContentRepository {
	return &ContentRepository{
		db:   db,
		spec: spec,
		cols: schema.FieldNames(spec.Kind),
	}
}

// Kind returns the content kind this repository serves.
func (r *ContentRepository) Kind() schema.Kind {
	return r.spec.Kind
}

// List reads all records of the collection, server-side sorted per the
// collection's ordering rule.
func (r *ContentRepository) List(ctx context.Context) ([]models.Entity, error) {
	query := fmt.Sprintf(`SELECT id, %s FROM %s ORDER BY %s`,
		strings.Join(r.cols, ", "), r.spec.Table, r.spec.OrderBy)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewStoreError("list", err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		entity, err := r.scanEntity(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("list", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list", err)
	}

	return entities, nil
}

// Insert creates a record from a validated Record. The store assigns the
// identifier; it is returned on the new entity.
func (r *ContentRepository) Insert(ctx context.Context, rec schema.Record) (models.Entity, error) {
	placeholders := make([]string, len(r.cols))
	args := make([]any, len(r.cols))
	for i, col := range r.cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[col]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		r.spec.Table, strings.Join(r.cols, ", "), strings.Join(placeholders, ", "))

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return models.Entity{}, apperrors.NewStoreError("insert", err)
	}

	return models.Entity{ID: id, Fields: rec}, nil
}

// Update replaces all declared fields of the record identified by id.
// Last write wins; no concurrency token is exchanged.
func (r *ContentRepository) Update(ctx context.Context, id uuid.UUID, rec schema.Record) error {
	assignments := make([]string, len(r.cols))
	args := make([]any, 0, len(r.cols)+1)
	for i, col := range r.cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, rec[col])
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		r.spec.Table, strings.Join(assignments, ", "), len(r.cols)+1)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewStoreError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewStoreError("update", apperrors.ErrResourceNotFound)
	}

	return nil
}

// Delete removes the record identified by id. Deleting an id that no longer
// exists is a store-level no-op, not an error.
func (r *ContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.spec.Table)
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return apperrors.NewStoreError("delete", err)
	}
	return nil
}

// scanEntity scans one row into an Entity, choosing scan targets from the
// declared field rules (integer, date or text).
func (r *ContentRepository) scanEntity(rows pgx.Rows) (models.Entity, error) {
	rules := schema.Fields(r.spec.Kind)

	var id uuid.UUID
	targets := make([]any, 0, len(rules)+1)
	targets = append(targets, &id)

	holders := make([]any, len(rules))
	for i, rule := range rules {
		switch {
		case rule.Integer:
			holders[i] = new(int)
		case rule.Format == schema.FormatDate:
			holders[i] = new(time.Time)
		default:
			holders[i] = new(string)
		}
		targets = append(targets, holders[i])
	}

	if err := rows.Scan(targets...); err != nil {
		return models.Entity{}, err
	}

	rec := make(schema.Record, len(rules))
	for i, rule := range rules {
		switch h := holders[i].(type) {
		case *int:
			rec[rule.Name] = *h
		case *time.Time:
			rec[rule.Name] = h.Format("2006-01-02")
		case *string:
			rec[rule.Name] = *h
		}
	}

	return models.Entity{ID: id, Fields: rec}, nil
}
