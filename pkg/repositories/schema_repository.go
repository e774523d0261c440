package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brewlog-io/brewlog/pkg/database"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// SchemaRepository is the schema store adapter. Two implementations exist:
// the relational join model over fields/schemas/schema_fields (canonical)
// and a JSONB document per schema. Both reconcile the one-default-per-owner
// invariant inside a single transaction.
type SchemaRepository interface {
	// Create inserts a validated schema and returns its new id. When the
	// schema is flagged default, any sibling default of the same owner is
	// cleared in the same transaction; no partial schema is ever visible.
	Create(ctx context.Context, schema *models.ValidatedSchema) (int64, error)
	// List returns one page of schemas plus the total matching count.
	List(ctx context.Context, ownerID int64, filter models.SchemaFilter, page models.Page) ([]*models.Schema, int, error)
	Update(ctx context.Context, id, ownerID int64, upd *models.SchemaUpdate) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// schemaRepository is the relational implementation. Field definitions are
// reused across schemas of the same owner via the schema_fields join table.
type schemaRepository struct{}

// NewSchemaRepository creates the relational schema repository.
func NewSchemaRepository() SchemaRepository {
	return &schemaRepository{}
}

func (r *schemaRepository) Create(ctx context.Context, schema *models.ValidatedSchema) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if schema.Default {
		clearQuery := `UPDATE schemas SET default_schema = false, updated_at = $1 WHERE user_id = $2 AND default_schema`
		if _, err = tx.Exec(ctx, clearQuery, time.Now(), schema.UserID); err != nil {
			return 0, fmt.Errorf("failed to clear default schema: %w", err)
		}
	}

	now := time.Now()
	var schemaID int64
	insertQuery := `
		INSERT INTO schemas (user_id, name, default_schema, shared, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err = tx.QueryRow(ctx, insertQuery,
		schema.UserID,
		schema.Name,
		schema.Default,
		schema.Shared,
		now,
		now,
	).Scan(&schemaID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert schema: %w", err)
	}

	// Reuse an existing field definition of the same owner, name and type
	// where one exists; the association row carries the per-schema display
	// name.
	upsertField := `
		INSERT INTO fields (user_id, name, display_name, field_type_id, shared, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $5)
		ON CONFLICT (user_id, name, field_type_id)
		DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id`
	associate := `
		INSERT INTO schema_fields (schema_id, field_id, display_name)
		VALUES ($1, $2, $3)`

	for _, field := range schema.Fields {
		var fieldID int64
		err = tx.QueryRow(ctx, upsertField,
			schema.UserID,
			field.Name,
			field.DisplayName,
			int(field.Type),
			now,
		).Scan(&fieldID)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert field %q: %w", field.Name, err)
		}

		if _, err = tx.Exec(ctx, associate, schemaID, fieldID, field.DisplayName); err != nil {
			return 0, fmt.Errorf("failed to associate field %q: %w", field.Name, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return schemaID, nil
}

func (r *schemaRepository) List(ctx context.Context, ownerID int64, filter models.SchemaFilter, page models.Page) ([]*models.Schema, int, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, 0, fmt.Errorf("no request scope in context")
	}

	page = page.Normalize()

	// Exclusive visibility rule: the shared view returns shared schemas
	// of any owner instead of the caller's own.
	conds := []string{}
	args := []interface{}{}
	if filter.Shared {
		conds = append(conds, "shared = true")
	} else {
		args = append(args, ownerID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
		if filter.ID != nil {
			args = append(args, *filter.ID)
			conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
		}
		if filter.Name != nil {
			args = append(args, *filter.Name)
			conds = append(conds, fmt.Sprintf("name = $%d", len(args)))
		}
		if filter.Default != nil {
			args = append(args, *filter.Default)
			conds = append(conds, fmt.Sprintf("default_schema = $%d", len(args)))
		}
	}
	where := strings.Join(conds, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM schemas WHERE %s`, where)
	if err := scope.Conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count schemas: %w", err)
	}

	if page.OffsetID != nil {
		args = append(args, *page.OffsetID)
		where = fmt.Sprintf("%s AND id < $%d", where, len(args))
	}
	args = append(args, page.Limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, name, default_schema, shared, created_at, updated_at
		FROM schemas
		WHERE %s
		ORDER BY id DESC
		LIMIT $%d`, where, len(args))

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer rows.Close()

	var schemas []*models.Schema
	byID := map[int64]*models.Schema{}
	var ids []int64
	for rows.Next() {
		var schema models.Schema
		err := rows.Scan(
			&schema.ID,
			&schema.UserID,
			&schema.Name,
			&schema.Default,
			&schema.Shared,
			&schema.CreatedAt,
			&schema.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan schema: %w", err)
		}
		schema.Fields = []models.SchemaField{}
		schemas = append(schemas, &schema)
		byID[schema.ID] = &schema
		ids = append(ids, schema.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating schemas: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return schemas, total, nil
	}

	fieldQuery := `
		SELECT sf.schema_id, f.id, f.name, sf.display_name, f.field_type_id
		FROM schema_fields sf
		JOIN fields f ON f.id = sf.field_id
		WHERE sf.schema_id = ANY($1)
		ORDER BY sf.schema_id, f.id`

	fieldRows, err := scope.Conn.Query(ctx, fieldQuery, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load schema fields: %w", err)
	}
	defer fieldRows.Close()

	for fieldRows.Next() {
		var schemaID int64
		var field models.SchemaField
		var typeID int
		if err := fieldRows.Scan(&schemaID, &field.FieldID, &field.Name, &field.DisplayName, &typeID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan schema field: %w", err)
		}
		field.Type = models.FieldType(typeID)
		if schema, ok := byID[schemaID]; ok {
			schema.Fields = append(schema.Fields, field)
		}
	}
	if err := fieldRows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating schema fields: %w", err)
	}

	return schemas, total, nil
}

func (r *schemaRepository) Update(ctx context.Context, id, ownerID int64, upd *models.SchemaUpdate) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	setClauses := []string{}
	args := []interface{}{}
	arg := 1

	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", arg))
		args = append(args, *upd.Name)
		arg++
	}
	if upd.Default != nil {
		setClauses = append(setClauses, fmt.Sprintf("default_schema = $%d", arg))
		args = append(args, *upd.Default)
		arg++
	}
	if upd.Shared != nil {
		setClauses = append(setClauses, fmt.Sprintf("shared = $%d", arg))
		args = append(args, *upd.Shared)
		arg++
	}
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", arg))
	args = append(args, time.Now())
	arg++

	query := fmt.Sprintf("UPDATE schemas SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(setClauses, ", "), arg, arg+1)
	args = append(args, id, ownerID)

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update schema: %w", err)
	}
	affected := result.RowsAffected()

	// The target row mutated first: a zero-row update (absent or foreign
	// schema) must not clear the caller's defaults as a side effect.
	if affected > 0 && upd.Default != nil && *upd.Default {
		clearQuery := `UPDATE schemas SET default_schema = false, updated_at = $1 WHERE user_id = $2 AND id <> $3 AND default_schema`
		if _, err = tx.Exec(ctx, clearQuery, time.Now(), ownerID, id); err != nil {
			return 0, fmt.Errorf("failed to clear sibling defaults: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return affected, nil
}

func (r *schemaRepository) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	// schema_fields rows go with the schema via ON DELETE CASCADE.
	result, err := scope.Conn.Exec(ctx, `DELETE FROM schemas WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schema: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure schemaRepository implements SchemaRepository at compile time.
var _ SchemaRepository = (*schemaRepository)(nil)
