package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/brewlog-io/brewlog/pkg/database"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// schemaDocumentRepository is the document implementation of
// SchemaRepository: each schema is one row in schema_documents with the
// field map embedded in a JSONB column. Same contract and invariants as
// the relational adapter; field definitions are not shared across schemas.
type schemaDocumentRepository struct{}

// NewSchemaDocumentRepository creates the document-store schema repository.
func NewSchemaDocumentRepository() SchemaRepository {
	return &schemaDocumentRepository{}
}

// docField is the embedded per-field document, keyed by field name.
type docField struct {
	DisplayName string `json:"display_name"`
	Type        int    `json:"type"`
}

func encodeFields(fields []models.SchemaField) ([]byte, error) {
	doc := make(map[string]docField, len(fields))
	for _, f := range fields {
		doc[f.Name] = docField{DisplayName: f.DisplayName, Type: int(f.Type)}
	}
	return json.Marshal(doc)
}

func decodeFields(raw []byte) ([]models.SchemaField, error) {
	var doc map[string]docField
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	fields := make([]models.SchemaField, 0, len(doc))
	for name, f := range doc {
		fields = append(fields, models.SchemaField{
			Name:        name,
			DisplayName: f.DisplayName,
			Type:        models.FieldType(f.Type),
		})
	}
	// Map iteration order is random; keep responses stable.
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields, nil
}

func (r *schemaDocumentRepository) Create(ctx context.Context, schema *models.ValidatedSchema) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	fieldsJSON, err := encodeFields(schema.Fields)
	if err != nil {
		return 0, fmt.Errorf("failed to encode field map: %w", err)
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
		clearQuery := `UPDATE schema_documents SET default_schema = false, updated_at = $1 WHERE user_id = $2 AND default_schema`
		if _, err = tx.Exec(ctx, clearQuery, time.Now(), schema.UserID); err != nil {
			return 0, fmt.Errorf("failed to clear default schema: %w", err)
		}
	}

	now := time.Now()
	var id int64
	insertQuery := `
		INSERT INTO schema_documents (user_id, name, default_schema, shared, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err = tx.QueryRow(ctx, insertQuery,
		schema.UserID,
		schema.Name,
		schema.Default,
		schema.Shared,
		fieldsJSON,
		now,
		now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert schema document: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

func (r *schemaDocumentRepository) List(ctx context.Context, ownerID int64, filter models.SchemaFilter, page models.Page) ([]*models.Schema, int, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, 0, fmt.Errorf("no request scope in context")
	}

	page = page.Normalize()

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
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM schema_documents WHERE %s`, where)
	if err := scope.Conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count schema documents: %w", err)
	}

	if page.OffsetID != nil {
		args = append(args, *page.OffsetID)
		where = fmt.Sprintf("%s AND id < $%d", where, len(args))
	}
	args = append(args, page.Limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, name, default_schema, shared, fields, created_at, updated_at
		FROM schema_documents
		WHERE %s
		ORDER BY id DESC
		LIMIT $%d`, where, len(args))

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schema documents: %w", err)
	}
	defer rows.Close()

	var schemas []*models.Schema
	for rows.Next() {
		var schema models.Schema
		var raw []byte
		err := rows.Scan(
			&schema.ID,
			&schema.UserID,
			&schema.Name,
			&schema.Default,
			&schema.Shared,
			&raw,
			&schema.CreatedAt,
			&schema.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan schema document: %w", err)
		}
		schema.Fields, err = decodeFields(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode field map: %w", err)
		}
		schemas = append(schemas, &schema)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating schema documents: %w", err)
	}

	return schemas, total, nil
}

func (r *schemaDocumentRepository) Update(ctx context.Context, id, ownerID int64, upd *models.SchemaUpdate) (int64, error) {
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

	query := fmt.Sprintf("UPDATE schema_documents SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(setClauses, ", "), arg, arg+1)
	args = append(args, id, ownerID)

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update schema document: %w", err)
	}
	affected := result.RowsAffected()

	if affected > 0 && upd.Default != nil && *upd.Default {
		clearQuery := `UPDATE schema_documents SET default_schema = false, updated_at = $1 WHERE user_id = $2 AND id <> $3 AND default_schema`
		if _, err = tx.Exec(ctx, clearQuery, time.Now(), ownerID, id); err != nil {
			return 0, fmt.Errorf("failed to clear sibling defaults: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return affected, nil
}

func (r *schemaDocumentRepository) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM schema_documents WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete schema document: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure schemaDocumentRepository implements SchemaRepository at compile time.
var _ SchemaRepository = (*schemaDocumentRepository)(nil)
