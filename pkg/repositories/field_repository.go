package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brewlog-io/brewlog/pkg/database"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// FieldRepository handles reusable field definitions. Reads follow the
// exclusive visibility rule: the shared view returns shared fields of any
// owner, otherwise only the caller's own.
type FieldRepository interface {
	Create(ctx context.Context, field *models.FieldDefinition) (int64, error)
	List(ctx context.Context, ownerID int64, shared bool, page models.Page) ([]*models.FieldDefinition, int, error)
	Update(ctx context.Context, id, ownerID int64, upd *models.FieldUpdate) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// fieldRepository implements FieldRepository using PostgreSQL.
type fieldRepository struct{}

// NewFieldRepository creates a new field repository.
func NewFieldRepository() FieldRepository {
	return &fieldRepository{}
}

func (r *fieldRepository) Create(ctx context.Context, field *models.FieldDefinition) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	now := time.Now()
	field.CreatedAt = now
	field.UpdatedAt = now

	query := `
		INSERT INTO fields (user_id, name, display_name, field_type_id, shared, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := scope.Conn.QueryRow(ctx, query,
		field.UserID,
		field.Name,
		field.DisplayName,
		int(field.Type),
		field.Shared,
		field.CreatedAt,
		field.UpdatedAt,
	).Scan(&field.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to create field: %w", err)
	}

	return field.ID, nil
}

func (r *fieldRepository) List(ctx context.Context, ownerID int64, shared bool, page models.Page) ([]*models.FieldDefinition, int, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, 0, fmt.Errorf("no request scope in context")
	}

	page = page.Normalize()

	// Exclusive visibility rule: shared selects shared fields of any
	// owner instead of the caller's own.
	where := "user_id = $1"
	args := []interface{}{ownerID}
	if shared {
		where = "shared = true"
		args = nil
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM fields WHERE %s`, where)
	if err := scope.Conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fields: %w", err)
	}

	if page.OffsetID != nil {
		where = fmt.Sprintf("%s AND id < $%d", where, len(args)+1)
		args = append(args, *page.OffsetID)
	}
	args = append(args, page.Limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, name, display_name, field_type_id, shared, created_at, updated_at
		FROM fields
		WHERE %s
		ORDER BY id DESC
		LIMIT $%d`, where, len(args))

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	var fields []*models.FieldDefinition
	for rows.Next() {
		var field models.FieldDefinition
		var typeID int
		err := rows.Scan(
			&field.ID,
			&field.UserID,
			&field.Name,
			&field.DisplayName,
			&typeID,
			&field.Shared,
			&field.CreatedAt,
			&field.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan field: %w", err)
		}
		field.Type = models.FieldType(typeID)
		fields = append(fields, &field)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating fields: %w", err)
	}

	return fields, total, nil
}

func (r *fieldRepository) Update(ctx context.Context, id, ownerID int64, upd *models.FieldUpdate) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	setClauses := []string{}
	args := []interface{}{}
	arg := 1

	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", arg))
		args = append(args, *upd.Name)
		arg++
	}
	if upd.DisplayName != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_name = $%d", arg))
		args = append(args, *upd.DisplayName)
		arg++
	}
	if upd.Type != nil {
		setClauses = append(setClauses, fmt.Sprintf("field_type_id = $%d", arg))
		args = append(args, int(*upd.Type))
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

	query := fmt.Sprintf("UPDATE fields SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(setClauses, ", "), arg, arg+1)
	args = append(args, id, ownerID)

	result, err := scope.Conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update field: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *fieldRepository) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM fields WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete field: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure fieldRepository implements FieldRepository at compile time.
var _ FieldRepository = (*fieldRepository)(nil)
