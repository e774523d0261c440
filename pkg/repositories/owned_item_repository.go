package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/database"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// OwnedItemRepository is the generic CRUD contract shared by the five
// simple gear resources (coffee, water, brewer, filter, vessel). Every
// mutation is scoped by (id, ownerID); a non-owner mutation affects zero
// rows and is indistinguishable from an absent row.
type OwnedItemRepository interface {
	Create(ctx context.Context, ownerID int64, name string) (int64, error)
	Get(ctx context.Context, id, ownerID int64) (*models.Item, error)
	// List returns one page ordered id descending plus the total number
	// of rows the owner has, for the pagination header.
	List(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, int, error)
	Update(ctx context.Context, id, ownerID int64, name string) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// ownedItemRepository implements OwnedItemRepository for one table.
type ownedItemRepository struct {
	// table comes from the fixed ItemKind registry, never from request
	// input, so interpolating it into SQL is safe.
	table string
}

// NewOwnedItemRepository creates a repository bound to the kind's table.
func NewOwnedItemRepository(kind models.ItemKind) OwnedItemRepository {
	return &ownedItemRepository{table: kind.Table}
}

func (r *ownedItemRepository) Create(ctx context.Context, ownerID int64, name string) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	now := time.Now()
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, r.table)

	var id int64
	err := scope.Conn.QueryRow(ctx, query, ownerID, name, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", r.table, err)
	}

	return id, nil
}

func (r *ownedItemRepository) Get(ctx context.Context, id, ownerID int64) (*models.Item, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no request scope in context")
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2`, r.table)

	var item models.Item
	err := scope.Conn.QueryRow(ctx, query, id, ownerID).Scan(
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from %s: %w", r.table, err)
	}

	return &item, nil
}

func (r *ownedItemRepository) List(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, int, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, 0, fmt.Errorf("no request scope in context")
	}

	page = page.Normalize()

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, r.table)
	if err := scope.Conn.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}

	args := []interface{}{ownerID}
	cursor := ""
	if page.OffsetID != nil {
		cursor = "AND id < $2"
		args = append(args, *page.OffsetID)
	}
	args = append(args, page.Limit)

	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at, updated_at
		FROM %s
		WHERE user_id = $1 %s
		ORDER BY id DESC
		LIMIT $%d`, r.table, cursor, len(args))

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.Name,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating %s: %w", r.table, err)
	}

	return items, total, nil
}

func (r *ownedItemRepository) Update(ctx context.Context, id, ownerID int64, name string) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4`, r.table)

	result, err := scope.Conn.Exec(ctx, query, name, time.Now(), id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", r.table, err)
	}

	return result.RowsAffected(), nil
}

func (r *ownedItemRepository) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.table)

	result, err := scope.Conn.Exec(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}

	return result.RowsAffected(), nil
}

// Ensure ownedItemRepository implements OwnedItemRepository at compile time.
var _ OwnedItemRepository = (*ownedItemRepository)(nil)
