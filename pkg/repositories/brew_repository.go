package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/database"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// BrewRepository handles brew records.
type BrewRepository interface {
	Create(ctx context.Context, brew *models.Brew) (int64, error)
	Get(ctx context.Context, id, ownerID int64) (*models.Brew, error)
	List(ctx context.Context, ownerID int64, filter models.BrewFilter, page models.Page) ([]*models.Brew, int, error)
	Update(ctx context.Context, id, ownerID int64, upd *models.BrewUpdate) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// brewRepository implements BrewRepository using PostgreSQL.
type brewRepository struct{}

// NewBrewRepository creates a new brew repository.
func NewBrewRepository() BrewRepository {
	return &brewRepository{}
}

const brewColumns = `id, user_id, brew_date, coffee_id, water_id, brewer_id, filter_id, vessel_id, coffee_mass_g, water_mass_g, created_at, updated_at`

func scanBrew(row pgx.Row) (*models.Brew, error) {
	var brew models.Brew
	err := row.Scan(
		&brew.ID,
		&brew.UserID,
		&brew.BrewDate,
		&brew.CoffeeID,
		&brew.WaterID,
		&brew.BrewerID,
		&brew.FilterID,
		&brew.VesselID,
		&brew.CoffeeMassG,
		&brew.WaterMassG,
		&brew.CreatedAt,
		&brew.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &brew, nil
}

func (r *brewRepository) Create(ctx context.Context, brew *models.Brew) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	now := time.Now()
	brew.CreatedAt = now
	brew.UpdatedAt = now
	if brew.BrewDate.IsZero() {
		brew.BrewDate = now
	}

	query := `
		INSERT INTO brews (user_id, brew_date, coffee_id, water_id, brewer_id, filter_id, vessel_id, coffee_mass_g, water_mass_g, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := scope.Conn.QueryRow(ctx, query,
		brew.UserID,
		brew.BrewDate,
		brew.CoffeeID,
		brew.WaterID,
		brew.BrewerID,
		brew.FilterID,
		brew.VesselID,
		brew.CoffeeMassG,
		brew.WaterMassG,
		brew.CreatedAt,
		brew.UpdatedAt,
	).Scan(&brew.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to create brew: %w", err)
	}

	return brew.ID, nil
}

func (r *brewRepository) Get(ctx context.Context, id, ownerID int64) (*models.Brew, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no request scope in context")
	}

	query := fmt.Sprintf(`SELECT %s FROM brews WHERE id = $1 AND user_id = $2`, brewColumns)

	brew, err := scanBrew(scope.Conn.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get brew: %w", err)
	}

	return brew, nil
}

func (r *brewRepository) List(ctx context.Context, ownerID int64, filter models.BrewFilter, page models.Page) ([]*models.Brew, int, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, 0, fmt.Errorf("no request scope in context")
	}

	page = page.Normalize()

	conds := []string{"user_id = $1"}
	args := []interface{}{ownerID}
	if filter.CoffeeID != nil {
		args = append(args, *filter.CoffeeID)
		conds = append(conds, fmt.Sprintf("coffee_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("brew_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("brew_date <= $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM brews WHERE %s`, where)
	if err := scope.Conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count brews: %w", err)
	}

	if page.OffsetID != nil {
		args = append(args, *page.OffsetID)
		where = fmt.Sprintf("%s AND id < $%d", where, len(args))
	}
	args = append(args, page.Limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM brews
		WHERE %s
		ORDER BY id DESC
		LIMIT $%d`, brewColumns, where, len(args))

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list brews: %w", err)
	}
	defer rows.Close()

	var brews []*models.Brew
	for rows.Next() {
		brew, err := scanBrew(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan brew: %w", err)
		}
		brews = append(brews, brew)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating brews: %w", err)
	}

	return brews, total, nil
}

func (r *brewRepository) Update(ctx context.Context, id, ownerID int64, upd *models.BrewUpdate) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	setClauses := []string{}
	args := []interface{}{}
	arg := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if upd.BrewDate != nil {
		add("brew_date", *upd.BrewDate)
	}
	if upd.CoffeeID != nil {
		add("coffee_id", *upd.CoffeeID)
	}
	if upd.WaterID != nil {
		add("water_id", *upd.WaterID)
	}
	if upd.BrewerID != nil {
		add("brewer_id", *upd.BrewerID)
	}
	if upd.FilterID != nil {
		add("filter_id", *upd.FilterID)
	}
	if upd.VesselID != nil {
		add("vessel_id", *upd.VesselID)
	}
	if upd.CoffeeMassG != nil {
		add("coffee_mass_g", *upd.CoffeeMassG)
	}
	if upd.WaterMassG != nil {
		add("water_mass_g", *upd.WaterMassG)
	}
	add("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE brews SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(setClauses, ", "), arg, arg+1)
	args = append(args, id, ownerID)

	result, err := scope.Conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update brew: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *brewRepository) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM brews WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete brew: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure brewRepository implements BrewRepository at compile time.
var _ BrewRepository = (*brewRepository)(nil)
