package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/webdiner/internal/models"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `o.id, o.user_id, o.order_date, COALESCE(o.vendor_id, ''),
	COALESCE(o.menu_item_id, ''), o.status, o.created_at`

const orderDetailSelect = `SELECT ` + orderColumns + `,
	COALESCE(v.name, ''), COALESCE(v.color, ''),
	COALESCE(m.name, ''), COALESCE(m.description, ''), COALESCE(m.price, 0),
	u.employee_id, u.name, COALESCE(d.name, '')
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN vendors v ON v.id = o.vendor_id
	LEFT JOIN menu_items m ON m.id = o.menu_item_id
	LEFT JOIN departments d ON d.id = u.department_id`

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, order_date, vendor_id, menu_item_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		order.ID,
		order.UserID,
		dateArg(order.Date),
		nullableString(order.VendorID),
		nullableString(order.MenuItemID),
		string(order.Status),
	).Scan(&order.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return models.ErrOrderExists
	case isForeignKeyViolation(err):
		return fmt.Errorf("create order: %w", models.ErrMenuItemNotFound)
	case err != nil:
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Upsert(ctx context.Context, order *models.Order) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, order_date, vendor_id, menu_item_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, order_date) DO UPDATE
		SET vendor_id = EXCLUDED.vendor_id,
			menu_item_id = EXCLUDED.menu_item_id,
			status = EXCLUDED.status
		RETURNING id, created_at`,
		order.ID,
		order.UserID,
		dateArg(order.Date),
		nullableString(order.VendorID),
		nullableString(order.MenuItemID),
		string(order.Status),
	).Scan(&order.ID, &order.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("upsert order: %w", models.ErrMenuItemNotFound)
	}
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) DeleteByUserAndDate(ctx context.Context, userID string, date models.Date) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE user_id = $1 AND order_date = $2`, userID, dateArg(date))
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id)
}

func (r *OrderRepository) GetByUserAndDate(ctx context.Context, userID string, date models.Date) (*models.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders o
		WHERE o.user_id = $1 AND o.order_date = $2`, userID, dateArg(date))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.OrderDetail, error) {
	return r.listDetails(ctx, orderDetailSelect+` WHERE o.user_id = $1 ORDER BY o.order_date`, userID)
}

func (r *OrderRepository) ListByUserRange(ctx context.Context, userID string, from, to models.Date) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders o
		WHERE o.user_id = $1 AND o.order_date BETWEEN $2 AND $3
		ORDER BY o.order_date`, userID, dateArg(from), dateArg(to))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) ListDetailsByRange(ctx context.Context, from, to models.Date) ([]models.OrderDetail, error) {
	return r.listDetails(ctx, orderDetailSelect+`
		WHERE o.order_date BETWEEN $1 AND $2
		ORDER BY o.order_date, u.employee_id`, dateArg(from), dateArg(to))
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE orders")
	return err
}

func (r *OrderRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) listDetails(ctx context.Context, query string, args ...interface{}) ([]models.OrderDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list order details: %w", err)
	}
	defer rows.Close()

	details := []models.OrderDetail{}
	for rows.Next() {
		var d models.OrderDetail
		var day time.Time
		var status string
		err := rows.Scan(
			&d.ID,
			&d.UserID,
			&day,
			&d.VendorID,
			&d.MenuItemID,
			&status,
			&d.CreatedAt,
			&d.VendorName,
			&d.VendorColor,
			&d.ItemName,
			&d.ItemDescription,
			&d.ItemPrice,
			&d.EmployeeID,
			&d.UserName,
			&d.DepartmentName,
		)
		if err != nil {
			return nil, err
		}
		d.Date = dateFromDB(day)
		d.Status = models.OrderStatus(status)
		details = append(details, d)
	}
	return details, rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	var day time.Time
	var status string
	if err := row.Scan(&o.ID, &o.UserID, &day, &o.VendorID, &o.MenuItemID, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Date = dateFromDB(day)
	o.Status = models.OrderStatus(status)
	return o, nil
}
