package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/webdiner/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, employee_id, name, extension, email, role,
	COALESCE(department_id, ''), title, is_department_head, is_active, created_at`

const insertUser = `
	INSERT INTO users (
		id, employee_id, name, extension, email, role,
		department_id, title, is_department_head, is_active
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at`

func (r *UserRepository) BulkCreate(ctx context.Context, users []*models.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, user := range users {
		if err := tx.QueryRow(ctx, insertUser, userArgs(user)...).Scan(&user.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("user %s: %w", user.EmployeeID, models.ErrUserExists)
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.pool.QueryRow(ctx, insertUser, userArgs(user)...).Scan(&user.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return models.ErrUserExists
	case isForeignKeyViolation(err):
		return models.ErrDepartmentNotFound
	case err != nil:
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET
			employee_id = $2, name = $3, extension = $4, email = $5, role = $6,
			department_id = $7, title = $8, is_department_head = $9, is_active = $10
		WHERE id = $1`, userArgs(user)...)
	switch {
	case isUniqueViolation(err):
		return models.ErrUserExists
	case isForeignKeyViolation(err):
		return models.ErrDepartmentNotFound
	case err != nil:
		return fmt.Errorf("update user: %w", err)
	case tag.RowsAffected() == 0:
		return models.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE employee_id = $1`, employeeID)
}

func (r *UserRepository) GetAll(ctx context.Context, skip, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY employee_id OFFSET $1 LIMIT $2`, skip, limit)
}

func (r *UserRepository) GetActive(ctx context.Context) ([]*models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE is_active ORDER BY employee_id`)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE users CASCADE")
	return err
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func userArgs(u *models.User) []interface{} {
	return []interface{}{
		u.ID,
		u.EmployeeID,
		u.Name,
		u.Extension,
		u.Email,
		string(u.Role),
		nullableString(u.DepartmentID),
		u.Title,
		u.IsDepartmentHead,
		u.IsActive,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	var role string
	err := row.Scan(
		&u.ID,
		&u.EmployeeID,
		&u.Name,
		&u.Extension,
		&u.Email,
		&role,
		&u.DepartmentID,
		&u.Title,
		&u.IsDepartmentHead,
		&u.IsActive,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return u, nil
}
