package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"github.com/roster-api/roster/internal/platform/db"
)

const userColumns = `id, email, first_name, last_name, is_active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence. Mutations run against
// the primary pool, point lookups and listings against the replica. The
// uniqueness probe reads the primary so it never sees a stale replica while
// gating an imminent write.
type Repository struct {
	db *db.DB
}

// NewRepository constructs a repository over the pool pair.
func NewRepository(pair *db.DB) *Repository {
	return &Repository{db: pair}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a new user. The store assigns id, created_at and
// updated_at. A concurrent duplicate email surfaces as ErrEmailExists via
// the unique index, which is the actual source of truth for uniqueness.
func (r *Repository) Create(ctx context.Context, in CreateUserRequest) (User, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	query := `INSERT INTO users (email, first_name, last_name, is_active)
VALUES ($1, $2, $3, $4)
RETURNING ` + userColumns

	u, err := scanUser(r.db.Primary.QueryRow(ctx, query, in.Email, in.FirstName, in.LastName, active))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("users: create: %w", err)
	}
	return u, nil
}

// GetByID returns the user or ErrNotFound. Reads the replica.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.Replica.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("users: get by id: %w", err)
	}
	return u, nil
}

// buildListQuery renders the filter conditions into a count query and a page
// query sharing the same WHERE clause. Every user-supplied value is bound
// positionally, never interpolated.
func buildListQuery(req ListUsersRequest) (countQuery, pageQuery string, countArgs, pageArgs []any) {
	var conditions []string
	var args []any
	argPos := 1

	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}

	if req.Email != "" {
		conditions = append(conditions, fmt.Sprintf("email ILIKE $%d", argPos))
		args = append(args, "%"+req.Email+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery = "SELECT COUNT(*) FROM users" + whereClause
	pageQuery = fmt.Sprintf("SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, whereClause, argPos, argPos+1)

	countArgs = args
	pageArgs = append(append([]any{}, args...), req.Limit, req.Offset)
	return countQuery, pageQuery, countArgs, pageArgs
}

// List returns one page of users plus the total count matching the filter.
// The total ignores the pagination window so callers can compute hasMore.
// Both queries read the replica and run concurrently.
func (r *Repository) List(ctx context.Context, req ListUsersRequest) ([]User, int, error) {
	countQuery, pageQuery, countArgs, pageArgs := buildListQuery(req)

	var (
		page  []User
		total int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.Replica.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	})
	g.Go(func() error {
		rows, err := r.db.Replica.Query(ctx, pageQuery, pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var u User
			if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
				return err
			}
			page = append(page, u)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}

	if page == nil {
		page = []User{}
	}
	return page, total, nil
}

// buildUpdateQuery renders a SET clause containing only the fields present
// in the partial update. updated_at is always refreshed.
func buildUpdateQuery(id uuid.UUID, in UpdateUserRequest) (query string, args []any, err error) {
	var setClauses []string
	argPos := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if in.Email != nil {
		set("email", *in.Email)
	}
	if in.FirstName != nil {
		set("first_name", *in.FirstName)
	}
	if in.LastName != nil {
		set("last_name", *in.LastName)
	}
	if in.IsActive != nil {
		set("is_active", *in.IsActive)
	}

	if len(setClauses) == 0 {
		return "", nil, ErrNoFields
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query = fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argPos, userColumns)
	return query, args, nil
}

// Update applies a partial update against the primary and returns the
// refreshed row, ErrNotFound if no row matched, or ErrEmailExists if the
// new email collides.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, in UpdateUserRequest) (User, error) {
	query, args, err := buildUpdateQuery(id, in)
	if err != nil {
		return User{}, err
	}

	u, err := scanUser(r.db.Primary.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		if isUniqueViolation(err) {
			return User{}, ErrEmailExists
		}
		return User{}, fmt.Errorf("users: update: %w", err)
	}
	return u, nil
}

// Delete removes exactly one row by id against the primary. The boolean
// distinguishes deleted from already absent.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Primary.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("users: delete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// EmailExists probes email uniqueness case-insensitively. When excludeID is
// given the row's own email does not count as a collision, so an update can
// keep its current address. Reads the primary: the probe gates a write and
// must not be fooled by replica lag.
func (r *Repository) EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	query := `SELECT 1 FROM users WHERE lower(email) = lower($1)`
	args := []any{email}

	if excludeID != nil {
		query += ` AND id <> $2`
		args = append(args, *excludeID)
	}

	var one int
	err := r.db.Primary.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("users: email exists: %w", err)
	}
	return true, nil
}
