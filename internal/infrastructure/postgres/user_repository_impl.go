package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id::text, username, name, password_hash, contact_ids::text[], created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	ids := u.ContactIDs
	if ids == nil {
		ids = []string{}
	}
	_, err := db(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (id, username, name, password_hash, contact_ids, created_at)
		VALUES ($1, $2, $3, $4, $5::uuid[], $6)
	`, u.ID, u.Username, u.Name, u.PasswordHash, ids, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := db(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}
	rows, err := db(ctx, r.pool).Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ANY($1::uuid[])
		ORDER BY created_at, id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) AppendContact(ctx context.Context, userID, contactID string) error {
	res, err := db(ctx, r.pool).Exec(ctx, `
		UPDATE users
		SET contact_ids = array_append(contact_ids, $2::uuid)
		WHERE id = $1
	`, userID, contactID)
	if err != nil {
		return fmt.Errorf("append contact: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &u.ContactIDs, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func collectUsers(rows pgx.Rows) ([]entity.User, error) {
	defer rows.Close()
	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
