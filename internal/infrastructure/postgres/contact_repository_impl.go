package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

const contactColumns = `id::text, name, number, owner_id::text, created_at, updated_at`

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	_, err := db(ctx, r.pool).Exec(ctx, `
		INSERT INTO contacts (id, name, number, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.Number, c.OwnerID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	c := &entity.Contact{}
	row := db(ctx, r.pool).QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	if err := row.Scan(&c.ID, &c.Name, &c.Number, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepository) List(ctx context.Context) ([]entity.Contact, error) {
	rows, err := db(ctx, r.pool).Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []entity.Contact{}
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Number, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	res, err := db(ctx, r.pool).Exec(ctx, `
		UPDATE contacts
		SET name = $1, number = $2, updated_at = $3
		WHERE id = $4
	`, c.Name, c.Number, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	res, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) DeleteAll(ctx context.Context) error {
	if _, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("delete contacts: %w", err)
	}
	return nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
