package business

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a PostgreSQL business profile repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `id, owner_id, name, category, address, phone, theme_color, is_active, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO business_profiles (id, owner_id, name, category, address, phone, theme_color, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, p.ID, p.OwnerID, p.Name, p.Category, p.Address, p.Phone,
		p.ThemeColor, p.IsActive).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM business_profiles WHERE id = $1`, parsedID)
	return scanProfile(row.Scan)
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Profile, error) {
	parsedID, err := uuid.Parse(ownerID)
	if err != nil {
		return []*Profile{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM business_profiles WHERE owner_id = $1 ORDER BY created_at`, parsedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []*Profile{}
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE business_profiles
		SET name = $1, category = $2, address = $3, phone = $4, theme_color = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Category, p.Address, p.Phone, p.ThemeColor,
		p.IsActive, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func scanProfile(scan func(...interface{}) error) (*Profile, error) {
	p := &Profile{}
	var category, address, phone sql.NullString
	err := scan(&p.ID, &p.OwnerID, &p.Name, &category, &address, &phone, &p.ThemeColor, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Category = category.String
	p.Address = address.String
	p.Phone = phone.String
	return p, nil
}
