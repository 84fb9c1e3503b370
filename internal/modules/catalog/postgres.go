package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, business_profile_id, name, description, category, unit, image_url,
	price, mrp, inventory, currency, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO storefront_products
		  (id, business_profile_id, name, description, category, unit, image_url,
		   price, mrp, inventory, currency, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		p.ID, p.BusinessProfileID, p.Name, p.Description, p.Category, p.Unit, p.ImageURL,
		p.Price, p.MRP, p.Inventory, p.Currency, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var description, unit, imageURL sql.NullString
	err := scan(&p.ID, &p.BusinessProfileID, &p.Name, &description, &p.Category, &unit, &imageURL,
		&p.Price, &p.MRP, &p.Inventory, &p.Currency, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Unit = unit.String
	p.ImageURL = imageURL.String
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM storefront_products WHERE id=$1`, uid)
	return scanProduct(row.Scan)
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM storefront_products WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Category != "" {
		query += fmt.Sprintf(` AND category=$%d`, n)
		args = append(args, f.Category)
		n++
	}
	if f.BusinessProfileID != "" {
		query += fmt.Sprintf(` AND business_profile_id=$%d`, n)
		args = append(args, f.BusinessProfileID)
		n++
	}
	if f.ActiveOnly {
		query += ` AND is_active=true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE storefront_products
		SET name=$1, description=$2, category=$3, unit=$4, image_url=$5, price=$6,
		    mrp=$7, inventory=$8, currency=$9, is_active=$10, updated_at=NOW()
		WHERE id=$11`,
		p.Name, p.Description, p.Category, p.Unit, p.ImageURL, p.Price,
		p.MRP, p.Inventory, p.Currency, p.IsActive, p.ID)
	return affected(res, err)
}

func (r *postgresRepo) SetInventory(ctx context.Context, id string, inventory int) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE storefront_products SET inventory=$1, updated_at=NOW() WHERE id=$2`, inventory, uid)
	return affected(res, err)
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
