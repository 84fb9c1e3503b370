package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, order_number, customer_id, business_profile_id, status, payment_method,
	payment_status, payment_ref, subtotal, discount, delivery_fee, total, currency,
	delivery_address, notes, created_at, updated_at`

// CreateOrder inserts the order, its items and the PLACED event inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id, order_number, customer_id, business_profile_id, status, payment_method,
		   payment_status, payment_ref, subtotal, discount, delivery_fee, total, currency,
		   delivery_address, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		o.ID, o.OrderNumber, o.CustomerID, o.BusinessProfileID, o.Status, o.PaymentMethod,
		o.PaymentStatus, o.PaymentRef, o.Subtotal, o.Discount, o.DeliveryFee, o.Total, o.Currency,
		o.DeliveryAddress, o.Notes)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, name, unit, quantity, unit_price, mrp, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			item.ID, o.ID, item.ProductID, item.Name, item.Unit,
			item.Quantity, item.UnitPrice, item.MRP, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := insertEvent(ctx, tx, o.ID, o.Status, ""); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid).Scan)
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
}

func (r *postgresRepo) ListByBusiness(ctx context.Context, businessID string, statuses []Status) ([]*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE business_profile_id=$1`
	args := []interface{}{businessID}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(statusNames(statuses)))
	}
	query += ` ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, args...)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status Status, from []Status, note string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, updated_at=$2 WHERE id=$3 AND status = ANY($4)`,
		status, time.Now(), uid, pq.Array(statusNames(from)))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, uid).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return fmt.Errorf("%w: order is no longer in %v", ErrInvalidTransition, from)
	}
	if err := insertEvent(ctx, tx, uid, status, note); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) UpdatePayment(ctx context.Context, id string, status PaymentStatus, ref string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status=$1, payment_ref=$2, updated_at=$3 WHERE id=$4`,
		status, ref, time.Now(), id)
	return err
}

func (r *postgresRepo) Events(ctx context.Context, id string) ([]StatusEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, note, created_at FROM order_status_events
		WHERE order_id=$1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []StatusEvent{}
	for rows.Next() {
		var e StatusEvent
		var note sql.NullString
		if err := rows.Scan(&e.Status, &note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Note = note.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func statusNames(statuses []Status) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}

func insertEvent(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status Status, note string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_status_events (order_id, status, note) VALUES ($1,$2,$3)`,
		orderID, status, note)
	if err != nil {
		return fmt.Errorf("insert order_status_event: %w", err)
	}
	return nil
}

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var paymentRef, address, notes sql.NullString
	err := scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.BusinessProfileID, &o.Status, &o.PaymentMethod,
		&o.PaymentStatus, &paymentRef, &o.Subtotal, &o.Discount, &o.DeliveryFee, &o.Total, &o.Currency,
		&address, &notes, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.PaymentRef = paymentRef.String
	o.DeliveryAddress = address.String
	o.Notes = notes.String
	return o, nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, unit, quantity, unit_price, mrp, line_total
		FROM order_items WHERE order_id=$1 ORDER BY name`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*OrderItem{}
	for rows.Next() {
		item := &OrderItem{}
		var unit sql.NullString
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &unit,
			&item.Quantity, &item.UnitPrice, &item.MRP, &item.LineTotal); err != nil {
			return nil, err
		}
		item.Unit = unit.String
		items = append(items, item)
	}
	return items, rows.Err()
}
