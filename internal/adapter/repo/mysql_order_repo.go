package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)

const orderColumns = `id, order_number, status, client_key,
customer_name, customer_email, customer_phone,
addr_line1, addr_line2, addr_city, addr_county, addr_postal_code,
gift_note, currency, shipping_fee, vat_amount, total_amount,
payment_token, payment_ref, tracking_number, cancel_reason, created_at`

// Create inserts the order and its items in one transaction. Items live
// and die with the order row (ON DELETE CASCADE in the schema).
func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO orders (`+orderColumns+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.OrderNumber, string(o.Status), o.ClientKey,
		o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Address.Line1, o.Address.Line2, o.Address.City, o.Address.County, o.Address.PostalCode,
		o.GiftNote, o.Currency, o.ShippingFee.String(), o.VATAmount.String(), o.TotalAmount.String(),
		o.PaymentToken, o.PaymentRef, o.TrackingNumber, o.CancelReason, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, basket_id, title_snapshot, unit_amount, quantity)
VALUES (?,?,?,?,?)`,
			o.ID, it.BasketID, it.Title, it.UnitAmount.String(), it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=?`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, usecase.ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return o, nil
}

func (r *MySQLOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range out {
		o.Items = items[o.ID]
	}
	return out, nil
}

func (r *MySQLOrderRepo) SavePaymentToken(ctx context.Context, id, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET payment_token=? WHERE id=?`, token, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrOrderNotFound
	}
	return nil
}

// UpdateStatusIf is the compare-and-set write behind every lifecycle
// transition: the status column only moves if it still holds the value
// the caller read. A false return means a concurrent writer won.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, o *domain.Order, from domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET status=?, payment_ref=?, tracking_number=?, cancel_reason=?
WHERE id=? AND status=?`,
		string(o.Status), o.PaymentRef, o.TrackingNumber, o.CancelReason,
		o.ID, string(from),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MySQLOrderRepo) ForceStatus(ctx context.Context, id string, to domain.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status=? WHERE id=?`, string(to), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrOrderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o                           domain.Order
		status                      string
		shippingFee, vat, total     string
		line2, token, ref, trk, rsn sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &status, &o.ClientKey,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.Address.Line1, &line2, &o.Address.City, &o.Address.County, &o.Address.PostalCode,
		&o.GiftNote, &o.Currency, &shippingFee, &vat, &total,
		&token, &ref, &trk, &rsn, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	o.Address.Line2 = line2.String
	o.PaymentToken = token.String
	o.PaymentRef = ref.String
	o.TrackingNumber = trk.String
	o.CancelReason = rsn.String
	if o.ShippingFee, err = decimal.NewFromString(shippingFee); err != nil {
		return nil, fmt.Errorf("shipping_fee: %w", err)
	}
	if o.VATAmount, err = decimal.NewFromString(vat); err != nil {
		return nil, fmt.Errorf("vat_amount: %w", err)
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("total_amount: %w", err)
	}
	return &o, nil
}

func (r *MySQLOrderRepo) itemsFor(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	if len(orderIDs) == 0 {
		return map[string][]domain.OrderItem{}, nil
	}
	placeholders := "?"
	args := []any{orderIDs[0]}
	for _, id := range orderIDs[1:] {
		placeholders += ",?"
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT order_id, basket_id, title_snapshot, unit_amount, quantity
FROM order_items WHERE order_id IN (`+placeholders+`) ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var (
			orderID, unit string
			it            domain.OrderItem
		)
		if err := rows.Scan(&orderID, &it.BasketID, &it.Title, &unit, &it.Quantity); err != nil {
			return nil, err
		}
		if it.UnitAmount, err = decimal.NewFromString(unit); err != nil {
			return nil, fmt.Errorf("unit_amount: %w", err)
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}
