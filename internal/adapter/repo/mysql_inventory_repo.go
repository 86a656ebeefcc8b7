package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/year-3-projects-cti/baskIT/internal/inventory"
)

// MySQLInventoryRepo owns the dedup ledger and the stock-adjustment
// effect on the inventory side. The ledger row and the effect are
// written in one transaction: either both land or neither does.
type MySQLInventoryRepo struct{ db *sql.DB }

func NewMySQLInventoryRepo(db *sql.DB) *MySQLInventoryRepo { return &MySQLInventoryRepo{db: db} }

var _ inventory.Ledger = (*MySQLInventoryRepo)(nil)

const duplicateEntry = 1062

// ApplyOrderPaid inserts the processed_orders row for orderID and
// decrements stock for each of the order's items, atomically. A
// duplicate primary key means the effect already ran for this order;
// the caller gets ErrAlreadyProcessed and acks the delivery.
func (r *MySQLInventoryRepo) ApplyOrderPaid(ctx context.Context, orderID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO processed_orders (order_id, processed_at) VALUES (?,?)`,
		orderID, time.Now().UTC())
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == duplicateEntry {
			return inventory.ErrAlreadyProcessed
		}
		return fmt.Errorf("record processed order: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
SELECT basket_id, quantity FROM order_items WHERE order_id=?`, orderID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	type adj struct {
		basketID string
		qty      int
	}
	var adjs []adj
	for rows.Next() {
		var a adj
		if err := rows.Scan(&a.basketID, &a.qty); err != nil {
			rows.Close()
			return err
		}
		adjs = append(adjs, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, a := range adjs {
		if err := DecrementStock(ctx, tx, a.basketID, a.qty); err != nil {
			return fmt.Errorf("decrement stock for basket %s: %w", a.basketID, err)
		}
	}

	return tx.Commit()
}

// ListProcessed returns the ledger contents, newest last.
func (r *MySQLInventoryRepo) ListProcessed(ctx context.Context) ([]inventory.ProcessedOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT order_id, processed_at FROM processed_orders ORDER BY processed_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []inventory.ProcessedOrder
	for rows.Next() {
		var p inventory.ProcessedOrder
		if err := rows.Scan(&p.OrderID, &p.ProcessedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
