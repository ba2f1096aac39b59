package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gobd/apicontract/internal/record"
	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite stores records in one SQLite database. Money is kept as decimal
// TEXT, tags as a comma joined list, JSON documents as TEXT and timestamps
// as unix nanoseconds.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dsn and ensures the tables
// exist.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Users() Users       { return sqlUsers{s.db} }
func (s *SQLite) Products() Products { return sqlProducts{s.db} }
func (s *SQLite) Orders() Orders     { return sqlOrders{s.db} }

func (s *SQLite) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_users_created ON users(created_at);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		base_price TEXT NOT NULL,
		tags TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		metadata_json TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_products_created ON products(created_at);

	CREATE TABLE IF NOT EXISTS product_variants (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		sku TEXT NOT NULL,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		stock INTEGER NOT NULL,
		attributes_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_variants_product ON product_variants(product_id);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'pending',
		shipping_address_json TEXT NOT NULL,
		billing_address_json TEXT,
		subtotal TEXT NOT NULL,
		discount TEXT NOT NULL DEFAULT '0',
		tax TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL,
		notes TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);

	CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		variant_id TEXT NOT NULL,
		variant_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		total_price TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_items_order ON order_items(order_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// classify maps driver errors onto the package sentinels.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func affected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func nanos(t time.Time) int64 { return t.UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func joinTags(tags []string) string { return strings.Join(tags, ",") }

func splitTags(s sql.NullString) []string {
	if !s.Valid || s.String == "" {
		return []string{}
	}
	return strings.Split(s.String, ",")
}

func parseMoney(col, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("column %s: %w", col, err)
	}
	return d, nil
}

// toJSON encodes v. Nil maps and pointers are stored as NULL.
func toJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if string(b) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func fromJSON(col string, s sql.NullString, dst any) error {
	if !s.Valid {
		return nil
	}
	if err := json.Unmarshal([]byte(s.String), dst); err != nil {
		return fmt.Errorf("column %s: %w", col, err)
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

type scanner interface {
	Scan(dest ...any) error
}

// inTx runs fn in a transaction and commits when it returns nil.
func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlUsers struct{ db *sql.DB }

const userColumns = `id, email, name, password_hash, created_at, updated_at`

func scanUser(row scanner) (record.User, error) {
	var (
		u                record.User
		created, updated int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &created, &updated); err != nil {
		return record.User{}, err
	}
	u.CreatedAt, u.UpdatedAt = fromNanos(created), fromNanos(updated)
	return u, nil
}

func (s sqlUsers) Create(ctx context.Context, u record.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, nanos(u.CreatedAt), nanos(u.UpdatedAt))
	return classify("create user", err)
}

func (s sqlUsers) Get(ctx context.Context, id string) (record.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, classify("get user", err)
}

func (s sqlUsers) GetByEmail(ctx context.Context, email string) (record.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	return u, classify("get user by email", err)
}

func (s sqlUsers) List(ctx context.Context, offset, limit int) ([]record.User, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, classify("count users", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limitArg(limit), offset)
	if err != nil {
		return nil, 0, classify("list users", err)
	}
	defer rows.Close()

	var out []record.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, classify("list users", err)
		}
		out = append(out, u)
	}
	return out, total, classify("list users", rows.Err())
}

func (s sqlUsers) Update(ctx context.Context, u record.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
		u.Email, u.Name, u.PasswordHash, nanos(u.UpdatedAt), u.ID)
	if err != nil {
		return classify("update user", err)
	}
	return affected("update user", res)
}

func (s sqlUsers) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return classify("delete user", err)
	}
	return affected("delete user", res)
}

// limitArg maps "no limit" onto SQLite's -1.
func limitArg(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

type sqlProducts struct{ db *sql.DB }

const productColumns = `id, name, description, category, base_price, tags, is_active, metadata_json, created_at, updated_at`

func scanProduct(row scanner) (record.Product, error) {
	var (
		p                record.Product
		desc, tags, meta sql.NullString
		price            string
		created, updated int64
	)
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.Category, &price, &tags, &p.IsActive, &meta, &created, &updated); err != nil {
		return record.Product{}, err
	}
	var err error
	if p.BasePrice, err = parseMoney("base_price", price); err != nil {
		return record.Product{}, err
	}
	if err := fromJSON("metadata_json", meta, &p.Metadata); err != nil {
		return record.Product{}, err
	}
	p.Description = stringPtr(desc)
	p.Tags = splitTags(tags)
	p.CreatedAt, p.UpdatedAt = fromNanos(created), fromNanos(updated)
	return p, nil
}

func insertVariants(ctx context.Context, tx *sql.Tx, p record.Product) error {
	for i, vr := range p.Variants {
		attrs, err := toJSON(vr.Attributes)
		if err != nil {
			return fmt.Errorf("variant %s attributes: %w", vr.SKU, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_variants (id, product_id, position, sku, name, price, stock, attributes_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			vr.ID, p.ID, i, vr.SKU, vr.Name, vr.Price.String(), vr.Stock, attrs); err != nil {
			return err
		}
	}
	return nil
}

func (s sqlProducts) loadVariants(ctx context.Context, p *record.Product) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, sku, name, price, stock, attributes_json
		FROM product_variants WHERE product_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	p.Variants = []record.Variant{}
	for rows.Next() {
		var (
			vr    record.Variant
			price string
			attrs sql.NullString
		)
		if err := rows.Scan(&vr.ID, &vr.ProductID, &vr.SKU, &vr.Name, &price, &vr.Stock, &attrs); err != nil {
			return err
		}
		if vr.Price, err = parseMoney("price", price); err != nil {
			return err
		}
		if err := fromJSON("attributes_json", attrs, &vr.Attributes); err != nil {
			return err
		}
		p.Variants = append(p.Variants, vr)
	}
	return rows.Err()
}

func (s sqlProducts) Create(ctx context.Context, p record.Product) error {
	meta, err := toJSON(p.Metadata)
	if err != nil {
		return fmt.Errorf("create product: metadata: %w", err)
	}
	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, nullString(p.Description), p.Category, p.BasePrice.String(), joinTags(p.Tags),
			p.IsActive, meta, nanos(p.CreatedAt), nanos(p.UpdatedAt)); err != nil {
			return err
		}
		return insertVariants(ctx, tx, p)
	})
	return classify("create product", err)
}

func (s sqlProducts) Get(ctx context.Context, id string) (record.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if err != nil {
		return record.Product{}, classify("get product", err)
	}
	if err := s.loadVariants(ctx, &p); err != nil {
		return record.Product{}, classify("get product variants", err)
	}
	return p, nil
}

func (s sqlProducts) List(ctx context.Context, offset, limit int) ([]record.Product, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, classify("count products", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limitArg(limit), offset)
	if err != nil {
		return nil, 0, classify("list products", err)
	}
	var out []record.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, 0, classify("list products", err)
		}
		out = append(out, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, 0, classify("list products", err)
	}

	// Variants are loaded after the product rows are released; the pool
	// holds a single connection.
	for i := range out {
		if err := s.loadVariants(ctx, &out[i]); err != nil {
			return nil, 0, classify("list product variants", err)
		}
	}
	return out, total, nil
}

func (s sqlProducts) Update(ctx context.Context, p record.Product) error {
	meta, err := toJSON(p.Metadata)
	if err != nil {
		return fmt.Errorf("update product: metadata: %w", err)
	}
	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET name = ?, description = ?, category = ?, base_price = ?, tags = ?,
			is_active = ?, metadata_json = ?, updated_at = ? WHERE id = ?`,
			p.Name, nullString(p.Description), p.Category, p.BasePrice.String(), joinTags(p.Tags),
			p.IsActive, meta, nanos(p.UpdatedAt), p.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return sql.ErrNoRows
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id = ?`, p.ID); err != nil {
			return err
		}
		return insertVariants(ctx, tx, p)
	})
	return classify("update product", err)
}

func (s sqlProducts) Delete(ctx context.Context, id string) error {
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return sql.ErrNoRows
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id = ?`, id)
		return err
	})
	return classify("delete product", err)
}

type sqlOrders struct{ db *sql.DB }

const orderColumns = `id, order_number, status, shipping_address_json, billing_address_json,
	subtotal, discount, tax, total, notes, created_at, updated_at`

func scanOrder(row scanner) (record.Order, error) {
	var (
		o                              record.Order
		shipping                       string
		billing, notes                 sql.NullString
		subtotal, discount, tax, total string
		created, updated               int64
	)
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.Status, &shipping, &billing,
		&subtotal, &discount, &tax, &total, &notes, &created, &updated); err != nil {
		return record.Order{}, err
	}
	if err := json.Unmarshal([]byte(shipping), &o.ShippingAddress); err != nil {
		return record.Order{}, fmt.Errorf("column shipping_address_json: %w", err)
	}
	if err := fromJSON("billing_address_json", billing, &o.BillingAddress); err != nil {
		return record.Order{}, err
	}
	for _, m := range []struct {
		col string
		src string
		dst *decimal.Decimal
	}{
		{"subtotal", subtotal, &o.Subtotal},
		{"discount", discount, &o.Discount},
		{"tax", tax, &o.Tax},
		{"total", total, &o.Total},
	} {
		d, err := parseMoney(m.col, m.src)
		if err != nil {
			return record.Order{}, err
		}
		*m.dst = d
	}
	o.Notes = stringPtr(notes)
	o.CreatedAt, o.UpdatedAt = fromNanos(created), fromNanos(updated)
	return o, nil
}

func (s sqlOrders) loadItems(ctx context.Context, o *record.Order) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, product_name, variant_id, variant_name, quantity, unit_price, total_price
		FROM order_items WHERE order_id = ? ORDER BY position`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []record.OrderItem{}
	for rows.Next() {
		var (
			it          record.OrderItem
			unit, total string
		)
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.VariantID, &it.VariantName,
			&it.Quantity, &unit, &total); err != nil {
			return err
		}
		if it.UnitPrice, err = parseMoney("unit_price", unit); err != nil {
			return err
		}
		if it.TotalPrice, err = parseMoney("total_price", total); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (s sqlOrders) Create(ctx context.Context, o record.Order) error {
	shipping, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("create order: shipping address: %w", err)
	}
	var billing sql.NullString
	if o.BillingAddress != nil {
		if billing, err = toJSON(o.BillingAddress); err != nil {
			return fmt.Errorf("create order: billing address: %w", err)
		}
	}
	err = inTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.OrderNumber, o.Status, string(shipping), billing,
			o.Subtotal.String(), o.Discount.String(), o.Tax.String(), o.Total.String(),
			nullString(o.Notes), nanos(o.CreatedAt), nanos(o.UpdatedAt)); err != nil {
			return err
		}
		for i, it := range o.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (id, order_id, position, product_id, product_name, variant_id,
				variant_name, quantity, unit_price, total_price) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, o.ID, i, it.ProductID, it.ProductName, it.VariantID, it.VariantName,
				it.Quantity, it.UnitPrice.String(), it.TotalPrice.String()); err != nil {
				return err
			}
		}
		return nil
	})
	return classify("create order", err)
}

func (s sqlOrders) Get(ctx context.Context, id string) (record.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		return record.Order{}, classify("get order", err)
	}
	if err := s.loadItems(ctx, &o); err != nil {
		return record.Order{}, classify("get order items", err)
	}
	return o, nil
}

func (s sqlOrders) List(ctx context.Context, offset, limit int) ([]record.Order, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, classify("count orders", err)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limitArg(limit), offset)
	if err != nil {
		return nil, 0, classify("list orders", err)
	}
	var out []record.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, classify("list orders", err)
		}
		out = append(out, o)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, 0, classify("list orders", err)
	}
	for i := range out {
		if err := s.loadItems(ctx, &out[i]); err != nil {
			return nil, 0, classify("list order items", err)
		}
	}
	return out, total, nil
}

func (s sqlOrders) UpdateStatus(ctx context.Context, o record.Order) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		o.Status, nullString(o.Notes), nanos(o.UpdatedAt), o.ID)
	if err != nil {
		return classify("update order status", err)
	}
	return affected("update order status", res)
}
