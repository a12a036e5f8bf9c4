package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates every table the API needs. Statements are
// idempotent so a restart against an existing database is a no-op.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id    BIGSERIAL PRIMARY KEY,
			name       VARCHAR(100) NOT NULL,
			village    VARCHAR(50)  NOT NULL,
			address    VARCHAR(200) NOT NULL,
			mobile     VARCHAR(10)  NOT NULL UNIQUE,
			is_active  BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			admin_id      BIGSERIAL PRIMARY KEY,
			name          VARCHAR(100) NOT NULL,
			email         VARCHAR(200) NOT NULL UNIQUE,
			password      VARCHAR(200) NOT NULL,
			role          VARCHAR(50)  NOT NULL DEFAULT 'Admin',
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			category_id BIGSERIAL PRIMARY KEY,
			name        VARCHAR(100) NOT NULL,
			description VARCHAR(500),
			image_url   VARCHAR(500),
			is_active   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id            BIGSERIAL PRIMARY KEY,
			name                  VARCHAR(200) NOT NULL,
			description           VARCHAR(1000) NOT NULL DEFAULT '',
			price                 NUMERIC(10,2) NOT NULL CHECK (price > 0),
			image_url             VARCHAR(500) NOT NULL,
			additional_image_urls VARCHAR(2000),
			category              VARCHAR(100),
			stock_quantity        INT NOT NULL DEFAULT 0,
			is_active             BOOLEAN NOT NULL DEFAULT TRUE,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at            TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			cart_id    BIGSERIAL PRIMARY KEY,
			user_id    BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
			quantity   INT NOT NULL CHECK (quantity >= 1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ,
			UNIQUE (user_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id         BIGSERIAL PRIMARY KEY,
			user_id          BIGINT NOT NULL REFERENCES users(user_id),
			order_number     VARCHAR(50) NOT NULL UNIQUE,
			total_amount     NUMERIC(10,2) NOT NULL DEFAULT 0,
			status           VARCHAR(20) NOT NULL DEFAULT 'Processing',
			payment_method   VARCHAR(20) NOT NULL,
			delivery_address VARCHAR(500),
			delivery_village VARCHAR(100),
			order_date       TIMESTAMPTZ NOT NULL DEFAULT now(),
			shipped_date     TIMESTAMPTZ,
			delivered_date   TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_item_id     BIGSERIAL PRIMARY KEY,
			order_id          BIGINT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
			product_id        BIGINT NOT NULL REFERENCES products(product_id) ON DELETE RESTRICT,
			product_name      VARCHAR(200) NOT NULL,
			unit_price        NUMERIC(10,2) NOT NULL,
			quantity          INT NOT NULL CHECK (quantity >= 1),
			total_price       NUMERIC(10,2) NOT NULL,
			product_image_url VARCHAR(500) NOT NULL DEFAULT '',
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS salebuy_categories (
			salebuy_category_id BIGSERIAL PRIMARY KEY,
			name        VARCHAR(100) NOT NULL,
			description VARCHAR(500),
			image_url   VARCHAR(500),
			is_active   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS salebuy_products (
			salebuy_product_id  BIGSERIAL PRIMARY KEY,
			salebuy_category_id BIGINT NOT NULL REFERENCES salebuy_categories(salebuy_category_id),
			created_by_user_id  BIGINT NOT NULL REFERENCES users(user_id),
			full_name           VARCHAR(100) NOT NULL,
			place_name          VARCHAR(100) NOT NULL,
			product_description VARCHAR(500) NOT NULL,
			price               NUMERIC(10,2) NOT NULL,
			phone_number        VARCHAR(15) NOT NULL,
			image_urls          VARCHAR(2000),
			is_active           BOOLEAN NOT NULL DEFAULT TRUE,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at          TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS videos (
			video_id      BIGSERIAL PRIMARY KEY,
			title         VARCHAR(200) NOT NULL,
			description   VARCHAR(1000),
			video_url     VARCHAR(500) NOT NULL,
			thumbnail_url VARCHAR(500),
			category      VARCHAR(50) NOT NULL DEFAULT 'General',
			duration      INT NOT NULL DEFAULT 0,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			display_order INT NOT NULL DEFAULT 0,
			created_by    BIGINT REFERENCES admins(admin_id),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_date ON orders(user_id, order_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_carts_user ON carts(user_id)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
