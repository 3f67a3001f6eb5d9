// internal/database/migrations.go
package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pagebound/bookstore-backend/internal/models"
)

// Migrations returns the ordered, reversible migration steps. Each step runs
// in its own transaction; a failure leaves the schema at the last applied
// step.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			// Base schema. Products initially carried a single category_id
			// column; 0002 moves those links into the join table.
			ID: "0001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(models.All()...); err != nil {
					return err
				}
				return tx.Exec(
					`ALTER TABLE products ADD COLUMN IF NOT EXISTS category_id uuid REFERENCES categories(id)`,
				).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"payments", "order_details", "orders", "cart_items", "carts",
					"reviews", "wishlists", "product_categories", "products",
					"categories", "users",
				)
			},
		},
		{
			// Move product->category links into the product_categories join
			// table and drop the legacy column.
			ID: "0002_product_categories_join",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&models.ProductCategory{}); err != nil {
					return err
				}
				if err := tx.Exec(
					`INSERT INTO product_categories (product_id, category_id, created_at)
					 SELECT id, category_id, NOW() FROM products
					 WHERE category_id IS NOT NULL
					 ON CONFLICT DO NOTHING`,
				).Error; err != nil {
					return err
				}
				return tx.Exec(`ALTER TABLE products DROP COLUMN IF EXISTS category_id`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				// Lossy by design: the dropped column cannot be rebuilt from
				// the join table when a product has more than one category,
				// so it comes back unpopulated.
				logrus.Warn("rolling back 0002_product_categories_join: products.category_id is recreated WITHOUT data; category links remain only in product_categories")
				return tx.Exec(
					`ALTER TABLE products ADD COLUMN IF NOT EXISTS category_id uuid REFERENCES categories(id)`,
				).Error
			},
		},
		{
			// Contact number captured at checkout, added after the orders
			// table shipped. Present on fresh installs via 0001.
			ID: "0003_orders_phone_number",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`ALTER TABLE orders ADD COLUMN IF NOT EXISTS phone_number varchar(30)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec(`ALTER TABLE orders DROP COLUMN IF EXISTS phone_number`).Error
			},
		},
		{
			ID: "0004_supporting_indexes",
			Migrate: func(tx *gorm.DB) error {
				indexes := []string{
					"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
					"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
					"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
					"CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)",
					"CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id)",
					"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', title || ' ' || coalesce(description, '')))",
				}
				for _, index := range indexes {
					if err := tx.Exec(index).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				indexes := []string{
					"DROP INDEX IF EXISTS idx_products_price",
					"DROP INDEX IF EXISTS idx_products_created_at",
					"DROP INDEX IF EXISTS idx_orders_user_status",
					"DROP INDEX IF EXISTS idx_payments_order",
					"DROP INDEX IF EXISTS idx_reviews_product",
					"DROP INDEX IF EXISTS idx_products_search",
				}
				for _, index := range indexes {
					if err := tx.Exec(index).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

func migrator(db *gorm.DB) *gormigrate.Gormigrate {
	options := *gormigrate.DefaultOptions
	options.UseTransaction = true
	return gormigrate.New(db, &options, Migrations())
}

// Migrate applies all pending migrations in order.
func Migrate(db *gorm.DB) error {
	logrus.Info("Running database migrations")
	if err := migrator(db).Migrate(); err != nil {
		return err
	}
	logrus.Info("Database migrations completed")
	return nil
}

// RollbackLast reverts the most recently applied migration.
func RollbackLast(db *gorm.DB) error {
	logrus.Info("Rolling back last migration")
	return migrator(db).RollbackLast()
}
