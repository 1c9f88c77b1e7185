package persistence

import (
	"context"

	"gorm.io/gorm"

	appsales "github.com/retail/backend/internal/application/sales"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/sales"
)

// GormSaleTransactionScope implements the sale TransactionScope using
// GORM transactions. Approving or cancelling a sale writes the sale,
// the product balances, and the stock movements atomically.
type GormSaleTransactionScope struct {
	db *gorm.DB
}

// NewGormSaleTransactionScope creates a new GormSaleTransactionScope
func NewGormSaleTransactionScope(db *gorm.DB) *GormSaleTransactionScope {
	return &GormSaleTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormSaleTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSaleRepositories{tx: tx})
	})
}

type gormSaleRepositories struct {
	tx *gorm.DB
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormSaleRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormSaleRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormSaleRepositories) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Numbers returns the sale number generator scoped to the current
// transaction. The nested gorm transaction it opens becomes a savepoint,
// so the sequence increment commits or rolls back with the sale insert.
func (r *gormSaleRepositories) Numbers() sales.NumberGenerator {
	return NewGormSaleNumberGenerator(r.tx)
}

var _ appsales.TransactionScope = (*GormSaleTransactionScope)(nil)
var _ appsales.TransactionalRepositories = (*gormSaleRepositories)(nil)
