package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// newLockingTransactionRepository returns a repository that locks the
// transaction row on FindByIDForTenant. It must be bound to an open transaction.
func newLockingTransactionRepository(tx *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: tx, forUpdate: true}
}

// FindByIDForTenant finds a transaction with its entries
func (r *GormTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Transaction, error) {
	var model models.TransactionModel
	query := r.db.WithContext(ctx)
	if r.forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.
		Preload("Entries", orderByPosition).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists transactions; "account_id" keeps those touching the account
func (r *GormTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Transaction, error) {
	var txModels []models.TransactionModel
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
	}
	query := r.filtered(r.db.WithContext(ctx).Preload("Entries", orderByPosition).Model(&models.TransactionModel{}), tenantID, filter)
	if err := applyPaging(query, filter, TransactionSortFields).Find(&txModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]finance.Transaction, len(txModels))
	for i := range txModels {
		transactions[i] = *txModels[i].ToDomain()
	}
	return transactions, nil
}

// CountForTenant counts transactions matching the filter
func (r *GormTransactionRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.filtered(r.db.WithContext(ctx).Model(&models.TransactionModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForAccount reports whether any entry of the tenant references the account
func (r *GormTransactionRepository) ExistsForAccount(ctx context.Context, tenantID, accountID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("transaction_entries AS e").
		Joins("JOIN transactions t ON t.id = e.transaction_id").
		Where("t.tenant_id = ? AND e.account_id = ?", tenantID, accountID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a transaction and replaces its entries
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	expected := tx.PrepareSave()
	model := models.TransactionModelFromDomain(tx)
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := saveVersioned(db, model, expected); err != nil {
			return err
		}
		return replaceChildren(db, "transaction_id", tx.ID, model.Entries)
	})
	if err != nil {
		return err
	}
	tx.MarkPersisted()
	return nil
}

// GenerateTransactionNumber returns the next TXN-YYYY-NNNNN number
func (r *GormTransactionRepository) GenerateTransactionNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.TransactionModel{}, "transaction_number", tenantID, finance.TransactionNumberPrefix)
}

func (r *GormTransactionRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "transaction_number", "description", "reference")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if accountID, ok := filter.Filters["account_id"]; ok {
		query = query.Where("id IN (?)",
			r.db.Model(&models.TransactionEntryModel{}).Select("transaction_id").Where("account_id = ?", accountID))
	}
	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
