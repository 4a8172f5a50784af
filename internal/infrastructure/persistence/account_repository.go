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

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// newLockingAccountRepository returns a repository whose point reads take
// row locks. It must be bound to an open transaction.
func newLockingAccountRepository(tx *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: tx, forUpdate: true}
}

func (r *GormAccountRepository) pointQuery(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	if r.forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	var model models.AccountModel
	if err := r.pointQuery(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads the given accounts of a tenant
func (r *GormAccountRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]finance.Account, error) {
	if len(ids) == 0 {
		return []finance.Account{}, nil
	}
	var accountModels []models.AccountModel
	if err := r.pointQuery(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("account_number ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toAccounts(accountModels), nil
}

// FindAllForTenant lists accounts with filtering and paging
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Account, error) {
	var accountModels []models.AccountModel
	if filter.OrderBy == "" {
		filter.OrderBy = "account_number"
		filter.OrderDir = "asc"
	}
	query := r.filtered(ctx, tenantID, filter)
	if err := applyPaging(query, filter, AccountSortFields).Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toAccounts(accountModels), nil
}

// CountForTenant counts accounts matching the filter
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListAll returns every account of the tenant ordered by account number
func (r *GormAccountRepository) ListAll(ctx context.Context, tenantID uuid.UUID) ([]finance.Account, error) {
	var accountModels []models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("account_number ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return toAccounts(accountModels), nil
}

// ExistsByNumber checks if an account number is taken in the tenant
func (r *GormAccountRepository) ExistsByNumber(ctx context.Context, tenantID uuid.UUID, accountNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ? AND account_number = ?", tenantID, accountNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	expected := account.PrepareSave()
	if err := saveVersioned(r.db.WithContext(ctx), models.AccountModelFromDomain(account), expected); err != nil {
		return err
	}
	account.MarkPersisted()
	return nil
}

// DeleteForTenant removes an account
func (r *GormAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.AccountModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAccountRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "account_number", "name")
	if accountType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", accountType)
	}
	if active, ok := boolFilter(filter.Filters["active"]); ok {
		query = query.Where("active = ?", active)
	}
	return query
}

func toAccounts(accountModels []models.AccountModel) []finance.Account {
	accounts := make([]finance.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts
}

// Ensure GormAccountRepository implements AccountRepository
var _ finance.AccountRepository = (*GormAccountRepository)(nil)
