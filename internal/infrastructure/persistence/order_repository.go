package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"github.com/tradedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders with filtering and paging. Archived orders
// are hidden unless "include_archived" is set.
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	query := r.filtered(ctx, tenantID, filter)
	if err := applyPaging(query, filter, OrderSortFields).Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// CountForTenant counts orders matching the filter
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns the number of non-archived orders per status.
// Every status is present in the result, zero when unused.
func (r *GormOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[trade.OrderStatus]int64, error) {
	var rows []struct {
		Status trade.OrderStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ? AND archived = ?", tenantID, false).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[trade.OrderStatus]int64, len(trade.AllOrderStatuses))
	for _, s := range trade.AllOrderStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	expected := order.PrepareSave()
	if err := saveVersioned(r.db.WithContext(ctx), models.OrderModelFromDomain(order), expected); err != nil {
		return err
	}
	order.MarkPersisted()
	return nil
}

// DeleteForTenant permanently removes an order
func (r *GormOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.OrderModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateOrderNumber returns the next ORD-YYYY-NNNNN number
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.OrderModel{}, "order_number", tenantID, trade.PrefixOrder)
}

func (r *GormOrderRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "order_number", "client_name", "project_name")

	includeArchived, _ := boolFilter(filter.Filters["include_archived"])
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status", "client_id", "workflow_type", "priority":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
