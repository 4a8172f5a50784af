package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"github.com/tradedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func (r *GormPurchaseOrderRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") })
}

// FindByIDForTenant finds a purchase order with its items and payments
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists purchase orders with filtering and paging
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	var poModels []models.PurchaseOrderModel
	query := r.filtered(r.withChildren(ctx).Model(&models.PurchaseOrderModel{}), tenantID, filter)
	if err := applyPaging(query, filter, PurchaseOrderSortFields).Find(&poModels).Error; err != nil {
		return nil, err
	}
	return toPurchaseOrders(poModels), nil
}

// CountForTenant counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.filtered(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByOrder lists an order's purchase orders, oldest first
func (r *GormPurchaseOrderRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.PurchaseOrder, error) {
	var poModels []models.PurchaseOrderModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&poModels).Error; err != nil {
		return nil, err
	}
	return toPurchaseOrders(poModels), nil
}

// CountByOrder counts an order's purchase orders
func (r *GormPurchaseOrderRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase order and replaces its items and payments
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *trade.PurchaseOrder) error {
	expected := po.PrepareSave()
	model := models.PurchaseOrderModelFromDomain(po)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, model, expected); err != nil {
			return err
		}
		if err := replaceChildren(tx, "purchase_order_id", po.ID, model.Items); err != nil {
			return err
		}
		return replaceChildren(tx, "purchase_order_id", po.ID, model.Payments)
	})
	if err != nil {
		return err
	}
	po.MarkPersisted()
	return nil
}

// GeneratePONumber returns the next PO-YYYY-NNNNN number
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.PurchaseOrderModel{}, "po_number", tenantID, trade.PrefixPurchaseOrder)
}

func (r *GormPurchaseOrderRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "po_number", "supplier_name")
	for key, value := range filter.Filters {
		switch key {
		case "order_id", "supplier_id", "status":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

func toPurchaseOrders(poModels []models.PurchaseOrderModel) []trade.PurchaseOrder {
	orders := make([]trade.PurchaseOrder, len(poModels))
	for i := range poModels {
		orders[i] = *poModels[i].ToDomain()
	}
	return orders
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
