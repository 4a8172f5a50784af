package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"github.com/tradedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormShippingInvoiceRepository implements ShippingInvoiceRepository using GORM
type GormShippingInvoiceRepository struct {
	db *gorm.DB
}

// NewGormShippingInvoiceRepository creates a new GormShippingInvoiceRepository
func NewGormShippingInvoiceRepository(db *gorm.DB) *GormShippingInvoiceRepository {
	return &GormShippingInvoiceRepository{db: db}
}

// FindByIDForTenant finds a shipment with its items
func (r *GormShippingInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.ShippingInvoice, error) {
	var model models.ShippingInvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists shipments; "order_id" narrows to one order
func (r *GormShippingInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.ShippingInvoice, error) {
	var shipmentModels []models.ShippingInvoiceModel
	query := r.filtered(r.db.WithContext(ctx).Preload("Items", orderByPosition).Model(&models.ShippingInvoiceModel{}), tenantID, filter)
	if err := applyPaging(query, filter, ShippingInvoiceSortFields).Find(&shipmentModels).Error; err != nil {
		return nil, err
	}
	return toShippingInvoices(shipmentModels), nil
}

// CountForTenant counts shipments matching the filter
func (r *GormShippingInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.filtered(r.db.WithContext(ctx).Model(&models.ShippingInvoiceModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByOrder lists an order's shipments, oldest first
func (r *GormShippingInvoiceRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.ShippingInvoice, error) {
	var shipmentModels []models.ShippingInvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&shipmentModels).Error; err != nil {
		return nil, err
	}
	return toShippingInvoices(shipmentModels), nil
}

// CountByOrder counts an order's shipments
func (r *GormShippingInvoiceRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ShippingInvoiceModel{}).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a shipment and replaces its items
func (r *GormShippingInvoiceRepository) Save(ctx context.Context, shipment *trade.ShippingInvoice) error {
	expected := shipment.PrepareSave()
	model := models.ShippingInvoiceModelFromDomain(shipment)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, model, expected); err != nil {
			return err
		}
		return replaceChildren(tx, "shipping_invoice_id", shipment.ID, model.Items)
	})
	if err != nil {
		return err
	}
	shipment.MarkPersisted()
	return nil
}

// GenerateShippingNumber returns the next SHP-YYYY-NNNNN number
func (r *GormShippingInvoiceRepository) GenerateShippingNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.ShippingInvoiceModel{}, "shipping_number", tenantID, trade.PrefixShippingInvoice)
}

func (r *GormShippingInvoiceRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "shipping_number", "carrier", "tracking_number")
	if orderID, ok := filter.Filters["order_id"]; ok {
		query = query.Where("order_id = ?", orderID)
	}
	return query
}

func toShippingInvoices(shipmentModels []models.ShippingInvoiceModel) []trade.ShippingInvoice {
	shipments := make([]trade.ShippingInvoice, len(shipmentModels))
	for i := range shipmentModels {
		shipments[i] = *shipmentModels[i].ToDomain()
	}
	return shipments
}

// Ensure GormShippingInvoiceRepository implements ShippingInvoiceRepository
var _ trade.ShippingInvoiceRepository = (*GormShippingInvoiceRepository)(nil)
