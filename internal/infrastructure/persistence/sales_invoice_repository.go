package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"github.com/tradedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalesInvoiceRepository implements SalesInvoiceRepository using GORM
type GormSalesInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSalesInvoiceRepository creates a new GormSalesInvoiceRepository
func NewGormSalesInvoiceRepository(db *gorm.DB) *GormSalesInvoiceRepository {
	return &GormSalesInvoiceRepository{db: db}
}

func (r *GormSalesInvoiceRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") })
}

// FindByIDForTenant finds a sales invoice with its items and payments
func (r *GormSalesInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesInvoice, error) {
	var model models.SalesInvoiceModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists sales invoices with filtering and paging
func (r *GormSalesInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesInvoice, error) {
	var invoiceModels []models.SalesInvoiceModel
	query := r.filtered(r.withChildren(ctx).Model(&models.SalesInvoiceModel{}), tenantID, filter)
	if err := applyPaging(query, filter, SalesInvoiceSortFields).Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toSalesInvoices(invoiceModels), nil
}

// CountForTenant counts sales invoices matching the filter
func (r *GormSalesInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.filtered(r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}), tenantID, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByOrder lists an order's sales invoices, oldest first
func (r *GormSalesInvoiceRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.SalesInvoice, error) {
	var invoiceModels []models.SalesInvoiceModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toSalesInvoices(invoiceModels), nil
}

// CountByOrder counts an order's sales invoices
func (r *GormSalesInvoiceRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SalesInvoiceModel{}).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sales invoice and replaces its items and payments
func (r *GormSalesInvoiceRepository) Save(ctx context.Context, invoice *trade.SalesInvoice) error {
	expected := invoice.PrepareSave()
	model := models.SalesInvoiceModelFromDomain(invoice)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, model, expected); err != nil {
			return err
		}
		if err := replaceChildren(tx, "sales_invoice_id", invoice.ID, model.Items); err != nil {
			return err
		}
		return replaceChildren(tx, "sales_invoice_id", invoice.ID, model.Payments)
	})
	if err != nil {
		return err
	}
	invoice.MarkPersisted()
	return nil
}

// GenerateInvoiceNumber returns the next INV-YYYY-NNNNN number
func (r *GormSalesInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.SalesInvoiceModel{}, "invoice_number", tenantID, trade.PrefixSalesInvoice)
}

func (r *GormSalesInvoiceRepository) filtered(query *gorm.DB, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter.Search, "invoice_number", "notes")
	for key, value := range filter.Filters {
		switch key {
		case "order_id", "purchase_order_id", "status":
			query = query.Where(key+" = ?", value)
		}
	}
	return query
}

func toSalesInvoices(invoiceModels []models.SalesInvoiceModel) []trade.SalesInvoice {
	invoices := make([]trade.SalesInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices
}

// Ensure GormSalesInvoiceRepository implements SalesInvoiceRepository
var _ trade.SalesInvoiceRepository = (*GormSalesInvoiceRepository)(nil)
