package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/trade"
	"github.com/tradedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByIDForTenant finds a quotation with its items
func (r *GormQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByOrder lists an order's quotations, oldest first
func (r *GormQuotationRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.Quotation, error) {
	var quotationModels []models.QuotationModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderByPosition).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&quotationModels).Error; err != nil {
		return nil, err
	}
	quotations := make([]trade.Quotation, len(quotationModels))
	for i := range quotationModels {
		quotations[i] = *quotationModels[i].ToDomain()
	}
	return quotations, nil
}

// CountByOrder counts an order's quotations
func (r *GormQuotationRepository) CountByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.QuotationModel{}).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a quotation and replaces its items
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *trade.Quotation) error {
	expected := quotation.PrepareSave()
	model := models.QuotationModelFromDomain(quotation)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, model, expected); err != nil {
			return err
		}
		return replaceChildren(tx, "quotation_id", quotation.ID, model.Items)
	})
	if err != nil {
		return err
	}
	quotation.MarkPersisted()
	return nil
}

// GenerateQuotationNumber returns the next QT-YYYY-NNNNN number
func (r *GormQuotationRepository) GenerateQuotationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.QuotationModel{}, "quotation_number", tenantID, trade.PrefixQuotation)
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ trade.QuotationRepository = (*GormQuotationRepository)(nil)
