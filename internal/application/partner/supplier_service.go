package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// SupplierService handles supplier registration and maintenance
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	poRepo         trade.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, poRepo trade.PurchaseOrderRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		supplierRepo: supplierRepo,
		poRepo:       poRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for supplier events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	contact, err := req.ContactInput.toDomain()
	if err != nil {
		return nil, err
	}
	supplier.Contact = contact
	supplier.Notes = req.Notes
	if err := supplier.SetPaymentTerms(req.PaymentTermsDays); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("Supplier created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", supplier.Code),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers matching the search term and active flag
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := filter.toDomain()
	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Update changes the supplier's name, terms, notes, contact details or active flag
func (s *SupplierService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := supplier.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermsDays != nil {
		if err := supplier.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	if req.Contact != nil {
		contact, err := req.Contact.toDomain()
		if err != nil {
			return nil, err
		}
		supplier.SetContact(contact)
	}
	if req.Notes != nil {
		supplier.SetNotes(*req.Notes)
	}
	if req.Active != nil && *req.Active != supplier.Active {
		if *req.Active {
			err = supplier.Activate()
		} else {
			err = supplier.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete removes a supplier no purchase order refers to
func (s *SupplierService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	filter := shared.DefaultFilter()
	filter.Filters["supplier_id"] = id
	pos, err := s.poRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	if pos > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a supplier with purchase orders; deactivate it instead")
	}

	if err := s.supplierRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Supplier deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", supplier.Code),
	)
	return nil
}
