package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// ClientService handles client registration and maintenance
type ClientService struct {
	clientRepo     partner.ClientRepository
	orderRepo      trade.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, orderRepo trade.OrderRepository, logger *zap.Logger) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{
		clientRepo: clientRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for client events
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new client
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	exists, err := s.clientRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this code already exists")
	}

	client, err := partner.NewClient(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	contact, err := req.ContactInput.toDomain()
	if err != nil {
		return nil, err
	}
	client.Contact = contact
	client.Notes = req.Notes

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.logger.Info("Client created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", client.Code),
	)
	publishEvents(ctx, s.eventPublisher, s.logger, client)

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client
func (s *ClientService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients matching the search term and active flag
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]ClientResponse, int64, error) {
	domainFilter := filter.toDomain()
	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToClientResponses(clients), total, nil
}

// Update changes the client's name, notes, contact details or active flag
func (s *ClientService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := client.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Contact != nil {
		contact, err := req.Contact.toDomain()
		if err != nil {
			return nil, err
		}
		client.SetContact(contact)
	}
	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}
	if req.Active != nil && *req.Active != client.Active {
		if *req.Active {
			err = client.Activate()
		} else {
			err = client.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, client)

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client that no order refers to, archived orders included
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	filter := shared.DefaultFilter()
	filter.Filters["client_id"] = id
	filter.Filters["include_archived"] = true
	orders, err := s.orderRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	if orders > 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a client with orders; deactivate it instead")
	}

	if err := s.clientRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Client deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", client.Code),
	)
	return nil
}
