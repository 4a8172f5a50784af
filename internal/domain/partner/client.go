package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// Client is a customer of the brokerage on whose behalf orders are placed
type Client struct {
	shared.TenantAggregateRoot
	Code   string
	Name   string
	Contact
	Notes  string
	Active bool
}

// NewClient creates an active client
func NewClient(tenantID uuid.UUID, code, name string) (*Client, error) {
	if err := validateCode("Client", code); err != nil {
		return nil, err
	}
	if err := validateName("Client", name); err != nil {
		return nil, err
	}

	client := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                strings.TrimSpace(name),
		Active:              true,
	}
	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// Update changes the client's display name
func (c *Client) Update(name string) error {
	if err := validateName("Client", name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.MarkChanged()
	return nil
}

// SetContact replaces the client's contact details
func (c *Client) SetContact(contact Contact) {
	c.Contact = contact
	c.MarkChanged()
}

// SetNotes sets free-form notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.MarkChanged()
}

// Activate re-enables a deactivated client
func (c *Client) Activate() error {
	if c.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}
	c.Active = true
	c.MarkChanged()
	c.AddDomainEvent(NewPartnerStatusChangedEvent(AggregateTypeClient, c.ID, c.TenantID, true))
	return nil
}

// Deactivate hides the client from new orders
func (c *Client) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Client is already inactive")
	}
	c.Active = false
	c.MarkChanged()
	c.AddDomainEvent(NewPartnerStatusChangedEvent(AggregateTypeClient, c.ID, c.TenantID, false))
	return nil
}
