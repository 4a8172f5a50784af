package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
)

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("registers client with contact", func(t *testing.T) {
		clients := new(MockClientRepository)
		pub := &recordingPublisher{}
		svc := NewClientService(clients, new(MockOrderRepository), nil)
		svc.SetEventPublisher(pub)
		clients.On("ExistsByCode", ctx, tenantID, "acme").Return(false, nil)
		clients.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, CreateClientRequest{
			Code: "acme",
			Name: "  Acme Imports ",
			ContactInput: ContactInput{
				ContactName: "Jo Park",
				Email:       "jo@acme.example",
				Phone:       "+1 (555) 010-2000",
				Country:     "Canada",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "ACME", resp.Code)
		assert.Equal(t, "Acme Imports", resp.Name)
		assert.Equal(t, "jo@acme.example", resp.Email)
		assert.True(t, resp.Active)
		assert.Equal(t, []string{partner.EventTypeClientCreated}, pub.types())
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients, new(MockOrderRepository), nil)
		clients.On("ExistsByCode", ctx, tenantID, "ACME").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreateClientRequest{Code: "ACME", Name: "Acme"})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		clients.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		clients := new(MockClientRepository)
		svc := NewClientService(clients, new(MockOrderRepository), nil)
		clients.On("ExistsByCode", ctx, tenantID, "ACME").Return(false, nil)

		_, err := svc.Create(ctx, tenantID, CreateClientRequest{
			Code: "ACME", Name: "Acme", ContactInput: ContactInput{Email: "not-an-email"},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_EMAIL", domainErr.Code)
	})
}

func TestClientService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clients := new(MockClientRepository)
	pub := &recordingPublisher{}
	svc := NewClientService(clients, new(MockOrderRepository), nil)
	svc.SetEventPublisher(pub)

	client, err := partner.NewClient(tenantID, "ACME", "Acme")
	require.NoError(t, err)
	client.ClearDomainEvents()
	clients.On("FindByIDForTenant", ctx, tenantID, client.ID).Return(client, nil)
	clients.On("Save", ctx, client).Return(nil)

	name := "Acme Holdings"
	notes := "Prefers sea freight"
	active := false
	resp, err := svc.Update(ctx, tenantID, client.ID, UpdateClientRequest{
		Name:    &name,
		Notes:   &notes,
		Contact: &ContactInput{ContactName: "Sam", Country: "Chile"},
		Active:  &active,
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", resp.Name)
	assert.Equal(t, "Prefers sea freight", resp.Notes)
	assert.Equal(t, "Chile", resp.Country)
	assert.False(t, resp.Active)
	assert.Equal(t, []string{partner.EventTypePartnerStatusChanged}, pub.types())
}

func TestClientService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	client, err := partner.NewClient(tenantID, "ACME", "Acme")
	require.NoError(t, err)

	t.Run("deletes client without orders", func(t *testing.T) {
		clients := new(MockClientRepository)
		orders := new(MockOrderRepository)
		svc := NewClientService(clients, orders, nil)
		clients.On("FindByIDForTenant", ctx, tenantID, client.ID).Return(client, nil)
		orders.On("CountForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["client_id"] == client.ID && f.Filters["include_archived"] == true
		})).Return(int64(0), nil)
		clients.On("DeleteForTenant", ctx, tenantID, client.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, client.ID))
		clients.AssertExpectations(t)
	})

	t.Run("refuses client with orders", func(t *testing.T) {
		clients := new(MockClientRepository)
		orders := new(MockOrderRepository)
		svc := NewClientService(clients, orders, nil)
		clients.On("FindByIDForTenant", ctx, tenantID, client.ID).Return(client, nil)
		orders.On("CountForTenant", ctx, tenantID, mock.Anything).Return(int64(2), nil)

		err := svc.Delete(ctx, tenantID, client.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		clients.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestClientService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	clients := new(MockClientRepository)
	svc := NewClientService(clients, new(MockOrderRepository), nil)

	client, _ := partner.NewClient(tenantID, "ACME", "Acme")
	active := true
	match := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "acme" && f.OrderBy == "code" && f.OrderDir == "asc" && f.Filters["active"] == true
	})
	clients.On("FindAllForTenant", ctx, tenantID, match).Return([]partner.Client{*client}, nil)
	clients.On("CountForTenant", ctx, tenantID, match).Return(int64(1), nil)

	items, total, err := svc.List(ctx, tenantID, PartnerListFilter{Search: "acme", Active: &active})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "ACME", items[0].Code)
}
