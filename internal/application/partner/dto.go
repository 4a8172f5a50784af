package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/partner"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// ContactInput carries the optional contact details of a partner
type ContactInput struct {
	ContactName string `json:"contact_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address" binding:"max=500"`
	Country     string `json:"country" binding:"max=100"`
}

func (c ContactInput) toDomain() (partner.Contact, error) {
	return partner.NewContact(c.ContactName, c.Email, c.Phone, c.Address, c.Country)
}

// CreateClientRequest represents a request to register a client
type CreateClientRequest struct {
	Code  string `json:"code" binding:"required,min=1,max=50"`
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Notes string `json:"notes" binding:"max=2000"`
	ContactInput
}

// UpdateClientRequest represents a request to update a client.
// Nil fields are left unchanged; a non-nil Contact replaces all contact details.
type UpdateClientRequest struct {
	Name    *string       `json:"name" binding:"omitempty,min=1,max=200"`
	Notes   *string       `json:"notes" binding:"omitempty,max=2000"`
	Contact *ContactInput `json:"contact"`
	Active  *bool         `json:"active"`
}

// CreateSupplierRequest represents a request to register a supplier
type CreateSupplierRequest struct {
	Code             string `json:"code" binding:"required,min=1,max=50"`
	Name             string `json:"name" binding:"required,min=1,max=200"`
	PaymentTermsDays int    `json:"payment_terms_days" binding:"min=0,max=365"`
	Notes            string `json:"notes" binding:"max=2000"`
	ContactInput
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name             *string       `json:"name" binding:"omitempty,min=1,max=200"`
	PaymentTermsDays *int          `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	Notes            *string       `json:"notes" binding:"omitempty,max=2000"`
	Contact          *ContactInput `json:"contact"`
	Active           *bool         `json:"active"`
}

// PartnerListFilter represents filter options for listing clients or suppliers
type PartnerListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=code name active created_at updated_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContactResponse represents contact details in API responses
type ContactResponse struct {
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Country     string `json:"country"`
}

func toContactResponse(c partner.Contact) ContactResponse {
	return ContactResponse{
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Country:     c.Country,
	}
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
	ContactResponse
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Notes:           c.Notes,
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
		ContactResponse: toContactResponse(c.Contact),
	}
}

// ToClientResponses converts a slice of clients
func ToClientResponses(clients []partner.Client) []ClientResponse {
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = ToClientResponse(&clients[i])
	}
	return out
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	Notes            string    `json:"notes"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Version          int       `json:"version"`
	ContactResponse
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID,
		Code:             s.Code,
		Name:             s.Name,
		PaymentTermsDays: s.PaymentTermsDays,
		Notes:            s.Notes,
		Active:           s.Active,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
		ContactResponse:  toContactResponse(s.Contact),
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out
}

// toDomain builds a normalized filter, ordering by code unless asked otherwise
func (f PartnerListFilter) toDomain() shared.Filter {
	if f.OrderBy == "" {
		f.OrderBy = "code"
		if f.OrderDir == "" {
			f.OrderDir = "asc"
		}
	}
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}.Normalize()
	if f.Active != nil {
		filter.Filters["active"] = *f.Active
	}
	return filter
}
