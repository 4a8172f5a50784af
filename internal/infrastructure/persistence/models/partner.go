package models

import (
	"github.com/tradedesk/backend/internal/domain/partner"
)

// ContactColumns are the contact details shared by clients and suppliers
type ContactColumns struct {
	ContactName string `gorm:"type:varchar(100)"`
	Email       string `gorm:"type:varchar(200);index"`
	Phone       string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:text"`
	Country     string `gorm:"type:varchar(100)"`
}

func (c ContactColumns) toDomain() partner.Contact {
	return partner.Contact{
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Country:     c.Country,
	}
}

func contactColumnsFromDomain(c partner.Contact) ContactColumns {
	return ContactColumns{
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		Country:     c.Country,
	}
}

// ClientModel is the persistence model for the Client aggregate root
type ClientModel struct {
	TenantAggregateModel
	Code    string         `gorm:"type:varchar(50);not null;index"`
	Name    string         `gorm:"type:varchar(200);not null"`
	Contact ContactColumns `gorm:"embedded"`
	Notes   string         `gorm:"type:text"`
	Active  bool           `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Contact:             m.Contact.toDomain(),
		Notes:               m.Notes,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Client
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Contact = contactColumnsFromDomain(c.Contact)
	m.Notes = c.Notes
	m.Active = c.Active
}

// ClientModelFromDomain creates a new persistence model from a domain Client
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier aggregate root
type SupplierModel struct {
	TenantAggregateModel
	Code             string         `gorm:"type:varchar(50);not null;index"`
	Name             string         `gorm:"type:varchar(200);not null"`
	Contact          ContactColumns `gorm:"embedded"`
	PaymentTermsDays int            `gorm:"not null;default:0"`
	Notes            string         `gorm:"type:text"`
	Active           bool           `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Contact:             m.Contact.toDomain(),
		PaymentTermsDays:    m.PaymentTermsDays,
		Notes:               m.Notes,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Supplier
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.Contact = contactColumnsFromDomain(s.Contact)
	m.PaymentTermsDays = s.PaymentTermsDays
	m.Notes = s.Notes
	m.Active = s.Active
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
