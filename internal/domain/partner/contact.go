package partner

import (
	"regexp"
	"strings"

	"github.com/tradedesk/backend/internal/domain/shared"
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Contact holds the reachable details shared by clients and suppliers
type Contact struct {
	ContactName string
	Email       string
	Phone       string
	Address     string
	Country     string
}

// NewContact validates and normalizes contact details.
// Empty fields are allowed.
func NewContact(contactName, email, phone, address, country string) (Contact, error) {
	c := Contact{
		ContactName: strings.TrimSpace(contactName),
		Email:       strings.TrimSpace(email),
		Phone:       strings.TrimSpace(phone),
		Address:     strings.TrimSpace(address),
		Country:     strings.TrimSpace(country),
	}
	if len(c.ContactName) > 100 {
		return Contact{}, shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if c.Email != "" {
		if err := validateEmail(c.Email); err != nil {
			return Contact{}, err
		}
	}
	if c.Phone != "" {
		if err := validatePhone(c.Phone); err != nil {
			return Contact{}, err
		}
	}
	if len(c.Address) > 500 {
		return Contact{}, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if len(c.Country) > 100 {
		return Contact{}, shared.NewDomainError("INVALID_COUNTRY", "Country cannot exceed 100 characters")
	}
	return c, nil
}

func validateCode(kind, code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", kind+" code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", kind+" code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", kind+" code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", kind+" name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
