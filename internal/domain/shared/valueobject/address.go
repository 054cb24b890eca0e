package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Address is a value object representing a postal address.
// It is stored as a JSON document on aggregates that carry it.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// AddressOption configures optional address fields
type AddressOption func(*Address)

// WithLine2 sets the second address line
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.Line2 = strings.TrimSpace(line2)
	}
}

// WithCountry overrides the default country
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.Country = strings.TrimSpace(country)
	}
}

// NewAddress creates a validated Address
func NewAddress(line1, city, state, postalCode string, opts ...AddressOption) (Address, error) {
	addr := Address{
		Line1:      strings.TrimSpace(line1),
		City:       strings.TrimSpace(city),
		State:      strings.TrimSpace(state),
		PostalCode: strings.TrimSpace(postalCode),
		Country:    "US",
	}
	for _, opt := range opts {
		opt(&addr)
	}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Validate checks that all required fields are present
func (a Address) Validate() error {
	if a.Line1 == "" {
		return errors.New("address line1 is required")
	}
	if a.City == "" {
		return errors.New("address city is required")
	}
	if a.State == "" {
		return errors.New("address state is required")
	}
	if a.PostalCode == "" {
		return errors.New("address postal code is required")
	}
	if a.Country == "" {
		return errors.New("address country is required")
	}
	return nil
}

// IsEmpty returns true if the address has no content
func (a Address) IsEmpty() bool {
	return a.Line1 == "" && a.City == "" && a.State == "" && a.PostalCode == ""
}

// String returns a single-line representation of the address
func (a Address) String() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	parts = append(parts, a.City, a.State, a.PostalCode, a.Country)
	return strings.Join(parts, ", ")
}

// Value implements driver.Valuer so the address persists as a JSON column
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSON column retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	return json.Unmarshal(data, a)
}
