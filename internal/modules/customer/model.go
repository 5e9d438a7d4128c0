package customer

import (
	"time"

	"github.com/google/uuid"
)

// Address is a stored delivery address of a customer. Orders copy the
// chosen address as a snapshot at creation time.
type Address struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label,omitempty"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
}

// Customer is a bakery customer record.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddressByID looks up one of the customer's stored addresses.
func (c *Customer) AddressByID(id uuid.UUID) (Address, bool) {
	for _, a := range c.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}

// UpsertCustomerRequest holds the data for creating or updating a customer.
type UpsertCustomerRequest struct {
	Name      string           `json:"name"`
	Phone     string           `json:"phone"`
	Email     string           `json:"email"`
	Addresses []AddressRequest `json:"addresses"`
	Notes     string           `json:"notes"`
}

// AddressRequest describes one address in an upsert. An empty id means a
// new address; a known id keeps the stored one so orders referencing it
// stay resolvable.
type AddressRequest struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}
