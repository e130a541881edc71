package domain

import (
	"fmt"
	"strings"
	"time"
)

// CustomerType distinguishes customers from suppliers.
type CustomerType string

const (
	CustomerTypeCustomer CustomerType = "musteri"
	CustomerTypeSupplier CustomerType = "tedarikci"
)

// Customer is a counterparty a document can be linked to.
type Customer struct {
	ID        string
	Name      string
	Type      CustomerType
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the structural invariants of a customer.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	if c.Type != CustomerTypeCustomer && c.Type != CustomerTypeSupplier {
		return fmt.Errorf("%w: unknown customer type %q", ErrValidation, c.Type)
	}
	return nil
}
