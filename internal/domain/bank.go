package domain

import "time"

// Bank is an issuing or lending bank referenced by documents and loans.
type Bank struct {
	ID        string
	Name      string
	Branch    string
	IBAN      string
	CreatedAt time.Time
}
