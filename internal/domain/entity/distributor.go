package entity

import "time"

// Distributor representa un proveedor al que se le compra mercancía.
type Distributor struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
