package entity

import "time"

// Party representa un cliente al que se le vende mercancía.
type Party struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
