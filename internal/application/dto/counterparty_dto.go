package dto

import "time"

// CreateCounterpartyRequest entrada para crear un distribuidor o un cliente
// (mismos campos de contacto para ambos).
type CreateCounterpartyRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// UpdateCounterpartyRequest entrada de actualización parcial; campos nil se
// dejan como están.
type UpdateCounterpartyRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
}

// CounterpartyResponse salida de un distribuidor o cliente.
type CounterpartyResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
