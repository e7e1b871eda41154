package dto

import "time"

// PurgeTransactionsRequest entrada del borrado por rango de fechas del panel
// de mantenimiento. Solo borra cabeceras y líneas de los tipos marcados; el
// libro de stock no se toca y la numeración no retrocede.
type PurgeTransactionsRequest struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Purchases bool      `json:"purchases"`
	Sales     bool      `json:"sales"`
}

// PurgeResultDTO cuántas cabeceras se borraron por tipo.
type PurgeResultDTO struct {
	PurchasesDeleted int64 `json:"purchases_deleted"`
	SalesDeleted     int64 `json:"sales_deleted"`
}
