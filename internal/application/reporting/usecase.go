// Package reporting construye los informes de compras y ventas que consume
// el colaborador de informes: transacciones confirmadas filtradas por rango
// de fechas y contraparte, con líneas resueltas y totales agregados.
package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// UseCase consultas de informes sobre transacciones confirmadas.
type UseCase struct {
	txRepo          repository.TransactionRepository
	productRepo     repository.ProductRepository
	distributorRepo repository.DistributorRepository
	partyRepo       repository.PartyRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	distributorRepo repository.DistributorRepository,
	partyRepo repository.PartyRepository,
) *UseCase {
	return &UseCase{
		txRepo:          txRepo,
		productRepo:     productRepo,
		distributorRepo: distributorRepo,
		partyRepo:       partyRepo,
	}
}

// Purchases devuelve el informe de compras acotado por filter.
func (uc *UseCase) Purchases(ctx context.Context, filter dto.ReportFilter) (*dto.TradeReportDTO, error) {
	return uc.build(ctx, entity.TxTypePurchase, filter)
}

// Sales devuelve el informe de ventas acotado por filter.
func (uc *UseCase) Sales(ctx context.Context, filter dto.ReportFilter) (*dto.TradeReportDTO, error) {
	return uc.build(ctx, entity.TxTypeSale, filter)
}

// build arma el informe del tipo dado: cabeceras de más reciente a más
// antigua, líneas con nombre y SKU del producto, y resumen agregado.
func (uc *UseCase) build(ctx context.Context, txType string, filter dto.ReportFilter) (*dto.TradeReportDTO, error) {
	headers, err := uc.txRepo.List(ctx, txType, repository.TransactionFilter{
		From:           filter.From,
		To:             filter.To,
		CounterpartyID: filter.CounterpartyID,
	})
	if err != nil {
		return nil, err
	}

	products, err := uc.productIndex(ctx)
	if err != nil {
		return nil, err
	}
	names, err := uc.counterpartyNames(ctx, txType)
	if err != nil {
		return nil, err
	}

	report := &dto.TradeReportDTO{
		TxType:      txType,
		From:        filter.From,
		To:          filter.To,
		Rows:        make([]dto.ReportRowDTO, 0, len(headers)),
		TxCount:     len(headers),
		TotalAmount: decimal.Zero,
	}
	for _, h := range headers {
		items, err := uc.txRepo.ItemsFor(ctx, txType, h.ID)
		if err != nil {
			return nil, err
		}
		row := dto.ReportRowDTO{
			Number:           h.Number,
			Date:             h.Date,
			CounterpartyName: names[h.CounterpartyID],
			InvoiceNumber:    h.InvoiceNumber,
			ItemCount:        len(items),
			Items:            make([]dto.ReportItemDTO, 0, len(items)),
			TotalAmount:      h.TotalAmount,
		}
		for _, it := range items {
			ref := products[it.ProductID]
			row.Items = append(row.Items, dto.ReportItemDTO{
				SKU:         ref.sku,
				ProductName: ref.name,
				Quantity:    it.Quantity,
				Rate:        it.Rate,
				Amount:      it.Amount,
			})
		}
		report.Rows = append(report.Rows, row)
		report.TotalAmount = report.TotalAmount.Add(h.TotalAmount)
	}
	return report, nil
}

type productRef struct {
	sku  string
	name string
}

func (uc *UseCase) productIndex(ctx context.Context) (map[string]productRef, error) {
	list, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]productRef, len(list))
	for _, p := range list {
		idx[p.ID] = productRef{sku: p.SKU, name: p.Name}
	}
	return idx, nil
}

func (uc *UseCase) counterpartyNames(ctx context.Context, txType string) (map[string]string, error) {
	names := make(map[string]string)
	if txType == entity.TxTypePurchase {
		list, err := uc.distributorRepo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, d := range list {
			names[d.ID] = d.Name
		}
		return names, nil
	}
	list, err := uc.partyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		names[p.ID] = p.Name
	}
	return names, nil
}
