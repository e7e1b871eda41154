package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/domain/repository"
)

// PostTransactionUseCase registra compras y ventas de forma transaccional.
// Una venta solo confirma si el libro, tal como está antes de la
// transacción, cubre todas las cantidades pedidas; la numeración, la
// cabecera, las líneas y los asientos se escriben en una sola transacción
// de DB (todo o nada, sin escrituras parciales).
type PostTransactionUseCase struct {
	txRunner        TxRunner
	productRepo     repository.ProductRepository
	distributorRepo repository.DistributorRepository
	partyRepo       repository.PartyRepository
}

// NewPostTransactionUseCase construye el caso de uso.
func NewPostTransactionUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	distributorRepo repository.DistributorRepository,
	partyRepo repository.PartyRepository,
) *PostTransactionUseCase {
	return &PostTransactionUseCase{
		txRunner:        txRunner,
		productRepo:     productRepo,
		distributorRepo: distributorRepo,
		partyRepo:       partyRepo,
	}
}

// Post valida y confirma una transacción. Las validaciones fallan antes de
// cualquier escritura; dentro de la transacción de DB cualquier error hace
// rollback completo (el TxRunner lo garantiza).
func (uc *PostTransactionUseCase) Post(ctx context.Context, in dto.PostTransactionRequest) (*dto.TransactionResponse, error) {
	// ── 1. Validación de entrada ─────────────────────────────────────────
	if !entity.ValidTxType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, in.Type)
	}
	if in.CounterpartyID == "" {
		return nil, fmt.Errorf("%w: contraparte requerida", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la transacción no tiene líneas", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if it.Rate.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d con tarifa negativa", domain.ErrInvalidInput, i+1)
		}
	}

	// ── 2. Resolución de referencias (fuera de la transacción) ───────────
	if err := uc.resolveCounterparty(ctx, in.Type, in.CounterpartyID); err != nil {
		return nil, err
	}
	products, err := uc.resolveProducts(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	// ── 3. Construcción de cabecera y líneas ─────────────────────────────
	now := time.Now().UTC()
	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}
	header := &entity.Transaction{
		ID:             uuid.New().String(),
		Type:           in.Type,
		CounterpartyID: in.CounterpartyID,
		Date:           date,
		InvoiceNumber:  in.InvoiceNumber,
		Notes:          in.Notes,
		CreatedAt:      now,
	}
	total := decimal.Zero
	items := make([]entity.LineItem, 0, len(in.Items))
	for i, it := range in.Items {
		amount := it.Quantity.Mul(it.Rate)
		total = total.Add(amount)
		items = append(items, entity.LineItem{
			ID:            uuid.New().String(),
			TransactionID: header.ID,
			ProductID:     it.ProductID,
			LineNo:        i + 1,
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			Amount:        amount,
		})
	}
	header.TotalAmount = total
	header.Items = items

	// ── 4. Confirmación atómica ──────────────────────────────────────────
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		ledgerRepo repository.LedgerRepository,
		seqRepo repository.SequenceRepository,
	) error {
		if in.Type == entity.TxTypeSale {
			if err := checkStock(ctx, ledgerRepo, items, products); err != nil {
				return err
			}
		}
		seq, err := seqRepo.Next(ctx, entity.NumberPrefix(in.Type))
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrNumbering, err)
		}
		header.Number = fmt.Sprintf("%s%06d", entity.NumberPrefix(in.Type), seq)

		if err := txRepo.Create(ctx, header); err != nil {
			return err
		}
		for i := range items {
			if err := txRepo.CreateItem(ctx, in.Type, &items[i]); err != nil {
				return err
			}
		}
		delta := decimal.NewFromInt(1)
		if in.Type == entity.TxTypeSale {
			delta = delta.Neg()
		}
		for i := range items {
			entry := &entity.LedgerEntry{
				ID:            uuid.New().String(),
				ProductID:     items[i].ProductID,
				TxType:        in.Type,
				TransactionID: header.ID,
				QuantityDelta: items[i].Quantity.Mul(delta),
				CreatedAt:     now,
			}
			if err := ledgerRepo.Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(header), nil
}

// resolveCounterparty comprueba que la contraparte exista: distribuidor en
// compras, cliente en ventas.
func (uc *PostTransactionUseCase) resolveCounterparty(ctx context.Context, txType, counterpartyID string) error {
	if txType == entity.TxTypePurchase {
		d, err := uc.distributorRepo.GetByID(ctx, counterpartyID)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: distribuidor %s", domain.ErrNotFound, counterpartyID)
		}
		return nil
	}
	p, err := uc.partyRepo.GetByID(ctx, counterpartyID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, counterpartyID)
	}
	return nil
}

// resolveProducts carga cada producto referenciado (una vez por producto).
func (uc *PostTransactionUseCase) resolveProducts(ctx context.Context, items []dto.PostItemRequest) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(items))
	for _, it := range items {
		if _, ok := products[it.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		products[it.ProductID] = p
	}
	return products, nil
}

// checkStock exige, por producto, que el stock derivado del libro antes de
// esta transacción cubra la cantidad total pedida entre todas las líneas.
// Se agrega por producto: comprobar línea a línea contra el estado previo
// dejaría pasar ventas que en conjunto vuelven el stock negativo.
func checkStock(
	ctx context.Context,
	ledgerRepo repository.LedgerRepository,
	items []entity.LineItem,
	products map[string]*entity.Product,
) error {
	required := make(map[string]decimal.Decimal, len(items))
	order := make([]string, 0, len(items))
	for i := range items {
		id := items[i].ProductID
		if _, ok := required[id]; !ok {
			order = append(order, id)
		}
		required[id] = required[id].Add(items[i].Quantity)
	}
	for _, id := range order {
		available, err := ledgerRepo.SumDeltas(ctx, id)
		if err != nil {
			return err
		}
		if available.LessThan(required[id]) {
			return &domain.InsufficientStockError{
				ProductID:   id,
				ProductName: products[id].Name,
				Requested:   required[id],
				Available:   available,
			}
		}
	}
	return nil
}

func toTransactionResponse(t *entity.Transaction) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	items := make([]dto.LineItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.LineItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			LineNo:    it.LineNo,
			Quantity:  it.Quantity,
			Rate:      it.Rate,
			Amount:    it.Amount,
		})
	}
	return &dto.TransactionResponse{
		ID:             t.ID,
		Type:           t.Type,
		Number:         t.Number,
		CounterpartyID: t.CounterpartyID,
		Date:           t.Date,
		InvoiceNumber:  t.InvoiceNumber,
		Notes:          t.Notes,
		TotalAmount:    t.TotalAmount,
		Items:          items,
		CreatedAt:      t.CreatedAt,
	}
}
