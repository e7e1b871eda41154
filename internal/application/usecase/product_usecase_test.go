package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/application/inventory"
	"github.com/allothq/allot/internal/application/pricing"
	"github.com/allothq/allot/internal/application/usecase"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/infrastructure/sqlite"
)

// ──────────────────────────────────────────────────────────────────────────────
// Arnés de test compartido por los tests de catálogos y mantenimiento.
// ──────────────────────────────────────────────────────────────────────────────

type catalogEnv struct {
	products     *usecase.ProductUseCase
	distributors *usecase.DistributorUseCase
	parties      *usecase.PartyUseCase
	prices       *pricing.UseCase
	poster       *inventory.PostTransactionUseCase
	stock        *inventory.StockUseCase
	maintenance  *usecase.MaintenanceUseCase
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err, "la base en memoria debe abrir")
	t.Cleanup(func() { _ = store.Close() })

	db := store.DB()
	productRepo := sqlite.NewProductRepository(db)
	distributorRepo := sqlite.NewDistributorRepository(db)
	partyRepo := sqlite.NewPartyRepository(db)
	priceRepo := sqlite.NewPriceRepository(db)
	txRepo := sqlite.NewTransactionRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	runner := sqlite.NewTxRunner(store)

	return &catalogEnv{
		products:     usecase.NewProductUseCase(productRepo, txRepo, ledgerRepo),
		distributors: usecase.NewDistributorUseCase(distributorRepo, txRepo),
		parties:      usecase.NewPartyUseCase(partyRepo, txRepo),
		prices:       pricing.NewUseCase(priceRepo, productRepo, distributorRepo, partyRepo),
		poster:       inventory.NewPostTransactionUseCase(runner, productRepo, distributorRepo, partyRepo),
		stock:        inventory.NewStockUseCase(productRepo, ledgerRepo),
		maintenance:  usecase.NewMaintenanceUseCase(runner, productRepo, distributorRepo, partyRepo),
	}
}

func (env *catalogEnv) newProduct(t *testing.T, sku string) *dto.ProductResponse {
	t.Helper()
	p, err := env.products.Create(context.Background(), dto.CreateProductRequest{
		SKU: sku, Name: "Producto " + sku,
	})
	require.NoError(t, err)
	return p
}

func (env *catalogEnv) newDistributor(t *testing.T, name string) *dto.CounterpartyResponse {
	t.Helper()
	d, err := env.distributors.Create(context.Background(), dto.CreateCounterpartyRequest{Name: name})
	require.NoError(t, err)
	return d
}

func (env *catalogEnv) newParty(t *testing.T, name string) *dto.CounterpartyResponse {
	t.Helper()
	p, err := env.parties.Create(context.Background(), dto.CreateCounterpartyRequest{Name: name})
	require.NoError(t, err)
	return p
}

// postOne registra una transacción de una línea con fecha explícita.
func (env *catalogEnv) postOne(t *testing.T, txType, counterpartyID, productID string, day time.Time) *dto.TransactionResponse {
	t.Helper()
	out, err := env.poster.Post(context.Background(), dto.PostTransactionRequest{
		Type:           txType,
		CounterpartyID: counterpartyID,
		Date:           &day,
		Items: []dto.PostItemRequest{{
			ProductID: productID,
			Quantity:  decimal.RequireFromString("5"),
			Rate:      decimal.RequireFromString("100"),
		}},
	})
	require.NoError(t, err, "la transacción de apoyo debe confirmar")
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CrearYLeerPorSKU(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	created, err := env.products.Create(ctx, dto.CreateProductRequest{
		SKU:          "PEN-064",
		Name:         "Pen Drive 64GB",
		Description:  "USB 3.0",
		HSNCode:      "8523",
		TaxRate:      decimal.RequireFromString("18"),
		ReorderLevel: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "pcs", created.Unit, "la unidad por defecto es pcs")

	got, err := env.products.GetBySKU(ctx, "PEN-064")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Pen Drive 64GB", got.Name)
	assert.Equal(t, "8523", got.HSNCode)
	assert.True(t, got.TaxRate.Equal(decimal.RequireFromString("18")))
	assert.True(t, got.ReorderLevel.Equal(decimal.RequireFromString("10")))
}

func TestProduct_GetBySKU_Inexistente(t *testing.T) {
	env := newCatalogEnv(t)

	got, err := env.products.GetBySKU(context.Background(), "NADA-000")
	require.NoError(t, err, "un SKU desconocido no es un error")
	assert.Nil(t, got)
}

func TestProduct_SKUDuplicado(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()
	env.newProduct(t, "PEN-064")

	_, err := env.products.Create(ctx, dto.CreateProductRequest{SKU: "PEN-064", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_Validaciones(t *testing.T) {
	env := newCatalogEnv(t)

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin sku", dto.CreateProductRequest{Name: "Pen Drive"}},
		{"sku en blanco", dto.CreateProductRequest{SKU: "   ", Name: "Pen Drive"}},
		{"sin nombre", dto.CreateProductRequest{SKU: "PEN-064"}},
		{"tax_rate negativo", dto.CreateProductRequest{
			SKU: "PEN-064", Name: "Pen Drive", TaxRate: decimal.RequireFromString("-1"),
		}},
		{"reorder_level negativo", dto.CreateProductRequest{
			SKU: "PEN-064", Name: "Pen Drive", ReorderLevel: decimal.RequireFromString("-5"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.products.Create(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProduct_List_OrdenAlfabeticoSinMayusculas(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	_, err := env.products.Create(ctx, dto.CreateProductRequest{SKU: "ZTA-001", Name: "Zeta Cable"})
	require.NoError(t, err)
	_, err = env.products.Create(ctx, dto.CreateProductRequest{SKU: "ALF-001", Name: "alfa Mouse"})
	require.NoError(t, err)

	list, err := env.products.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alfa Mouse", list[0].Name, "el orden ignora mayúsculas")
	assert.Equal(t, "Zeta Cable", list[1].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_ActualizacionParcial(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()
	created, err := env.products.Create(ctx, dto.CreateProductRequest{
		SKU: "PEN-064", Name: "Pen Drive 64GB", HSNCode: "8523",
		ReorderLevel: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)

	newName := "Pen Drive 64GB USB-C"
	updated, err := env.products.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, "PEN-064", updated.SKU, "el SKU es inmutable")
	assert.Equal(t, "8523", updated.HSNCode, "los campos no enviados se conservan")
	assert.True(t, updated.ReorderLevel.Equal(decimal.RequireFromString("10")))
}

func TestProduct_Update_Inexistente(t *testing.T) {
	env := newCatalogEnv(t)

	name := "Nuevo"
	got, err := env.products.Update(context.Background(), "no-existe", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProduct_Update_RechazaNegativos(t *testing.T) {
	env := newCatalogEnv(t)
	created := env.newProduct(t, "PEN-064")

	bad := decimal.RequireFromString("-1")
	_, err := env.products.Update(context.Background(), created.ID, dto.UpdateProductRequest{ReorderLevel: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.products.Update(context.Background(), created.ID, dto.UpdateProductRequest{TaxRate: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado: la integridad documental manda
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_BorradoSinReferencias(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()
	created := env.newProduct(t, "PEN-064")

	require.NoError(t, env.products.Delete(ctx, created.ID))

	got, err := env.products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProduct_BorradoConTarifas_CascadaOK(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()
	created := env.newProduct(t, "PEN-064")
	d := env.newDistributor(t, "Sharma Electronics")
	require.NoError(t, env.prices.SetDistributorRate(ctx, dto.SetRateRequest{
		CounterpartyID: d.ID, ProductID: created.ID, Rate: decimal.RequireFromString("450"),
	}))

	// Una tarifa no es un documento emitido: no bloquea y cae en cascada.
	require.NoError(t, env.products.Delete(ctx, created.ID))

	list, err := env.prices.DistributorPrices(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProduct_BorradoReferenciado_Rechazado(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()
	created := env.newProduct(t, "PEN-064")
	d := env.newDistributor(t, "Sharma Electronics")
	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	env.postOne(t, entity.TxTypePurchase, d.ID, created.ID, day)

	err := env.products.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)

	// Purgar la compra no libera al producto: el libro sigue apuntándole.
	_, err = env.maintenance.PurgeTransactions(ctx, dto.PurgeTransactionsRequest{
		From: day.AddDate(0, 0, -1), To: day.AddDate(0, 0, 1), Purchases: true,
	})
	require.NoError(t, err)

	err = env.products.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrInUse, "los asientos del libro también cuentan como referencia")

	got, err := env.products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "el borrado rechazado no toca el producto")
}

func TestProduct_Delete_Inexistente(t *testing.T) {
	env := newCatalogEnv(t)
	err := env.products.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
