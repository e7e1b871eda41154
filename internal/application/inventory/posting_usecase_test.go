package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/application/inventory"
	"github.com/allothq/allot/internal/application/usecase"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/infrastructure/sqlite"
)

// ──────────────────────────────────────────────────────────────────────────────
// Arnés de test: base SQLite en memoria con los casos de uso reales cableados
// igual que en cmd/allot. Cada test arranca con una base vacía, así la
// numeración empieza en 1 y el libro en cero.
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	poster       *inventory.PostTransactionUseCase
	stock        *inventory.StockUseCase
	products     *usecase.ProductUseCase
	distributors *usecase.DistributorUseCase
	parties      *usecase.PartyUseCase
	maintenance  *usecase.MaintenanceUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err, "la base en memoria debe abrir")
	t.Cleanup(func() { _ = store.Close() })

	db := store.DB()
	productRepo := sqlite.NewProductRepository(db)
	distributorRepo := sqlite.NewDistributorRepository(db)
	partyRepo := sqlite.NewPartyRepository(db)
	txRepo := sqlite.NewTransactionRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	runner := sqlite.NewTxRunner(store)

	return &testEnv{
		poster:       inventory.NewPostTransactionUseCase(runner, productRepo, distributorRepo, partyRepo),
		stock:        inventory.NewStockUseCase(productRepo, ledgerRepo),
		products:     usecase.NewProductUseCase(productRepo, txRepo, ledgerRepo),
		distributors: usecase.NewDistributorUseCase(distributorRepo, txRepo),
		parties:      usecase.NewPartyUseCase(partyRepo, txRepo),
		maintenance:  usecase.NewMaintenanceUseCase(runner, productRepo, distributorRepo, partyRepo),
	}
}

func createProduct(t *testing.T, env *testEnv, sku, reorderLevel string) *dto.ProductResponse {
	t.Helper()
	p, err := env.products.Create(context.Background(), dto.CreateProductRequest{
		SKU:          sku,
		Name:         "Producto " + sku,
		ReorderLevel: decimal.RequireFromString(reorderLevel),
	})
	require.NoError(t, err, "el producto de prueba debe crearse")
	return p
}

func createDistributor(t *testing.T, env *testEnv, name string) *dto.CounterpartyResponse {
	t.Helper()
	d, err := env.distributors.Create(context.Background(), dto.CreateCounterpartyRequest{Name: name})
	require.NoError(t, err, "el distribuidor de prueba debe crearse")
	return d
}

func createParty(t *testing.T, env *testEnv, name string) *dto.CounterpartyResponse {
	t.Helper()
	p, err := env.parties.Create(context.Background(), dto.CreateCounterpartyRequest{Name: name})
	require.NoError(t, err, "el cliente de prueba debe crearse")
	return p
}

// oneLine arma una petición de una sola línea del tipo dado.
func oneLine(txType, counterpartyID, productID, qty, rate string) dto.PostTransactionRequest {
	return dto.PostTransactionRequest{
		Type:           txType,
		CounterpartyID: counterpartyID,
		Items: []dto.PostItemRequest{{
			ProductID: productID,
			Quantity:  decimal.RequireFromString(qty),
			Rate:      decimal.RequireFromString(rate),
		}},
	}
}

func mustPost(t *testing.T, env *testEnv, in dto.PostTransactionRequest) *dto.TransactionResponse {
	t.Helper()
	out, err := env.poster.Post(context.Background(), in)
	require.NoError(t, err, "la transacción debe confirmar")
	return out
}

func requireStock(t *testing.T, env *testEnv, productID, want string) {
	t.Helper()
	got, err := env.stock.CurrentStock(context.Background(), productID)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		"stock esperado %s, obtenido %s", want, got)
}

func requireStatus(t *testing.T, env *testEnv, productID, want string) {
	t.Helper()
	row, err := env.stock.Status(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, want, row.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de compras
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_CompraActualizaStockYNumera(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")

	out := mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "15", "450"))

	assert.Equal(t, "PUR000001", out.Number, "la primera compra toma el primer consecutivo")
	assert.Equal(t, entity.TxTypePurchase, out.Type)
	assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("6750")),
		"total esperado 15*450, obtenido %s", out.TotalAmount)
	requireStock(t, env, p.ID, "15")
}

func TestPost_CompraMultilinea_TotalYAsientosPorLinea(t *testing.T) {
	env := newTestEnv(t)
	p1 := createProduct(t, env, "KBD-USB", "5")
	p2 := createProduct(t, env, "MSE-OPT", "10")
	d := createDistributor(t, env, "Sharma Electronics")

	out := mustPost(t, env, dto.PostTransactionRequest{
		Type:           entity.TxTypePurchase,
		CounterpartyID: d.ID,
		InvoiceNumber:  "INV-2026-117",
		Items: []dto.PostItemRequest{
			{ProductID: p1.ID, Quantity: decimal.RequireFromString("10"), Rate: decimal.RequireFromString("620")},
			{ProductID: p2.ID, Quantity: decimal.RequireFromString("25"), Rate: decimal.RequireFromString("280")},
		},
	})

	// 10*620 + 25*280 = 6200 + 7000
	assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("13200")))
	require.Len(t, out.Items, 2)
	assert.Equal(t, 1, out.Items[0].LineNo)
	assert.Equal(t, 2, out.Items[1].LineNo)
	assert.Equal(t, "INV-2026-117", out.InvoiceNumber)

	requireStock(t, env, p1.ID, "10")
	requireStock(t, env, p2.ID, "25")

	// Un asiento por línea, con el delta firmado y la transacción de origen.
	entries, err := env.stock.History(context.Background(), p1.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, out.ID, entries[0].TransactionID)
	assert.Equal(t, entity.TxTypePurchase, entries[0].TxType)
	assert.True(t, entries[0].QuantityDelta.Equal(decimal.RequireFromString("10")))
}

func TestPost_CantidadFraccionaria(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "CBL-MTR", "2")
	d := createDistributor(t, env, "Sharma Electronics")

	out := mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "2.5", "80"))

	assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("200")))
	requireStock(t, env, p.ID, "2.5")
}

func TestPost_FechaExplicitaSeConserva(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	in := oneLine(entity.TxTypePurchase, d.ID, p.ID, "5", "450")
	in.Date = &day

	out := mustPost(t, env, in)
	assert.True(t, out.Date.Equal(day), "la fecha del documento debe conservarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada: todo rechazo ocurre antes de cualquier escritura
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_EntradasInvalidas(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")

	qty := decimal.RequireFromString("1")
	rate := decimal.RequireFromString("450")

	cases := []struct {
		name string
		in   dto.PostTransactionRequest
	}{
		{"tipo desconocido", dto.PostTransactionRequest{
			Type: "transfer", CounterpartyID: d.ID,
			Items: []dto.PostItemRequest{{ProductID: p.ID, Quantity: qty, Rate: rate}},
		}},
		{"sin contraparte", dto.PostTransactionRequest{
			Type:  entity.TxTypePurchase,
			Items: []dto.PostItemRequest{{ProductID: p.ID, Quantity: qty, Rate: rate}},
		}},
		{"sin líneas", dto.PostTransactionRequest{
			Type: entity.TxTypePurchase, CounterpartyID: d.ID,
		}},
		{"línea sin producto", dto.PostTransactionRequest{
			Type: entity.TxTypePurchase, CounterpartyID: d.ID,
			Items: []dto.PostItemRequest{{Quantity: qty, Rate: rate}},
		}},
		{"cantidad cero", dto.PostTransactionRequest{
			Type: entity.TxTypePurchase, CounterpartyID: d.ID,
			Items: []dto.PostItemRequest{{ProductID: p.ID, Quantity: decimal.Zero, Rate: rate}},
		}},
		{"cantidad negativa", dto.PostTransactionRequest{
			Type: entity.TxTypePurchase, CounterpartyID: d.ID,
			Items: []dto.PostItemRequest{{ProductID: p.ID, Quantity: decimal.RequireFromString("-3"), Rate: rate}},
		}},
		{"tarifa negativa", dto.PostTransactionRequest{
			Type: entity.TxTypePurchase, CounterpartyID: d.ID,
			Items: []dto.PostItemRequest{{ProductID: p.ID, Quantity: qty, Rate: decimal.RequireFromString("-1")}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.poster.Post(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// Ninguna validación fallida dejó rastro en el libro.
	requireStock(t, env, p.ID, "0")
}

func TestPost_ContraparteInexistente(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")

	_, err := env.poster.Post(context.Background(),
		oneLine(entity.TxTypePurchase, "no-existe", p.ID, "1", "450"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPost_ProductoInexistente(t *testing.T) {
	env := newTestEnv(t)
	d := createDistributor(t, env, "Sharma Electronics")

	_, err := env.poster.Post(context.Background(),
		oneLine(entity.TxTypePurchase, d.ID, "no-existe", "1", "450"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPost_VentaExigeClienteNoDistribuidor(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "10", "450"))

	// El ID del distribuidor no vale como cliente de una venta.
	_, err := env.poster.Post(context.Background(),
		oneLine(entity.TxTypeSale, d.ID, p.ID, "1", "550"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPost_TarifaCeroPermitida(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	c := createParty(t, env, "Gupta Traders")
	mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "10", "450"))

	// Muestra gratuita: tarifa 0 es válida (solo las negativas se rechazan).
	out := mustPost(t, env, oneLine(entity.TxTypeSale, c.ID, p.ID, "2", "0"))
	assert.True(t, out.TotalAmount.IsZero())
	requireStock(t, env, p.ID, "8")
}

// ──────────────────────────────────────────────────────────────────────────────
// Suficiencia de stock en ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_VentaSinStockSuficiente_NoEscribeNada(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	c := createParty(t, env, "Gupta Traders")
	mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "5", "450"))

	_, err := env.poster.Post(context.Background(),
		oneLine(entity.TxTypeSale, c.ID, p.ID, "8", "550"))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient, "debe fallar con el error tipado de stock")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, p.ID, insufficient.ProductID)
	assert.True(t, insufficient.Requested.Equal(decimal.RequireFromString("8")))
	assert.True(t, insufficient.Available.Equal(decimal.RequireFromString("5")))
	assert.True(t, insufficient.Shortfall().Equal(decimal.RequireFromString("3")),
		"el faltante debe ser pedido menos disponible")

	// La venta fallida no dejó cabecera, líneas ni asientos.
	requireStock(t, env, p.ID, "5")
	entries, err := env.stock.History(context.Background(), p.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "solo el asiento de la compra inicial")

	// Y tampoco consumió numeración: la siguiente venta válida toma SAL000001.
	out := mustPost(t, env, oneLine(entity.TxTypeSale, c.ID, p.ID, "3", "550"))
	assert.Equal(t, "SAL000001", out.Number)
}

func TestPost_VentaAgregaCantidadesPorProducto(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	c := createParty(t, env, "Gupta Traders")
	mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "5", "450"))

	// Dos líneas del mismo producto: 3 + 4 = 7 > 5 disponible. La
	// comprobación agrega por producto; línea a línea habría pasado.
	_, err := env.poster.Post(context.Background(), dto.PostTransactionRequest{
		Type:           entity.TxTypeSale,
		CounterpartyID: c.ID,
		Items: []dto.PostItemRequest{
			{ProductID: p.ID, Quantity: decimal.RequireFromString("3"), Rate: decimal.RequireFromString("550")},
			{ProductID: p.ID, Quantity: decimal.RequireFromString("4"), Rate: decimal.RequireFromString("550")},
		},
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Requested.Equal(decimal.RequireFromString("7")))
	requireStock(t, env, p.ID, "5")
}

func TestPost_CompraYVentaTotal_DejaStockEnCero(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	c := createParty(t, env, "Gupta Traders")

	mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "15", "450"))
	mustPost(t, env, oneLine(entity.TxTypeSale, c.ID, p.ID, "15", "550"))

	requireStock(t, env, p.ID, "0")
	requireStatus(t, env, p.ID, entity.StockStatusOut)
}

// TestPost_EscenarioDeReorden recorre el ciclo completo de clasificación con
// umbral 10: compra 15 (IN), venta 8 (LOW), venta 7 (OUT) y una venta más
// que debe rechazarse dejando el stock en cero.
func TestPost_EscenarioDeReorden(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	c := createParty(t, env, "Gupta Traders")

	mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "15", "450"))
	requireStock(t, env, p.ID, "15")
	requireStatus(t, env, p.ID, entity.StockStatusIn)

	mustPost(t, env, oneLine(entity.TxTypeSale, c.ID, p.ID, "8", "550"))
	requireStock(t, env, p.ID, "7")
	requireStatus(t, env, p.ID, entity.StockStatusLow)

	mustPost(t, env, oneLine(entity.TxTypeSale, c.ID, p.ID, "7", "550"))
	requireStock(t, env, p.ID, "0")
	requireStatus(t, env, p.ID, entity.StockStatusOut)

	_, err := env.poster.Post(context.Background(),
		oneLine(entity.TxTypeSale, c.ID, p.ID, "1", "550"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	requireStock(t, env, p.ID, "0")
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración documental
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_NumeracionPorTipoIndependiente(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	c := createParty(t, env, "Gupta Traders")

	first := mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "10", "450"))
	sale := mustPost(t, env, oneLine(entity.TxTypeSale, c.ID, p.ID, "2", "550"))
	second := mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "5", "450"))

	assert.Equal(t, "PUR000001", first.Number)
	assert.Equal(t, "SAL000001", sale.Number, "las ventas llevan su propio consecutivo")
	assert.Equal(t, "PUR000002", second.Number, "la numeración de compras no se ve afectada por ventas")
}

// TestPost_NumeracionConcurrente lanza registros en paralelo y comprueba que
// no se repite ni se salta ningún número: el conjunto emitido es exactamente
// PUR000001..PUR0000NN.
func TestPost_NumeracionConcurrente(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")

	const n = 20
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := env.poster.Post(context.Background(),
				oneLine(entity.TxTypePurchase, d.ID, p.ID, "1", "450"))
			if err != nil {
				t.Error(err)
				return
			}
			numbers <- out.Number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool, n)
	for num := range numbers {
		assert.False(t, seen[num], "número repetido: %s", num)
		seen[num] = true
	}
	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("PUR%06d", i)], "falta el consecutivo %d", i)
	}
	requireStock(t, env, p.ID, fmt.Sprintf("%d", n))
}

// TestPost_NumeroPurgadoNoSeReutiliza purga una compra ya registrada y
// verifica dos invariantes: sus asientos del libro sobreviven (el stock no
// cambia) y el siguiente registro toma el siguiente número, nunca el hueco.
func TestPost_NumeroPurgadoNoSeReutiliza(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")

	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	in := oneLine(entity.TxTypePurchase, d.ID, p.ID, "15", "450")
	in.Date = &day
	first := mustPost(t, env, in)
	require.Equal(t, "PUR000001", first.Number)

	result, err := env.maintenance.PurgeTransactions(context.Background(), dto.PurgeTransactionsRequest{
		From:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
		Purchases: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.PurchasesDeleted)

	// El libro es append-only: la purga borró la cabecera pero no el asiento.
	requireStock(t, env, p.ID, "15")

	next := mustPost(t, env, oneLine(entity.TxTypePurchase, d.ID, p.ID, "5", "450"))
	assert.Equal(t, "PUR000002", next.Number, "el número purgado queda como hueco permanente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Derivación de stock (el libro como única fuente)
// ──────────────────────────────────────────────────────────────────────────────

// TestPost_StockSiempreIgualALaSumaDelLibro recalcula el stock tras cada
// operación y lo compara con la suma manual de los asientos devueltos por el
// historial.
func TestPost_StockSiempreIgualALaSumaDelLibro(t *testing.T) {
	env := newTestEnv(t)
	p := createProduct(t, env, "PEN-064", "10")
	d := createDistributor(t, env, "Sharma Electronics")
	c := createParty(t, env, "Gupta Traders")

	steps := []dto.PostTransactionRequest{
		oneLine(entity.TxTypePurchase, d.ID, p.ID, "12", "450"),
		oneLine(entity.TxTypeSale, c.ID, p.ID, "4", "550"),
		oneLine(entity.TxTypePurchase, d.ID, p.ID, "3.5", "460"),
		oneLine(entity.TxTypeSale, c.ID, p.ID, "0.5", "550"),
	}
	for _, in := range steps {
		mustPost(t, env, in)

		entries, err := env.stock.History(context.Background(), p.ID, nil, nil)
		require.NoError(t, err)
		manual := decimal.Zero
		for _, e := range entries {
			manual = manual.Add(e.QuantityDelta)
		}

		current, err := env.stock.CurrentStock(context.Background(), p.ID)
		require.NoError(t, err)
		assert.True(t, current.Equal(manual),
			"stock derivado %s distinto de la suma manual %s", current, manual)
	}
}

func TestCurrentStock_ProductoInexistente(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.stock.CurrentStock(context.Background(), "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
