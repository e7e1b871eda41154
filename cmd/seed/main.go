// Comando seed: carga un catálogo de demostración en la base de datos.
//
// Es idempotente: los productos se buscan por SKU y las contrapartes por
// nombre antes de crearlos, las tarifas son upserts y la compra de apertura
// solo se registra si el primer producto aún no tiene stock. El stock de
// apertura entra por el caso de uso de registro, nunca directo a tablas, de
// modo que el libro de stock siga siendo la única fuente del stock.
package main

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/application/inventory"
	"github.com/allothq/allot/internal/application/pricing"
	"github.com/allothq/allot/internal/application/usecase"
	"github.com/allothq/allot/internal/domain/entity"
	"github.com/allothq/allot/internal/infrastructure/sqlite"
	"github.com/allothq/allot/pkg/config"
	"github.com/allothq/allot/pkg/logger"
)

type seedProduct struct {
	sku          string
	name         string
	hsn          string
	taxRate      string
	reorderLevel string
	purchaseRate string
	saleRate     string
	openingQty   string
}

var demoProducts = []seedProduct{
	{sku: "PEN-064", name: "Pen Drive 64GB", hsn: "8523", taxRate: "18", reorderLevel: "10", purchaseRate: "450", saleRate: "550", openingQty: "20"},
	{sku: "KBD-USB", name: "Keyboard USB", hsn: "8471", taxRate: "18", reorderLevel: "5", purchaseRate: "620", saleRate: "760", openingQty: "10"},
	{sku: "MSE-OPT", name: "Optical Mouse", hsn: "8471", taxRate: "18", reorderLevel: "10", purchaseRate: "280", saleRate: "350", openingQty: "25"},
	{sku: "HDD-1TB", name: "External HDD 1TB", hsn: "8471", taxRate: "18", reorderLevel: "3", purchaseRate: "4200", saleRate: "4999", openingQty: "5"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	store, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("abrir base de datos")
	}
	defer store.Close()

	db := store.DB()
	productRepo := sqlite.NewProductRepository(db)
	distributorRepo := sqlite.NewDistributorRepository(db)
	partyRepo := sqlite.NewPartyRepository(db)
	priceRepo := sqlite.NewPriceRepository(db)
	txRepo := sqlite.NewTransactionRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	txRunner := sqlite.NewTxRunner(store)

	products := usecase.NewProductUseCase(productRepo, txRepo, ledgerRepo)
	distributors := usecase.NewDistributorUseCase(distributorRepo, txRepo)
	parties := usecase.NewPartyUseCase(partyRepo, txRepo)
	prices := pricing.NewUseCase(priceRepo, productRepo, distributorRepo, partyRepo)
	poster := inventory.NewPostTransactionUseCase(txRunner, productRepo, distributorRepo, partyRepo)
	stock := inventory.NewStockUseCase(productRepo, ledgerRepo)

	ctx := context.Background()

	// ── 1. Productos ──────────────────────────────────────────────────────
	productIDs := make(map[string]string, len(demoProducts))
	for _, sp := range demoProducts {
		existing, err := products.GetBySKU(ctx, sp.sku)
		if err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("buscar producto")
		}
		if existing != nil {
			productIDs[sp.sku] = existing.ID
			continue
		}
		created, err := products.Create(ctx, dto.CreateProductRequest{
			SKU:          sp.sku,
			Name:         sp.name,
			Unit:         "pcs",
			HSNCode:      sp.hsn,
			TaxRate:      decimal.RequireFromString(sp.taxRate),
			ReorderLevel: decimal.RequireFromString(sp.reorderLevel),
		})
		if err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("crear producto")
		}
		productIDs[sp.sku] = created.ID
		log.Info().Str("sku", sp.sku).Msg("producto creado")
	}

	// ── 2. Contrapartes ───────────────────────────────────────────────────
	distributorID := ensureDistributor(ctx, log, distributors, dto.CreateCounterpartyRequest{
		Name:          "Sharma Electronics",
		ContactPerson: "Rakesh Sharma",
		Phone:         "+91 98100 12345",
		Email:         "sales@sharmaelectronics.in",
		Address:       "14 Nehru Place, New Delhi",
	})
	partyID := ensureParty(ctx, log, parties, dto.CreateCounterpartyRequest{
		Name:          "Gupta Traders",
		ContactPerson: "Anil Gupta",
		Phone:         "+91 98200 67890",
		Email:         "anil@guptatraders.in",
		Address:       "2 Chandni Chowk, Delhi",
	})

	// ── 3. Tarifas ────────────────────────────────────────────────────────
	for _, sp := range demoProducts {
		pid := productIDs[sp.sku]
		if err := prices.SetDistributorRate(ctx, dto.SetRateRequest{
			CounterpartyID: distributorID,
			ProductID:      pid,
			Rate:           decimal.RequireFromString(sp.purchaseRate),
		}); err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("fijar tarifa de compra")
		}
		if err := prices.SetPartyRate(ctx, dto.SetRateRequest{
			CounterpartyID: partyID,
			ProductID:      pid,
			Rate:           decimal.RequireFromString(sp.saleRate),
		}); err != nil {
			log.Fatal().Err(err).Str("sku", sp.sku).Msg("fijar tarifa de venta")
		}
	}

	// ── 4. Compra de apertura ─────────────────────────────────────────────
	current, err := stock.CurrentStock(ctx, productIDs[demoProducts[0].sku])
	if err != nil {
		log.Fatal().Err(err).Msg("consultar stock de apertura")
	}
	if current.Sign() > 0 {
		log.Info().Msg("stock de apertura ya registrado, nada que hacer")
		return
	}

	items := make([]dto.PostItemRequest, 0, len(demoProducts))
	for _, sp := range demoProducts {
		items = append(items, dto.PostItemRequest{
			ProductID: productIDs[sp.sku],
			Quantity:  decimal.RequireFromString(sp.openingQty),
			Rate:      decimal.RequireFromString(sp.purchaseRate),
		})
	}
	posted, err := poster.Post(ctx, dto.PostTransactionRequest{
		Type:           entity.TxTypePurchase,
		CounterpartyID: distributorID,
		Notes:          "Opening stock",
		Items:          items,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("registrar compra de apertura")
	}
	log.Info().Str("number", posted.Number).Msg("catálogo de demostración cargado")
}

func ensureDistributor(ctx context.Context, log *logger.Logger, uc *usecase.DistributorUseCase, in dto.CreateCounterpartyRequest) string {
	list, err := uc.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar distribuidores")
	}
	for _, d := range list {
		if d.Name == in.Name {
			return d.ID
		}
	}
	created, err := uc.Create(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Str("name", in.Name).Msg("crear distribuidor")
	}
	log.Info().Str("name", in.Name).Msg("distribuidor creado")
	return created.ID
}

func ensureParty(ctx context.Context, log *logger.Logger, uc *usecase.PartyUseCase, in dto.CreateCounterpartyRequest) string {
	list, err := uc.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar clientes")
	}
	for _, p := range list {
		if p.Name == in.Name {
			return p.ID
		}
	}
	created, err := uc.Create(ctx, in)
	if err != nil {
		log.Fatal().Err(err).Str("name", in.Name).Msg("crear cliente")
	}
	log.Info().Str("name", in.Name).Msg("cliente creado")
	return created.ID
}
