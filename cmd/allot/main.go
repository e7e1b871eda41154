// Comando allot: CLI de inventario y facturación para un solo usuario.
//
// Subcomandos:
//
//	stock      vista de stock derivado (todos los productos o -sku)
//	history    asientos del libro de stock de un producto
//	post       registra una compra o una venta
//	rate       consulta o fija tarifas del catálogo de precios
//	report     genera el informe PDF de compras o ventas
//	dashboard  totales de hoy y del mes en curso
//	purge      borra transacciones por rango de fechas (mantenimiento)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appanalytics "github.com/allothq/allot/internal/application/analytics"
	"github.com/allothq/allot/internal/application/dto"
	"github.com/allothq/allot/internal/application/inventory"
	"github.com/allothq/allot/internal/application/pricing"
	"github.com/allothq/allot/internal/application/reporting"
	"github.com/allothq/allot/internal/application/usecase"
	"github.com/allothq/allot/internal/domain"
	"github.com/allothq/allot/internal/domain/entity"
	infrapdf "github.com/allothq/allot/internal/infrastructure/pdf"
	"github.com/allothq/allot/internal/infrastructure/sqlite"
	"github.com/allothq/allot/pkg/config"
	"github.com/allothq/allot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	store, err := sqlite.Open(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("abrir base de datos")
	}
	defer store.Close()

	deps := buildDeps(store)
	ctx := context.Background()

	var runErr error
	switch cmd := os.Args[1]; cmd {
	case "stock":
		runErr = runStock(ctx, deps, os.Args[2:])
	case "history":
		runErr = runHistory(ctx, deps, os.Args[2:])
	case "post":
		runErr = runPost(ctx, deps, os.Args[2:])
	case "rate":
		runErr = runRate(ctx, deps, os.Args[2:])
	case "report":
		runErr = runReport(ctx, deps, cfg.Reports.OutputDir, os.Args[2:])
	case "dashboard":
		runErr = runDashboard(ctx, deps, os.Args[2:])
	case "purge":
		runErr = runPurge(ctx, deps, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "subcomando desconocido: %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Str("cmd", os.Args[1]).Msg("comando fallido")
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `uso: allot <subcomando> [flags]

subcomandos:
  stock      vista de stock derivado (todos los productos o -sku)
  history    asientos del libro de stock de un producto (-sku, -from, -to)
  post       registra una compra o venta (-type, -counterparty, -item sku:cant[:tarifa])
  rate       consulta o fija tarifas (-type, -counterparty, -sku, -set)
  report     informe PDF de compras o ventas (-type, -from, -to, -counterparty)
  dashboard  totales de hoy y del mes en curso (-daily para la serie por día)
  purge      borra transacciones por rango (-from, -to, -purchases, -sales)

la base de datos se toma de ALLOT_DB_PATH; el resto de la configuración, de
variables de entorno o de un archivo .env (ver pkg/config).
`)
}

// ── Wiring ────────────────────────────────────────────────────────────────────

// appDeps casos de uso ya construidos sobre el store abierto.
type appDeps struct {
	products     *usecase.ProductUseCase
	distributors *usecase.DistributorUseCase
	parties      *usecase.PartyUseCase
	pricing      *pricing.UseCase
	poster       *inventory.PostTransactionUseCase
	stock        *inventory.StockUseCase
	reportPDF    *reporting.PDFUseCase
	dashboard    *appanalytics.DashboardUseCase
	maintenance  *usecase.MaintenanceUseCase
}

func buildDeps(store *sqlite.Store) appDeps {
	db := store.DB()
	productRepo := sqlite.NewProductRepository(db)
	distributorRepo := sqlite.NewDistributorRepository(db)
	partyRepo := sqlite.NewPartyRepository(db)
	priceRepo := sqlite.NewPriceRepository(db)
	txRepo := sqlite.NewTransactionRepository(db)
	ledgerRepo := sqlite.NewLedgerRepository(db)
	analyticsRepo := sqlite.NewAnalyticsRepository(db)
	txRunner := sqlite.NewTxRunner(store)

	reportsUC := reporting.NewUseCase(txRepo, productRepo, distributorRepo, partyRepo)

	return appDeps{
		products:     usecase.NewProductUseCase(productRepo, txRepo, ledgerRepo),
		distributors: usecase.NewDistributorUseCase(distributorRepo, txRepo),
		parties:      usecase.NewPartyUseCase(partyRepo, txRepo),
		pricing:      pricing.NewUseCase(priceRepo, productRepo, distributorRepo, partyRepo),
		poster:       inventory.NewPostTransactionUseCase(txRunner, productRepo, distributorRepo, partyRepo),
		stock:        inventory.NewStockUseCase(productRepo, ledgerRepo),
		reportPDF:    reporting.NewPDFUseCase(reportsUC, infrapdf.NewMarotoReportGenerator()),
		dashboard:    appanalytics.NewDashboardUseCase(analyticsRepo),
		maintenance:  usecase.NewMaintenanceUseCase(txRunner, productRepo, distributorRepo, partyRepo),
	}
}

// ── Subcomandos ───────────────────────────────────────────────────────────────

func runStock(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("stock", flag.ExitOnError)
	sku := fs.String("sku", "", "limitar a un producto por SKU")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sku != "" {
		product, err := productBySKU(ctx, deps, *sku)
		if err != nil {
			return err
		}
		row, err := deps.stock.Status(ctx, product.ID)
		if err != nil {
			return err
		}
		return printJSON(row)
	}

	rows, err := deps.stock.Overview(ctx)
	if err != nil {
		return err
	}
	return printJSON(rows)
}

func runHistory(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	sku := fs.String("sku", "", "SKU del producto (obligatorio)")
	fromArg := fs.String("from", "", "fecha inicial YYYY-MM-DD")
	toArg := fs.String("to", "", "fecha final YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sku == "" {
		return fmt.Errorf("%w: falta -sku", domain.ErrInvalidInput)
	}

	from, to, err := parseRange(*fromArg, *toArg)
	if err != nil {
		return err
	}
	product, err := productBySKU(ctx, deps, *sku)
	if err != nil {
		return err
	}
	entries, err := deps.stock.History(ctx, product.ID, from, to)
	if err != nil {
		return err
	}
	return printJSON(entries)
}

func runPost(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	txType := fs.String("type", "", "purchase | sale")
	counterparty := fs.String("counterparty", "", "nombre o ID del distribuidor/cliente")
	dateArg := fs.String("date", "", "fecha del documento YYYY-MM-DD (por defecto hoy)")
	invoice := fs.String("invoice", "", "número de factura externa")
	notes := fs.String("notes", "", "notas libres")
	var items repeatedFlag
	fs.Var(&items, "item", "línea sku:cantidad[:tarifa], repetible")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cpID, err := counterpartyID(ctx, deps, *txType, *counterparty)
	if err != nil {
		return err
	}
	lines, err := parseItems(ctx, deps, *txType, cpID, items)
	if err != nil {
		return err
	}

	in := dto.PostTransactionRequest{
		Type:           *txType,
		CounterpartyID: cpID,
		InvoiceNumber:  *invoice,
		Notes:          *notes,
		Items:          lines,
	}
	if *dateArg != "" {
		day, err := parseDay(*dateArg)
		if err != nil {
			return err
		}
		in.Date = &day
	}

	posted, err := deps.poster.Post(ctx, in)
	if err != nil {
		return err
	}
	return printJSON(posted)
}

func runRate(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	txType := fs.String("type", "", "purchase | sale")
	counterparty := fs.String("counterparty", "", "nombre o ID del distribuidor/cliente")
	sku := fs.String("sku", "", "SKU del producto")
	set := fs.String("set", "", "nueva tarifa a fijar (omitir para consultar)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cpID, err := counterpartyID(ctx, deps, *txType, *counterparty)
	if err != nil {
		return err
	}

	// Sin SKU: lista completa de tarifas de la contraparte.
	if *sku == "" {
		if *set != "" {
			return fmt.Errorf("%w: -set requiere -sku", domain.ErrInvalidInput)
		}
		var prices []dto.PriceResponse
		if *txType == entity.TxTypePurchase {
			prices, err = deps.pricing.DistributorPrices(ctx, cpID)
		} else {
			prices, err = deps.pricing.PartyPrices(ctx, cpID)
		}
		if err != nil {
			return err
		}
		return printJSON(prices)
	}

	product, err := productBySKU(ctx, deps, *sku)
	if err != nil {
		return err
	}

	if *set != "" {
		rate, err := decimal.NewFromString(*set)
		if err != nil {
			return fmt.Errorf("%w: tarifa %q", domain.ErrInvalidInput, *set)
		}
		in := dto.SetRateRequest{CounterpartyID: cpID, ProductID: product.ID, Rate: rate}
		if *txType == entity.TxTypePurchase {
			err = deps.pricing.SetDistributorRate(ctx, in)
		} else {
			err = deps.pricing.SetPartyRate(ctx, in)
		}
		if err != nil {
			return err
		}
	}

	var current *decimal.Decimal
	if *txType == entity.TxTypePurchase {
		current, err = deps.pricing.DistributorRateFor(ctx, cpID, product.ID)
	} else {
		current, err = deps.pricing.PartyRateFor(ctx, cpID, product.ID)
	}
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: sin tarifa registrada para %s", domain.ErrNotFound, *sku)
	}
	return printJSON(map[string]any{"sku": *sku, "rate": current})
}

func runReport(ctx context.Context, deps appDeps, outputDir string, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	txType := fs.String("type", "", "purchase | sale")
	fromArg := fs.String("from", "", "fecha inicial YYYY-MM-DD")
	toArg := fs.String("to", "", "fecha final YYYY-MM-DD")
	counterparty := fs.String("counterparty", "", "limitar a una contraparte (nombre o ID)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	from, to, err := parseRange(*fromArg, *toArg)
	if err != nil {
		return err
	}
	filter := dto.ReportFilter{From: from, To: to}
	if *counterparty != "" {
		cpID, err := counterpartyID(ctx, deps, *txType, *counterparty)
		if err != nil {
			return err
		}
		filter.CounterpartyID = cpID
	}

	pdfBytes, filename, err := deps.reportPDF.DownloadReportPDF(ctx, *txType, filter)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("crear directorio de informes: %w", err)
	}
	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("escribir informe: %w", err)
	}
	fmt.Println(path)
	return nil
}

func runDashboard(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	daily := fs.Bool("daily", false, "serie por día del mes en curso en vez del resumen")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *daily {
		series, err := deps.dashboard.GetDailySeries(ctx)
		if err != nil {
			return err
		}
		return printJSON(series)
	}
	summary, err := deps.dashboard.GetSummary(ctx)
	if err != nil {
		return err
	}
	return printJSON(summary)
}

func runPurge(ctx context.Context, deps appDeps, args []string) error {
	fs := flag.NewFlagSet("purge", flag.ExitOnError)
	fromArg := fs.String("from", "", "fecha inicial YYYY-MM-DD (obligatoria)")
	toArg := fs.String("to", "", "fecha final YYYY-MM-DD (obligatoria)")
	purchases := fs.Bool("purchases", false, "borrar compras del rango")
	sales := fs.Bool("sales", false, "borrar ventas del rango")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fromArg == "" || *toArg == "" {
		return fmt.Errorf("%w: purge exige -from y -to", domain.ErrInvalidInput)
	}

	from, to, err := parseRange(*fromArg, *toArg)
	if err != nil {
		return err
	}
	result, err := deps.maintenance.PurgeTransactions(ctx, dto.PurgeTransactionsRequest{
		From:      *from,
		To:        *to,
		Purchases: *purchases,
		Sales:     *sales,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// repeatedFlag acumula cada ocurrencia de un flag repetible.
type repeatedFlag []string

func (f *repeatedFlag) String() string { return strings.Join(*f, ",") }

func (f *repeatedFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDay interpreta YYYY-MM-DD como medianoche UTC.
func parseDay(s string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, formato esperado YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return day, nil
}

// parseRange convierte los flags -from/-to en límites inclusivos: from abre
// el día y to lo cierra (fin de día), para que un rango de un solo día
// capture todo ese día.
func parseRange(fromArg, toArg string) (from, to *time.Time, err error) {
	if fromArg != "" {
		day, err := parseDay(fromArg)
		if err != nil {
			return nil, nil, err
		}
		from = &day
	}
	if toArg != "" {
		day, err := parseDay(toArg)
		if err != nil {
			return nil, nil, err
		}
		end := day.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func productBySKU(ctx context.Context, deps appDeps, sku string) (*dto.ProductResponse, error) {
	product, err := deps.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %q", domain.ErrNotFound, sku)
	}
	return product, nil
}

// counterpartyID acepta el nombre exacto (sin distinguir mayúsculas) o el ID
// de la contraparte que corresponde al tipo de transacción.
func counterpartyID(ctx context.Context, deps appDeps, txType, arg string) (string, error) {
	if !entity.ValidTxType(txType) {
		return "", fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, txType)
	}
	if arg == "" {
		return "", fmt.Errorf("%w: falta -counterparty", domain.ErrInvalidInput)
	}

	if txType == entity.TxTypePurchase {
		if d, err := deps.distributors.GetByID(ctx, arg); err != nil {
			return "", err
		} else if d != nil {
			return d.ID, nil
		}
		list, err := deps.distributors.List(ctx)
		if err != nil {
			return "", err
		}
		for _, d := range list {
			if strings.EqualFold(d.Name, arg) {
				return d.ID, nil
			}
		}
		return "", fmt.Errorf("%w: distribuidor %q", domain.ErrNotFound, arg)
	}

	if p, err := deps.parties.GetByID(ctx, arg); err != nil {
		return "", err
	} else if p != nil {
		return p.ID, nil
	}
	list, err := deps.parties.List(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range list {
		if strings.EqualFold(p.Name, arg) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("%w: cliente %q", domain.ErrNotFound, arg)
}

// parseItems convierte los flags -item (sku:cantidad[:tarifa]) en líneas a
// registrar. Sin tarifa explícita se usa la del catálogo de precios para la
// contraparte; si tampoco existe, el comando falla pidiendo una explícita.
func parseItems(ctx context.Context, deps appDeps, txType, cpID string, raw []string) ([]dto.PostItemRequest, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: post exige al menos un -item", domain.ErrInvalidInput)
	}

	items := make([]dto.PostItemRequest, 0, len(raw))
	for _, r := range raw {
		parts := strings.Split(r, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return nil, fmt.Errorf("%w: línea %q, formato esperado sku:cantidad[:tarifa]", domain.ErrInvalidInput, r)
		}
		product, err := productBySKU(ctx, deps, parts[0])
		if err != nil {
			return nil, err
		}
		qty, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: cantidad %q", domain.ErrInvalidInput, parts[1])
		}

		var rate decimal.Decimal
		if len(parts) == 3 {
			rate, err = decimal.NewFromString(parts[2])
			if err != nil {
				return nil, fmt.Errorf("%w: tarifa %q", domain.ErrInvalidInput, parts[2])
			}
		} else {
			var onFile *decimal.Decimal
			if txType == entity.TxTypePurchase {
				onFile, err = deps.pricing.DistributorRateFor(ctx, cpID, product.ID)
			} else {
				onFile, err = deps.pricing.PartyRateFor(ctx, cpID, product.ID)
			}
			if err != nil {
				return nil, err
			}
			if onFile == nil {
				return nil, fmt.Errorf("%w: sin tarifa registrada para %s, indíquela como sku:cantidad:tarifa", domain.ErrInvalidInput, parts[0])
			}
			rate = *onFile
		}

		items = append(items, dto.PostItemRequest{ProductID: product.ID, Quantity: qty, Rate: rate})
	}
	return items, nil
}
