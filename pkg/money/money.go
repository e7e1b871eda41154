// Package money formatea importes en rupias para informes y salida de
// consola. Usa la localización en-IN de x/text, que agrupa los dígitos al
// estilo indio (₹12,34,567.89) en lugar de en miles.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format devuelve el importe con símbolo de rupia y dos decimales fijos.
func Format(amount decimal.Decimal) string {
	return "₹" + Group(amount)
}

// Group devuelve el importe agrupado sin símbolo de moneda.
func Group(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return printer.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
