package fiscal

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer pt-BR compartilhado; message.Printer é seguro para uso concorrente.
var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRMoney formata um valor monetário no padrão brasileiro: R$ 1.500.000,00.
func BRMoney(v decimal.Decimal) string {
	return printer.Sprintf("R$ %v", number.Decimal(v.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// BRWeight formata peso em kg abaixo de uma tonelada (999 kg) e em
// toneladas com três casas acima (8.846,500 Tons).
func BRWeight(kg decimal.Decimal) string {
	f := kg.InexactFloat64()
	if f < 1000 {
		return printer.Sprintf("%v kg", number.Decimal(f, number.MaxFractionDigits(0)))
	}
	return printer.Sprintf("%v Tons", number.Decimal(f/1000,
		number.MinFractionDigits(3), number.MaxFractionDigits(3)))
}

// BRNum formata um número genérico: inteiros sem casas, decimais com duas.
func BRNum(v decimal.Decimal) string {
	if v.IsInteger() {
		return printer.Sprintf("%v", number.Decimal(v.InexactFloat64(),
			number.MaxFractionDigits(0)))
	}
	return printer.Sprintf("%v", number.Decimal(v.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// BRPercent formata um percentual com duas casas e vírgula decimal.
func BRPercent(v decimal.Decimal) string {
	return printer.Sprintf("%v%%", number.Decimal(v.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
