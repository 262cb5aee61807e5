package reports

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// formatAmount renders a money value the Brazilian way: thousand dots,
// decimal comma, two places.
func formatAmount(d decimal.Decimal) string {
	return ptBR.Sprintf("%.2f", d.InexactFloat64())
}

// WriteTrialBalanceCSV serialises a trial balance as semicolon-separated
// CSV with pt-BR formatted amounts.
func WriteTrialBalanceCSV(w io.Writer, tb TrialBalance) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	if err := writer.Write([]string{"Código", "Conta", "Débito", "Crédito"}); err != nil {
		return err
	}
	for _, row := range tb.Accounts {
		if err := writer.Write([]string{
			row.AccountCode,
			row.AccountName,
			formatAmount(row.Debit),
			formatAmount(row.Credit),
		}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"", "Total", formatAmount(tb.TotalDebit), formatAmount(tb.TotalCredit)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
