package reports

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatAmountUsesBrazilianConvention(t *testing.T) {
	require.Equal(t, "1.234,56", formatAmount(dec("1234.56")))
	require.Equal(t, "0,00", formatAmount(dec("0")))
	require.Equal(t, "-987,10", formatAmount(dec("-987.1")))
}

func TestWriteTrialBalanceCSV(t *testing.T) {
	tb := TrialBalance{
		Accounts: []TrialBalanceRow{
			{AccountCode: "1.1.01", AccountName: "Caixa", Debit: dec("1234.56"), Credit: dec("0")},
			{AccountCode: "4.01", AccountName: "Receita de Vendas", Debit: dec("0"), Credit: dec("1234.56")},
		},
		TotalDebit:  dec("1234.56"),
		TotalCredit: dec("1234.56"),
		IsBalanced:  true,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrialBalanceCSV(&buf, tb))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "Código;Conta;Débito;Crédito", lines[0])
	require.Equal(t, "1.1.01;Caixa;1.234,56;0,00", lines[1])
	require.Equal(t, ";Total;1.234,56;1.234,56", lines[3])
}
