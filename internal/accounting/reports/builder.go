package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/razao-erp/razao-erp/internal/accounting/types"
)

// balanceEpsilon tolerates sub-cent rounding when flagging report balance.
var balanceEpsilon = decimal.NewFromFloat(0.01)

// AccountInfo is the account metadata the builders need: identity, full
// hierarchical code and the classification from the type catalog.
type AccountInfo struct {
	ID       int64
	FullCode string
	Name     string
	Nature   types.Nature
	Category types.Category
}

// NatureBalance signs the raw sums by the account's nature: debit accounts
// grow with debits, credit accounts with credits.
func NatureBalance(nature types.Nature, debit, credit decimal.Decimal) decimal.Decimal {
	if nature == types.NatureCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// BuildTrialBalance lays each non-zero account balance on the column its
// nature and sign dictate.
func BuildTrialBalance(infos []AccountInfo, totals map[int64]AccountTotal) TrialBalance {
	tb := TrialBalance{
		Accounts:    []TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, info := range sortedByCode(infos) {
		t, ok := totals[info.ID]
		if !ok {
			continue
		}
		balance := NatureBalance(info.Nature, t.Debit, t.Credit)
		if balance.IsZero() {
			continue
		}
		row := TrialBalanceRow{
			AccountID:   info.ID,
			AccountCode: info.FullCode,
			AccountName: info.Name,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		onDebitColumn := info.Nature == types.NatureDebit
		if balance.IsNegative() {
			onDebitColumn = !onDebitColumn
			balance = balance.Neg()
		}
		if onDebitColumn {
			row.Debit = balance
		} else {
			row.Credit = balance
		}
		tb.Accounts = append(tb.Accounts, row)
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}
	tb.IsBalanced = tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThan(balanceEpsilon)
	return tb
}

// BuildBalanceSheet buckets cumulative balances into ativo, passivo and
// patrimonio liquido. Current versus non-current follows the Brazilian
// chart convention: full codes under "1.1" and "2.1" are circulante.
func BuildBalanceSheet(infos []AccountInfo, totals map[int64]AccountTotal) BalanceSheet {
	bs := BalanceSheet{
		Ativo:             newSide(),
		Passivo:           newSide(),
		PatrimonioLiquido: newGroup(),
		TotalAtivo:        decimal.Zero,
		TotalPassivoPL:    decimal.Zero,
	}
	for _, info := range sortedByCode(infos) {
		t, ok := totals[info.ID]
		if !ok {
			continue
		}
		balance := NatureBalance(info.Nature, t.Debit, t.Credit)
		if balance.IsZero() {
			continue
		}
		account := BalanceSheetAccount{
			AccountCode: info.FullCode,
			AccountName: info.Name,
			Balance:     balance,
		}
		switch info.Category {
		case types.CategoryAtivo:
			addToSide(&bs.Ativo, account, strings.HasPrefix(info.FullCode, "1.1"))
		case types.CategoryPassivo:
			addToSide(&bs.Passivo, account, strings.HasPrefix(info.FullCode, "2.1"))
		case types.CategoryPatrimonioLiquido:
			bs.PatrimonioLiquido.Contas = append(bs.PatrimonioLiquido.Contas, account)
			bs.PatrimonioLiquido.Total = bs.PatrimonioLiquido.Total.Add(balance)
		}
	}
	bs.TotalAtivo = bs.Ativo.Total
	bs.TotalPassivoPL = bs.Passivo.Total.Add(bs.PatrimonioLiquido.Total)
	bs.IsBalanced = bs.TotalAtivo.Sub(bs.TotalPassivoPL).Abs().LessThan(balanceEpsilon)
	return bs
}

func newGroup() BalanceSheetGroup {
	return BalanceSheetGroup{Contas: []BalanceSheetAccount{}, Total: decimal.Zero}
}

func newSide() BalanceSheetSide {
	return BalanceSheetSide{Circulante: newGroup(), NaoCirculante: newGroup(), Total: decimal.Zero}
}

func addToSide(side *BalanceSheetSide, account BalanceSheetAccount, current bool) {
	if current {
		side.Circulante.Contas = append(side.Circulante.Contas, account)
		side.Circulante.Total = side.Circulante.Total.Add(account.Balance)
	} else {
		side.NaoCirculante.Contas = append(side.NaoCirculante.Contas, account)
		side.NaoCirculante.Total = side.NaoCirculante.Total.Add(account.Balance)
	}
	side.Total = side.Total.Add(account.Balance)
}

func sortedByCode(infos []AccountInfo) []AccountInfo {
	sorted := append([]AccountInfo(nil), infos...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FullCode < sorted[j].FullCode })
	return sorted
}
