package reports

import (
	"github.com/shopspring/decimal"
)

// AccountBalance is the period movement of a single account, signed by the
// account's nature.
type AccountBalance struct {
	AccountID   int64           `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Balance     decimal.Decimal `json:"balance"`
	StartDate   string          `json:"start_date,omitempty"`
	EndDate     string          `json:"end_date,omitempty"`
}

// TrialBalanceRow places the account balance on its debit or credit column.
type TrialBalanceRow struct {
	AccountID   int64           `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists non-zero analytical accounts with column totals.
type TrialBalance struct {
	Accounts    []TrialBalanceRow `json:"accounts"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	IsBalanced  bool              `json:"is_balanced"`
	StartDate   string            `json:"start_date,omitempty"`
	EndDate     string            `json:"end_date,omitempty"`
}

// BalanceSheetAccount is one line of a balance sheet group.
type BalanceSheetAccount struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Balance     decimal.Decimal `json:"balance"`
}

// BalanceSheetGroup is a flat list of accounts with a subtotal.
type BalanceSheetGroup struct {
	Contas []BalanceSheetAccount `json:"contas"`
	Total  decimal.Decimal       `json:"total"`
}

// BalanceSheetSide splits a side into current and non-current groups.
type BalanceSheetSide struct {
	Circulante    BalanceSheetGroup `json:"circulante"`
	NaoCirculante BalanceSheetGroup `json:"nao_circulante"`
	Total         decimal.Decimal   `json:"total"`
}

// BalanceSheet is the cumulative position at a date.
type BalanceSheet struct {
	Ativo             BalanceSheetSide  `json:"ativo"`
	Passivo           BalanceSheetSide  `json:"passivo"`
	PatrimonioLiquido BalanceSheetGroup `json:"patrimonio_liquido"`
	TotalAtivo        decimal.Decimal   `json:"total_ativo"`
	TotalPassivoPL    decimal.Decimal   `json:"total_passivo_pl"`
	IsBalanced        bool              `json:"is_balanced"`
	EndDate           string            `json:"end_date,omitempty"`
}
