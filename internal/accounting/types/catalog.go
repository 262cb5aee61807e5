// Package types holds the global account-type catalog. The catalog is
// reference data seeded at installation time; it is loaded once at startup
// and injected read-only into the ledger services.
package types

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Nature enumerates which side an account type naturally increases on.
type Nature string

const (
	NatureDebit  Nature = "debit"
	NatureCredit Nature = "credit"
)

// Category enumerates balance-sheet / result classifications.
type Category string

const (
	CategoryAtivo             Category = "ativo"
	CategoryPassivo           Category = "passivo"
	CategoryPatrimonioLiquido Category = "patrimonio_liquido"
	CategoryReceita           Category = "receita"
	CategoryDespesa           Category = "despesa"
)

// AccountType classifies ledger accounts.
type AccountType struct {
	ID       int64    `json:"id"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Nature   Nature   `json:"nature"`
	Category Category `json:"category"`
}

// Catalog is an immutable in-memory view of the account_types table.
type Catalog struct {
	byID  map[int64]AccountType
	items []AccountType
}

// Load reads the catalog from the database.
func Load(ctx context.Context, pool *pgxpool.Pool) (*Catalog, error) {
	rows, err := pool.Query(ctx, `SELECT id, code, name, nature, category FROM account_types ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("accounting/types: load catalog: %w", err)
	}
	defer rows.Close()
	var items []AccountType
	for rows.Next() {
		var at AccountType
		if err := rows.Scan(&at.ID, &at.Code, &at.Name, &at.Nature, &at.Category); err != nil {
			return nil, err
		}
		items = append(items, at)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewCatalog(items), nil
}

// NewCatalog builds a catalog from the given entries.
func NewCatalog(items []AccountType) *Catalog {
	byID := make(map[int64]AccountType, len(items))
	sorted := append([]AccountType(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	for _, at := range sorted {
		byID[at.ID] = at
	}
	return &Catalog{byID: byID, items: sorted}
}

// Get returns the account type by ID.
func (c *Catalog) Get(id int64) (AccountType, bool) {
	at, ok := c.byID[id]
	return at, ok
}

// All returns the catalog ordered by code.
func (c *Catalog) All() []AccountType {
	return append([]AccountType(nil), c.items...)
}
