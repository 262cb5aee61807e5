package companies

import "time"

// Tax regimes recognised by the registry.
const (
	RegimeSimplesNacional = "simples_nacional"
	RegimeLucroPresumido  = "lucro_presumido"
	RegimeLucroReal       = "lucro_real"
)

// Company represents a company entity, the tenant root of the ledger.
type Company struct {
	ID        int64     `json:"id"`
	CNPJ      string    `json:"cnpj"`
	Name      string    `json:"name"`
	TradeName string    `json:"trade_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	ZipCode   string    `json:"zip_code,omitempty"`
	TaxRegime string    `json:"tax_regime"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
