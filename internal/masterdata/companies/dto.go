package companies

// CompanyForm carries create/update payloads. Separated from the model so the
// API surface can evolve without leaking storage fields.
type CompanyForm struct {
	CNPJ      string `json:"cnpj" validate:"required,min=14,max=18"`
	Name      string `json:"name" validate:"required,max=200"`
	TradeName string `json:"trade_name" validate:"max=200"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=20"`
	Address   string `json:"address"`
	City      string `json:"city" validate:"max=100"`
	State     string `json:"state" validate:"omitempty,len=2"`
	ZipCode   string `json:"zip_code" validate:"max=10"`
	TaxRegime string `json:"tax_regime" validate:"omitempty,oneof=simples_nacional lucro_presumido lucro_real"`
}
