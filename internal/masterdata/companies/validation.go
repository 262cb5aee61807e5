package companies

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCompany marks a payload that fails domain validation.
var ErrInvalidCompany = errors.New("companies: invalid company")

func (s *Service) validate(c Company) error {
	if strings.TrimSpace(c.CNPJ) == "" {
		return fmt.Errorf("%w: cnpj is required", ErrInvalidCompany)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCompany)
	}
	switch c.TaxRegime {
	case RegimeSimplesNacional, RegimeLucroPresumido, RegimeLucroReal:
		return nil
	default:
		return fmt.Errorf("%w: unknown tax regime %q", ErrInvalidCompany, c.TaxRegime)
	}
}
