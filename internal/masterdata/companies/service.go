package companies

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, onlyActive bool) ([]Company, error) {
	return s.repo.List(ctx, onlyActive)
}

func (s *Service) Get(ctx context.Context, id int64) (Company, error) {
	if id <= 0 {
		return Company{}, fmt.Errorf("%w: id must be positive", ErrInvalidCompany)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CompanyForm) (Company, error) {
	company := fromForm(form)
	if company.TaxRegime == "" {
		company.TaxRegime = RegimeSimplesNacional
	}
	if err := s.validate(company); err != nil {
		return Company{}, err
	}
	return s.repo.Create(ctx, company)
}

func (s *Service) Update(ctx context.Context, id int64, form CompanyForm) (Company, error) {
	if id <= 0 {
		return Company{}, fmt.Errorf("%w: id must be positive", ErrInvalidCompany)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, err
	}
	updated := fromForm(form)
	updated.CNPJ = current.CNPJ
	if updated.TaxRegime == "" {
		updated.TaxRegime = current.TaxRegime
	}
	if err := s.validate(updated); err != nil {
		return Company{}, err
	}
	if err := s.repo.Update(ctx, id, updated); err != nil {
		return Company{}, err
	}
	return s.repo.Get(ctx, id)
}

func fromForm(form CompanyForm) Company {
	return Company{
		CNPJ:      form.CNPJ,
		Name:      form.Name,
		TradeName: form.TradeName,
		Email:     form.Email,
		Phone:     form.Phone,
		Address:   form.Address,
		City:      form.City,
		State:     form.State,
		ZipCode:   form.ZipCode,
		TaxRegime: form.TaxRegime,
	}
}
