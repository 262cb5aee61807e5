package costcenters

import (
	"context"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]CostCenter, error) {
	return s.repo.ListByCompany(ctx, companyID, true)
}

func (s *Service) Create(ctx context.Context, companyID int64, form CreateForm) (CostCenter, error) {
	if form.ParentID != nil {
		parent, err := s.repo.Get(ctx, *form.ParentID)
		if err != nil || parent.CompanyID != companyID {
			return CostCenter{}, acctshared.ErrInvalidReference
		}
	}
	return s.repo.Create(ctx, CostCenter{
		CompanyID:   companyID,
		Code:        form.Code,
		Name:        form.Name,
		Description: form.Description,
		ParentID:    form.ParentID,
	})
}

func (s *Service) Update(ctx context.Context, id int64, form UpdateForm) (CostCenter, error) {
	cc, err := s.repo.Get(ctx, id)
	if err != nil {
		return CostCenter{}, err
	}
	if form.Name != nil {
		cc.Name = *form.Name
	}
	if form.Description != nil {
		cc.Description = *form.Description
	}
	if form.IsActive != nil {
		cc.IsActive = *form.IsActive
	}
	if form.ParentID != nil {
		if *form.ParentID == 0 {
			cc.ParentID = nil
		} else {
			all, err := s.repo.ListByCompany(ctx, cc.CompanyID, false)
			if err != nil {
				return CostCenter{}, err
			}
			byID := make(map[int64]CostCenter, len(all))
			for _, c := range all {
				byID[c.ID] = c
			}
			parent, ok := byID[*form.ParentID]
			if !ok || parent.CompanyID != cc.CompanyID {
				return CostCenter{}, acctshared.ErrInvalidReference
			}
			if createsCycle(byID, cc.ID, parent.ID) {
				return CostCenter{}, acctshared.ErrHierarchyCycle
			}
			cc.ParentID = form.ParentID
		}
	}
	if err := s.repo.Update(ctx, cc); err != nil {
		return CostCenter{}, err
	}
	return cc, nil
}

func createsCycle(byID map[int64]CostCenter, nodeID, newParentID int64) bool {
	current := newParentID
	for {
		if current == nodeID {
			return true
		}
		node, ok := byID[current]
		if !ok || node.ParentID == nil {
			return false
		}
		current = *node.ParentID
	}
}
