package accounts

import (
	"context"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/accounting/types"
)

type Service struct {
	repo    Repository
	catalog *types.Catalog
}

func NewService(repo Repository, catalog *types.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// List returns the active accounts of a company with derived full codes.
func (s *Service) List(ctx context.Context, companyID int64) ([]View, error) {
	all, err := s.repo.ListByCompany(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	byID := indexByID(all)
	views := make([]View, 0, len(all))
	for _, a := range all {
		if !a.IsActive {
			continue
		}
		views = append(views, s.toView(a, byID))
	}
	return views, nil
}

// Get returns one account with its derived full code.
func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	all, err := s.repo.ListByCompany(ctx, account.CompanyID, false)
	if err != nil {
		return View{}, err
	}
	return s.toView(account, indexByID(all)), nil
}

// Create inserts a new ledger account after resolving its references.
func (s *Service) Create(ctx context.Context, companyID int64, form CreateForm) (View, error) {
	if _, ok := s.catalog.Get(form.AccountTypeID); !ok {
		return View{}, acctshared.ErrInvalidReference
	}
	if form.ParentID != nil {
		parent, err := s.repo.Get(ctx, *form.ParentID)
		if err != nil || parent.CompanyID != companyID {
			return View{}, acctshared.ErrInvalidReference
		}
	}
	analytical := true
	if form.IsAnalytical != nil {
		analytical = *form.IsAnalytical
	}
	level := form.Level
	if level <= 0 {
		level = 1
	}
	created, err := s.repo.Create(ctx, Account{
		CompanyID:     companyID,
		Code:          form.Code,
		Name:          form.Name,
		AccountTypeID: form.AccountTypeID,
		ParentID:      form.ParentID,
		Level:         level,
		IsAnalytical:  analytical,
	})
	if err != nil {
		return View{}, err
	}
	all, err := s.repo.ListByCompany(ctx, companyID, false)
	if err != nil {
		return View{}, err
	}
	return s.toView(created, indexByID(all)), nil
}

// Update applies a partial update, guarding against hierarchy cycles.
func (s *Service) Update(ctx context.Context, id int64, form UpdateForm) (View, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	if form.Name != nil {
		account.Name = *form.Name
	}
	if form.AccountTypeID != nil {
		if _, ok := s.catalog.Get(*form.AccountTypeID); !ok {
			return View{}, acctshared.ErrInvalidReference
		}
		account.AccountTypeID = *form.AccountTypeID
	}
	if form.Level != nil {
		account.Level = *form.Level
	}
	if form.IsAnalytical != nil {
		account.IsAnalytical = *form.IsAnalytical
	}
	if form.IsActive != nil {
		account.IsActive = *form.IsActive
	}

	all, err := s.repo.ListByCompany(ctx, account.CompanyID, false)
	if err != nil {
		return View{}, err
	}
	byID := indexByID(all)

	if form.ParentID != nil {
		if *form.ParentID == 0 {
			account.ParentID = nil
		} else {
			parent, ok := byID[*form.ParentID]
			if !ok || parent.CompanyID != account.CompanyID {
				return View{}, acctshared.ErrInvalidReference
			}
			if createsCycle(byID, account.ID, parent.ID) {
				return View{}, acctshared.ErrHierarchyCycle
			}
			account.ParentID = form.ParentID
		}
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return View{}, err
	}
	byID[account.ID] = account
	return s.toView(account, byID), nil
}

func (s *Service) toView(a Account, byID map[int64]Account) View {
	view := View{Account: a, FullCode: FullCode(byID, a.ID)}
	if at, ok := s.catalog.Get(a.AccountTypeID); ok {
		view.AccountTypeName = at.Name
	}
	return view
}

func indexByID(accounts []Account) map[int64]Account {
	byID := make(map[int64]Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return byID
}

// createsCycle reports whether making newParentID the parent of accountID
// would close a loop in the tree.
func createsCycle(byID map[int64]Account, accountID, newParentID int64) bool {
	current := newParentID
	for {
		if current == accountID {
			return true
		}
		node, ok := byID[current]
		if !ok || node.ParentID == nil {
			return false
		}
		current = *node.ParentID
	}
}
