package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/accounting/types"
)

type fakeAccountRepo struct {
	byID   map[int64]Account
	nextID int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[int64]Account{}}
}

func (f *fakeAccountRepo) ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]Account, error) {
	var out []Account
	for _, a := range f.byID {
		if a.CompanyID != companyID {
			continue
		}
		if onlyActive && !a.IsActive {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) Get(ctx context.Context, id int64) (Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return Account{}, acctshared.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) Create(ctx context.Context, account Account) (Account, error) {
	f.nextID++
	account.ID = f.nextID
	account.IsActive = true
	f.byID[account.ID] = account
	return account, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account Account) error {
	if _, ok := f.byID[account.ID]; !ok {
		return acctshared.ErrAccountNotFound
	}
	f.byID[account.ID] = account
	return nil
}

func testCatalog() *types.Catalog {
	return types.NewCatalog([]types.AccountType{
		{ID: 1, Code: "1", Name: "Ativo", Nature: types.NatureDebit, Category: types.CategoryAtivo},
		{ID: 2, Code: "2", Name: "Passivo", Nature: types.NatureCredit, Category: types.CategoryPassivo},
	})
}

func TestFullCodeWalksParentChain(t *testing.T) {
	byID := map[int64]Account{
		1: {ID: 1, Code: "1.1"},
		2: {ID: 2, Code: "01", ParentID: ptr(int64(1))},
		3: {ID: 3, Code: "01", ParentID: ptr(int64(2))},
	}
	require.Equal(t, "1.1.01.01", FullCode(byID, 3))
	require.Equal(t, "1.1.01", FullCode(byID, 2))
	require.Equal(t, "1.1", FullCode(byID, 1))
	require.Equal(t, "", FullCode(byID, 99))
}

func TestFullCodeStopsOnBrokenChain(t *testing.T) {
	byID := map[int64]Account{
		2: {ID: 2, Code: "01", ParentID: ptr(int64(1))},
	}
	require.Equal(t, "01", FullCode(byID, 2))
}

func TestFullCodeSurvivesCyclicData(t *testing.T) {
	byID := map[int64]Account{
		1: {ID: 1, Code: "A", ParentID: ptr(int64(2))},
		2: {ID: 2, Code: "B", ParentID: ptr(int64(1))},
	}
	require.Equal(t, "B.A", FullCode(byID, 1))
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := NewService(newFakeAccountRepo(), testCatalog())

	_, err := svc.Create(context.Background(), 10, CreateForm{Code: "1", Name: "Ativo", AccountTypeID: 99})
	require.ErrorIs(t, err, acctshared.ErrInvalidReference)
}

func TestCreateRejectsForeignParent(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewService(repo, testCatalog())

	other, err := svc.Create(context.Background(), 99, CreateForm{Code: "1", Name: "Ativo", AccountTypeID: 1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 10, CreateForm{
		Code: "1.1", Name: "Circulante", AccountTypeID: 1, ParentID: &other.ID,
	})
	require.ErrorIs(t, err, acctshared.ErrInvalidReference)
}

func TestUpdateRejectsReparentingOntoDescendant(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewService(repo, testCatalog())

	root, err := svc.Create(context.Background(), 10, CreateForm{Code: "1", Name: "Ativo", AccountTypeID: 1})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), 10, CreateForm{Code: "1.1", Name: "Circulante", AccountTypeID: 1, ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := svc.Create(context.Background(), 10, CreateForm{Code: "01", Name: "Caixa", AccountTypeID: 1, ParentID: &child.ID})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), root.ID, UpdateForm{ParentID: &grandchild.ID})
	require.ErrorIs(t, err, acctshared.ErrHierarchyCycle)

	_, err = svc.Update(context.Background(), root.ID, UpdateForm{ParentID: &root.ID})
	require.ErrorIs(t, err, acctshared.ErrHierarchyCycle)
}

func TestUpdateDetachesParentWithZero(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewService(repo, testCatalog())

	root, err := svc.Create(context.Background(), 10, CreateForm{Code: "1", Name: "Ativo", AccountTypeID: 1})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), 10, CreateForm{Code: "1.1", Name: "Circulante", AccountTypeID: 1, ParentID: &root.ID})
	require.NoError(t, err)

	zero := int64(0)
	updated, err := svc.Update(context.Background(), child.ID, UpdateForm{ParentID: &zero})
	require.NoError(t, err)
	require.Nil(t, updated.ParentID)
	require.Equal(t, "1.1", updated.FullCode)
}

func TestListDerivesFullCodesThroughInactiveAncestors(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := NewService(repo, testCatalog())

	root, err := svc.Create(context.Background(), 10, CreateForm{Code: "1", Name: "Ativo", AccountTypeID: 1})
	require.NoError(t, err)
	child, err := svc.Create(context.Background(), 10, CreateForm{Code: "1.1", Name: "Circulante", AccountTypeID: 1, ParentID: &root.ID})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(context.Background(), root.ID, UpdateForm{IsActive: &inactive})
	require.NoError(t, err)

	views, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, child.ID, views[0].ID)
	require.Equal(t, "1.1.1", views[0].FullCode)
}

func ptr[T any](v T) *T {
	return &v
}
