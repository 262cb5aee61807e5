package costcenters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
)

type fakeCostCenterRepo struct {
	centers map[int64]CostCenter
	nextID  int64
}

func newFakeCostCenterRepo() *fakeCostCenterRepo {
	return &fakeCostCenterRepo{centers: map[int64]CostCenter{}, nextID: 1}
}

func (f *fakeCostCenterRepo) ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]CostCenter, error) {
	var out []CostCenter
	for _, cc := range f.centers {
		if cc.CompanyID != companyID {
			continue
		}
		if onlyActive && !cc.IsActive {
			continue
		}
		out = append(out, cc)
	}
	return out, nil
}

func (f *fakeCostCenterRepo) Get(ctx context.Context, id int64) (CostCenter, error) {
	cc, ok := f.centers[id]
	if !ok {
		return CostCenter{}, acctshared.ErrInvalidReference
	}
	return cc, nil
}

func (f *fakeCostCenterRepo) Create(ctx context.Context, cc CostCenter) (CostCenter, error) {
	cc.ID = f.nextID
	cc.IsActive = true
	f.nextID++
	f.centers[cc.ID] = cc
	return cc, nil
}

func (f *fakeCostCenterRepo) Update(ctx context.Context, cc CostCenter) error {
	if _, ok := f.centers[cc.ID]; !ok {
		return acctshared.ErrInvalidReference
	}
	f.centers[cc.ID] = cc
	return nil
}

func (f *fakeCostCenterRepo) add(companyID int64, parentID *int64) int64 {
	cc, _ := f.Create(context.Background(), CostCenter{CompanyID: companyID, Code: "CC", Name: "fake", ParentID: parentID})
	return cc.ID
}

func TestCreateRejectsForeignParent(t *testing.T) {
	repo := newFakeCostCenterRepo()
	otherCompany := repo.add(99, nil)
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), 10, CreateForm{Code: "ADM", Name: "Administrativo", ParentID: &otherCompany})
	require.ErrorIs(t, err, acctshared.ErrInvalidReference)
}

func TestUpdateRejectsReparentCycle(t *testing.T) {
	repo := newFakeCostCenterRepo()
	root := repo.add(10, nil)
	child := repo.add(10, &root)
	grandchild := repo.add(10, &child)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), root, UpdateForm{ParentID: &grandchild})
	require.ErrorIs(t, err, acctshared.ErrHierarchyCycle)

	_, err = svc.Update(context.Background(), child, UpdateForm{ParentID: &child})
	require.ErrorIs(t, err, acctshared.ErrHierarchyCycle)
}

func TestUpdateDetachesParentWithZero(t *testing.T) {
	repo := newFakeCostCenterRepo()
	root := repo.add(10, nil)
	child := repo.add(10, &root)
	svc := NewService(repo)

	zero := int64(0)
	updated, err := svc.Update(context.Background(), child, UpdateForm{ParentID: &zero})
	require.NoError(t, err)
	require.Nil(t, updated.ParentID)
}

func TestUpdateReparentWithinCompany(t *testing.T) {
	repo := newFakeCostCenterRepo()
	a := repo.add(10, nil)
	b := repo.add(10, nil)
	svc := NewService(repo)

	updated, err := svc.Update(context.Background(), b, UpdateForm{ParentID: &a})
	require.NoError(t, err)
	require.Equal(t, a, *updated.ParentID)
}
