package journals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/razao-erp/razao-erp/internal/accounting/accounts"
	"github.com/razao-erp/razao-erp/internal/accounting/costcenters"
	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/shared"
)

type fakeRepo struct {
	entries   map[int64]*Entry
	lines     map[int64][]Line
	counters  map[int64]int64
	keys      map[string]bool
	nextID    int64
	failLines bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entries:  map[int64]*Entry{},
		lines:    map[int64][]Line{},
		counters: map[int64]int64{},
		keys:     map[string]bool{},
	}
}

// WithTx snapshots state and restores it when fn fails, mimicking rollback.
func (f *fakeRepo) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	entries := make(map[int64]*Entry, len(f.entries))
	for id, e := range f.entries {
		copied := *e
		entries[id] = &copied
	}
	lines := make(map[int64][]Line, len(f.lines))
	for id, ls := range f.lines {
		lines[id] = append([]Line(nil), ls...)
	}
	counters := make(map[int64]int64, len(f.counters))
	for id, n := range f.counters {
		counters[id] = n
	}
	keys := make(map[string]bool, len(f.keys))
	for k := range f.keys {
		keys[k] = true
	}
	if err := fn(f); err != nil {
		f.entries, f.lines, f.counters, f.keys = entries, lines, counters, keys
		return err
	}
	return nil
}

func (f *fakeRepo) ClaimIdempotencyKey(ctx context.Context, key, module string) error {
	if f.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	f.keys[key] = true
	return nil
}

func (f *fakeRepo) GetWithLines(ctx context.Context, id int64) (Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return Entry{}, acctshared.ErrEntryNotFound
	}
	out := *e
	out.Lines = append([]Line(nil), f.lines[id]...)
	return out, nil
}

func (f *fakeRepo) List(ctx context.Context, companyID int64, filter ListFilter) ([]Entry, int, error) {
	var out []Entry
	for _, e := range f.entries {
		if e.CompanyID != companyID {
			continue
		}
		if filter.Status != "" && string(e.Status) != filter.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (f *fakeRepo) NextEntryNumber(ctx context.Context, companyID int64) (string, error) {
	f.counters[companyID]++
	return fmt.Sprintf("LC%06d", f.counters[companyID]), nil
}

func (f *fakeRepo) InsertEntry(ctx context.Context, entry Entry) (Entry, error) {
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	copied := entry
	f.entries[entry.ID] = &copied
	return entry, nil
}

func (f *fakeRepo) InsertLines(ctx context.Context, entryID int64, lines []Line) ([]Line, error) {
	if f.failLines {
		return nil, errors.New("insert lines failed")
	}
	stored := make([]Line, 0, len(lines))
	for _, l := range lines {
		f.nextID++
		l.ID = f.nextID
		l.EntryID = entryID
		stored = append(stored, l)
	}
	f.lines[entryID] = stored
	return stored, nil
}

func (f *fakeRepo) GetEntryForUpdate(ctx context.Context, id int64) (Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return Entry{}, acctshared.ErrEntryNotFound
	}
	return *e, nil
}

func (f *fakeRepo) LoadLines(ctx context.Context, entryID int64) ([]Line, error) {
	return append([]Line(nil), f.lines[entryID]...), nil
}

func (f *fakeRepo) MarkPosted(ctx context.Context, id, postedBy int64) error {
	e, ok := f.entries[id]
	if !ok || e.Status != StatusDraft {
		return acctshared.ErrInvalidStatus
	}
	now := time.Now()
	e.Status = StatusPosted
	e.PostedAt = &now
	e.PostedBy = &postedBy
	return nil
}

func (f *fakeRepo) MarkCancelled(ctx context.Context, id int64) error {
	e, ok := f.entries[id]
	if !ok || (e.Status != StatusDraft && e.Status != StatusPosted) {
		return acctshared.ErrInvalidStatus
	}
	now := time.Now()
	e.Status = StatusCancelled
	e.CancelledAt = &now
	return nil
}

func (f *fakeRepo) DeleteDraft(ctx context.Context, id int64) error {
	e, ok := f.entries[id]
	if !ok || e.Status != StatusDraft {
		return acctshared.ErrInvalidStatus
	}
	delete(f.entries, id)
	delete(f.lines, id)
	return nil
}

type fakeAccounts struct {
	byID map[int64]accounts.Account
}

func (f *fakeAccounts) ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]accounts.Account, error) {
	var out []accounts.Account
	for _, a := range f.byID {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) Get(ctx context.Context, id int64) (accounts.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return accounts.Account{}, acctshared.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccounts) Create(ctx context.Context, a accounts.Account) (accounts.Account, error) {
	return a, nil
}

func (f *fakeAccounts) Update(ctx context.Context, a accounts.Account) error {
	return nil
}

type fakeCostCenters struct {
	byID map[int64]costcenters.CostCenter
}

func (f *fakeCostCenters) ListByCompany(ctx context.Context, companyID int64, onlyActive bool) ([]costcenters.CostCenter, error) {
	return nil, nil
}

func (f *fakeCostCenters) Get(ctx context.Context, id int64) (costcenters.CostCenter, error) {
	cc, ok := f.byID[id]
	if !ok {
		return costcenters.CostCenter{}, acctshared.ErrInvalidReference
	}
	return cc, nil
}

func (f *fakeCostCenters) Create(ctx context.Context, cc costcenters.CostCenter) (costcenters.CostCenter, error) {
	return cc, nil
}

func (f *fakeCostCenters) Update(ctx context.Context, cc costcenters.CostCenter) error {
	return nil
}

type fakeGuard struct {
	closed bool
}

func (f *fakeGuard) EnsureOpenForDate(ctx context.Context, companyID int64, date time.Time) error {
	if f.closed {
		return acctshared.ErrPeriodClosed
	}
	return nil
}

type fakeBumper struct {
	bumps []int64
}

func (f *fakeBumper) Bump(ctx context.Context, companyID int64) error {
	f.bumps = append(f.bumps, companyID)
	return nil
}

func newTestService(repo *fakeRepo, guard *fakeGuard, bumper *fakeBumper) *Service {
	accts := &fakeAccounts{byID: map[int64]accounts.Account{
		1: {ID: 1, CompanyID: 10, Code: "01", IsAnalytical: true, IsActive: true},
		2: {ID: 2, CompanyID: 10, Code: "02", IsAnalytical: true, IsActive: true},
		3: {ID: 3, CompanyID: 10, Code: "1", IsAnalytical: false, IsActive: true},
		4: {ID: 4, CompanyID: 10, Code: "03", IsAnalytical: true, IsActive: false},
		5: {ID: 5, CompanyID: 99, Code: "01", IsAnalytical: true, IsActive: true},
	}}
	centers := &fakeCostCenters{byID: map[int64]costcenters.CostCenter{
		7: {ID: 7, CompanyID: 10, Code: "CC01"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, accts, centers, guard, nil, bumper)
}

func balancedForm() CreateForm {
	return CreateForm{
		EntryDate:   "2026-03-10",
		Description: "Venda a vista",
		Lines: []LineForm{
			{AccountID: 1, Debit: decimal.NewFromInt(100)},
			{AccountID: 2, Credit: decimal.NewFromInt(100)},
		},
	}
}

func TestCreateStoresDraftWithSequentialNumber(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	first, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)
	require.Equal(t, StatusDraft, first.Status)
	require.Equal(t, "LC000001", first.EntryNumber)
	require.True(t, first.TotalAmount.Equal(decimal.NewFromInt(100)))
	require.Len(t, first.Lines, 2)

	second, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)
	require.Equal(t, "LC000002", second.EntryNumber)
}

func TestCreatePersistsUnbalancedDraft(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	form.Lines[0].Debit = decimal.NewFromInt(500)
	form.Lines[1].Credit = decimal.NewFromInt(400)
	entry, err := svc.Create(context.Background(), 10, 1, "", form)
	require.NoError(t, err)
	require.Equal(t, StatusDraft, entry.Status)
	require.True(t, entry.TotalAmount.Equal(decimal.NewFromInt(500)))

	// Posting is where balance is enforced; the entry stays a draft.
	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrUnbalanced)
	require.Equal(t, StatusDraft, repo.entries[entry.ID].Status)
}

func TestCreateRejectsTwoSidedLine(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	form.Lines[0].Credit = decimal.NewFromInt(50)
	_, err := svc.Create(context.Background(), 10, 1, "", form)
	require.ErrorIs(t, err, acctshared.ErrUnbalanced)
}

func TestCreateRejectsDuplicateIdempotencyKey(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	_, err := svc.Create(context.Background(), 10, 1, "req-1", balancedForm())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), 10, 1, "req-1", balancedForm())
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
}

func TestCreateFailureReleasesIdempotencyKey(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	repo.failLines = true
	_, err := svc.Create(context.Background(), 10, 1, "req-2", balancedForm())
	require.Error(t, err)

	// The claim rolled back with the entry, so the retry goes through.
	repo.failLines = false
	entry, err := svc.Create(context.Background(), 10, 1, "req-2", balancedForm())
	require.NoError(t, err)
	require.Equal(t, StatusDraft, entry.Status)
}

func TestCreateRejectsTooFewLines(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	form.Lines = form.Lines[:1]
	_, err := svc.Create(context.Background(), 10, 1, "", form)
	require.ErrorIs(t, err, acctshared.ErrTooFewLines)
}

func TestCreateRejectsTotalMismatch(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	wrong := decimal.NewFromInt(120)
	form.TotalAmount = &wrong
	_, err := svc.Create(context.Background(), 10, 1, "", form)
	require.ErrorIs(t, err, acctshared.ErrTotalMismatch)
}

func TestCreateRejectsSyntheticAccount(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	form.Lines[0].AccountID = 3
	_, err := svc.Create(context.Background(), 10, 1, "", form)
	require.ErrorIs(t, err, acctshared.ErrNotAnalytical)
}

func TestCreateRejectsInactiveAccount(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	form.Lines[0].AccountID = 4
	_, err := svc.Create(context.Background(), 10, 1, "", form)
	require.ErrorIs(t, err, acctshared.ErrAccountInactive)
}

func TestCreateRejectsForeignCompanyAccount(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	form.Lines[0].AccountID = 5
	_, err := svc.Create(context.Background(), 10, 1, "", form)
	require.ErrorIs(t, err, acctshared.ErrInvalidReference)
}

func TestCreateRejectsClosedPeriod(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{closed: true}, &fakeBumper{})

	_, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.ErrorIs(t, err, acctshared.ErrPeriodClosed)
}

func TestPostFlipsDraftAndBumpsCache(t *testing.T) {
	repo := newFakeRepo()
	bumper := &fakeBumper{}
	svc := newTestService(repo, &fakeGuard{}, bumper)

	entry, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)

	posted, err := svc.Post(context.Background(), entry.ID, 2)
	require.NoError(t, err)
	require.Equal(t, StatusPosted, posted.Status)
	require.NotNil(t, posted.PostedAt)
	require.Equal(t, []int64{10}, bumper.bumps)
}

func TestPostRejectsSecondPost(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	entry, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.NoError(t, err)

	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrInvalidStatus)
}

func TestPostRevalidatesStoredLines(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	entry, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)

	// Corrupt the stored lines out of band; post must catch it.
	repo.lines[entry.ID][1].Credit = decimal.NewFromInt(90)
	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrUnbalanced)
	require.Equal(t, StatusDraft, repo.entries[entry.ID].Status)
}

func TestPostRejectsClosedPeriod(t *testing.T) {
	repo := newFakeRepo()
	guard := &fakeGuard{}
	svc := newTestService(repo, guard, &fakeBumper{})

	entry, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)

	guard.closed = true
	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrPeriodClosed)
	require.Equal(t, StatusDraft, repo.entries[entry.ID].Status)
}

func TestCancelPostedEntry(t *testing.T) {
	repo := newFakeRepo()
	bumper := &fakeBumper{}
	svc := newTestService(repo, &fakeGuard{}, bumper)

	entry, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), entry.ID, 1)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, cancelled.Status)
	require.Len(t, bumper.bumps, 2)
}

func TestCancelIsTerminal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	entry, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), entry.ID, 1)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), entry.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrInvalidStatus)
	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrInvalidStatus)
}

func TestDiscardDeletesDraftOnly(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	draft, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)
	require.NoError(t, svc.Discard(context.Background(), draft.ID, 1))
	_, err = svc.Get(context.Background(), draft.ID)
	require.ErrorIs(t, err, acctshared.ErrEntryNotFound)

	posted, err := svc.Create(context.Background(), 10, 1, "", balancedForm())
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), posted.ID, 1)
	require.NoError(t, err)
	err = svc.Discard(context.Background(), posted.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrInvalidStatus)
}

func TestCreateAcceptsCostCenterOfSameCompany(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGuard{}, &fakeBumper{})

	form := balancedForm()
	ccID := int64(7)
	form.Lines[0].CostCenterID = &ccID
	entry, err := svc.Create(context.Background(), 10, 1, "", form)
	require.NoError(t, err)
	require.Equal(t, &ccID, entry.Lines[0].CostCenterID)

	unknown := int64(99)
	form = balancedForm()
	form.Lines[0].CostCenterID = &unknown
	_, err = svc.Create(context.Background(), 10, 1, "", form)
	require.ErrorIs(t, err, acctshared.ErrInvalidReference)
}

func TestPostEnforcesExactDecimalBalance(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGuard{}, &fakeBumper{})

	form := CreateForm{
		EntryDate:   "2026-03-10",
		Description: "Rateio",
		Lines: []LineForm{
			{AccountID: 1, Debit: decimal.RequireFromString("33.33")},
			{AccountID: 1, Debit: decimal.RequireFromString("66.67")},
			{AccountID: 2, Credit: decimal.RequireFromString("100.00")},
		},
	}
	entry, err := svc.Create(context.Background(), 10, 1, "", form)
	require.NoError(t, err)
	require.True(t, entry.TotalAmount.Equal(decimal.RequireFromString("100.00")))
	_, err = svc.Post(context.Background(), entry.ID, 1)
	require.NoError(t, err)

	// A one-cent drift persists as a draft but never posts.
	form.Lines[0].Debit = decimal.RequireFromString("33.34")
	drifted, err := svc.Create(context.Background(), 10, 1, "", form)
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), drifted.ID, 1)
	require.ErrorIs(t, err, acctshared.ErrUnbalanced)
	require.Equal(t, StatusDraft, repo.entries[drifted.ID].Status)
}
