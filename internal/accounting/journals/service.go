package journals

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/razao-erp/razao-erp/internal/accounting/accounts"
	"github.com/razao-erp/razao-erp/internal/accounting/costcenters"
	"github.com/razao-erp/razao-erp/internal/accounting/periods"
	acctshared "github.com/razao-erp/razao-erp/internal/accounting/shared"
	"github.com/razao-erp/razao-erp/internal/shared"
)

// CacheBumper invalidates cached company reports after a ledger change.
type CacheBumper interface {
	Bump(ctx context.Context, companyID int64) error
}

const idempotencyModule = "journals"

type Service struct {
	logger      *slog.Logger
	repo        Repository
	accounts    accounts.Repository
	costCenters costcenters.Repository
	periods     periods.Guard
	audit       *shared.AuditLogger
	cache       CacheBumper
}

func NewService(
	logger *slog.Logger,
	repo Repository,
	accountsRepo accounts.Repository,
	costCentersRepo costcenters.Repository,
	periodGuard periods.Guard,
	audit *shared.AuditLogger,
	cache CacheBumper,
) *Service {
	return &Service{
		logger:      logger,
		repo:        repo,
		accounts:    accountsRepo,
		costCenters: costCentersRepo,
		periods:     periodGuard,
		audit:       audit,
		cache:       cache,
	}
}

// Create stores a draft entry. The lines need not balance yet; balance is
// enforced when the entry is posted. The entry, its lines, the sequential
// number and the idempotency claim commit in one transaction.
func (s *Service) Create(ctx context.Context, companyID, actorID int64, idempotencyKey string, form CreateForm) (Entry, error) {
	entryDate, err := time.Parse("2006-01-02", form.EntryDate)
	if err != nil {
		return Entry{}, acctshared.ErrInvalidReference
	}
	lines, err := toLines(form.Lines)
	if err != nil {
		return Entry{}, err
	}
	total := SumDebits(lines)
	if form.TotalAmount != nil && !form.TotalAmount.Equal(total) {
		return Entry{}, acctshared.ErrTotalMismatch
	}
	if err := s.periods.EnsureOpenForDate(ctx, companyID, entryDate); err != nil {
		return Entry{}, err
	}
	if err := s.checkReferences(ctx, companyID, lines); err != nil {
		return Entry{}, err
	}

	var created Entry
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		if idempotencyKey != "" {
			if err := tx.ClaimIdempotencyKey(ctx, idempotencyKey, idempotencyModule); err != nil {
				return err
			}
		}
		number, err := tx.NextEntryNumber(ctx, companyID)
		if err != nil {
			return err
		}
		created, err = tx.InsertEntry(ctx, Entry{
			CompanyID:   companyID,
			EntryNumber: number,
			EntryDate:   entryDate,
			Description: form.Description,
			DocumentRef: form.DocumentRef,
			TotalAmount: total,
			Status:      StatusDraft,
			CreatedBy:   actorID,
		})
		if err != nil {
			return err
		}
		created.Lines, err = tx.InsertLines(ctx, created.ID, lines)
		return err
	})
	if err != nil {
		return Entry{}, err
	}
	return created, nil
}

// checkReferences verifies every line account is a postable account of the
// company and every cost center belongs to it.
func (s *Service) checkReferences(ctx context.Context, companyID int64, lines []Line) error {
	seenAccounts := make(map[int64]bool, len(lines))
	seenCenters := make(map[int64]bool)
	for _, l := range lines {
		if !seenAccounts[l.AccountID] {
			acc, err := s.accounts.Get(ctx, l.AccountID)
			if err != nil {
				return err
			}
			if acc.CompanyID != companyID {
				return acctshared.ErrInvalidReference
			}
			if !acc.IsAnalytical {
				return acctshared.ErrNotAnalytical
			}
			if !acc.IsActive {
				return acctshared.ErrAccountInactive
			}
			seenAccounts[l.AccountID] = true
		}
		if l.CostCenterID != nil && !seenCenters[*l.CostCenterID] {
			cc, err := s.costCenters.Get(ctx, *l.CostCenterID)
			if err != nil {
				return err
			}
			if cc.CompanyID != companyID {
				return acctshared.ErrInvalidReference
			}
			seenCenters[*l.CostCenterID] = true
		}
	}
	return nil
}

// Post moves a draft entry to posted. The entry row is locked, the balance
// re-validated from stored lines and the status flipped with a CAS, all in
// one transaction.
func (s *Service) Post(ctx context.Context, entryID, actorID int64) (Entry, error) {
	var posted Entry
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != StatusDraft {
			return acctshared.ErrInvalidStatus
		}
		lines, err := tx.LoadLines(ctx, entryID)
		if err != nil {
			return err
		}
		if len(lines) < 2 {
			return acctshared.ErrTooFewLines
		}
		if !Balanced(lines) {
			return acctshared.ErrUnbalanced
		}
		if !SumDebits(lines).Equal(entry.TotalAmount) {
			return acctshared.ErrTotalMismatch
		}
		if err := s.periods.EnsureOpenForDate(ctx, entry.CompanyID, entry.EntryDate); err != nil {
			return err
		}
		if err := tx.MarkPosted(ctx, entryID, actorID); err != nil {
			return err
		}
		posted = entry
		posted.Lines = lines
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	s.afterLedgerChange(ctx, posted.CompanyID, actorID, "journal_entry.post", entryID, map[string]any{
		"entry_number": posted.EntryNumber,
		"total_amount": posted.TotalAmount.String(),
	})
	return s.repo.GetWithLines(ctx, entryID)
}

// Cancel moves a draft or posted entry to cancelled.
func (s *Service) Cancel(ctx context.Context, entryID, actorID int64) (Entry, error) {
	var cancelled Entry
	wasPosted := false
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != StatusDraft && entry.Status != StatusPosted {
			return acctshared.ErrInvalidStatus
		}
		if err := s.periods.EnsureOpenForDate(ctx, entry.CompanyID, entry.EntryDate); err != nil {
			return err
		}
		if err := tx.MarkCancelled(ctx, entryID); err != nil {
			return err
		}
		wasPosted = entry.Status == StatusPosted
		cancelled = entry
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	meta := map[string]any{"entry_number": cancelled.EntryNumber, "was_posted": wasPosted}
	if wasPosted {
		s.afterLedgerChange(ctx, cancelled.CompanyID, actorID, "journal_entry.cancel", entryID, meta)
	} else {
		s.recordAudit(ctx, actorID, "journal_entry.cancel", entryID, meta)
	}
	return s.repo.GetWithLines(ctx, entryID)
}

// Discard hard-deletes a draft entry and its lines.
func (s *Service) Discard(ctx context.Context, entryID, actorID int64) error {
	var companyID int64
	var number string
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		entry, err := tx.GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != StatusDraft {
			return acctshared.ErrInvalidStatus
		}
		companyID = entry.CompanyID
		number = entry.EntryNumber
		return tx.DeleteDraft(ctx, entryID)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "journal_entry.discard", entryID, map[string]any{
		"company_id":   companyID,
		"entry_number": number,
	})
	return nil
}

func (s *Service) Get(ctx context.Context, entryID int64) (Entry, error) {
	return s.repo.GetWithLines(ctx, entryID)
}

func (s *Service) List(ctx context.Context, companyID int64, filter ListFilter) ([]Entry, shared.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}
	entries, total, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return entries, shared.NewPagination(filter.Page, filter.PerPage, total), nil
}

func (s *Service) afterLedgerChange(ctx context.Context, companyID, actorID int64, action string, entryID int64, meta map[string]any) {
	s.recordAudit(ctx, actorID, action, entryID, meta)
	if s.cache != nil {
		if err := s.cache.Bump(ctx, companyID); err != nil {
			s.logger.Warn("bump report cache", slog.Int64("company_id", companyID), slog.Any("error", err))
		}
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entryID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "journal_entry",
		EntityID: strconv.FormatInt(entryID, 10),
		Meta:     meta,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("record audit log", slog.String("action", action), slog.Any("error", err))
	}
}
