package shared

import "errors"

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("accounting: journal requires at least two lines")
	// ErrEntryNotFound indicates missing journal entry.
	ErrEntryNotFound = errors.New("accounting: journal entry not found")
	// ErrInvalidStatus indicates the lifecycle transition is not allowed.
	ErrInvalidStatus = errors.New("accounting: invalid status transition")
	// ErrPeriodClosed indicates the fiscal period covering the date is closed.
	ErrPeriodClosed = errors.New("accounting: fiscal period is closed")
	// ErrDuplicateCode indicates a code collision within the company.
	ErrDuplicateCode = errors.New("accounting: code already exists for company")
	// ErrInvalidReference indicates an account/type/parent/cost-center that does not resolve.
	ErrInvalidReference = errors.New("accounting: referenced record not found")
	// ErrHierarchyCycle indicates a parent update would create a cycle.
	ErrHierarchyCycle = errors.New("accounting: hierarchy cycle detected")
	// ErrAccountNotFound indicates missing ledger account.
	ErrAccountNotFound = errors.New("accounting: account not found")
	// ErrNotAnalytical indicates a posting against a synthetic account.
	ErrNotAnalytical = errors.New("accounting: account does not accept postings")
	// ErrAccountInactive indicates a posting against a deactivated account.
	ErrAccountInactive = errors.New("accounting: account is inactive")
	// ErrTotalMismatch indicates a caller-supplied total disagreeing with the lines.
	ErrTotalMismatch = errors.New("accounting: total_amount does not match lines")
)
