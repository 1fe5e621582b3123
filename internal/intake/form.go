package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"booking-workers/internal/models"
)

// Form owns one requester's draft across edits and submit attempts.
type Form struct {
	pipeline *Pipeline

	mu          sync.Mutex
	draft       models.BookingRequestDraft
	fieldErrors FieldErrors
	submitting  bool
	succeeded   bool
	message     string
	closed      bool
	cancel      context.CancelFunc
}

func NewForm(p *Pipeline) *Form {
	return &Form{
		pipeline:    p,
		draft:       NewDraft(),
		fieldErrors: FieldErrors{},
	}
}

// ErrUnknownField is returned by UpdateField for keys that are not draft fields.
var ErrUnknownField = errors.New("unknown field")

// UpdateField sets a text field by its JSON key and clears that field's error.
func (f *Form) UpdateField(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := &f.draft
	switch key {
	case "requesterName":
		d.RequesterName = value
	case "companyName":
		d.CompanyName = value
	case "email":
		d.Email = value
	case "phone":
		d.Phone = value
	case "password":
		d.Password = value
	case "passwordConfirmation":
		d.PasswordConfirmation = value
	case "city":
		d.City = value
	case "postcode":
		d.Postcode = value
	case "teamSize":
		d.TeamSize = models.FormValue(value)
	case "budgetPerNight":
		d.BudgetPerNight = models.FormValue(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	f.fieldErrors.Clear(key)
	return nil
}

func (f *Form) SetTermsAccepted(accepted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.TermsAccepted = accepted
}

// AddDateRange appends an empty row and returns its id.
func (f *Form) AddDateRange() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return AddDateRange(&f.draft)
}

func (f *Form) RemoveDateRange(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := RemoveDateRange(&f.draft, id); err != nil {
		return err
	}
	f.fieldErrors.ClearDateRange(id)
	return nil
}

// SetDateRange edits one row and clears its errors.
func (f *Form) SetDateRange(id, startDate, endDate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := SetDateRange(&f.draft, id, startDate, endDate); err != nil {
		return err
	}
	f.fieldErrors.ClearDateRange(id)
	return nil
}

// Submit runs the pipeline on a snapshot of the draft. On success the draft is
// reset; on any failure the submitting flag is cleared and the error recorded.
// A result arriving after Close is dropped and ErrFormClosed returned.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFormClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.submitting = true
	f.succeeded = false
	f.message = ""
	snapshot := copyDraft(f.draft)
	f.mu.Unlock()

	_, err := f.pipeline.Submit(ctx, snapshot)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.cancel = nil
	if f.closed {
		return ErrFormClosed
	}

	f.fieldErrors = FieldErrors{}
	var fieldErr *FieldValidationError
	if errors.As(err, &fieldErr) {
		f.fieldErrors.Merge(fieldErr.Fields)
	}

	if err != nil {
		f.message = UserMessage(err)
		return err
	}
	f.draft = NewDraft()
	f.succeeded = true
	return nil
}

// Close abandons the form. Any in-flight submit is cancelled and its result discarded.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
}

// State is a read-only snapshot for rendering.
type State struct {
	Draft       models.BookingRequestDraft
	FieldErrors FieldErrors
	Submitting  bool
	Succeeded   bool
	Message     string
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	fe := make(FieldErrors, len(f.fieldErrors))
	fe.Merge(f.fieldErrors)
	return State{
		Draft:       copyDraft(f.draft),
		FieldErrors: fe,
		Submitting:  f.submitting,
		Succeeded:   f.succeeded,
		Message:     f.message,
	}
}

func copyDraft(d models.BookingRequestDraft) models.BookingRequestDraft {
	d.BookingDateRanges = append([]models.DateRangeEntry(nil), d.BookingDateRanges...)
	return d
}
