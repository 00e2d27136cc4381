// Package modal implements the create/edit/confirm dialog lifecycles. A
// Workflow owns one dialog's mode, edited value, and error surface; commits
// notify the owner so the backing listing can refresh.
package modal

import (
	"context"
	"log/slog"
	"sync"
)

// Mode selects the dialog behavior.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	ModeView
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	}
	return "unknown"
}

// SaveFunc persists the edited value. On failure it may return field-keyed
// validation messages; a "" key carries a general message. The bool reports
// whether the save took effect.
type SaveFunc[T any] func(ctx context.Context, value T) (T, map[string]string, bool)

// Confirmer asks the user a yes/no question and reports an explicit
// affirmative. Anything short of that — dismissal, timeout, error — is false.
type Confirmer func(ctx context.Context, prompt string) bool

// DeleteFunc issues the delete operation for the workflow's subject.
type DeleteFunc func(ctx context.Context) bool

// generalBanner is shown when a failed save carries no message of its own.
const generalBanner = "The operation could not be completed. Please try again."

// Options configures a Workflow.
type Options[T any] struct {
	Save    SaveFunc[T]
	Confirm Confirmer
	// OnCommit runs after a successful save or delete, e.g. to reload the
	// owning listing. Optional.
	OnCommit func()
}

// Workflow drives one dialog from open to commit or cancel.
type Workflow[T any] struct {
	save     SaveFunc[T]
	confirm  Confirmer
	onCommit func()

	mu          sync.Mutex
	open        bool
	mode        Mode
	value       T
	fieldErrors map[string]string
	banner      string
}

// NewWorkflow creates a closed workflow.
func NewWorkflow[T any](opts Options[T]) *Workflow[T] {
	return &Workflow[T]{
		save:     opts.Save,
		confirm:  opts.Confirm,
		onCommit: opts.OnCommit,
	}
}

// Open presents the dialog in the given mode, seeded with the value to edit
// or view. Opening clears any errors left from a previous run.
func (w *Workflow[T]) Open(mode Mode, seed T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = true
	w.mode = mode
	w.value = seed
	w.fieldErrors = nil
	w.banner = ""
}

// IsOpen reports whether the dialog is presented.
func (w *Workflow[T]) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

// Mode returns the current dialog mode.
func (w *Workflow[T]) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Value returns the current edited value.
func (w *Workflow[T]) Value() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// SetValue replaces the edited value, as field bindings do on input.
func (w *Workflow[T]) SetValue(value T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.value = value
}

// FieldError returns the validation message for one field, if any.
func (w *Workflow[T]) FieldError(field string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fieldErrors[field]
}

// Banner returns the general error message, if any.
func (w *Workflow[T]) Banner() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.banner
}

// Submit commits the dialog. In view mode it simply closes. Otherwise it runs
// the save; on success the dialog closes and the saved DTO is returned. On a
// failed save the dialog stays open with field errors and a banner set, and
// the committed flag is false.
func (w *Workflow[T]) Submit(ctx context.Context) (result T, committed bool) {
	w.mu.Lock()
	if !w.open {
		w.mu.Unlock()
		return result, false
	}
	if w.mode == ModeView {
		w.open = false
		w.mu.Unlock()
		return result, false
	}
	value := w.value
	mode := w.mode
	w.mu.Unlock()

	saved, errs, ok := w.save(ctx, value)

	w.mu.Lock()
	if !ok {
		w.fieldErrors = make(map[string]string, len(errs))
		for field, msg := range errs {
			if field != "" {
				w.fieldErrors[field] = msg
			}
		}
		w.banner = errs[""]
		if w.banner == "" {
			w.banner = generalBanner
		}
		w.mu.Unlock()
		slog.Warn("dialog save rejected", "mode", mode.String(), "field_errors", len(errs))
		return result, false
	}
	w.value = saved
	w.fieldErrors = nil
	w.banner = ""
	w.open = false
	w.mu.Unlock()

	w.notifyCommit()
	return saved, true
}

// Cancel closes the dialog without committing.
func (w *Workflow[T]) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	w.fieldErrors = nil
	w.banner = ""
}

// ConfirmDelete asks for an explicit affirmative and only then issues the
// delete. Without a confirmer the delete never runs.
func (w *Workflow[T]) ConfirmDelete(ctx context.Context, prompt string, del DeleteFunc) bool {
	if w.confirm == nil || !w.confirm(ctx, prompt) {
		return false
	}
	if !del(ctx) {
		w.mu.Lock()
		w.banner = generalBanner
		w.mu.Unlock()
		return false
	}
	w.mu.Lock()
	w.open = false
	w.banner = ""
	w.fieldErrors = nil
	w.mu.Unlock()

	w.notifyCommit()
	return true
}

func (w *Workflow[T]) notifyCommit() {
	if w.onCommit != nil {
		w.onCommit()
	}
}
