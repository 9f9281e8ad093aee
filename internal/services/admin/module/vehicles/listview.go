// Package vehicles holds the admin vehicle list view and its routes.
package vehicles

import (
	"context"
	"errors"
	"sync"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	routepath "github.com/louisbranch/autofix/internal/services/admin/routepath"
	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

// DeletePromptKey is the catalog key of the delete confirmation prompt.
const DeletePromptKey = "vehicles.confirm.delete"

var (
	// ErrUnmounted is returned by operations on a view that was unmounted.
	ErrUnmounted = errors.New("vehicle list view is unmounted")
	// ErrNoPendingConfirmation is returned when resolving without a request.
	ErrNoPendingConfirmation = errors.New("no pending delete confirmation")
)

// VehicleService is the remote collaborator of the list view.
type VehicleService interface {
	GetAll(ctx context.Context) ([]domain.Vehicle, error)
	Remove(ctx context.Context, id int64) error
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// State is the lifecycle position of a list view.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateUnmounted
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// Confirmation is a pending delete awaiting the user's answer.
type Confirmation struct {
	VehicleID int64
	PromptKey string
}

// Confirmer answers a delete confirmation.
type Confirmer func(Confirmation) bool

// ListViewConfig injects the list view collaborators. Service is required.
type ListViewConfig struct {
	Service   VehicleService
	Navigator Navigator
	Reporter  Reporter
}

// ListView tracks the vehicles shown on the list screen.
//
// Rows are a snapshot of the server at the last successful fetch and are only
// replaced wholesale. Completions that arrive after Unmount, or whose context
// is already done, never touch the rows.
type ListView struct {
	service   VehicleService
	navigator Navigator
	reporter  Reporter

	mu      sync.Mutex
	state   State
	rows    []domain.Vehicle
	pending *Confirmation
}

// NewListView builds an unloaded list view.
func NewListView(cfg ListViewConfig) (*ListView, error) {
	if cfg.Service == nil {
		return nil, errors.New("vehicle service is required")
	}
	navigator := cfg.Navigator
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &ListView{
		service:   cfg.Service,
		navigator: navigator,
		reporter:  reporter,
		state:     StateUnloaded,
		rows:      []domain.Vehicle{},
	}, nil
}

// Mount performs exactly one fetch of all vehicles. On failure the previous
// rows are kept and the error is reported.
func (v *ListView) Mount(ctx context.Context) error {
	if err := v.alive(ctx); err != nil {
		return err
	}
	return v.fetch(ctx)
}

// RequestDelete opens the confirmation for id. It makes no remote call.
func (v *ListView) RequestDelete(id int64) (Confirmation, error) {
	if id <= 0 {
		return Confirmation{}, apperrors.E(apperrors.KindInvalidInput, "vehicle id must be positive")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == StateUnmounted {
		return Confirmation{}, ErrUnmounted
	}
	confirmation := Confirmation{VehicleID: id, PromptKey: DeletePromptKey}
	v.pending = &confirmation
	return confirmation, nil
}

// Pending returns the open confirmation, if any.
func (v *ListView) Pending() (Confirmation, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending == nil {
		return Confirmation{}, false
	}
	return *v.pending, true
}

// ResolveDelete answers the open confirmation. A declined delete makes no
// remote call. A confirmed delete removes the vehicle and, on success only,
// fetches the list once more.
func (v *ListView) ResolveDelete(ctx context.Context, confirmed bool) error {
	v.mu.Lock()
	if v.state == StateUnmounted {
		v.mu.Unlock()
		return ErrUnmounted
	}
	if v.pending == nil {
		v.mu.Unlock()
		return ErrNoPendingConfirmation
	}
	id := v.pending.VehicleID
	v.pending = nil
	v.mu.Unlock()

	if !confirmed {
		return nil
	}
	if err := v.service.Remove(ctx, id); err != nil {
		v.reporter.Report(ctx, Report{Outcome: OutcomeDeleteFailed, VehicleID: id, Err: err})
		return err
	}
	if err := v.alive(ctx); err != nil {
		return err
	}
	v.reporter.Report(ctx, Report{Outcome: OutcomeDeleted, VehicleID: id})
	return v.fetch(ctx)
}

// Delete asks confirm and resolves the delete with its answer. A nil
// confirm declines.
func (v *ListView) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	confirmation, err := v.RequestDelete(id)
	if err != nil {
		return err
	}
	confirmed := confirm != nil && confirm(confirmation)
	return v.ResolveDelete(ctx, confirmed)
}

// Edit navigates to the edit screen of id.
func (v *ListView) Edit(id int64) {
	v.navigator.Navigate(routepath.VehicleEdit(id))
}

// Create navigates to the create screen.
func (v *ListView) Create() {
	v.navigator.Navigate(routepath.VehiclesCreate)
}

// Rows returns a copy of the current rows in display order.
func (v *ListView) Rows() []domain.Vehicle {
	v.mu.Lock()
	defer v.mu.Unlock()
	rows := make([]domain.Vehicle, len(v.rows))
	copy(rows, v.rows)
	return rows
}

// State returns the lifecycle state.
func (v *ListView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Unmount discards the rows and any pending confirmation. Later completions
// are dropped.
func (v *ListView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = StateUnmounted
	v.rows = nil
	v.pending = nil
}

func (v *ListView) fetch(ctx context.Context) error {
	vehicles, err := v.service.GetAll(ctx)
	if err != nil {
		v.reporter.Report(ctx, Report{Outcome: OutcomeListFailed, Err: err})
		return err
	}

	v.mu.Lock()
	if err := v.aliveLocked(ctx); err != nil {
		v.mu.Unlock()
		return err
	}
	rows := make([]domain.Vehicle, len(vehicles))
	copy(rows, vehicles)
	v.rows = rows
	v.state = StateLoaded
	v.mu.Unlock()

	v.reporter.Report(ctx, Report{Outcome: OutcomeListed, Count: len(rows)})
	return nil
}

func (v *ListView) alive(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.aliveLocked(ctx)
}

func (v *ListView) aliveLocked(ctx context.Context) error {
	if v.state == StateUnmounted {
		return ErrUnmounted
	}
	return ctx.Err()
}
