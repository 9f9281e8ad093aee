package vehicles

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/louisbranch/autofix/internal/services/vehicles/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeService struct {
	mu        sync.Mutex
	responses [][]domain.Vehicle
	getErr    error
	removeErr error
	getCalls  int
	removed   []int64
	// beforeReturn runs inside GetAll before it returns.
	beforeReturn func()
}

func (f *fakeService) GetAll(context.Context) ([]domain.Vehicle, error) {
	f.mu.Lock()
	f.getCalls++
	var out []domain.Vehicle
	if len(f.responses) > 0 {
		out = f.responses[0]
		if len(f.responses) > 1 {
			f.responses = f.responses[1:]
		}
	}
	err := f.getErr
	hook := f.beforeReturn
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeService) Remove(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

func (f *fakeService) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls, len(f.removed)
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []Report
}

func (r *recordingReporter) Report(_ context.Context, report Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *recordingReporter) outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, 0, len(r.reports))
	for _, report := range r.reports {
		out = append(out, report.Outcome)
	}
	return out
}

var fiesta = domain.Vehicle{
	ID:                 1,
	LicensePlateNumber: "AB123CD",
	Brand:              "Ford",
	Model:              "Fiesta",
	Type:               "Sedan",
	ManufactureYear:    2019,
	EngineType:         "Gasoline",
}

func newView(t *testing.T, svc *fakeService) (*ListView, *recordingReporter, *[]string) {
	t.Helper()
	reporter := &recordingReporter{}
	var paths []string
	view, err := NewListView(ListViewConfig{
		Service:   svc,
		Navigator: NavigatorFunc(func(path string) { paths = append(paths, path) }),
		Reporter:  reporter,
	})
	if err != nil {
		t.Fatalf("new list view: %v", err)
	}
	return view, reporter, &paths
}

func TestNewListViewRequiresService(t *testing.T) {
	t.Parallel()

	if _, err := NewListView(ListViewConfig{}); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestMountFetchesOnceAndKeepsServerOrder(t *testing.T) {
	t.Parallel()

	second := domain.Vehicle{ID: 7, LicensePlateNumber: "ZZ999", Brand: "Fiat"}
	svc := &fakeService{responses: [][]domain.Vehicle{{second, fiesta}}}
	view, reporter, _ := newView(t, svc)

	if got := view.State(); got != StateUnloaded {
		t.Fatalf("initial state = %s", got)
	}
	if len(view.Rows()) != 0 {
		t.Fatal("expected empty rows before mount")
	}
	if err := view.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if gets, removes := svc.counts(); gets != 1 || removes != 0 {
		t.Fatalf("calls = %d gets, %d removes", gets, removes)
	}
	if diff := cmp.Diff([]domain.Vehicle{second, fiesta}, view.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if got := view.State(); got != StateLoaded {
		t.Fatalf("state = %s", got)
	}
	if diff := cmp.Diff([]Outcome{OutcomeListed}, reporter.outcomes()); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestMountFailureKeepsPriorRows(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}}
	view, reporter, _ := newView(t, svc)
	if err := view.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}

	svc.mu.Lock()
	svc.getErr = errors.New("network down")
	svc.mu.Unlock()
	if err := view.Mount(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if diff := cmp.Diff([]domain.Vehicle{fiesta}, view.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Outcome{OutcomeListed, OutcomeListFailed}, reporter.outcomes()); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialFailureShowsEmptyTable(t *testing.T) {
	t.Parallel()

	svc := &fakeService{getErr: errors.New("boom")}
	view, _, _ := newView(t, svc)
	if err := view.Mount(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := view.State(); got != StateUnloaded {
		t.Fatalf("state = %s", got)
	}
	if len(view.Rows()) != 0 {
		t.Fatal("expected empty rows")
	}
}

func TestConfirmedDeleteRemovesThenRefetchesOnce(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}, {}}}
	view, reporter, _ := newView(t, svc)
	ctx := context.Background()
	if err := view.Mount(ctx); err != nil {
		t.Fatalf("mount: %v", err)
	}

	confirmation, err := view.RequestDelete(1)
	if err != nil {
		t.Fatalf("request delete: %v", err)
	}
	if confirmation != (Confirmation{VehicleID: 1, PromptKey: DeletePromptKey}) {
		t.Fatalf("unexpected confirmation %+v", confirmation)
	}
	if gets, removes := svc.counts(); gets != 1 || removes != 0 {
		t.Fatalf("request delete made calls: %d gets, %d removes", gets, removes)
	}

	if err := view.ResolveDelete(ctx, true); err != nil {
		t.Fatalf("resolve delete: %v", err)
	}
	if gets, removes := svc.counts(); gets != 2 || removes != 1 {
		t.Fatalf("calls = %d gets, %d removes", gets, removes)
	}
	if diff := cmp.Diff([]int64{1}, svc.removed); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}
	if len(view.Rows()) != 0 {
		t.Fatalf("expected zero rows, got %d", len(view.Rows()))
	}
	if _, ok := view.Pending(); ok {
		t.Fatal("expected confirmation to be cleared")
	}
	want := []Outcome{OutcomeListed, OutcomeDeleted, OutcomeListed}
	if diff := cmp.Diff(want, reporter.outcomes()); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclinedDeleteMakesNoCalls(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}}
	view, _, _ := newView(t, svc)
	ctx := context.Background()
	if err := view.Mount(ctx); err != nil {
		t.Fatalf("mount: %v", err)
	}

	var asked []Confirmation
	err := view.Delete(ctx, 1, func(c Confirmation) bool {
		asked = append(asked, c)
		return false
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(asked) != 1 || asked[0].VehicleID != 1 {
		t.Fatalf("unexpected confirmations %+v", asked)
	}
	if gets, removes := svc.counts(); gets != 1 || removes != 0 {
		t.Fatalf("calls = %d gets, %d removes", gets, removes)
	}
	if diff := cmp.Diff([]domain.Vehicle{fiesta}, view.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if err := view.Delete(ctx, 1, nil); err != nil {
		t.Fatalf("delete with nil confirmer: %v", err)
	}
	if _, removes := svc.counts(); removes != 0 {
		t.Fatal("nil confirmer must decline")
	}
}

func TestFailedDeleteKeepsRowsAndSkipsRefetch(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}, removeErr: errors.New("404")}
	view, reporter, _ := newView(t, svc)
	ctx := context.Background()
	if err := view.Mount(ctx); err != nil {
		t.Fatalf("mount: %v", err)
	}

	err := view.Delete(ctx, 1, func(Confirmation) bool { return true })
	if err == nil {
		t.Fatal("expected delete error")
	}
	if gets, removes := svc.counts(); gets != 1 || removes != 1 {
		t.Fatalf("calls = %d gets, %d removes", gets, removes)
	}
	if diff := cmp.Diff([]domain.Vehicle{fiesta}, view.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	reporter.mu.Lock()
	last := reporter.reports[len(reporter.reports)-1]
	reporter.mu.Unlock()
	if last.Outcome != OutcomeDeleteFailed || last.VehicleID != 1 || last.Err == nil {
		t.Fatalf("unexpected last report %+v", last)
	}
}

func TestResolveWithoutRequest(t *testing.T) {
	t.Parallel()

	view, _, _ := newView(t, &fakeService{})
	if err := view.ResolveDelete(context.Background(), true); !errors.Is(err, ErrNoPendingConfirmation) {
		t.Fatalf("expected ErrNoPendingConfirmation, got %v", err)
	}
	if _, err := view.RequestDelete(0); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}

func TestNavigationMakesNoCalls(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	view, _, paths := newView(t, svc)

	view.Edit(42)
	view.Create()
	if diff := cmp.Diff([]string{"/vehicles/edit/42", "/vehicles/create"}, *paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if gets, removes := svc.counts(); gets != 0 || removes != 0 {
		t.Fatalf("navigation made calls: %d gets, %d removes", gets, removes)
	}
	if got := view.State(); got != StateUnloaded {
		t.Fatalf("state = %s", got)
	}
}

func TestUnmountDropsLateCompletion(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}}
	view, reporter, _ := newView(t, svc)
	svc.beforeReturn = view.Unmount

	if err := view.Mount(context.Background()); !errors.Is(err, ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted, got %v", err)
	}
	if got := view.State(); got != StateUnmounted {
		t.Fatalf("state = %s", got)
	}
	if len(view.Rows()) != 0 {
		t.Fatal("expected no rows after unmount")
	}
	if len(reporter.outcomes()) != 0 {
		t.Fatalf("dropped completion was reported: %v", reporter.outcomes())
	}
	if err := view.Mount(context.Background()); !errors.Is(err, ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted on remount, got %v", err)
	}
	if gets, _ := svc.counts(); gets != 1 {
		t.Fatalf("unmounted view fetched again: %d gets", gets)
	}
	if _, err := view.RequestDelete(1); !errors.Is(err, ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted, got %v", err)
	}
}

func TestCancelledContextDropsCompletion(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}, beforeReturn: cancel}
	view, _, _ := newView(t, svc)

	if err := view.Mount(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := view.State(); got != StateUnloaded {
		t.Fatalf("state = %s", got)
	}
}

func TestUnmountBeforeResolveMakesNoCalls(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}}
	view, _, _ := newView(t, svc)
	if err := view.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if _, err := view.RequestDelete(1); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	view.Unmount()
	if err := view.ResolveDelete(context.Background(), true); !errors.Is(err, ErrUnmounted) {
		t.Fatalf("expected ErrUnmounted, got %v", err)
	}
	if _, removes := svc.counts(); removes != 0 {
		t.Fatal("unmounted view removed a vehicle")
	}
}

func TestConcurrentMountsAreSafe(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}}
	view, _, _ := newView(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = view.Mount(context.Background())
			_ = view.Rows()
		}()
	}
	wg.Wait()
	if gets, _ := svc.counts(); gets != 8 {
		t.Fatalf("gets = %d", gets)
	}
	if diff := cmp.Diff([]domain.Vehicle{fiesta}, view.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	t.Parallel()

	svc := &fakeService{responses: [][]domain.Vehicle{{fiesta}}}
	view, _, _ := newView(t, svc)
	if err := view.Mount(context.Background()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	rows := view.Rows()
	rows[0].Brand = "Mutated"
	if view.Rows()[0].Brand != "Ford" {
		t.Fatal("Rows must not expose internal state")
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateUnloaded:  "unloaded",
		StateLoaded:    "loaded",
		StateUnmounted: "unmounted",
		State(9):       "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
