package viewstate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AngelCh415/sem_planner/internal/models"
	"github.com/AngelCh415/sem_planner/internal/planapi"
)

var sampleRequest = models.PlanRequest{
	BrandURL:             "https://a.com",
	CompetitorURL:        "https://b.com",
	ServiceLocations:     "USA",
	SearchAdsBudget:      5000,
	ShoppingAdsBudget:    7000,
	PMaxAdsBudget:        8000,
	AverageProductPrice:  110,
	TargetROASPercentage: 400,
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// fakeService bloquea cada Submit hasta recibir un resultado por release.
type fakeService struct {
	calls   atomic.Int32
	started chan struct{}
	release chan result
}

type result struct {
	resp *models.PlanResponse
	err  error
}

func newFakeService() *fakeService {
	return &fakeService{started: make(chan struct{}, 4), release: make(chan result, 4)}
}

func (f *fakeService) Submit(ctx context.Context, req models.PlanRequest) (*models.PlanResponse, error) {
	f.calls.Add(1)
	f.started <- struct{}{}
	r := <-f.release
	return r.resp, r.err
}

type recorder struct {
	mu     sync.Mutex
	states []Status
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s.Status)
}

func (r *recorder) got() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.states...)
}

func equalStatuses(a, b []Status) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestInitialStateIsIdle(t *testing.T) {
	m := NewMachine(newFakeService(), quietLogger(), nil)
	if st := m.Current(); st.Status != Idle || st.Response != nil || st.Message != "" {
		t.Fatalf("unexpected initial state %+v", st)
	}
}

func TestSubmitSuccessTransitions(t *testing.T) {
	f := newFakeService()
	m := NewMachine(f, quietLogger(), nil)
	rec := &recorder{}
	m.OnChange(rec.record)

	plan := &models.PlanResponse{PMaxPlan: &models.PMaxPlan{SearchThemes: []string{"a"}}}
	f.release <- result{resp: plan}

	st, err := m.Submit(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != Success || st.Response != plan || st.Message != "" {
		t.Fatalf("unexpected final state %+v", st)
	}
	if want := []Status{Submitting, Success}; !equalStatuses(rec.got(), want) {
		t.Fatalf("transitions = %v, want %v", rec.got(), want)
	}
}

func TestSubmitFailureTransitions(t *testing.T) {
	f := newFakeService()
	m := NewMachine(f, quietLogger(), nil)
	rec := &recorder{}
	m.OnChange(rec.record)

	f.release <- result{err: &planapi.ServiceError{Status: 422, Message: "average_product_price must be positive"}}
	st, err := m.Submit(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != Failure || st.Message != "average_product_price must be positive" || st.Response != nil {
		t.Fatalf("unexpected final state %+v", st)
	}
	if want := []Status{Submitting, Failure}; !equalStatuses(rec.got(), want) {
		t.Fatalf("transitions = %v, want %v", rec.got(), want)
	}
}

func TestTransportFailureUsesGenericMessage(t *testing.T) {
	f := newFakeService()
	m := NewMachine(f, quietLogger(), nil)
	f.release <- result{err: &planapi.TransportError{URL: "http://x/plan", Err: errors.New("connection refused")}}

	st, _ := m.Submit(context.Background(), sampleRequest)
	if st.Status != Failure || st.Message != planapi.GenericMessage {
		t.Fatalf("unexpected final state %+v", st)
	}
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	f := newFakeService()
	m := NewMachine(f, quietLogger(), nil)

	done, err := m.Start(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-f.started

	if m.Current().Status != Submitting {
		t.Fatalf("expected Submitting, got %v", m.Current().Status)
	}
	before := m.Current()

	if _, err := m.Submit(context.Background(), sampleRequest); !errors.Is(err, ErrInFlight) {
		t.Fatalf("Submit while in flight: got %v, want ErrInFlight", err)
	}
	if _, err := m.Start(context.Background(), sampleRequest); !errors.Is(err, ErrInFlight) {
		t.Fatalf("Start while in flight: got %v, want ErrInFlight", err)
	}
	if m.Current() != before {
		t.Fatalf("state changed by rejected submit: %+v", m.Current())
	}
	if n := f.calls.Load(); n != 1 {
		t.Fatalf("expected one network call, got %d", n)
	}

	f.release <- result{resp: &models.PlanResponse{}}
	final := <-done
	if final.Status != Success {
		t.Fatalf("final = %+v", final)
	}
	if _, ok := <-done; ok {
		t.Fatal("done channel should be closed after delivering the final state")
	}
}

func TestResubmitClearsPreviousResult(t *testing.T) {
	f := newFakeService()
	m := NewMachine(f, quietLogger(), nil)

	f.release <- result{err: &planapi.ServiceError{Status: 500, Message: "boom"}}
	if st, _ := m.Submit(context.Background(), sampleRequest); st.Status != Failure {
		t.Fatalf("expected Failure, got %+v", st)
	}

	done, err := m.Start(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("machine must be submittable after failure: %v", err)
	}
	<-f.started
	<-f.started
	if st := m.Current(); st.Status != Submitting || st.Message != "" || st.Response != nil {
		t.Fatalf("Submitting must clear previous error, got %+v", st)
	}

	first := &models.PlanResponse{PMaxPlan: &models.PMaxPlan{SearchThemes: []string{"one"}}}
	f.release <- result{resp: first}
	<-done

	second := &models.PlanResponse{ShoppingCampaignPlan: &models.ShoppingCampaignPlan{}}
	f.release <- result{resp: second}
	st, _ := m.Submit(context.Background(), sampleRequest)
	if st.Response != second || st.Response.PMaxPlan != nil {
		t.Fatalf("response must be replaced wholesale, got %+v", st.Response)
	}
}

// Escenarios end-to-end contra un servicio falso por HTTP.
func TestMachineAgainstHTTPService(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus Status
		wantMsg    string
	}{
		{
			name:       "shopping only",
			status:     http.StatusOK,
			body:       `{"shopping_campaign_plan": {"target_cpa": 27.5, "suggested_target_cpc": 1.1, "explanation": "..."}}`,
			wantStatus: Success,
		},
		{
			name:       "validation detail",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": "average_product_price must be positive"}`,
			wantStatus: Failure,
			wantMsg:    "average_product_price must be positive",
		},
		{
			name:       "json array body",
			status:     http.StatusOK,
			body:       `[1, 2]`,
			wantStatus: Success,
		},
		{
			name:       "server error without detail",
			status:     http.StatusInternalServerError,
			body:       `Internal Server Error`,
			wantStatus: Failure,
			wantMsg:    planapi.GenericMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			cl := planapi.NewClient(planapi.NewHTTPClient(2*time.Second), srv.URL, quietLogger(), nil)
			m := NewMachine(cl, quietLogger(), nil)
			rec := &recorder{}
			m.OnChange(rec.record)

			st, err := m.Submit(context.Background(), sampleRequest)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if st.Status != tt.wantStatus || st.Message != tt.wantMsg {
				t.Fatalf("final = %+v, want %s(%q)", st, tt.wantStatus, tt.wantMsg)
			}
			if want := []Status{Submitting, tt.wantStatus}; !equalStatuses(rec.got(), want) {
				t.Fatalf("transitions = %v, want %v", rec.got(), want)
			}
		})
	}
}

func TestObserverMayCallMachine(t *testing.T) {
	f := newFakeService()
	m := NewMachine(f, quietLogger(), nil)
	f.release <- result{resp: &models.PlanResponse{}}
	f.release <- result{err: &planapi.ServiceError{Status: 500, Message: "boom"}}

	var (
		seen      []Status
		current   []Status
		resubmit  = true
		innerErr  error
		innerLast State
	)
	m.OnChange(func(st State) {
		seen = append(seen, st.Status)
		current = append(current, m.Current().Status)
		if st.Status == Success && resubmit {
			resubmit = false
			innerLast, innerErr = m.Submit(context.Background(), sampleRequest)
		}
	})

	done := make(chan State, 1)
	go func() {
		st, _ := m.Submit(context.Background(), sampleRequest)
		done <- st
	}()

	select {
	case st := <-done:
		if st.Status != Success {
			t.Fatalf("outer final = %+v", st)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("observer calling back into the machine deadlocked")
	}
	if innerErr != nil || innerLast.Status != Failure || innerLast.Message != "boom" {
		t.Fatalf("inner submit = %+v, %v", innerLast, innerErr)
	}
	if want := []Status{Submitting, Success, Submitting, Failure}; !equalStatuses(seen, want) {
		t.Fatalf("transitions = %v, want %v", seen, want)
	}
	if len(current) != 4 || current[0] == "" {
		t.Fatalf("Current() from observer = %v", current)
	}
	if m.Current().Status != Failure {
		t.Fatalf("machine state = %v, want failure", m.Current().Status)
	}
}
