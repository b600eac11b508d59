package viewstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/AngelCh415/sem_planner/internal/metrics"
	"github.com/AngelCh415/sem_planner/internal/models"
	"github.com/AngelCh415/sem_planner/internal/planapi"
)

type Status string

const (
	Idle       Status = "idle"
	Submitting Status = "submitting"
	Success    Status = "success"
	Failure    Status = "failure"
)

// State es exactamente uno de Idle, Submitting, Success(Response) o Failure(Message).
type State struct {
	Status   Status               `json:"status"`
	ID       string               `json:"submission_id,omitempty"`
	Response *models.PlanResponse `json:"plan,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// ErrInFlight: ya hay una submission en curso; no se encola ni se llama a la red.
var ErrInFlight = errors.New("a plan submission is already in progress")

type Submitter interface {
	Submit(ctx context.Context, req models.PlanRequest) (*models.PlanResponse, error)
}

// Machine es el único dueño del estado de la vista; solo cambia vía Submit/Start.
type Machine struct {
	mu       sync.Mutex
	st       State
	svc      Submitter
	log      *slog.Logger
	m        *metrics.Collector
	onChange func(State)

	pending    []State // transiciones aún no entregadas a onChange
	delivering bool
}

func NewMachine(svc Submitter, log *slog.Logger, m *metrics.Collector) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{st: State{Status: Idle}, svc: svc, log: log, m: m}
}

// OnChange registra un observador que recibe cada transición, en orden.
// fn corre sin locks tomados: puede llamar a Current, Submit o Start.
func (m *Machine) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st
}

// Submit bloquea hasta que la llamada termina y devuelve el estado final.
func (m *Machine) Submit(ctx context.Context, req models.PlanRequest) (State, error) {
	id, err := m.begin()
	if err != nil {
		return m.Current(), err
	}
	return m.run(ctx, id, req), nil
}

// Start hace la transición a Submitting de forma síncrona y resuelve en background.
// El canal entrega el estado final y se cierra.
func (m *Machine) Start(ctx context.Context, req models.PlanRequest) (<-chan State, error) {
	id, err := m.begin()
	if err != nil {
		return nil, err
	}
	done := make(chan State, 1)
	go func() {
		defer close(done)
		done <- m.run(ctx, id, req)
	}()
	return done, nil
}

func (m *Machine) begin() (string, error) {
	m.mu.Lock()
	if m.st.Status == Submitting {
		m.mu.Unlock()
		m.m.ObserveSubmission(metrics.OutcomeRejected, 0)
		m.log.Warn("plan submission rejected", slog.String("reason", ErrInFlight.Error()))
		return "", ErrInFlight
	}
	// limpia resultado y error previos
	next := State{Status: Submitting, ID: uuid.NewString()}
	m.transition(next)
	m.mu.Unlock()

	m.log.Info("plan submission started", slog.String("submission_id", next.ID))
	m.flush()
	return next.ID, nil
}

func (m *Machine) run(ctx context.Context, id string, req models.PlanRequest) State {
	resp, err := m.svc.Submit(ctx, req)

	next := State{Status: Success, ID: id, Response: resp}
	if err != nil {
		next = State{Status: Failure, ID: id, Message: planapi.UserMessage(err)}
		m.log.Error("plan submission failed", slog.String("submission_id", id), slog.String("err", err.Error()))
	} else {
		m.log.Info("plan submission succeeded", slog.String("submission_id", id))
	}

	m.mu.Lock()
	m.transition(next)
	m.mu.Unlock()

	m.flush()
	return next
}

// transition se llama con mu tomado.
func (m *Machine) transition(next State) {
	m.st = next
	m.m.SetViewState(string(next.Status))
	m.pending = append(m.pending, next)
}

// flush entrega las transiciones pendientes fuera del lock. Solo un goroutine
// entrega a la vez; si otro ya lo está haciendo (o fn re-entra), ese se encarga
// de la cola y el orden se mantiene.
func (m *Machine) flush() {
	m.mu.Lock()
	if m.delivering {
		m.mu.Unlock()
		return
	}
	m.delivering = true
	for len(m.pending) > 0 {
		batch, fn := m.pending, m.onChange
		m.pending = nil
		m.mu.Unlock()
		if fn != nil {
			for _, st := range batch {
				fn(st)
			}
		}
		m.mu.Lock()
	}
	m.delivering = false
	m.mu.Unlock()
}
