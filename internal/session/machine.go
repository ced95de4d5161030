package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/postcode-report/internal/domain"
)

// ReportBuilder fetches the report for a postcode. Implemented by the
// report service client and, server-side, by report.Builder.
type ReportBuilder interface {
	BuildReport(ctx context.Context, postcode string) (domain.Report, error)
}

// Machine drives a session: it serializes message dispatch against a single
// State and runs Fetch effects on background goroutines, feeding their
// outcomes back through Dispatch.
type Machine struct {
	builder ReportBuilder
	logger  *slog.Logger

	mu    sync.Mutex
	state State
	wg    sync.WaitGroup
}

// NewMachine creates a Machine in the initial state.
func NewMachine(builder ReportBuilder, logger *slog.Logger) *Machine {
	return &Machine{
		builder: builder,
		logger:  logger,
		state:   NewState(),
	}
}

// Dispatch applies one message and returns the resulting state. Messages
// are processed one at a time; a Fetch effect starts before Dispatch
// returns, so Wait observes it.
func (m *Machine) Dispatch(ctx context.Context, msg Msg) State {
	m.mu.Lock()
	next, fetch := Update(m.state, msg)
	m.state = next
	if fetch != nil {
		m.wg.Add(1)
		go m.runFetch(ctx, fetch.Postcode)
	}
	m.mu.Unlock()
	return next
}

// State returns the current session state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Wait blocks until all fetches started so far have completed and their
// results have been dispatched.
func (m *Machine) Wait() {
	m.wg.Wait()
}

func (m *Machine) runFetch(ctx context.Context, postcode string) {
	defer m.wg.Done()

	rpt, err := m.builder.BuildReport(ctx, postcode)
	if err != nil {
		m.logger.Warn("report fetch failed", "postcode", postcode, "error", err)
		m.Dispatch(ctx, ReportFailed{Err: err})
		return
	}
	m.Dispatch(ctx, ReportReceived{Report: rpt})
}
