// Package session models the client side of the report service as a state
// machine: a single State value advanced by messages through a pure Update
// function, with the report fetch expressed as an effect for the caller to
// run. Machine wraps Update with dispatch plumbing that runs fetches on
// goroutines and feeds their results back as messages.
package session

import (
	"github.com/couchcryptid/postcode-report/internal/domain"
)

// Status is the request phase of a session.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session.
//
// ValidationError is three-valued: nil means the postcode is valid and
// submittable, a pointer to "" means no input has been accepted yet
// (submission disabled, nothing to show), and a pointer to a non-empty
// string is a validation message to display.
type State struct {
	Postcode        string
	ValidationError *string
	Status          Status
	ErrorMessage    string
	Report          *domain.Report
}

// CanSubmit reports whether a Submit message would start a fetch.
func (s State) CanSubmit() bool {
	return s.ValidationError == nil
}

// NewState returns the initial session state: empty postcode, submission
// disabled until input arrives.
func NewState() State {
	empty := ""
	return State{ValidationError: &empty}
}

// Msg is a session event. The message set is closed.
type Msg interface {
	isMsg()
}

// PostcodeChanged carries new postcode input.
type PostcodeChanged struct {
	Text string
}

// Submit requests a report for the current postcode.
type Submit struct{}

// ReportReceived carries a successfully fetched report.
type ReportReceived struct {
	Report domain.Report
}

// ReportFailed carries the error of a failed fetch.
type ReportFailed struct {
	Err error
}

// Clear resets the session to its initial state.
type Clear struct{}

func (PostcodeChanged) isMsg() {}
func (Submit) isMsg()          {}
func (ReportReceived) isMsg()  {}
func (ReportFailed) isMsg()    {}
func (Clear) isMsg()           {}

// Fetch is the effect a Submit produces: fetch the report for Postcode and
// feed the outcome back as ReportReceived or ReportFailed.
type Fetch struct {
	Postcode string
}

// Update advances the session state by one message. Pure: no I/O, no
// mutation of the input state. The returned Fetch is non-nil only when the
// caller must start a report fetch.
//
// A Submit while already loading starts a second fetch; whichever response
// arrives last wins. There is no in-flight guard and no cancellation.
func Update(s State, msg Msg) (State, *Fetch) {
	switch msg := msg.(type) {
	case PostcodeChanged:
		s.Postcode = msg.Text
		if domain.IsValidPostcode(msg.Text) {
			s.ValidationError = nil
		} else {
			text := (&domain.InvalidPostcodeError{Postcode: msg.Text}).Error()
			s.ValidationError = &text
		}
		return s, nil

	case Submit:
		if !s.CanSubmit() {
			return s, nil
		}
		s.Status = StatusLoading
		s.ErrorMessage = ""
		// The previous report is discarded when a new request starts.
		s.Report = nil
		return s, &Fetch{Postcode: s.Postcode}

	case ReportReceived:
		s.Status = StatusIdle
		s.ErrorMessage = ""
		s.ValidationError = nil
		s.Report = &msg.Report
		return s, nil

	case ReportFailed:
		s.Status = StatusError
		s.ErrorMessage = msg.Err.Error()
		return s, nil

	case Clear:
		return NewState(), nil

	default:
		return s, nil
	}
}
