// Package session tracks the state of one interactive chat session:
// the selected machine, the exchange history and the charts collected
// along the way, so the transcript can be exported as a single report.
package session

import (
	"strings"

	"github.com/oeelens/oee-apiserver/internal/cli/types"
)

// Exchange is one question and its answer
type Exchange struct {
	Query    string
	Response string
	IsError  bool
	Charts   []types.ChartData
}

// Session holds the mutable state of an interactive chat session
type Session struct {
	machine   string
	exchanges []Exchange
}

// New creates a session bound to a machine
func New(machine string) *Session {
	return &Session{machine: machine}
}

// Machine returns the currently selected machine
func (s *Session) Machine() string {
	return s.machine
}

// SetMachine switches the session to another machine and clears the
// collected history, answers about one machine do not belong in a
// report about another
func (s *Session) SetMachine(machine string) {
	if machine == s.machine {
		return
	}
	s.machine = machine
	s.exchanges = nil
}

// Append records a completed exchange
func (s *Session) Append(ex Exchange) {
	s.exchanges = append(s.exchanges, ex)
}

// Exchanges returns the recorded history in order
func (s *Session) Exchanges() []Exchange {
	return s.exchanges
}

// Len returns the number of recorded exchanges
func (s *Session) Len() int {
	return len(s.exchanges)
}

// Clear drops the recorded history but keeps the machine selection
func (s *Session) Clear() {
	s.exchanges = nil
}

// Transcript concatenates the successful answers into one markdown
// document suitable for PDF export. Error answers are skipped.
func (s *Session) Transcript() string {
	var b strings.Builder
	for _, ex := range s.exchanges {
		if ex.IsError {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(ex.Response)
	}
	return b.String()
}

// Charts returns the charts of all successful answers in order
func (s *Session) Charts() []types.ChartData {
	var charts []types.ChartData
	for _, ex := range s.exchanges {
		if ex.IsError {
			continue
		}
		charts = append(charts, ex.Charts...)
	}
	return charts
}
