package wsui

import (
	"allium/history"
	"allium/switcher"
)

// The Server doubles as the switcher's UI collaborator: candidate updates go
// out over the broadcast channel and the blocking NextAction receive paces
// the orchestrator to the user.

var _ switcher.UI = (*Server)(nil)
var _ switcher.Notifier = (*Server)(nil)

func (s *Server) ShowCandidates(candidates []history.Entry) {
	s.NotifyView("candidates", candidates)
}

// NextAction blocks until a connected UI supplies a decision. This is the
// human-paced wait of AwaitingSelection; it carries no timeout.
func (s *Server) NextAction() (switcher.Action, error) {
	a := <-s.actions
	return a, nil
}

// Teardown tells connected UIs the switcher surface is gone.
func (s *Server) Teardown() {
	s.NotifyView("teardown", nil)
}
