package states

import (
	"io"
	"log/slog"
)

// Mode is a named state with no behavior of its own besides logging.
// It models phases such as "gameplay" or "cutscene" in demos and scenarios.
type Mode struct {
	name   string
	logger *slog.Logger
}

// NewMode creates a mode. A nil logger discards output.
func NewMode(name string, logger *slog.Logger) *Mode {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Mode{name: name, logger: logger}
}

func (m *Mode) OnStateEnter() {
	m.logger.Info("mode entered", "mode", m.name)
}

func (m *Mode) OnStateExit() {
	m.logger.Info("mode exited", "mode", m.name)
}

func (m *Mode) StateName() string { return m.name }
