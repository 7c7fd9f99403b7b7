// Package snapshot executes host snapshot requests against the core.
package snapshot

import (
	"errors"
	"fmt"
	"log/slog"

	emucore "github.com/user-none/snowbridge/api"
	"github.com/user-none/snowbridge/hostif"
)

var (
	// ErrUnsupported is reported when the core cannot save state.
	ErrUnsupported = errors.New("core does not support snapshots")
	// ErrNoState is reported when a load request carries no state.
	ErrNoState = errors.New("no snapshot state supplied")
)

// Controller polls for one snapshot request per tick and reports exactly
// one completion for each request it takes.
type Controller struct {
	surface *hostif.Surface
	stater  emucore.SaveStater
	logger  *slog.Logger
}

// NewController creates a controller. core is checked for
// emucore.SaveStater; when it is not one, every request completes with
// ErrUnsupported.
func NewController(s *hostif.Surface, core any, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{surface: s, logger: logger}
	if st, ok := core.(emucore.SaveStater); ok {
		c.stater = st
	}
	return c
}

// Poll takes the pending request, if any, and executes it. It reports
// whether a request was handled.
func (c *Controller) Poll() bool {
	cmd, ok := c.surface.TakeSnapshotCommand()
	if !ok {
		return false
	}
	c.Execute(cmd)
	return true
}

// Execute runs cmd and sends its completion.
func (c *Controller) Execute(cmd hostif.SnapshotCommand) {
	var err error
	switch cmd.Kind {
	case hostif.SnapshotSave:
		err = c.save(cmd.RequestID)
	case hostif.SnapshotLoad:
		err = c.load(cmd.RequestID)
	default:
		err = fmt.Errorf("unknown snapshot kind %d", cmd.Kind)
	}
	if err != nil {
		c.logger.Warn("snapshot request failed", "kind", cmd.Kind, "request_id", cmd.RequestID, "error", err)
		c.surface.CompleteSnapshotError(cmd.RequestID, err.Error())
	}
}

func (c *Controller) save(id uint32) error {
	if c.stater == nil {
		return ErrUnsupported
	}
	state, err := c.stater.Serialize()
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	c.surface.CompleteSnapshotSave(id, state)
	c.logger.Info("snapshot saved", "request_id", id, "bytes", len(state))
	return nil
}

func (c *Controller) load(id uint32) error {
	if c.stater == nil {
		return ErrUnsupported
	}
	state := c.surface.SnapshotState(id)
	if len(state) == 0 {
		return ErrNoState
	}
	if err := c.stater.Deserialize(state); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	c.surface.CompleteSnapshotLoaded(id)
	c.logger.Info("snapshot loaded", "request_id", id)
	return nil
}
