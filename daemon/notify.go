package daemon

import (
	"github.com/dcl-project/dcl/driver"
	"github.com/dcl-project/dcl/nlog"
	"github.com/dcl-project/dcl/wire"
)

// RunStatusRelay drains drv's StatusChanges and forwards each one to sess's
// Host as a CommandExecutionStatusChangedMessage, declaring the
// corresponding event released -- and this node the authoritative holder of
// whatever memory objects it modified -- once the command reaches a
// terminal state (spec.md §4.12, §4.13). It blocks until the channel
// closes; callers run it in its own goroutine per session.
func RunStatusRelay(sess *Session, drv driver.Driver, selfNodeID uint64, releaseTimestamp func() int64) {
	for sc := range drv.StatusChanges() {
		commandID := wire.ObjectID(sc.CommandID)
		status := wire.ExecutionStatus(sc.Status)

		if err := sess.Host().Notify(&wire.CommandExecutionStatusChangedMessage{
			CommandID: commandID,
			Status:    status,
		}); err != nil {
			nlog.Warningf("daemon: notify command %d status %d to pid %d failed: %v",
				commandID, status, sess.Host().PID(), err)
		}

		if status.IsTerminal() {
			objects, _ := sess.EventObjects.Lookup(commandID)
			sess.Consistency().Declare(commandID, selfNodeID, releaseTimestamp(), objects)
		}
	}
}
