package offboard

import (
	"context"

	"github.com/looplab/fsm"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	fsmutil "github.com/aerolink-io/aerolink/internal/pkg/util/fsm"
	"github.com/aerolink-io/aerolink/pkg/log"
)

// Offboard phases. Engaged is the steady state, re-entered every cycle; the
// vehicle can regress (pilot override, failsafe) and the engage arbitration
// recovers without a separate phase.
const (
	PhaseAwaitConnection = "awaiting_connection"
	PhasePriming         = "priming"
	PhaseEngaged         = "engaged"

	// EventConnected fires once the status feed reports a live controller.
	EventConnected = "event_connected"
	// EventPrimed fires after the configured number of priming publishes.
	EventPrimed = "event_primed"
)

func newPhaseMachine() *fsm.FSM {
	events := fsm.Events{
		{Name: EventConnected, Src: []string{PhaseAwaitConnection}, Dst: PhasePriming},
		{Name: EventPrimed, Src: []string{PhasePriming}, Dst: PhaseEngaged},
	}

	callbacks := fsm.Callbacks{
		// Guard: stay in AwaitConnection until the feed reports contact.
		"before_" + EventConnected: fsmutil.WrapEvent(guardConnected),

		"enter_state": func(ctx context.Context, e *fsm.Event) {
			log.Info("Offboard phase transition", "from", e.Src, "to", e.Dst)
		},
	}

	return fsm.NewFSM(PhaseAwaitConnection, events, callbacks)
}

// guardConnected cancels the transition while the controller is unreachable.
func guardConnected(ctx context.Context, e *fsm.Event) error {
	status, ok := e.Args[0].(flightlinkv1.VehicleStatus)
	if !ok || !status.Connected {
		e.Cancel(fsm.NoTransitionError{})
	}
	return nil
}
