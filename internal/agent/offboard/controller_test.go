package offboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
)

type fakeStatus struct {
	st atomic.Pointer[flightlinkv1.VehicleStatus]
}

func newFakeStatus(st flightlinkv1.VehicleStatus) *fakeStatus {
	f := &fakeStatus{}
	f.set(st)
	return f
}

func (f *fakeStatus) set(st flightlinkv1.VehicleStatus)   { f.st.Store(&st) }
func (f *fakeStatus) Current() flightlinkv1.VehicleStatus { return *f.st.Load() }

type fakeTarget struct {
	sp flightlinkv1.Setpoint
}

func (f *fakeTarget) Current() flightlinkv1.Setpoint { return f.sp }

type fakePublisher struct {
	calls int
}

func (f *fakePublisher) Publish(ctx context.Context, sp flightlinkv1.Setpoint) error {
	f.calls++
	return nil
}

type fakeCommander struct {
	acceptMode bool
	acceptArm  bool

	modeCalls []string
	armCalls  []bool

	// callTimes records when each command (of either kind) was issued,
	// in fake-clock time, for cooldown assertions.
	callTimes []time.Time
	clock     *fakeClock
}

func (f *fakeCommander) RequestModeChange(ctx context.Context, mode string) bool {
	f.modeCalls = append(f.modeCalls, mode)
	f.callTimes = append(f.callTimes, f.clock.Now())
	return f.acceptMode
}

func (f *fakeCommander) RequestArm(ctx context.Context, arm bool) bool {
	f.armCalls = append(f.armCalls, arm)
	f.callTimes = append(f.callTimes, f.clock.Now())
	return f.acceptArm
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// rig bundles a controller with its fakes, stepping cycles on a fake clock.
type rig struct {
	ctrl   *Controller
	status *fakeStatus
	pub    *fakePublisher
	cmd    *fakeCommander
	clock  *fakeClock
}

func newRig(cfg Config, st flightlinkv1.VehicleStatus) *rig {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	status := newFakeStatus(st)
	pub := &fakePublisher{}
	cmd := &fakeCommander{acceptMode: true, acceptArm: true, clock: clock}

	ctrl := NewController(cfg, status, &fakeTarget{sp: flightlinkv1.Setpoint{Z: 2.5}}, pub, cmd)
	ctrl.now = clock.Now

	return &rig{ctrl: ctrl, status: status, pub: pub, cmd: cmd, clock: clock}
}

// step runs n cycles, advancing the clock by the cadence before each one.
func (r *rig) step(n int) {
	for i := 0; i < n; i++ {
		r.clock.advance(r.ctrl.cfg.CadencePeriod)
		r.ctrl.cycle(context.Background())
	}
}

func testConfig() Config {
	return Config{
		TargetMode:      "OFFBOARD",
		CadencePeriod:   50 * time.Millisecond,
		PrimingCycles:   5,
		CommandCooldown: 5 * time.Second,
	}
}

func connectedManual() flightlinkv1.VehicleStatus {
	return flightlinkv1.VehicleStatus{Connected: true, Armed: false, Mode: "MANUAL"}
}

func TestAwaitConnectionDoesNotPublish(t *testing.T) {
	r := newRig(testConfig(), flightlinkv1.VehicleStatus{Connected: false, Mode: flightlinkv1.ModeUnknown})

	r.step(10)

	if r.pub.calls != 0 {
		t.Errorf("published %d setpoints before contact", r.pub.calls)
	}
	if got := r.ctrl.Phase(); got != PhaseAwaitConnection {
		t.Errorf("phase = %q, want %q", got, PhaseAwaitConnection)
	}
}

func TestConnectionEstablishedStartsPublishing(t *testing.T) {
	r := newRig(testConfig(), flightlinkv1.VehicleStatus{Connected: false, Mode: flightlinkv1.ModeUnknown})

	r.step(3)
	r.status.set(connectedManual())
	r.step(1)

	if r.pub.calls != 1 {
		t.Errorf("first cycle after contact published %d setpoints, want 1", r.pub.calls)
	}
	if got := r.ctrl.Phase(); got != PhasePriming {
		t.Errorf("phase = %q, want %q", got, PhasePriming)
	}
}

func TestPrimingCountBeforeFirstCommand(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, connectedManual())

	// All priming cycles: publish only, no commands.
	r.step(cfg.PrimingCycles)
	if r.pub.calls != cfg.PrimingCycles {
		t.Errorf("priming published %d setpoints, want %d", r.pub.calls, cfg.PrimingCycles)
	}
	if len(r.cmd.modeCalls)+len(r.cmd.armCalls) != 0 {
		t.Fatalf("command issued during priming: modes=%v arms=%v", r.cmd.modeCalls, r.cmd.armCalls)
	}
	if got := r.ctrl.Phase(); got != PhaseEngaged {
		t.Fatalf("phase after priming = %q, want %q", got, PhaseEngaged)
	}

	// First engaged cycle issues the first mode request.
	r.step(1)
	if len(r.cmd.modeCalls) != 1 {
		t.Errorf("first engaged cycle issued %d mode requests, want 1", len(r.cmd.modeCalls))
	}
}

func TestEngagedRequestsModeChangeNotArm(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, connectedManual())
	r.step(cfg.PrimingCycles + 1)

	if len(r.cmd.modeCalls) != 1 || r.cmd.modeCalls[0] != "OFFBOARD" {
		t.Errorf("mode calls = %v, want one OFFBOARD request", r.cmd.modeCalls)
	}
	if len(r.cmd.armCalls) != 0 {
		t.Errorf("arm requested while mode still MANUAL: %v", r.cmd.armCalls)
	}
}

func TestEngagedRequestsArmOnceModeMatches(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, flightlinkv1.VehicleStatus{Connected: true, Armed: false, Mode: "OFFBOARD"})
	r.step(cfg.PrimingCycles + 1)

	if len(r.cmd.armCalls) != 1 || !r.cmd.armCalls[0] {
		t.Errorf("arm calls = %v, want one arm(true) request", r.cmd.armCalls)
	}
	if len(r.cmd.modeCalls) != 0 {
		t.Errorf("mode change requested although mode already matches: %v", r.cmd.modeCalls)
	}
}

func TestCooldownSkipsCommandsButNotPublishing(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, connectedManual())
	r.step(cfg.PrimingCycles + 1) // first mode request issued

	publishesBefore := r.pub.calls
	commandsBefore := len(r.cmd.modeCalls) + len(r.cmd.armCalls)

	// 20 more cycles = 1s of fake time, still inside the 5s cooldown.
	r.step(20)

	if got := len(r.cmd.modeCalls) + len(r.cmd.armCalls); got != commandsBefore {
		t.Errorf("commands issued inside cooldown window: %d -> %d", commandsBefore, got)
	}
	if r.pub.calls != publishesBefore+20 {
		t.Errorf("publishing did not continue through cooldown: %d -> %d", publishesBefore, r.pub.calls)
	}
}

func TestCooldownInvariantAcrossKinds(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, connectedManual())

	// Let the run flip mode and arming over time: after the first accepted
	// mode request the vehicle eventually reports OFFBOARD, then arming.
	r.step(cfg.PrimingCycles + 1)
	r.status.set(flightlinkv1.VehicleStatus{Connected: true, Armed: false, Mode: "OFFBOARD"})

	// Step far enough for several cooldown windows.
	r.step(300) // 15s of fake time

	if len(r.cmd.armCalls) == 0 {
		t.Fatal("arm never requested after mode matched")
	}

	for i := 1; i < len(r.cmd.callTimes); i++ {
		gap := r.cmd.callTimes[i].Sub(r.cmd.callTimes[i-1])
		if gap < cfg.CommandCooldown {
			t.Errorf("requests %d and %d only %s apart, want >= %s", i-1, i, gap, cfg.CommandCooldown)
		}
	}
}

func TestAtMostOneCommandPerCycle(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, connectedManual())

	prev := 0
	for i := 0; i < 400; i++ {
		// Mutate status mid-run to exercise both branches.
		if i == 150 {
			r.status.set(flightlinkv1.VehicleStatus{Connected: true, Armed: false, Mode: "OFFBOARD"})
		}
		r.step(1)
		total := len(r.cmd.modeCalls) + len(r.cmd.armCalls)
		if total-prev > 1 {
			t.Fatalf("cycle %d issued %d commands", i, total-prev)
		}
		prev = total
	}
}

func TestRecoveryAfterModeRegression(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, connectedManual())
	r.step(cfg.PrimingCycles + 1)

	// Vehicle reaches the goal state.
	r.status.set(flightlinkv1.VehicleStatus{Connected: true, Armed: true, Mode: "OFFBOARD"})
	r.step(200) // settle well past the cooldown
	modeCallsSettled := len(r.cmd.modeCalls)

	// Pilot override drops the vehicle out of the target mode.
	r.status.set(flightlinkv1.VehicleStatus{Connected: true, Armed: true, Mode: "POSCTL"})
	r.step(1)

	if len(r.cmd.modeCalls) != modeCallsSettled+1 {
		t.Errorf("mode regression not re-attempted: %d calls, want %d", len(r.cmd.modeCalls), modeCallsSettled+1)
	}
	if got := r.ctrl.Phase(); got != PhaseEngaged {
		t.Errorf("regression moved phase to %q; engage arbitration should absorb it", got)
	}
}

func TestRecoveryAfterExternalDisarm(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, flightlinkv1.VehicleStatus{Connected: true, Armed: true, Mode: "OFFBOARD"})
	r.step(cfg.PrimingCycles + 1)

	if len(r.cmd.armCalls)+len(r.cmd.modeCalls) != 0 {
		t.Fatal("commands issued while already armed in target mode")
	}

	r.status.set(flightlinkv1.VehicleStatus{Connected: true, Armed: false, Mode: "OFFBOARD"})
	r.step(1)

	if len(r.cmd.armCalls) != 1 {
		t.Errorf("external disarm not re-attempted: arm calls = %v", r.cmd.armCalls)
	}
}

func TestNoCommandWhenSettled(t *testing.T) {
	cfg := testConfig()
	r := newRig(cfg, flightlinkv1.VehicleStatus{Connected: true, Armed: true, Mode: "OFFBOARD"})

	r.step(cfg.PrimingCycles + 100)

	if got := len(r.cmd.modeCalls) + len(r.cmd.armCalls); got != 0 {
		t.Errorf("%d commands issued although vehicle is settled", got)
	}
	if r.pub.calls != cfg.PrimingCycles+100 {
		t.Errorf("published %d setpoints over %d cycles", r.pub.calls, cfg.PrimingCycles+100)
	}
}

func TestDecisionTable(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		status   flightlinkv1.VehicleStatus
		cooldown bool // cooldown elapsed
		want     commandKind
	}{
		{"wrong mode, cooldown elapsed", connectedManual(), true, commandSetMode},
		{"wrong mode, inside cooldown", connectedManual(), false, commandNone},
		{"target mode unarmed, cooldown elapsed", flightlinkv1.VehicleStatus{Connected: true, Mode: "OFFBOARD"}, true, commandArm},
		{"target mode unarmed, inside cooldown", flightlinkv1.VehicleStatus{Connected: true, Mode: "OFFBOARD"}, false, commandNone},
		{"target mode armed", flightlinkv1.VehicleStatus{Connected: true, Armed: true, Mode: "OFFBOARD"}, true, commandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(cfg, tt.status)
			now := r.clock.Now()
			if !tt.cooldown {
				r.ctrl.lastRequest = now.Add(-time.Second) // 1s ago, inside the 5s window
			}

			if got := r.ctrl.decide(tt.status, now); got != tt.want {
				t.Errorf("decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunStopsOnCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.CadencePeriod = time.Millisecond
	r := newRig(cfg, connectedManual())
	r.ctrl.now = time.Now // Run uses the real ticker

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.ctrl.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() returned %v on cancellation, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}

	if r.pub.calls == 0 {
		t.Error("Run() never published")
	}
}
