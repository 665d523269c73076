package setpoint

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/pkg/mqtt"
	mqtttopic "github.com/aerolink-io/aerolink/pkg/mqtt/topic"
)

// fakeClient records publishes; other Client methods are unused here.
type fakeClient struct {
	topics   []string
	qos      []int
	retains  []bool
	payloads [][]byte
	err      error
}

func (f *fakeClient) Start(ctx context.Context) error                     { return nil }
func (f *fakeClient) Disconnect(ctx context.Context)                      {}
func (f *fakeClient) IsConnected() bool                                   { return true }
func (f *fakeClient) AwaitConnection(ctx context.Context) error           { return nil }
func (f *fakeClient) Unsubscribe(ctx context.Context, topic string) error { return nil }

func (f *fakeClient) Subscribe(ctx context.Context, topic string, qos int, handler mqtt.MessageHandler) error {
	return nil
}

func (f *fakeClient) Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.qos = append(f.qos, qos)
	f.retains = append(f.retains, retain)
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestPublisherFireAndForget(t *testing.T) {
	mc := &fakeClient{}
	p := NewPublisher("drone-01", mc, mqtttopic.NewBuilder("uav/v1"))

	sp := flightlinkv1.Setpoint{X: 1, Y: -2, Z: 3.5}
	if err := p.Publish(context.Background(), sp); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(mc.topics) != 1 || mc.topics[0] != "uav/v1/setpoint/position/drone-01" {
		t.Fatalf("published to %v", mc.topics)
	}
	if mc.qos[0] != 0 {
		t.Errorf("setpoint published at QoS %d, want 0", mc.qos[0])
	}
	if mc.retains[0] {
		t.Error("setpoint published retained; stale samples must not be replayed")
	}

	var got flightlinkv1.Setpoint
	if err := json.Unmarshal(mc.payloads[0], &got); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if got != sp {
		t.Errorf("payload = %+v, want %+v", got, sp)
	}
}

func TestPublisherReturnsTransportError(t *testing.T) {
	mc := &fakeClient{err: errors.New("broker gone")}
	p := NewPublisher("drone-01", mc, mqtttopic.NewBuilder("uav/v1"))

	if err := p.Publish(context.Background(), flightlinkv1.Setpoint{}); err == nil {
		t.Error("Publish() swallowed the transport error")
	}
}

func TestSourceSwap(t *testing.T) {
	s := NewSource(flightlinkv1.Setpoint{Z: 2})

	if got := s.Current(); got.Z != 2 {
		t.Fatalf("initial setpoint = %+v", got)
	}

	s.Swap(flightlinkv1.Setpoint{X: 10, Y: 5, Z: 8})
	if got := s.Current(); got.X != 10 || got.Y != 5 || got.Z != 8 {
		t.Errorf("after Swap, Current() = %+v", got)
	}
}
