package command

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
)

// stubCommandServer scripts the flight-link side of the conversation.
type stubCommandServer struct {
	mu sync.Mutex

	acceptMode bool
	acceptArm  bool
	fail       bool
	delay      time.Duration

	gotModes []string
	gotArms  []bool
}

func (s *stubCommandServer) SetMode(ctx context.Context, in *flightlinkv1.SetModeRequest) (*flightlinkv1.SetModeResponse, error) {
	s.mu.Lock()
	s.gotModes = append(s.gotModes, in.Mode)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.fail {
		return nil, status.Error(codes.Unavailable, "link down")
	}
	return &flightlinkv1.SetModeResponse{Accepted: s.acceptMode}, nil
}

func (s *stubCommandServer) Arm(ctx context.Context, in *flightlinkv1.ArmRequest) (*flightlinkv1.ArmResponse, error) {
	s.mu.Lock()
	s.gotArms = append(s.gotArms, in.Arm)
	s.mu.Unlock()

	if s.fail {
		return nil, status.Error(codes.Unavailable, "link down")
	}
	return &flightlinkv1.ArmResponse{Accepted: s.acceptArm}, nil
}

func newTestGateway(t *testing.T, srv *stubCommandServer, timeout time.Duration) *Gateway {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer()
	flightlinkv1.RegisterCommandServiceServer(server, srv)

	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(flightlinkv1.CodecName)),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return NewGatewayForConn(conn, "drone-01", timeout)
}

func TestRequestModeChangeAccepted(t *testing.T) {
	srv := &stubCommandServer{acceptMode: true}
	g := newTestGateway(t, srv, time.Second)

	if !g.RequestModeChange(context.Background(), "OFFBOARD") {
		t.Fatal("accepted SetMode reported as rejected")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.gotModes) != 1 || srv.gotModes[0] != "OFFBOARD" {
		t.Errorf("server saw modes %v", srv.gotModes)
	}
}

func TestRequestModeChangeRejected(t *testing.T) {
	srv := &stubCommandServer{acceptMode: false}
	g := newTestGateway(t, srv, time.Second)

	if g.RequestModeChange(context.Background(), "OFFBOARD") {
		t.Error("rejected SetMode reported as accepted")
	}
}

func TestRequestArmAccepted(t *testing.T) {
	srv := &stubCommandServer{acceptArm: true}
	g := newTestGateway(t, srv, time.Second)

	if !g.RequestArm(context.Background(), true) {
		t.Fatal("accepted Arm reported as rejected")
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.gotArms) != 1 || !srv.gotArms[0] {
		t.Errorf("server saw arms %v", srv.gotArms)
	}
}

func TestTransportErrorCollapsesToFalse(t *testing.T) {
	srv := &stubCommandServer{fail: true}
	g := newTestGateway(t, srv, time.Second)

	if g.RequestModeChange(context.Background(), "OFFBOARD") {
		t.Error("transport error reported as accepted")
	}
	if g.RequestArm(context.Background(), true) {
		t.Error("transport error reported as accepted")
	}
}

func TestSlowCallBoundedByTimeout(t *testing.T) {
	srv := &stubCommandServer{acceptMode: true, delay: 500 * time.Millisecond}
	g := newTestGateway(t, srv, 50*time.Millisecond)

	start := time.Now()
	accepted := g.RequestModeChange(context.Background(), "OFFBOARD")
	elapsed := time.Since(start)

	if accepted {
		t.Error("timed-out call reported as accepted")
	}
	if elapsed > 400*time.Millisecond {
		t.Errorf("call took %s; timeout did not bound it", elapsed)
	}
}
