package flightsim

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	grpcmiddleware "github.com/aerolink-io/aerolink/internal/pkg/middleware/grpc"
	"github.com/aerolink-io/aerolink/pkg/log"
	"github.com/aerolink-io/aerolink/pkg/options"
)

// commandServer exposes the simulated controller over the flight-link
// command service.
type commandServer struct {
	server  *grpc.Server
	state   *State
	options *options.GrpcOptions
}

func newCommandServer(opts *options.GrpcOptions, state *State) *commandServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpcmiddleware.UnaryServerTimeoutInterceptor),
	)
	srv := &commandServer{
		server:  s,
		state:   state,
		options: opts,
	}
	flightlinkv1.RegisterCommandServiceServer(s, srv)
	reflection.Register(s) // Enable grpc_cli support
	return srv
}

func (s *commandServer) Start(ctx context.Context) error {
	lis, err := net.Listen(s.options.Network, s.options.Addr)
	if err != nil {
		return err
	}

	log.Info("Starting command gRPC Server", "addr", s.options.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.server.GracefulStop()
		return nil
	}
}

// SetMode implements flightlinkv1.CommandServiceServer.
func (s *commandServer) SetMode(ctx context.Context, req *flightlinkv1.SetModeRequest) (*flightlinkv1.SetModeResponse, error) {
	if req.VehicleID != s.state.VehicleID() {
		return &flightlinkv1.SetModeResponse{Accepted: false, Message: "unknown vehicle"}, nil
	}

	accepted, msg := s.state.RequestMode(req.Mode)
	log.Info("SetMode request", "vehicleID", req.VehicleID, "mode", req.Mode, "accepted", accepted, "message", msg)

	return &flightlinkv1.SetModeResponse{
		Accepted: accepted,
		Message:  msg,
	}, nil
}

// Arm implements flightlinkv1.CommandServiceServer.
func (s *commandServer) Arm(ctx context.Context, req *flightlinkv1.ArmRequest) (*flightlinkv1.ArmResponse, error) {
	if req.VehicleID != s.state.VehicleID() {
		return &flightlinkv1.ArmResponse{Accepted: false, Message: "unknown vehicle"}, nil
	}

	accepted, msg := s.state.RequestArm(req.Arm)
	log.Info("Arm request", "vehicleID", req.VehicleID, "arm", req.Arm, "accepted", accepted, "message", msg)

	return &flightlinkv1.ArmResponse{
		Accepted: accepted,
		Message:  msg,
	}, nil
}
