// Package grpc exposes the EVCam service over gRPC: device-facing calls
// authenticated by the per-device secret, owner-facing calls by the access
// token carried in metadata.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/kooo/evcam-companion/internal/logging"
	pb "github.com/kooo/evcam-companion/internal/proto"
	"github.com/kooo/evcam-companion/internal/server/services"
)

type GRPCServer struct {
	address   string
	devices   *services.DeviceService
	commands  *services.CommandService
	files     *services.FileService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ds *services.DeviceService, cs *services.CommandService, fs *services.FileService, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		devices:   ds,
		commands:  cs,
		files:     fs,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	pb.RegisterEVCamServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
