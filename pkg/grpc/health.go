package grpc

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/config"
)

// HealthServer exposes the stock gRPC health service so orchestration
// probes and etcd consumers can check liveness over the service port.
type HealthServer struct {
	srv    *grpc.Server
	health *health.Server
	config *config.Config
	logger *zap.Logger
}

func NewHealthServer(cfg *config.Config, logger *zap.Logger) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &HealthServer{
		srv:    srv,
		health: hs,
		config: cfg,
		logger: logger,
	}
}

func (s *HealthServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.health.SetServingStatus(s.config.Server.Name, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("gRPC health server started", zap.String("address", addr))

	return s.srv.Serve(lis)
}

// SetNotServing flips the advertised status during shutdown so probes
// drain traffic before the listener closes.
func (s *HealthServer) SetNotServing() {
	s.health.SetServingStatus(s.config.Server.Name, healthpb.HealthCheckResponse_NOT_SERVING)
}

func (s *HealthServer) Stop() {
	s.srv.GracefulStop()
}
