// Package server implements the locfs admin gRPC service
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/example/locfs/pkg/api"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/location"
	"github.com/example/locfs/pkg/rpc"
)

// Config contains the admin server configuration
type Config struct {
	// Network address to listen on (e.g. ":7070")
	ListenAddress string

	// Maximum concurrent requests
	MaxConcurrent int

	// Maximum simultaneous client connections
	MaxConnections int

	// Request timeout in seconds
	RequestTimeout int
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ListenAddress:  ":7070",
		MaxConcurrent:  100,
		MaxConnections: 64,
		RequestTimeout: 30, // 30 seconds
	}
}

// LocationServer implements the LocationService
type LocationServer struct {
	api.UnimplementedLocationServiceServer

	// Configuration
	config *Config

	// The mounted filesystem
	fileSystem fs.FileSystem

	// The location shared with the mounted volume
	location *location.Context

	// Worker pool for limiting concurrent requests
	workerPool chan struct{}

	grpcServer *grpc.Server
}

// NewLocationServer creates a new admin server
func NewLocationServer(config *Config, fileSystem fs.FileSystem, loc *location.Context) (*LocationServer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxConcurrent <= 0 {
		return nil, fmt.Errorf("max concurrent requests must be positive, got %d", config.MaxConcurrent)
	}
	if loc == nil {
		return nil, fmt.Errorf("location context is required")
	}

	s := &LocationServer{
		config:     config,
		fileSystem: fileSystem,
		location:   loc,
		workerPool: make(chan struct{}, config.MaxConcurrent),
	}
	s.grpcServer = grpc.NewServer()
	api.RegisterLocationServiceServer(s.grpcServer, s)
	return s, nil
}

// Start listens on the configured address and serves until Stop
func (s *LocationServer) Start() error {
	lis, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if s.config.MaxConnections > 0 {
		lis = netutil.LimitListener(lis, s.config.MaxConnections)
	}
	log.Infof("Admin server starting on %s", lis.Addr())
	return s.Serve(lis)
}

// Serve serves requests from an existing listener
func (s *LocationServer) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and stops the server
func (s *LocationServer) Stop() {
	s.grpcServer.GracefulStop()
}

// acquireWorker gets a worker from the pool or times out
func (s *LocationServer) acquireWorker(ctx context.Context) error {
	select {
	case s.workerPool <- struct{}{}:
		return nil
	case <-ctx.Done():
		return status.FromContextError(ctx.Err()).Err()
	}
}

// releaseWorker returns a worker to the pool
func (s *LocationServer) releaseWorker() {
	<-s.workerPool
}

func clientAddress(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return "unknown"
}

// processRequest handles common request processing logic
func (s *LocationServer) processRequest(ctx context.Context, op string,
	process func(ctx context.Context) (interface{}, error)) (interface{}, error) {

	reqID := uuid.NewString()
	rpc.LogRequest(op, reqID, clientAddress(ctx))
	startTime := time.Now()

	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.RequestTimeout)*time.Second)
		defer cancel()
	}

	// Acquire worker
	if err := s.acquireWorker(ctx); err != nil {
		rpc.LogError(op, reqID, err)
		return nil, err
	}
	defer s.releaseWorker()

	// Execute the operation
	result, err := process(ctx)

	// Log the result
	code := codes.OK
	if err != nil {
		rpc.LogError(op, reqID, err)
		err = rpc.ToStatus(err)
		code = status.Code(err)
	}
	rpc.LogResponse(op, reqID, code, time.Since(startTime).String())
	return result, err
}

// GetLocation implements the GetLocation RPC method
func (s *LocationServer) GetLocation(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	result, err := s.processRequest(ctx, "GetLocation", func(context.Context) (interface{}, error) {
		return wrapperspb.String(s.location.Current()), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*wrapperspb.StringValue), nil
}

// SetLocation implements the SetLocation RPC method
func (s *LocationServer) SetLocation(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	result, err := s.processRequest(ctx, "SetLocation", func(context.Context) (interface{}, error) {
		if err := s.location.Set(req.GetValue()); err != nil {
			return nil, fs.NewError("setlocation", req.GetValue(), err)
		}
		return &emptypb.Empty{}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*emptypb.Empty), nil
}

// StatFS implements the StatFS RPC method
func (s *LocationServer) StatFS(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	result, err := s.processRequest(ctx, "StatFS", func(ctx context.Context) (interface{}, error) {
		stat, err := s.fileSystem.StatFS(ctx)
		if err != nil {
			return nil, err
		}
		return rpc.FSStatToStruct(stat), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*structpb.Struct), nil
}

// ReadDir implements the ReadDir RPC method
func (s *LocationServer) ReadDir(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.ListValue, error) {
	result, err := s.processRequest(ctx, "ReadDir", func(ctx context.Context) (interface{}, error) {
		info, err := s.fileSystem.GetAttr(ctx, req.GetValue())
		if err != nil {
			return nil, err
		}
		if info.Type != fs.FileTypeDirectory {
			return nil, fs.NewError("readdir", fmt.Sprintf("inode %d", req.GetValue()), fs.ErrNotDir)
		}
		entries, err := s.fileSystem.ReadDir(ctx, req.GetValue())
		if err != nil {
			return nil, err
		}
		return rpc.DirEntriesToList(entries), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*structpb.ListValue), nil
}
