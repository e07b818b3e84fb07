package client

import (
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/example/locfs/pkg/api"
)

// Config controls how the client reaches the admin server. Each attempt
// gets Timeout; a transient failure is retried MaxRetries times, waiting
// RetryDelay and then multiplying the wait by BackoffFactor.
type Config struct {
	ServerAddress string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	BackoffFactor float64

	// CacheTTL is how long a fetched location is reused; zero disables
	// caching.
	CacheTTL time.Duration
}

// DefaultConfig targets a server on the local host.
func DefaultConfig() *Config {
	return &Config{
		ServerAddress: "localhost:7070",
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		RetryDelay:    500 * time.Millisecond,
		BackoffFactor: 2.0,
		CacheTTL:      time.Second,
	}
}

var _ LocationClient = (*Client)(nil)

// Client is a LocationClient over a single gRPC connection.
type Client struct {
	// gRPC connection to the server
	conn *grpc.ClientConn

	// Location service client
	locationClient api.LocationServiceClient

	// Client configuration
	config *Config

	// Cached current location
	locationCache *ValueCache
}

// NewClient creates a new admin client. Extra dial options are appended
// to the defaults.
func NewClient(config *Config, opts ...grpc.DialOption) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)
	conn, err := grpc.NewClient(config.ServerAddress, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return &Client{
		conn:           conn,
		locationClient: api.NewLocationServiceClient(conn),
		config:         config,
		locationCache:  NewValueCache(config.CacheTTL),
	}, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
