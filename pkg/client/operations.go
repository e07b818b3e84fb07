package client

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/rpc"
)

// GetLocation retrieves the current location, served from cache when fresh
func (c *Client) GetLocation(ctx context.Context) (string, error) {
	if loc, ok := c.locationCache.Get(); ok {
		return loc, nil
	}

	var resp *wrapperspb.StringValue
	err := c.callWithRetry(ctx, "GetLocation", func(ctx context.Context) error {
		var err error
		resp, err = c.locationClient.GetLocation(ctx, &emptypb.Empty{})
		return err
	})
	if err != nil {
		return "", StatusToError("GetLocation", err)
	}

	c.locationCache.Store(resp.GetValue())
	return resp.GetValue(), nil
}

// SetLocation replaces the current location
func (c *Client) SetLocation(ctx context.Context, location string) error {
	c.locationCache.Invalidate()
	err := c.callWithRetry(ctx, "SetLocation", func(ctx context.Context) error {
		_, err := c.locationClient.SetLocation(ctx, wrapperspb.String(location))
		return err
	})
	if err != nil {
		return StatusToError("SetLocation", err)
	}
	c.locationCache.Store(location)
	return nil
}

// StatFS retrieves file system statistics
func (c *Client) StatFS(ctx context.Context) (fs.FSStat, error) {
	var resp *structpb.Struct
	err := c.callWithRetry(ctx, "StatFS", func(ctx context.Context) error {
		var err error
		resp, err = c.locationClient.StatFS(ctx, &emptypb.Empty{})
		return err
	})
	if err != nil {
		return fs.FSStat{}, StatusToError("StatFS", err)
	}
	return rpc.StructToFSStat(resp), nil
}

// ReadDir reads the contents of a directory as filtered by the server
func (c *Client) ReadDir(ctx context.Context, dir uint64) ([]fs.DirEntry, error) {
	var resp *structpb.ListValue
	err := c.callWithRetry(ctx, "ReadDir", func(ctx context.Context) error {
		var err error
		resp, err = c.locationClient.ReadDir(ctx, wrapperspb.UInt64(dir))
		return err
	})
	if err != nil {
		return nil, StatusToError("ReadDir", err)
	}
	return rpc.ListToDirEntries(resp)
}
