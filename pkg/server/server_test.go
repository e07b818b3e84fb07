package server

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/example/locfs/pkg/api"
	"github.com/example/locfs/pkg/blockdev"
	"github.com/example/locfs/pkg/fs"
	"github.com/example/locfs/pkg/location"
	"github.com/example/locfs/pkg/rpc"
	"github.com/example/locfs/pkg/volume"
)

func newServer(t *testing.T) (*LocationServer, *volume.Volume, *location.Context) {
	t.Helper()
	params := volume.Params{BlockSize: 4096, InodeCapacity: 32, DataBlockCapacity: 32}
	g, err := params.Geometry()
	if err != nil {
		t.Fatalf("Geometry: unexpected error: %v", err)
	}
	dev := blockdev.NewMemDevice(params.BlockSize, g.TotalBlocks())
	if err := volume.Format(dev, params); err != nil {
		t.Fatalf("Format: unexpected error: %v", err)
	}
	loc, err := location.NewContext("")
	if err != nil {
		t.Fatalf("NewContext: unexpected error: %v", err)
	}
	v, err := volume.Mount(dev, loc)
	if err != nil {
		t.Fatalf("Mount: unexpected error: %v", err)
	}
	s, err := NewLocationServer(DefaultConfig(), v, loc)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s, v, loc
}

func TestGetSetLocation(t *testing.T) {
	s, _, loc := newServer(t)
	ctx := context.Background()

	resp, err := s.GetLocation(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetLocation failed: %v", err)
	}
	if resp.GetValue() != "Home" {
		t.Fatalf("wanted `Home`; found `%s`", resp.GetValue())
	}

	if _, err := s.SetLocation(ctx, wrapperspb.String("Work")); err != nil {
		t.Fatalf("SetLocation failed: %v", err)
	}
	if loc.Current() != "Work" {
		t.Fatalf("wanted shared context at `Work`; found `%s`", loc.Current())
	}

	_, err = s.SetLocation(ctx, wrapperspb.String(""))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("wanted InvalidArgument for an empty location; found %v", err)
	}
}

func TestReadDirFollowsLocation(t *testing.T) {
	s, v, _ := newServer(t)
	ctx := context.Background()
	if _, err := v.Create(ctx, fs.RootIno, "home.txt", fs.FileAttr{}); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if _, err := s.SetLocation(ctx, wrapperspb.String("Work")); err != nil {
		t.Fatalf("SetLocation failed: %v", err)
	}
	if _, err := v.Create(ctx, fs.RootIno, "work.txt", fs.FileAttr{}); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	list, err := s.ReadDir(ctx, wrapperspb.UInt64(fs.RootIno))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	entries, err := rpc.ListToDirEntries(list)
	if err != nil {
		t.Fatalf("ListToDirEntries: unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "work.txt" {
		t.Fatalf("wanted [work.txt]; found %+v", entries)
	}

	file := entries[0].Ino
	if _, err := s.ReadDir(ctx, wrapperspb.UInt64(file)); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("wanted FailedPrecondition for a file; found %v", err)
	}
	if _, err := s.ReadDir(ctx, wrapperspb.UInt64(9999)); status.Code(err) != codes.NotFound {
		t.Fatalf("wanted NotFound for an unknown inode; found %v", err)
	}
}

func TestStatFS(t *testing.T) {
	s, _, _ := newServer(t)
	resp, err := s.StatFS(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("StatFS failed: %v", err)
	}
	stat := rpc.StructToFSStat(resp)
	if stat.TotalFiles != 32 || stat.FreeFiles != 31 || stat.BlockSize != 4096 {
		t.Fatalf("wanted 31 of 32 inodes free with 4096-byte blocks; found %+v", stat)
	}
}

func TestWorkerPoolTimeout(t *testing.T) {
	s, _, _ := newServer(t)
	for i := 0; i < cap(s.workerPool); i++ {
		s.workerPool <- struct{}{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.GetLocation(ctx, &emptypb.Empty{}); status.Code(err) != codes.Canceled {
		t.Fatalf("wanted Canceled with a saturated pool; found %v", err)
	}
}

func TestServeOverBufconn(t *testing.T) {
	s, _, _ := newServer(t)
	listener := bufconn.Listen(1024 * 1024)
	go func() {
		if err := s.Serve(listener); err != nil {
			t.Errorf("Server exited with error: %v", err)
		}
	}()
	defer s.Stop()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return listener.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to dial bufnet: %v", err)
	}
	defer conn.Close()

	client := api.NewLocationServiceClient(conn)
	ctx := context.Background()
	if _, err := client.SetLocation(ctx, wrapperspb.String("Lab")); err != nil {
		t.Fatalf("SetLocation failed: %v", err)
	}
	resp, err := client.GetLocation(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetLocation failed: %v", err)
	}
	if resp.GetValue() != "Lab" {
		t.Fatalf("wanted `Lab`; found `%s`", resp.GetValue())
	}
}
