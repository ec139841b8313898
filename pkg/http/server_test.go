package http

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/nordwand/routeplanner/pkg/metrics"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type noopRoutingService struct{}

func (s *noopRoutingService) ShortestPath(origLat, origLon, dstLat, dstLon float64,
	mode string) (float64, float64, string, *metrics.QueryStats, bool, error) {
	return 0, 0, "", nil, false, nil
}

func TestUseSurfacesListenError(t *testing.T) {
	// occupy a port so the server cannot bind it
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving a port: %v", err)
	}
	defer l.Close()
	viper.Set("API_PORT", l.Addr().(*net.TCPAddr).Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := NewServer(zap.NewNop())
	g, err := api.Use(ctx, zap.NewNop(), false, &noopRoutingService{})
	if err != nil {
		t.Fatalf("Use: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected a listen error for an already bound port, got nil")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("listen error never surfaced through the group")
	}
}
