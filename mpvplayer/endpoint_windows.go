//go:build windows

package mpvplayer

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// DefaultSocketPath is the well-known IPC endpoint shared by every qqm invocation
const DefaultSocketPath = `\\.\pipe\qqm-mpv`

func dialEndpoint(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}

// RemoveStale is a no-op: named pipes vanish with their server
func RemoveStale(string) error {
	return nil
}
