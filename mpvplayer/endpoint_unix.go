//go:build !windows

package mpvplayer

import (
	"context"
	"net"
	"os"
)

// DefaultSocketPath is the well-known IPC endpoint shared by every qqm invocation
const DefaultSocketPath = "/tmp/qqm-mpv.sock"

func dialEndpoint(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

// RemoveStale deletes a socket file left behind by a previous mpv
func RemoveStale(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
