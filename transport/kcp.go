package transport

import (
	"context"
	"io"

	"github.com/xtaci/kcp-go"
)

// KCP implements the Transport interface to establish connections using the KCP protocol, for
// servers reached through a KCP relay.
type KCP struct {
	dataShards   int
	parityShards int
}

// NewKCP creates a new KCP transport instance with the forward error correction shard counts given.
func NewKCP(dataShards, parityShards int) *KCP {
	return &KCP{dataShards: dataShards, parityShards: parityShards}
}

// Dial ...
func (k *KCP) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := kcp.DialWithOptions(addr, nil, k.dataShards, k.parityShards)
	if err != nil {
		return nil, err
	}
	conn.SetStreamMode(true)
	conn.SetNoDelay(1, 10, 2, 1)
	return conn, nil
}
