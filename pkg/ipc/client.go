package ipc

import (
	"context"
	"net"
	"time"

	"github.com/matzehuels/gridboard/pkg/errors"
)

// DefaultDialTimeout bounds Send when ctx has no deadline.
const DefaultDialTimeout = 2 * time.Second

// Send connects to the control socket at path, writes address followed by
// a newline and disconnects. The address is sent as-is; callers that want
// client-side validation use errors.ValidateAddress first.
func Send(ctx context.Context, path, address string) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultDialTimeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "connect to %s", path)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write([]byte(address + "\n")); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "send %q", address)
	}
	return nil
}
