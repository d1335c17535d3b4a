package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/ipc"
)

// sendCommand creates the send command that toggles cells on a running board.
func (c *CLI) sendCommand() *cobra.Command {
	var (
		socket  string
		raw     bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "send ADDRESS...",
		Short: "Toggle cells on a running board",
		Long: `Toggle cells on a running board by address.

Each address is sent on its own connection, in order. Addresses are checked
locally before sending; --raw skips the check and sends the text verbatim,
which is useful for exercising how the server treats malformed input.`,
		Example: `  gridboard send b3
  gridboard send a1 b2 c3
  gridboard send --raw abc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("socket") {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				socket = cfg.Control.Socket
			}
			return c.runSend(cmd.Context(), socket, args, raw, timeout)
		},
	}

	cmd.Flags().StringVar(&socket, "socket", "", "control socket path (default: from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "send text without validating it")
	cmd.Flags().DurationVar(&timeout, "timeout", ipc.DefaultDialTimeout, "timeout per address")

	return cmd
}

func (c *CLI) runSend(ctx context.Context, socket string, addrs []string, raw bool, timeout time.Duration) error {
	if !raw {
		for _, a := range addrs {
			if err := errors.ValidateAddress(a); err != nil {
				return err
			}
		}
	}

	for _, a := range addrs {
		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		err := ipc.Send(sendCtx, socket, a)
		cancel()
		if err != nil {
			return err
		}
		c.Logger.Debug("sent address", "address", a, "socket", socket)
	}

	if len(addrs) == 1 {
		printSuccess("Sent %s", StyleHighlight.Render(addrs[0]))
	} else {
		printSuccess("Sent %d addresses", len(addrs))
	}
	printDetail("socket: %s", socket)
	return nil
}
