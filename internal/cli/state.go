package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/store"
)

// stateCommand creates the command group for persisted board state.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or clear saved board state",
	}

	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateClearCommand())
	cmd.AddCommand(c.statePathCommand())

	return cmd
}

// withStore opens the configured store and runs fn with it.
func (c *CLI) withStore(ctx context.Context, fn func(st store.Store, key string) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Backend == store.BackendNone {
		printInfo("Persistence is disabled (store backend %q)", store.BackendNone)
		return nil
	}
	st, err := c.openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st, cfg.Store.Key)
}

// stateShowCommand creates the "state show" subcommand.
func (c *CLI) stateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved marked cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, key string) error {
				saved, err := st.Load(cmd.Context(), key)
				if err != nil {
					return err
				}
				if saved == nil {
					printInfo("No saved state for %s", StyleHighlight.Render(key))
					return nil
				}
				printState(key, st.Name(), saved)
				return nil
			})
		},
	}
}

func printState(key, backend string, s *board.State) {
	printKeyValue("key", key)
	printKeyValue("backend", backend)
	printKeyValue("grid", fmt.Sprintf("%dx%d", s.Columns, s.Rows))
	if !s.UpdatedAt.IsZero() {
		printKeyValue("updated", s.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}

	labels := make([]string, 0, len(s.Marked))
	for _, i := range s.Marked {
		label := fmt.Sprint(i)
		if addr, ok := s.Address(i); ok {
			label = addr
		}
		labels = append(labels, label)
	}
	marked := StyleDim.Render("none")
	if len(labels) > 0 {
		marked = strings.Join(labels, " ")
	}
	printKeyValue("marked", marked)
}

// stateClearCommand creates the "state clear" subcommand.
func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved marked cells",
		Long: `Delete the saved marked cells for the configured key.

A running server keeps its in-memory state and writes it back on the next
toggle; stop it first to start from an empty board.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store, key string) error {
				if err := st.Delete(cmd.Context(), key); err != nil {
					return err
				}
				printSuccess("Cleared saved state for %s", StyleHighlight.Render(key))
				printDetail("backend: %s", st.Name())
				return nil
			})
		},
	}
}

// statePathCommand creates the "state path" subcommand.
func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the state directory used by the file backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			sc := cfg.Store
			sc.Backend = store.BackendFile
			resolveStoreDir(&sc)
			fmt.Fprintln(stdout, sc.Dir)
			return nil
		},
	}
}
