package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/agentx-labs/stack-init/internal/config"
	"github.com/agentx-labs/stack-init/internal/runtime"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// probeVersion is swapped in tests.
var probeVersion = runtime.ProbeVersion

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that node and npm are ready",
	Long: `Verify that node and the configured package manager are on PATH and that
the node version satisfies node_constraint (default >=20.19.0, the minimum
current Vite releases accept).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		settings := config.Current()

		tools := probeTools(cmd.Context(), "node", settings.NPM)
		if problems := report(cmd.OutOrStdout(), tools, settings.NodeConstraint); problems > 0 {
			return fmt.Errorf("doctor found %d problem(s)", problems)
		}
		return nil
	},
}

// probeTools runs every version probe concurrently and returns the results
// in input order.
func probeTools(ctx context.Context, names ...string) []runtime.ToolVersion {
	results := make([]runtime.ToolVersion, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			results[i] = probeVersion(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// report prints one line per tool and returns the number of failed checks.
func report(w io.Writer, tools []runtime.ToolVersion, nodeConstraint string) int {
	fmt.Fprintln(w, "Runtime check:")
	problems := 0
	for _, tv := range tools {
		if tv.Err != nil {
			fmt.Fprintf(w, "  [MISS] %s: %v\n", tv.Name, tv.Err)
			problems++
			continue
		}

		if tv.Name == "node" && nodeConstraint != "" {
			ok, err := runtime.Satisfies(tv.Version, nodeConstraint)
			if err != nil {
				fmt.Fprintf(w, "  [FAIL] %s: %v\n", tv.Name, err)
				problems++
				continue
			}
			if !ok {
				fmt.Fprintf(w, "  [FAIL] %s %s does not satisfy %s\n", tv.Name, tv.Version, nodeConstraint)
				problems++
				continue
			}
		}
		fmt.Fprintf(w, "  [ OK ] %s %s at %s\n", tv.Name, tv.Version, tv.Path)
	}
	return problems
}
