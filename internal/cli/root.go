package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/stack-init/internal/branding"
	"github.com/agentx-labs/stack-init/internal/config"
	"github.com/agentx-labs/stack-init/internal/logger"
	"github.com/agentx-labs/stack-init/internal/orchestrator"
	"github.com/agentx-labs/stack-init/internal/project"
	"github.com/agentx-labs/stack-init/internal/runtime"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	dryRun         bool
	cleanOnFailure bool
	verbose        bool
)

// newRunner builds the command runner used by the root command. Tests swap
// it for a fake.
var newRunner = func(stdout, stderr io.Writer) runtime.Runner {
	return &runtime.ExecRunner{Stdout: stdout, Stderr: stderr}
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the name and print the plan without touching disk")
	rootCmd.Flags().BoolVar(&cleanOnFailure, "clean-on-failure", false, "Remove the project directory if any step fails")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <project-name>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates <project-name>/ in the current directory with an Express
backend (ES modules, nodemon dev script) and a Vite + React frontend styled
with Tailwind CSS. npm must be on PATH.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		settings := config.Current()

		level := settings.LogLevel
		if verbose {
			level = "debug"
		}
		log := logger.New(cmd.ErrOrStderr(), level)
		defer log.Sync()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}

		opts := orchestrator.Options{
			NPM:              settings.NPM,
			ViteVersion:      settings.ViteVersion,
			BackendPort:      settings.BackendPort,
			CleanupOnFailure: cleanOnFailure,
		}

		if dryRun {
			return printPlan(cmd.OutOrStdout(), name, cwd, opts)
		}

		runner := newRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())
		o := orchestrator.New(runner, cmd.OutOrStdout(), log, opts)
		res, err := o.Run(cmd.Context(), name, cwd)
		if err != nil {
			log.Debug("run failed", "state", res.State.String(), "result", res.String())
			return err
		}
		return nil
	},
}

// printPlan validates name and lists every step a real run would take.
func printPlan(w io.Writer, name, cwd string, opts orchestrator.Options) error {
	spec, err := project.Validate(name, cwd)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Plan for %s (%s):\n", spec.Name, spec.RootPath)
	for _, p := range orchestrator.Plan(spec, opts) {
		fmt.Fprintf(w, "\n%s:\n", p.Name)
		for i, s := range p.Steps {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, s.Kind, s.Name)
		}
	}
	return nil
}

// Execute runs the root command with build info injected via ldflags. Errors
// are printed to stderr; the caller only decides the exit status.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		if orchestrator.IsPrecondition(err) {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Usage: %s <project-name>\n", branding.CLIName())
		}
	}
	return err
}
