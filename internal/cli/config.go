package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agentx-labs/stack-init/internal/branding"
	"github.com/agentx-labs/stack-init/internal/config"
	"github.com/spf13/cobra"
)

var knownKeys = []string{
	config.KeyNPM,
	config.KeyBackendPort,
	config.KeyViteVersion,
	config.KeyNodeConstraint,
	config.KeyLogLevel,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: fmt.Sprintf(`Read and write %s configuration stored at ~/%s/config.yaml.

Keys and the environment variables that override them:
%s`, branding.DisplayName(), branding.HomeDir(), keyTable()),
}

// keyTable lists each known key beside its override variable.
func keyTable() string {
	var b strings.Builder
	for _, key := range knownKeys {
		fmt.Fprintf(&b, "  %-16s %s\n", key, branding.EnvVar(key))
	}
	return b.String()
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkKey(key); err != nil {
			return err
		}
		if key == config.KeyBackendPort {
			port, err := strconv.Atoi(value)
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("%s must be a port number, got %q", key, value)
			}
		}

		config.Load()
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkKey(args[0]); err != nil {
			return err
		}
		config.Load()
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

func checkKey(key string) error {
	if !slices.Contains(knownKeys, key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
