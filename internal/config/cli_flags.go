package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().Duration("timeout", DefaultHTTPTimeout, "Per-request timeout (0 waits forever)")
	cmd.PersistentFlags().String("user-agent", "", "User agent to send (default: none)")
	cmd.PersistentFlags().String("config", "", "Path to a YAML configuration file (optional)")
	cmd.PersistentFlags().String("base-url", DefaultBaseURL, "Address of the first listing page")
	cmd.PersistentFlags().Int("max-pages", DefaultMaxPages, "Stop after this many pages (0 = follow pagination to the end)")
	cmd.PersistentFlags().Float64("rps", DefaultRateLimitRPS, "Maximum requests per second (0 = unpaced)")
}
