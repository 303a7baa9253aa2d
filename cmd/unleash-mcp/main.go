// Unleash MCP: feature-flag control plane for AI coding agents.
//
// An MCP server that connects AI coding tools (Claude Code, OpenCode,
// Gemini CLI, Codex, Cursor, VS Code Copilot) to an Unleash instance,
// so agents check for existing flags before inventing new ones.
//
// Usage:
//
//	unleash-mcp serve     # Start MCP server (stdio transport)
//	unleash-mcp version   # Print the build version
//	unleash-mcp update    # Update to the latest release
package main

import (
	"fmt"
	"os"

	"github.com/avennor/unleash-mcp/internal/config"
	"github.com/avennor/unleash-mcp/internal/logging"
	srv "github.com/avennor/unleash-mcp/internal/server"
	"github.com/avennor/unleash-mcp/internal/updater"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "unleash-mcp",
	Short: "MCP server for Unleash feature flags",
	Long: `Unleash MCP — feature-flag tools, resources, and prompts over MCP.

Exposes your Unleash instance to AI coding agents so they discover and
reuse existing flags instead of creating near-duplicates.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "unleash": {
        "command": "unleash-mcp",
        "args": ["serve"],
        "env": {
          "UNLEASH_URL": "https://unleash.example.com",
          "UNLEASH_API_TOKEN": "<admin token>"
        }
      }
    }
  }`,
	SilenceUsage: true,
	Version:      srv.Version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unleash-mcp v%s\n", srv.Version)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate()
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "config file path (default: XDG config dir)")
	rootCmd.AddCommand(serveCmd, versionCmd, updateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe() error {
	logger := logging.NewAppLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, cleanup, err := srv.New(*cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check. Prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	if os.Getenv("UNLEASH_MCP_SKIP_UPDATE_CHECK") == "" {
		go checkForUpdates()
	}

	logger.Info("serving MCP over stdio", "environment", cfg.Environment, "audit", cfg.Audit)
	return server.ServeStdio(s)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. This runs in a goroutine during
// "serve" and is best-effort; network failures are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(srv.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: unleash-mcp update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() error {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(srv.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return nil
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(srv.Version); err != nil {
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart unleash-mcp to use the new version.\n")
	return nil
}
