package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/config"
	"github.com/tildaslashalef/snapreview/internal/render"
)

// InitCommand returns the CLI command for initializing snapreview
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the configuration directory and a default .env file",
		Description: "Sets up the snapreview configuration directory with a commented .env file.\n" +
			"An existing .env is backed up before it is replaced.",
		Action: initAction,
	}
}

func initAction(c *cli.Context) error {
	w := c.App.Writer
	render.PrintHeading(w, "Initializing snapreview")

	configDir := c.String("config-dir")
	if configDir == "" {
		dir, err := config.DefaultConfigDir()
		if err != nil {
			render.PrintError(w, fmt.Sprintf("Failed to resolve configuration directory: %s", err))
			return err
		}
		configDir = dir
	}
	render.PrintInfo(w, "Configuration directory: "+color.YellowString("%s", configDir))

	if err := os.MkdirAll(configDir, 0755); err != nil {
		render.PrintError(w, fmt.Sprintf("Failed to create config directory: %s", err))
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	render.PrintInfo(w, "Extracting default configuration file")
	if err := config.SetupConfigDirectory(configDir, true); err != nil {
		render.PrintError(w, fmt.Sprintf("Failed to set up configuration files: %s", err))
		return fmt.Errorf("failed to set up configuration files: %w", err)
	}

	configFilePath := filepath.Join(configDir, ".env")
	cfg, err := config.LoadFromEnv(configDir, configFilePath)
	if err != nil {
		render.PrintError(w, fmt.Sprintf("Failed to load configuration: %s", err))
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	render.PrintSuccess(w, "snapreview initialized successfully!")
	render.PrintInfo(w, "Configuration file: "+color.YellowString("%s", configFilePath))
	render.PrintInfo(w, "Log file location: "+color.YellowString("%s", cfg.Logging.Output))
	if cfg.Claude.APIKey == "" {
		render.PrintWarning(w, "Set "+color.CyanString("SNAPREVIEW_CLAUDE_API_KEY")+" in the configuration file before reviewing")
	}
	fmt.Fprintln(w)
	render.PrintInfo(w, "You can now use "+color.CyanString("snapreview FILE")+" to review your code.")

	return nil
}
