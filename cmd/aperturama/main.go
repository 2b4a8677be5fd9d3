package main

import (
	"fmt"
	"os"
	"strconv"

	"aperturama/internal/app"
	"aperturama/internal/aperture"
	"aperturama/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the defaults.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Ingest", "ShareLink").
func newApp(cmd *cobra.Command, operation string) (*app.App, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var opts []app.Option
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		opts = append(opts, app.WithStderr(nil))
	}
	a, err := app.NewApp(cmd.Context(), cfg, operation, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// requester builds the identity a command acts as from --as, --link and --password.
func requester(cmd *cobra.Command) (aperture.Requester, error) {
	userID, _ := cmd.Flags().GetInt64("as")
	code, _ := cmd.Flags().GetString("link")
	password, _ := cmd.Flags().GetString("password")
	return app.ParseRequester(userID, code, password)
}

// owner returns the --as user id for commands that only a signed-in user may run.
func owner(cmd *cobra.Command) (int64, error) {
	req, err := requester(cmd)
	if err != nil {
		return 0, err
	}
	if !req.IsAuthenticated() {
		return 0, fmt.Errorf("this command requires --as <user-id>")
	}
	return req.UserID(), nil
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %q", what, s)
	}
	return id, nil
}

// parseTarget parses "media ID" or "collection ID".
func parseTarget(kind, id string) (aperture.Target, error) {
	n, err := parseID(id, kind)
	if err != nil {
		return aperture.Target{}, err
	}
	switch kind {
	case "media", "m":
		return aperture.MediaTarget(n), nil
	case "collection", "c":
		return aperture.CollectionTarget(n), nil
	default:
		return aperture.Target{}, fmt.Errorf("unknown target kind %q: want media or collection", kind)
	}
}

var rootCmd = &cobra.Command{
	Use:          "aperturama",
	Short:        "Private photo library with sharing",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64("as", 0, "Act as the user with this id")
	rootCmd.PersistentFlags().String("link", "", "Act as the holder of this share-link code")
	rootCmd.PersistentFlags().String("password", "", "Password presented with --link")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Write log lines to the log file only")
}
