/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
Copyright © 2026 The kpilake Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/kpilake/kpilake/internal/iofs"
	"github.com/kpilake/kpilake/internal/iologger"
	app "github.com/kpilake/kpilake/pkg"
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
// Extracted as a function to facilitate testing.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "kpilake",
		Short:   "kpilake turns raw sales extracts into served KPIs",
		Long: `kpilake runs a layered data pipeline over an S3-compatible object
store and a MongoDB serving database:

  bronze  raw CSV extracts (clients.csv, achats.csv)
  silver  cleaned, deduplicated datasets with parsed dates
  gold    client and time dimensions, purchase fact and KPIs
  serving one MongoDB collection per KPI, read by the API

Flows:
  silver   clean bronze datasets and check their quality
  gold     build dimensions, fact and KPIs
  export   publish KPIs to MongoDB
  run      all three flows, stopping at the first failure

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (KPILAKE_*, MINIO_*, MONGO_*)
  3. .env file of the working directory
  4. Config file (~/.config/kpilake/config.yaml)
  5. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "kpilake version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for kpilake")
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(
		getSilverCmd(),
		getGoldCmd(),
		getExportCmd(),
		getRunCmd(),
		getServeCmd(),
		getInspectCmd(),
		getHistoryCmd(),
		getUploadCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error

	// .env is optional
	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		gn.Warn("Cannot read <em>.env</em> file: %s", err)
	}

	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfgPath := config.ConfigFilePath(homeDir)
	if err = iofs.ValidateConfigFile(cfgPath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(cfgPath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// CLI flags win over everything else
	cfg.Update(flagOptions(cmd))

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, keeping what was logged
	// during bootstrap
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", cfgPath,
		"command", cmd.Name(),
	)
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	_ = iologger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(cfgPath string) (*config.Config, error) {
	v := newViper()
	v.SetConfigFile(cfgPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err := v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// envAliases are variable names used by the first version of the
// pipeline.
var envAliases = map[string][]string{
	"object_store.endpoint":   {"MINIO_ENDPOINT"},
	"object_store.access_key": {"MINIO_ACCESS_KEY"},
	"object_store.secret_key": {"MINIO_SECRET_KEY"},
	"object_store.secure":     {"MINIO_SECURE"},
	"document_store.uri":      {"MONGO_URI"},
	"document_store.database": {"MONGO_DB"},
	"ledger.path":             {"SQLITE_DB_PATH"},
}

// envKeys are the configuration keys that can be set from the
// environment. They match the fields of config.ToOptions().
var envKeys = []string{
	"object_store.backend",
	"object_store.endpoint",
	"object_store.access_key",
	"object_store.secret_key",
	"object_store.secure",
	"object_store.region",
	"object_store.bronze_bucket",
	"object_store.silver_bucket",
	"object_store.gold_bucket",
	"document_store.uri",
	"document_store.database",
	"export.strategy",
	"export.batch_size",
	"ledger.backend",
	"ledger.path",
	"ledger.dsn",
	"api.address",
	"metrics.push_url",
	"log.level",
	"log.format",
	"log.destination",
	"jobs_number",
	"retry_delay",
}

// newViper returns a viper instance aware of environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	initEnvVars(v)
	return v
}

// initEnvVars binds environment variables explicitly, so it is clear
// which ones are allowed. A KPILAKE_ variable takes precedence over its
// alias.
func initEnvVars(v *viper.Viper) {
	replacer := strings.NewReplacer(".", "_")
	for _, key := range envKeys {
		name := "KPILAKE_" + strings.ToUpper(replacer.Replace(key))
		names := append([]string{key, name}, envAliases[key]...)
		_ = v.BindEnv(names...)
	}
}
