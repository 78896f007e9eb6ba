package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/timgluz/phytolab/log"
)

const (
	envPrefix = "PHYTOCALC"
	version   = "0.1.0"
)

// newRootCmd builds the command tree. Settings resolve from flags first,
// then PHYTOCALC_* environment variables, optionally loaded from a .env file.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "phytocalc",
		Short:        "Calculate plant biochemical assays from absorbance readings",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv(v.GetString("env-file"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("env-file", ".env", "dotenv file with PHYTOCALC_* settings")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("json", false, "print JSON instead of tables")
	bindFlags(v, flags.Lookup("env-file"), flags.Lookup("log-level"), flags.Lookup("json"))

	root.AddCommand(
		newProtocolsCmd(v),
		newTemplateCmd(),
		newCalcCmd(v),
		newUploadCmd(v),
	)
	return root
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func newLogger(cmd *cobra.Command, v *viper.Viper) *slog.Logger {
	return log.New(cmd.ErrOrStderr(), v.GetString("log-level"), "phytocalc")
}
