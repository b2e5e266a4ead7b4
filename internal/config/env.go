package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable the tools read.
const EnvPrefix = "COVGROUP"

// DatabaseURLEnv is read for --history-db when COVGROUP_HISTORY_DB is unset.
const DatabaseURLEnv = "COVGROUP_DATABASE_URL"

// LoadDotEnv loads .env from the working directory if there is one.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// NewViper returns a viper instance reading COVGROUP_* variables, with
// dashes in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("history-db", EnvPrefix+"_HISTORY_DB", DatabaseURLEnv)
	return v
}

// Bind makes every flag of cmd fall back to its COVGROUP_<FLAG> variable.
// Flags set on the command line win; help and version are left alone.
func Bind(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "help" || f.Name == "version" {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			bindErr = err
			return
		}
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		value := v.GetString(f.Name)
		if value == f.DefValue {
			return
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			bindErr = fmt.Errorf("%w: %s_%s: %w", ErrInvalidOption, EnvPrefix, envKey(f.Name), err)
		}
	})
	return bindErr
}

func envKey(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
