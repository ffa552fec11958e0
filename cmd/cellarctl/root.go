package main

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iliyamo/wine-cellar/internal/database"
)

// Config keys.  Each is also a persistent flag and a CELLAR_* variable.
const (
	cfgKeyDBDriver   = "db-driver"
	cfgKeyDBDSN      = "db-dsn"
	cfgKeySQLitePath = "sqlite-path"
	cfgKeyConfig     = "config"
)

// cfg merges flags, CELLAR_* environment variables and an optional config
// file; flags win.
var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:           "cellarctl",
	Short:         "Administer the wine cellar service",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if path := cfg.GetString(cfgKeyConfig); path != "" {
			cfg.SetConfigFile(path)
			if err := cfg.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(cfgKeyDBDriver, database.DriverSQLite, "database driver (mysql|sqlite)")
	pf.String(cfgKeyDBDSN, "", "driver DSN; for mysql e.g. user:pass@tcp(host:3306)/cellar?parseTime=true")
	pf.String(cfgKeySQLitePath, "data/cellar.db", "sqlite database file (used when --db-dsn is empty)")
	pf.String(cfgKeyConfig, "", "optional config file (yaml, json or toml)")

	cfg.SetEnvPrefix("CELLAR")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
	_ = cfg.BindPFlags(pf)

	rootCmd.AddCommand(versionCmd, migrateCmd, layoutCmd)
}

// openDB opens the configured database.
func openDB() (*sql.DB, error) {
	driver := strings.ToLower(cfg.GetString(cfgKeyDBDriver))
	dsn := cfg.GetString(cfgKeyDBDSN)
	switch driver {
	case database.DriverSQLite:
		if dsn == "" {
			return database.OpenSQLite(cfg.GetString(cfgKeySQLitePath))
		}
		return database.OpenDSN(driver, dsn)
	case database.DriverMySQL:
		if dsn == "" {
			return nil, fmt.Errorf("--%s is required for mysql", cfgKeyDBDSN)
		}
		return database.OpenDSN(driver, dsn)
	}
	return nil, fmt.Errorf("unsupported db driver %q", driver)
}
