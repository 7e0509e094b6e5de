package cmd

import (
	"fmt"
	"strings"

	"github.com/marcus/tmc/internal/config"
	"github.com/marcus/tmc/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage tmc configuration",
	GroupID: "system",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]

		if !config.IsValidKey(key) {
			output.Error("unknown config key: %s", key)
			fmt.Println("Valid keys:", strings.Join(config.Keys, ", "))
			return fmt.Errorf("unknown config key: %s", key)
		}

		cfg, err := config.Load()
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}
		if err := config.Set(cfg, key, val); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := config.Save(cfg); err != nil {
			output.Error("save config: %v", err)
			return err
		}

		output.Success("set %s = %s", key, val)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		if !config.IsValidKey(key) {
			output.Error("unknown config key: %s", key)
			fmt.Println("Valid keys:", strings.Join(config.Keys, ", "))
			return fmt.Errorf("unknown config key: %s", key)
		}

		fmt.Println(effectiveValue(key))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			output.Error("load config: %v", err)
			return err
		}

		for _, key := range config.Keys {
			val, _ := config.Get(cfg, key)
			if val == "" {
				val = effectiveValue(key) + " (default)"
			}
			fmt.Printf("%-14s %s\n", key, val)
		}
		return nil
	},
}

// effectiveValue returns the value in effect for key after env and
// defaults are applied.
func effectiveValue(key string) string {
	switch key {
	case "api.url":
		return config.APIURL()
	case "api.timeout":
		return config.APITimeout().String()
	case "store.backend":
		return config.StoreBackend()
	case "log.level":
		return strings.ToLower(config.LogLevel().String())
	case "log.format":
		return config.LogFormat()
	}
	return ""
}

func init() {
	configCmd.AddCommand(configSetCmd, configGetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}
