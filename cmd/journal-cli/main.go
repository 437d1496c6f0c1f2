package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeffrom/journald/config"
)

var tmpConfig = config.New()

var RootCmd = &cobra.Command{
	Use:   "journal-cli",
	Short: "Submit entries to the journal daemon and read them back",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if tmpConfig.File != "" {
			viper.SetConfigFile(tmpConfig.File)
			if err := viper.ReadInConfig(); err != nil {
				return err
			}
		}
		if viper.IsSet("socket-path") {
			tmpConfig.SocketPath = viper.GetString("socket-path")
		}
		if viper.IsSet("seal-threshold") {
			tmpConfig.SealThreshold = viper.GetInt("seal-threshold")
		}
		if viper.IsSet("verbose") {
			tmpConfig.Verbose = viper.GetBool("verbose")
		}
		return tmpConfig.Validate()
	},
}

func init() {
	pflags := RootCmd.PersistentFlags()
	dconf := config.Default

	pflags.StringVarP(&tmpConfig.File, "config", "c", "",
		"load configuration from `FILE`")
	pflags.BoolVarP(&tmpConfig.Verbose, "verbose", "v", false,
		"print debug output")
	pflags.StringVar(&tmpConfig.SocketPath, "socket", dconf.SocketPath,
		"submission socket `PATH`")
	pflags.IntVar(&tmpConfig.SealThreshold, "seal-threshold", dconf.SealThreshold,
		"payloads over `BYTES` skip the datagram attempt (0 means error-driven fallback only)")

	viper.SetEnvPrefix("JOURNALD")
	viper.AutomaticEnv()

	RootCmd.AddCommand(WriteCmd)
	RootCmd.AddCommand(ReadCmd)
	RootCmd.AddCommand(VersionCmd)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
