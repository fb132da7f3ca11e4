package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpup/saferoute/mapcore/internal/config"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "overlayctl",
	Short: "Developer tool for the safety map overlay engine",
	Long:  "Matches route risk segments onto paths and renders overlay scenarios on an in-memory map surface.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (SAFEMAP__ env vars override)")
	rootCmd.AddCommand(matchCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("overlayctl: %v", err)
		os.Exit(1)
	}
}
