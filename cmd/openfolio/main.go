package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "openfolio",
	Short: "openfolio - portfolio tracking and performance analysis backend",
	Long: `openfolio tracks accounts, strategies, portfolios, and transactions,
computes FIFO-matched realized and unrealized performance over live market
data, and serves rule-based recommendations and a chatbot over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
