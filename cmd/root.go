package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nvraghav/khata/parser"
)

// Embedded default configuration: per-bank detection keywords and the
// bespoke raw-text patterns. A .khata.yaml in the working or home
// directory overrides it.
const defaultConfigYAML = `
bank:
  canara:
    keywords:
      - canara bank
      - cnrb
      - canara aspire
      - canara savings
      - canarabank
    patterns:
      anchor: ^(\d{1,2}-\d{2}-\d{4})\s+(.*)
      table_header: (?i)^date\s+particulars\s+deposits\s+withdrawals\s+balance
      page_marker: (?i)^page\s+\d+
      chq_line: (?i)^chq\s*:
  kotak:
    keywords:
      - kotak
      - kotak mahindra
      - "811"
  sbi:
    keywords:
      - state bank of india
      - sbin0
      - onlinesbi
      - yono
    patterns:
      anchor: ^(\d{1,2}\s+[A-Za-z]{3}\s+\d{4})\b\s*(.*)$
      ref_marker: (?i)^(?:ref|utr)\b[\s:.]*(\S*)
      table_header: (?i)^(?:txn\s+)?date\s+.*(?:narration|description|particulars)
      page_marker: (?i)^page\s+\d+
`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "khata [filename]",
		Short: "Extract transactions from bank statements",
		Long:  `khata extracts normalized transaction records out of bank-statement PDFs, whatever the issuing bank's layout.`,
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				parser.ExecuteAgainstPath(args[0])
				return
			}
			cmd.Help()
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.khata.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".khata")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
