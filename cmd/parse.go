package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/nvraghav/khata/parser"
)

var parseTarget string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse statement(s) and print JSON",
	Long: `Parses a statement file, or every file in a folder, and prints the
extracted transactions as JSON on stdout.`,
	Run: func(cmd *cobra.Command, args []string) {
		target := parseTarget
		if len(args) == 1 {
			target = args[0]
		}
		log.Println("scanning", target)
		parser.ExecuteAgainstPath(target)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseTarget, "folder", "f", ".", "File or folder to parse")
}
