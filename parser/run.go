package parser

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nvraghav/khata/parser/common"
)

// ExecuteAgainstPath parses a file, or every file in a directory, and
// prints the result as JSON on stdout. Files yielding no transactions are
// dropped from directory output; a single empty file prints {}.
func ExecuteAgainstPath(path string) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		log.Println("scanning directory", path)
		entries, err := os.ReadDir(path)
		if err != nil {
			log.Printf("cannot read directory %s: %v", path, err)
			return
		}

		result := []common.Statement{}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			statement := ProcessFile(filepath.Join(path, e.Name()))
			if len(statement.Transactions) > 0 {
				result = append(result, statement)
			}
		}
		asJSON, _ := json.Marshal(result)
		fmt.Println(string(asJSON))
		return
	}

	log.Println("scanning file", path)
	statement := ProcessFile(path)
	if len(statement.Transactions) == 0 {
		fmt.Println("{}")
		return
	}
	asJSON, _ := json.Marshal(statement)
	fmt.Println(string(asJSON))
}
