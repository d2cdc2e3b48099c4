// Command archmesh-parse replays captured LLM output through the parser.
//
// Usage:
//
//	archmesh-parse decode --provider openai body.json
//	archmesh-parse extract answer.txt
//	archmesh-parse repair answer.txt
//	archmesh-parse parse --provider ollama --fallback fallback.yaml body.json
//	cat answer.txt | archmesh-parse parse --metrics
//
// Input comes from the file argument, or stdin when it is absent or "-".
// Results go to stdout, logs and the --metrics dump to stderr.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
