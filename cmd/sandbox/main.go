package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/merchkit/pricing-api/internal/sandbox"
)

// Reads one sandbox invocation payload from stdin and writes the discount
// output to stdout. The checkout platform runs this binary with a strict
// instruction budget, so there is no logging, no network and no clock here.
func main() {
	var input sandbox.Input
	if err := json.NewDecoder(os.Stdin).Decode(&input); err != nil {
		fmt.Fprintf(os.Stderr, "decode input: %v\n", err)
		os.Exit(1)
	}

	output := sandbox.Run(input)

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}
