package main

import (
	"fmt"
	"os"

	"github.com/interpretive-systems/stagium/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "stagium: %v\n", err)
		os.Exit(1)
	}
}
