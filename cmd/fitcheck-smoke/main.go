// Package main provides the fitcheck-smoke CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/okian/fitcheck/internal/smoke"
)

func main() {
	if err := smoke.Command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
