// Package main provides the CLI entrypoint for configen.
//
// configen generates typed configuration structs from the parameter lists
// of Go functions and constructors:
//   - Reads a manifest (YAML or HCL) naming the target callables
//   - Introspects their parameters with go/types
//   - Emits one config struct per callable, plus a Default constructor
//   - Checks committed output for drift with --check
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
