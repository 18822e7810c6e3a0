// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of certpin",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("certpin version %s\n", version)
		return nil
	},
}
