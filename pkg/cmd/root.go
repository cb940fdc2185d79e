// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package cmd implements the techmap command-line tool: synthesizing
// abstract interfaces against an architecture description (map), printing
// an architecture description back out in human-readable form
// (describe-arch), and checking a sketch against an abstract bit-vector
// specification (check).
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd is the base command when techmap is invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "techmap",
	Short: "An FPGA technology-mapping synthesis engine.",
	Long:  "techmap realizes abstract interfaces (LUTs, multiplexers, carry chains) against a concrete FPGA architecture description, and checks the resulting sketch against an abstract bit-vector specification.",
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

// GetFlag reads a persistent bool flag off cmd, returning false if it was
// never registered (rather than panicking) since callers use this from
// cobra.OnInitialize, before flag parsing errors would otherwise surface.
func GetFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}

	return v
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main(); only needs to happen once.
func Execute() {
	cobra.OnInitialize(func() {
		if GetFlag(rootCmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
