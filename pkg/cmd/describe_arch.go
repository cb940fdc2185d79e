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

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uwsampl/churchroad/pkg/arch"
	"github.com/uwsampl/churchroad/pkg/ir"
)

var describeArchPath string

var describeArchCmd = &cobra.Command{
	Use:   "describe-arch",
	Short: "Print the interfaces an architecture description implements.",
	Long:  "describe-arch loads an architecture description and prints, for each implementation it declares, the abstract interface it binds and the concrete module template realizing it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.WithField("path", describeArchPath).Debug("loading architecture description")

		d, err := arch.LoadFile(describeArchPath)
		if err != nil {
			return err
		}

		return describeArch(cmd.OutOrStdout(), d)
	},
}

func init() {
	describeArchCmd.Flags().StringVar(&describeArchPath, "arch", "", "path to an architecture description YAML file")
	_ = describeArchCmd.MarkFlagRequired("arch")

	rootCmd.AddCommand(describeArchCmd)
}

// terminalWidth reports the terminal width describe-arch caps each
// header's underline at (the output itself is not wrapped), falling back
// to a conservative default when stdout isn't a terminal (e.g. when piped
// into a file or another command).
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}

	return w
}

func describeArch(w io.Writer, d arch.Description) error {
	width := terminalWidth()

	for i, impl := range d.Implementations {
		if i > 0 {
			fmt.Fprintln(w)
		}

		header := impl.ID.String()
		fmt.Fprintln(w, header)
		fmt.Fprintln(w, strings.Repeat("-", min(width, len(header))))
		fmt.Fprintf(w, "  module       %s\n", impl.Module.ModuleName)

		if impl.Module.Filepath != "" {
			fmt.Fprintf(w, "  filepath     %s\n", impl.Module.Filepath)
		}

		for _, p := range impl.Module.Ports {
			fmt.Fprintf(w, "  port  %-5s %-6s width=%d\n", p.Name, dirLabel(p.Direction), p.Width)
		}

		for name, width := range impl.InternalData {
			fmt.Fprintf(w, "  internal_data %s[%d]\n", name, width)
		}

		for name, node := range impl.OutputProjection {
			fmt.Fprintf(w, "  output %s -> %v\n", name, node)
		}
	}

	return nil
}

func dirLabel(d ir.Direction) string {
	if d == ir.Input {
		return "input"
	}

	return "output"
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}
