/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command vjsoncat streams a file (or stdin) through VectorJSON in small
// chunks, printing each field-level event as it fires, so a chunked LLM
// tool-call stream can be watched live from a terminal. It is a thin shell
// around the core: all parsing lives in the vectorjson package, this
// binary only wires it to a terminal and a config file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vectorjson/vectorjson/cmd/vjsoncat/internal/config"
	"github.com/vectorjson/vectorjson/cmd/vjsoncat/internal/display"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath    string
		chunkSize  int
		watch      []string
		skip       []string
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "vjsoncat [file]",
		Short: "Stream JSON through VectorJSON and print field-level events as they arrive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if chunkSize > 0 {
				cfg.ChunkSize = chunkSize
			}
			if len(watch) > 0 {
				cfg.Watch = watch
			}
			if len(skip) > 0 {
				cfg.Skip = skip
			}
			if noColor {
				cfg.Color = false
			}

			var r io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			printer := display.NewPrinter(os.Stdout, cfg.Color)
			return run(r, cfg, printer)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a TOML config file")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "bytes fed to the parser per step (default from config, else 16)")
	cmd.Flags().StringSliceVar(&watch, "watch", nil, "paths to print value events for (default: root)")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "paths whose subtrees fire no events")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
