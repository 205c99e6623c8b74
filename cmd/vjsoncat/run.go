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

package main

import (
	"fmt"
	"io"

	"github.com/vectorjson/vectorjson"
	"github.com/vectorjson/vectorjson/cmd/vjsoncat/internal/config"
	"github.com/vectorjson/vectorjson/cmd/vjsoncat/internal/display"
)

func run(r io.Reader, cfg *config.Config, printer *display.Printer) error {
	ep := vectorjson.NewEventParser(vectorjson.WithParserOptions(
		vectorjson.WithMaxDepth(cfg.MaxDepth),
		vectorjson.WithMaxBufferSize(cfg.MaxBufferSize),
	))

	watch := cfg.Watch
	if len(watch) == 0 {
		watch = []string{""}
	}
	for _, path := range watch {
		p := path
		if _, err := ep.On(p, func(pathStr string, v vectorjson.Value) {
			printer.PrintValue(pathStr, v)
		}); err != nil {
			return fmt.Errorf("watch %q: %w", p, err)
		}
		if _, err := ep.OnDelta(p, func(pathStr, text string, offset, length int) {
			printer.PrintDelta(pathStr, text)
		}); err != nil {
			return fmt.Errorf("watch %q: %w", p, err)
		}
	}
	if len(cfg.Skip) > 0 {
		if err := ep.Skip(cfg.Skip...); err != nil {
			return err
		}
	}
	defer ep.Close()

	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 16
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			status, feedErr := ep.Feed(buf[:n])
			if feedErr != nil {
				printer.PrintError(feedErr)
				return feedErr
			}
			if status == vectorjson.StatusCompleteEarly {
				printer.PrintStatus(status)
			}
		}
		if err == io.EOF {
			printer.PrintStatus(ep.Status())
			return nil
		}
		if err != nil {
			return err
		}
	}
}
