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

// Package display renders VectorJSON events to a terminal.
package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/vectorjson/vectorjson"
)

// Printer renders parser events, optionally styled with lipgloss.
type Printer struct {
	w io.Writer

	pathStyle   lipgloss.Style
	valueStyle  lipgloss.Style
	deltaStyle  lipgloss.Style
	errStyle    lipgloss.Style
	statusStyle lipgloss.Style
}

// NewPrinter returns a Printer writing to w. When color is false, every
// style renders as plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	p := &Printer{w: w}
	if !color {
		return p
	}
	p.pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	p.valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	p.deltaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	p.errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	p.statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	return p
}

// PrintValue renders a value event.
func (p *Printer) PrintValue(path string, v vectorjson.Value) {
	rendered, err := v.Interface()
	label := path
	if label == "" {
		label = "$"
	}
	if err != nil {
		fmt.Fprintf(p.w, "%s %v\n", p.pathStyle.Render(label), p.errStyle.Render(err.Error()))
		return
	}
	fmt.Fprintf(p.w, "%s %v\n", p.pathStyle.Render(label), p.valueStyle.Render(fmt.Sprint(rendered)))
}

// PrintDelta renders a string-delta event.
func (p *Printer) PrintDelta(path, text string) {
	label := path
	if label == "" {
		label = "$"
	}
	fmt.Fprintf(p.w, "%s += %s\n", p.pathStyle.Render(label), p.deltaStyle.Render(text))
}

// PrintStatus renders the parser's status after a feed call.
func (p *Printer) PrintStatus(status vectorjson.Status) {
	fmt.Fprintln(p.w, p.statusStyle.Render("status: "+status.String()))
}

// PrintError renders a parse error.
func (p *Printer) PrintError(err error) {
	fmt.Fprintln(p.w, p.errStyle.Render(err.Error()))
}
