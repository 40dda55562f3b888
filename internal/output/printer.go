package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"

	"github.com/Sn1r/shannon/internal/driver"
	"github.com/Sn1r/shannon/internal/message"
)

const previewWidth = 72

// Printer renders notifications with pterm. All methods are no-ops
// outside plain mode.
type Printer struct {
	mode    Mode
	verbose bool
	writer  io.Writer

	streaming bool // a streamed block is currently being printed
}

// NewPrinter creates a Printer for the given output mode.
func NewPrinter(mode Mode, verbose bool) *Printer {
	return &Printer{mode: mode, verbose: verbose, writer: os.Stdout}
}

// NewPrinterWithWriter creates a Printer with a custom writer (for testing).
func NewPrinterWithWriter(mode Mode, verbose bool, w io.Writer) *Printer {
	return &Printer{mode: mode, verbose: verbose, writer: w}
}

func (p *Printer) active() bool {
	return p.mode == ModePlain
}

// Notify renders one notification.
func (p *Printer) Notify(n driver.Notification) {
	if !p.active() {
		return
	}
	switch v := n.(type) {
	case driver.Init:
		pterm.DefaultSection.WithWriter(p.writer).Println("shannon")
		p.keyValue("Model", v.Model)
		p.keyValue("Permissions", v.PermissionMode)
		p.keyValue("Session", v.SessionID)

	case driver.UserEcho:
		fmt.Fprintln(p.writer)
		fmt.Fprintf(p.writer, "%s %s\n", pterm.LightCyan("you ▸"), v.Prompt)

	case driver.Assistant:
		p.endStream()
		fmt.Fprintln(p.writer)
		header := fmt.Sprintf("assistant ▸ turn %d (%s)", v.Turn, v.StopReason)
		fmt.Fprintln(p.writer, pterm.LightMagenta(header))
		p.renderBlocks(v.Message.Content)

	case driver.Result:
		p.endStream()
		fmt.Fprintln(p.writer)
		p.renderResult(v)
	}
}

// StreamText prints streamed text deltas in place, without the
// per-notification framing.
func (p *Printer) StreamText(text string) {
	if !p.active() || text == "" {
		return
	}
	p.streaming = true
	fmt.Fprint(p.writer, text)
}

func (p *Printer) endStream() {
	if p.streaming {
		fmt.Fprintln(p.writer)
		p.streaming = false
	}
}

func (p *Printer) renderBlocks(blocks []message.ContentBlock) {
	for _, b := range blocks {
		switch b.Type {
		case message.BlockText:
			if b.Text != "" {
				fmt.Fprintln(p.writer, b.Text)
			}

		case message.BlockToolUse:
			if b.ToolUse == nil {
				continue
			}
			preview := runewidth.Truncate(string(b.ToolUse.Input), previewWidth, "…")
			fmt.Fprintf(p.writer, "%s %s %s\n",
				pterm.Yellow("⚙ tool"), b.ToolUse.Name, pterm.Gray(preview))

		case message.BlockToolResult:
			if b.ToolResult != nil {
				fmt.Fprintf(p.writer, "%s %s\n", pterm.Gray("↳ result for"), b.ToolResult.ToolUseID)
			}

		case message.BlockImage:
			if b.Image != nil {
				fmt.Fprintf(p.writer, "%s %s (%d bytes)\n",
					pterm.Gray("🖼 image"), b.Image.Format, len(b.Image.Data))
			}

		case message.BlockOpaque:
			if p.verbose {
				preview := runewidth.Truncate(string(b.Raw), previewWidth, "…")
				fmt.Fprintf(p.writer, "%s %s\n", pterm.Gray("· opaque"), preview)
			}
		}
	}
}

func (p *Printer) renderResult(r driver.Result) {
	switch {
	case r.Success && r.Subtype == driver.SubtypeSuccess:
		pterm.Success.WithWriter(p.writer).Printfln("done in %s (%d turns)", r.Duration.Round(time.Millisecond), r.Turns)
	case r.Success:
		pterm.Warning.WithWriter(p.writer).Printfln("turn budget exhausted after %d turns", r.Turns)
	default:
		pterm.Error.WithWriter(p.writer).Printfln("run failed: %s", r.Error)
	}
	p.keyValue("Tokens", fmt.Sprintf("%d in / %d out", r.Usage.InputTokens, r.Usage.OutputTokens))
	p.keyValue("Est. cost", fmt.Sprintf("$%.4f", r.CostUSD))
}

// Hint prints a suggestion line, used after transient-looking failures.
func (p *Printer) Hint(format string, args ...interface{}) {
	if !p.active() {
		return
	}
	pterm.Info.WithWriter(p.writer).Printfln(format, args...)
}

func (p *Printer) keyValue(key, value string) {
	fmt.Fprintf(p.writer, "  %s  %s\n", pterm.LightCyan(key+":"), value)
}

// Divider prints a horizontal rule.
func (p *Printer) Divider() {
	if !p.active() {
		return
	}
	fmt.Fprintln(p.writer, pterm.Gray(strings.Repeat("─", 50)))
}
