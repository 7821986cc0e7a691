package tui

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/panscan/panscan/internal/detectors"
)

// contextWindow returns lines [target-n, target+n] of path, clipped at the
// start of the file, and the number of the first returned line.
func contextWindow(path string, target, n int) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	first := max(target-n, 1)
	last := target + n
	var out []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for no := 1; no <= last && sc.Scan(); no++ {
		if no >= first {
			out = append(out, sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	if target-first >= len(out) {
		return nil, 0, fmt.Errorf("line %d is past the end of the file", target)
	}
	return out, first, nil
}

// renderContext returns the lines around target with line numbers and a
// marker on the target. Card numbers are always masked, whatever the scan
// was configured to report.
func renderContext(path string, target, n int, highlight bool) (string, error) {
	lines, first, err := contextWindow(path, target, n)
	if err != nil {
		return "", err
	}
	var hl *highlighter
	if highlight {
		hl = newHighlighter(path)
	}
	width := len(fmt.Sprint(first + len(lines) - 1))
	var sb strings.Builder
	for i, line := range lines {
		no := first + i
		text := hl.line(detectors.RedactLine(line, detectors.DefaultMaskChar))
		marker := "  "
		if no == target {
			marker = markerStyle.Render("> ")
		}
		fmt.Fprintf(&sb, "%s%*d │ %s\n", marker, width, no, text)
	}
	return sb.String(), nil
}

// highlighter colours single lines with the chroma lexer picked for a file
// name. A nil highlighter returns lines unchanged.
type highlighter struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

func newHighlighter(filename string) *highlighter {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	formatter := formatters.Get("terminal256")
	if lexer == nil || formatter == nil {
		return nil
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	return &highlighter{lexer: chroma.Coalesce(lexer), style: style, formatter: formatter}
}

func (h *highlighter) line(s string) string {
	if h == nil {
		return s
	}
	it, err := h.lexer.Tokenise(nil, s)
	if err != nil {
		return s
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return s
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
