package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/panscan/panscan/internal/detectors"
	"github.com/panscan/panscan/internal/types"
)

// Scanner defines the interface for card detection engines.
type Scanner interface {
	// Scan scans content read from path and returns its findings in line
	// order. A non-nil error means the content could not be decoded as text
	// and no findings are returned.
	Scan(path string, data []byte) ([]types.Finding, error)

	// Name identifies the scanner in reports.
	Name() string
}

var (
	// ErrNotText is returned for content with NUL bytes.
	ErrNotText = errors.New("binary content")
	// ErrInvalidUTF8 is returned for lines that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// Inline directives honoured by LineScanner.
const (
	DirectiveIgnore         = "panscan:ignore"
	DirectiveIgnoreNextLine = "panscan:ignore-next-line"
	DirectiveIgnoreStart    = "panscan:ignore-start"
	DirectiveIgnoreEnd      = "panscan:ignore-end"
	DirectiveIgnoreFile     = "panscan:ignore-file"
)

const sniffLen = 800

// LineScanner reads content line by line and runs the detector pipeline over
// each line.
type LineScanner struct {
	Builder detectors.Builder
	// NoDirectives disables the panscan:ignore markers.
	NoDirectives bool
}

// Name implements Scanner.
func (s *LineScanner) Name() string { return "panscan" }

// Scan implements Scanner. Lines are numbered from 1.
func (s *LineScanner) Scan(path string, data []byte) ([]types.Finding, error) {
	if looksBinary(data) {
		return nil, ErrNotText
	}
	if !s.NoDirectives && bytes.Contains(data, []byte(DirectiveIgnoreFile)) {
		return nil, nil
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var out []types.Finding
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	line := 0
	ignoreRegion := false
	skipNext := false
	for sc.Scan() {
		line++
		t := sc.Text()
		if !utf8.ValidString(t) {
			return nil, fmt.Errorf("line %d: %w", line, ErrInvalidUTF8)
		}
		if !s.NoDirectives && strings.Contains(t, "panscan:") {
			switch {
			case strings.Contains(t, DirectiveIgnoreStart):
				ignoreRegion = true
				continue
			case strings.Contains(t, DirectiveIgnoreEnd):
				ignoreRegion = false
				continue
			case strings.Contains(t, DirectiveIgnoreNextLine):
				skipNext = true
				continue
			case strings.Contains(t, DirectiveIgnore):
				continue
			}
		}
		if ignoreRegion {
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}
		out = append(out, detectors.DetectLine(path, line, t, s.Builder)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func looksBinary(b []byte) bool {
	n := sniffLen
	if len(b) < n {
		n = len(b)
	}
	return bytes.IndexByte(b[:n], 0) >= 0
}

// ScanFile reads path and scans it with s. Read and decode failures are
// recorded on the result rather than returned.
func ScanFile(s Scanner, path string) types.ScanResult {
	res := types.ScanResult{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return failed(res, err)
	}
	res.Bytes = int64(len(data))
	findings, err := s.Scan(path, data)
	if err != nil {
		return failed(res, err)
	}
	res.Findings = findings
	return res
}

func failed(res types.ScanResult, err error) types.ScanResult {
	res.Err = err
	res.Error = err.Error()
	res.Findings = nil
	return res
}
