package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/panscan/panscan/internal/types"
)

type noopScanner struct{}

func (noopScanner) Scan(string, []byte) ([]types.Finding, error) { return nil, nil }
func (noopScanner) Name() string                                 { return "noop" }

func BenchmarkScanAll_Noop(b *testing.B) {
	dir := b.TempDir()
	var paths []string
	for i := 0; i < 200; i++ {
		p := filepath.Join(dir, fmt.Sprintf("f%03d.txt", i))
		if err := os.WriteFile(p, []byte("line\n"), 0o644); err != nil {
			b.Fatal(err)
		}
		paths = append(paths, p)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = scanAll(noopScanner{}, paths, 8, nil)
	}
}

func TestScanAll_SlotsMatchInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 50; i++ {
		p := filepath.Join(dir, fmt.Sprintf("f%02d", i))
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	out := scanAll(noopScanner{}, paths, 7, nil)
	for i, r := range out {
		if r.Path != paths[i] {
			t.Fatalf("slot %d holds %s", i, r.Path)
		}
	}
}
