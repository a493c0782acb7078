package scanner_test

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/lumen-lang/lumen/internal/filetest"
	"github.com/lumen-lang/lumen/internal/maincmd"
)

var testUpdateScannerGoldenTests = flag.Bool("test.update-scanner-golden-tests", false, "If set, replace expected scanner golden test results with actual results.")

// TestScanGolden drives the full tokenize command against every source file
// in testdata/in and diffs its stdout/stderr against the matching golden
// file in testdata/out, catching any change to a token's name or a
// lexeme's formatting that a table-driven unit test wouldn't notice.
func TestScanGolden(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".lum") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

			var c maincmd.Cmd
			// error is ignored, we just want it to be printed to ebuf
			_ = c.Tokenize(ctx, stdio, []string{filepath.Join(srcDir, fi.Name())})

			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateScannerGoldenTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateScannerGoldenTests)
		})
	}
}
