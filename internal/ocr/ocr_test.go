package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type fakeRunner struct {
	calls  [][]string
	stdout string
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestTesseractCLIArgs(t *testing.T) {
	r := &fakeRunner{stdout: "NO.  AKAUN\r\n-----\r\n\r\n123\r\n"}
	rec := NewTesseractCLI(Config{PSM: 6, TessdataDir: "/td"}, r, nil)

	got, err := rec.Recognize(context.Background(), "crop.png")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got != "NO. AKAUN\n\n123" {
		t.Errorf("text = %q", got)
	}
	want := []string{"tesseract", "crop.png", "stdout", "-l", "eng", "--psm", "6", "--tessdata-dir", "/td"}
	if !reflect.DeepEqual(r.calls[0], want) {
		t.Errorf("args = %v, want %v", r.calls[0], want)
	}
}

func TestTesseractCLIError(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1"), stderr: "Error opening data file"}
	rec := NewTesseractCLI(Config{}, r, nil)
	_, err := rec.Recognize(context.Background(), "x.png")
	if err == nil || !strings.Contains(err.Error(), "Error opening data file") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestPDFTextFallsBackToPdftotext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{stdout: "AIR SELANGOR\fpage two"}
	te := NewTextExtractor("", r, nil)

	got, err := te.PDFText(context.Background(), path)
	if err != nil {
		t.Fatalf("PDFText: %v", err)
	}
	if got != "AIR SELANGOR\npage two" {
		t.Errorf("text = %q", got)
	}
	if len(r.calls) != 1 || r.calls[0][0] != "pdftotext" {
		t.Errorf("expected a pdftotext call, got %v", r.calls)
	}
}

func TestPDFTextBothFail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	te := NewTextExtractor("", &fakeRunner{err: errors.New("not found")}, nil)
	if _, err := te.PDFText(context.Background(), path); err == nil {
		t.Fatal("expected error")
	}
}

func TestNormalize(t *testing.T) {
	in := "JALAN  MAWAR\t3\r\n-----\r\n\r\n\r\n\r\nSELANGOR  \n"
	want := "JALAN MAWAR 3\n\nSELANGOR"
	if got := Normalize(in); got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestNormalizeKeepsSingleBlankLine(t *testing.T) {
	in := "NO AKAUN\n\n\n____\n\nBAKI  TERDAHULU   RM 12.00"
	want := "NO AKAUN\n\nBAKI TERDAHULU RM 12.00"
	if got := Normalize(in); got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestExecRunnerMissingTool(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "waterbills-no-such-tool", nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}
