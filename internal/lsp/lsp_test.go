package lsp

import (
	"testing"

	"github.com/tangzhangming/skylark"
)

func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\nb\r\nc")
	if len(lines) != 3 {
		t.Fatalf("line count mismatch: got %d", len(lines))
	}
	if lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Errorf("lines mismatch: %q", lines)
	}
}

func TestDiagnosticsFor(t *testing.T) {
	_, err := skylark.ParseModule("test.sky", "x = 01\ny = = 2\n")
	if err == nil {
		t.Fatal("expected parse errors")
	}

	diags := diagnosticsFor(err)
	if len(diags) == 0 {
		t.Fatal("expected diagnostics")
	}
	for _, d := range diags {
		if d.Source != "skylark" {
			t.Errorf("diagnostic source mismatch: got %q", d.Source)
		}
		if d.Message == "" {
			t.Error("diagnostic message should not be empty")
		}
	}
}

func TestDiagnosticsForCleanSource(t *testing.T) {
	_, err := skylark.ParseModule("test.sky", "x = 1\n")
	diags := diagnosticsFor(err)

	// 必须是空切片而不是 nil，客户端靠它清除旧诊断
	if diags == nil {
		t.Fatal("diagnostics should be an empty slice, not nil")
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDocumentManagerLifecycle(t *testing.T) {
	logger := NewLogger("")
	defer logger.Close()
	dm := NewDocumentManager(logger, 0)

	doc := dm.Open("file:///a.sky", "x = 1\n", 1)
	module, err := doc.Parse()
	if err != nil || module == nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(module.Statements) != 1 {
		t.Errorf("statement count mismatch: got %d", len(module.Statements))
	}

	// 更新后缓存失效，重新解析
	dm.Update("file:///a.sky", "x = 01\n", 2)
	_, err = doc.Parse()
	if err == nil {
		t.Error("expected parse error after update")
	}

	dm.Close("file:///a.sky")
	if dm.Count() != 0 {
		t.Errorf("document count mismatch after close: got %d", dm.Count())
	}
}

func TestDocumentManagerSkipsHugeFiles(t *testing.T) {
	logger := NewLogger("")
	defer logger.Close()
	dm := NewDocumentManager(logger, 4)

	doc := dm.Open("file:///big.sky", "x = 1 + 2\n", 1)
	module, err := doc.Parse()
	if module != nil || err != nil {
		t.Error("oversized document should be skipped")
	}
}
