package reader

import (
	"fmt"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"article.txt", "*reader.Text"},
		{"article.md", "*reader.Markdown"},
		{"article.markdown", "*reader.Markdown"},
		{"table.csv", "*reader.CSV"},
		{"page.html", "*reader.HTML"},
		{"page.htm", "*reader.HTML"},
		{"report.PDF", "*reader.PDF"},
		{"report.docx", "*reader.DOCX"},
		{"pasted-article", "*reader.Text"},
		{"weird.xyz", "*reader.Text"},
	}
	for _, tc := range cases {
		r, err := ForFile(tc.filename)
		if err != nil {
			t.Fatalf("ForFile(%q): unexpected error: %v", tc.filename, err)
		}
		if got := fmt.Sprintf("%T", r); got != tc.want {
			t.Errorf("ForFile(%q): expected %s, got %s", tc.filename, tc.want, got)
		}
	}
}

func TestForFile_StructuredBatchRejected(t *testing.T) {
	for _, name := range []string{"batch.json", "batch.jsonl"} {
		if _, err := ForFile(name); err == nil {
			t.Errorf("ForFile(%q): expected error for structured batch file", name)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	supported := []string{"a.txt", "a.md", "a.MARKDOWN", "a.csv", "a.html", "a.htm", "a.pdf", "a.docx", "a.json", "a.jsonl"}
	for _, name := range supported {
		if !IsSupportedExtension(name) {
			t.Errorf("expected %q to be supported", name)
		}
	}
	unsupported := []string{"a.exe", "a.png", "archive.tar.gz", "noext"}
	for _, name := range unsupported {
		if IsSupportedExtension(name) {
			t.Errorf("expected %q to be unsupported", name)
		}
	}
}

func TestBaseTitle(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"notes.txt", "notes"},
		{"/tmp/upload/report.pdf", "report"},
		{"readme.markdown", "readme"},
		{"no-extension", "no-extension"},
	}
	for _, tc := range cases {
		if got := baseTitle(tc.filename); got != tc.want {
			t.Errorf("baseTitle(%q): expected %q, got %q", tc.filename, tc.want, got)
		}
	}
}
