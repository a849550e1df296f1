package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"translaterag/internal/domain"
)

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract("notes.txt", []byte("hello world\n"))
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world\n" {
		t.Errorf("txt extraction changed content: %q", text)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	for _, name := range []string{"image.png", "sheet.xlsx", "archive", "doc.doc"} {
		_, err := Extract(name, []byte("data"))
		if !errors.Is(err, domain.ErrUnsupportedFileType) {
			t.Errorf("Extract(%q): expected ErrUnsupportedFileType, got %v", name, err)
		}
	}
}

func TestExtract_ExtensionCaseInsensitive(t *testing.T) {
	if _, err := Extract("NOTES.TXT", []byte("x")); err != nil {
		t.Errorf("upper-case extension should be accepted: %v", err)
	}
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"a.pdf": true, "b.txt": true, "c.docx": true,
		"d.PDF": true, "e.md": false, "f": false,
	}
	for name, want := range cases {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExtract_DOCX(t *testing.T) {
	data := buildDOCX(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := Extract("report.docx", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "First paragraph.") {
		t.Errorf("missing first paragraph in %q", text)
	}
	if !strings.Contains(text, "Second paragraph.") {
		t.Errorf("adjacent runs not joined in %q", text)
	}
	if !strings.Contains(text, "First paragraph.\n") {
		t.Errorf("paragraph boundary should become a newline in %q", text)
	}
}

func TestExtract_CorruptDOCX(t *testing.T) {
	if _, err := Extract("broken.docx", []byte("not a zip")); err == nil {
		t.Error("corrupt docx must fail extraction")
	}
}

func TestExtract_DOCXWithoutBody(t *testing.T) {
	// Valid zip, but no word/document.xml inside.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("other.xml")
	_, _ = f.Write([]byte("<x/>"))
	_ = zw.Close()

	if _, err := Extract("odd.docx", buf.Bytes()); err == nil {
		t.Error("docx without document.xml must fail extraction")
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
