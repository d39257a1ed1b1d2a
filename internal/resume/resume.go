package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	KindPDF  = "pdf"
	KindDOCX = "docx"
	KindTXT  = "txt"
)

var ErrEmptyText = errors.New("no text could be extracted from resume")

// Document is a resume reduced to plain text.
type Document struct {
	Name string
	Kind string
	Text string
}

// Extract picks a reader from the file extension of name. Legacy binary
// .doc files are reported as unsupported.
func Extract(name string, data []byte) (Document, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	var (
		text string
		kind string
		err  error
	)
	switch ext {
	case "pdf":
		kind = KindPDF
		text, err = pdfText(data)
	case "docx":
		kind = KindDOCX
		text, err = docxText(data)
	case "txt":
		kind = KindTXT
		text = plainText(data)
	default:
		return Document{}, fmt.Errorf("unsupported file type: %s. Supported: PDF, DOCX, TXT", ext)
	}
	if err != nil {
		return Document{}, fmt.Errorf("extract %s: %w", kind, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Document{}, ErrEmptyText
	}
	return Document{Name: filepath.Base(name), Kind: kind, Text: text}, nil
}

func pdfText(data []byte) (text string, err error) {
	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// docxText joins the w:t runs of word/document.xml, one line per w:p.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("word/document.xml not found")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var (
		lines   []string
		current strings.Builder
		inText  bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				lines = append(lines, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n"), nil
}

// plainText decodes UTF-8 and drops invalid bytes.
func plainText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}
