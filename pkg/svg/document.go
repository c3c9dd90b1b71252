package svg

import (
	"bytes"
	"io"
	"os"

	"github.com/beevik/etree"

	"github.com/barnhunt/barnhunt/pkg/errors"
)

// Parse reads an SVG document from data.
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse svg")
	}
	if doc.Root() == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "svg document has no root element")
	}
	return doc, nil
}

// Read reads an SVG document from r.
func Read(r io.Reader) (*etree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ReadFile reads the SVG document at path.
func ReadFile(path string) (*etree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &errors.DocumentError{Path: path, Err: err}
	}
	return doc, nil
}

// Bytes serializes doc.
func Bytes(doc *etree.Document) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
