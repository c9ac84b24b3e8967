package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readSource reads a source file, or stdin for "-" or no name, and returns
// it as UTF-8. A UTF-8 byte order mark is dropped and UTF-16 input with a
// byte order mark is converted.
func readSource(name string) ([]byte, string, error) {
	var r io.Reader
	display := name
	if name == "" || name == "-" {
		r = os.Stdin
		display = "<stdin>"
	} else {
		display = filepath.Clean(name)
		f, err := os.Open(name)
		if err != nil {
			return nil, "", fmt.Errorf("open source: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := decodeSource(r)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", display, err)
	}
	return data, display, nil
}

func decodeSource(r io.Reader) ([]byte, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(r, dec))
}
