package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
	"mvdan.cc/gofumpt/format"
)

// writeFile renders a generated file, normalizes its imports, formats it
// with gofumpt rules and writes it under the target directory.
func (g *Generator) writeFile(f *jen.File, name string) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	src, err := imports.Process(name, buf.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("process imports of %s: %w", name, err)
	}
	src, err = format.Source(src, format.Options{ExtraRules: true})
	if err != nil {
		return fmt.Errorf("format %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(g.cfg.Target, name), src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
