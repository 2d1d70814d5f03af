// Package render prints flag definitions as an aligned binary table.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/roguetools/internal/errors"
	"github.com/mcncl/roguetools/internal/models"
)

// NameWidth returns the longest name length in characters, or 0 for no definitions
func NameWidth(defs []models.FlagDefinition) int {
	width := 0
	for _, def := range defs {
		if n := utf8.RuneCountInString(def.Name); n > width {
			width = n
		}
	}
	return width
}

// Row renders a single definition. The name is padded to nameWidth+1
// columns and the value is zero-padded to at least width binary digits.
func Row(def models.FlagDefinition, nameWidth, width int) string {
	pad := nameWidth - utf8.RuneCountInString(def.Name) + 1
	if pad < 1 {
		pad = 1
	}
	return def.Name + strings.Repeat(" ", pad) + fmt.Sprintf("%0*b", width, def.Value)
}

// Table writes one row per definition to w, in the given order
func Table(w io.Writer, defs []models.FlagDefinition, width int) error {
	nameWidth := NameWidth(defs)
	bw := bufio.NewWriter(w)

	for _, def := range defs {
		if _, err := fmt.Fprintln(bw, Row(def, nameWidth, width)); err != nil {
			return errors.NewOutputError("failed to write table row", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.NewOutputError("failed to write table", err)
	}
	return nil
}
