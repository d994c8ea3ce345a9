package main

import (
	"fmt"
	"os"
	"strconv"
	"unicode"

	"github.com/npillmayer/glyphd/core"
	"github.com/npillmayer/glyphd/core/glyphs/pbf"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

// inspect prints the fontstacks and glyphs of a tile file.
func inspect(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		core.UserError(os.Stderr, core.WrapError(err, core.EMISSING, "cannot read %s", path))
		return 1
	}
	tile, err := pbf.Unmarshal(data)
	if err != nil {
		core.UserError(os.Stderr, core.WrapError(err, core.EINTERNAL, "cannot decode %s: %v", path, err))
		return 1
	}
	if len(tile.Stacks) == 0 {
		pterm.Info.Printfln("%s holds no fontstacks", path)
		return 0
	}
	for _, fs := range tile.Stacks {
		pterm.DefaultSection.Printfln("%s  [%s]  %d glyphs", fs.Name, fs.Range, len(fs.Glyphs))
		if err := pterm.DefaultTable.WithHasHeader().WithData(glyphTable(fs.Glyphs)).Render(); err != nil {
			core.UserError(os.Stderr, err)
			return 1
		}
	}
	return 0
}

// glyphTable lists glyph metrics, one row per glyph, with a header row.
func glyphTable(gg []pbf.Glyph) pterm.TableData {
	data := pterm.TableData{
		{"Code", "Char", "Name", "W", "H", "Left", "Top", "Adv", "Bitmap"},
	}
	for _, g := range gg {
		data = append(data, []string{
			fmt.Sprintf("U+%04X", g.ID),
			printable(rune(g.ID)),
			runenames.Name(rune(g.ID)),
			strconv.Itoa(int(g.Width)),
			strconv.Itoa(int(g.Height)),
			strconv.Itoa(int(g.Left)),
			strconv.Itoa(int(g.Top)),
			strconv.Itoa(int(g.Advance)),
			strconv.Itoa(len(g.Bitmap)),
		})
	}
	return data
}

func printable(r rune) string {
	if r > unicode.MaxRune || !unicode.IsGraphic(r) || unicode.IsSpace(r) {
		return ""
	}
	return string(r)
}
