package terminal

import (
	"fmt"
	"strings"

	"github.com/chrispritchard/gobencode/internal/bencode"
	"github.com/mitchellh/colorstring"
	"github.com/rivo/uniseg"
)

const indent = "    "

// Renderer draws a decoded tree one node per line, children indented under a <LIST> or <DICT> header.
type Renderer struct {
	max_width int
	colors    colorstring.Colorize
}

// NewRenderer returns a renderer. Text wider than max_width columns is cut short; zero means no limit.
func NewRenderer(color bool, max_width int) *Renderer {
	return &Renderer{
		max_width: max_width,
		colors: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
		},
	}
}

func (r *Renderer) Render(v bencode.Value) string {
	var sb strings.Builder
	r.render(&sb, v, 0)
	return sb.String()
}

// Paint wraps s in a colour from colorstring.DefaultColors. s itself is never parsed for colour codes.
func (r *Renderer) Paint(color, s string) string {
	return r.colors.Color("["+color+"]") + s + r.colors.Color("[reset]")
}

func (r *Renderer) render(sb *strings.Builder, v bencode.Value, depth int) {
	switch v.Kind() {
	case bencode.IntegerKind:
		n, _ := v.Int()
		sb.WriteString(r.Paint("yellow", fmt.Sprint(n)))
		sb.WriteByte('\n')
	case bencode.StringKind:
		s, _ := v.Bytes()
		sb.WriteString(r.text(s))
		sb.WriteByte('\n')
	case bencode.ListKind:
		items, _ := v.Items()
		sb.WriteString(r.Paint("cyan", "<LIST>") + r.Paint("dark_gray", count(len(items), "item")))
		sb.WriteByte('\n')
		for _, item := range items {
			sb.WriteString(strings.Repeat(indent, depth+1))
			r.render(sb, item, depth+1)
		}
	case bencode.DictionaryKind:
		entries, _ := v.Entries()
		sb.WriteString(r.Paint("magenta", "<DICT>") + r.Paint("dark_gray", count(len(entries), "entry")))
		sb.WriteByte('\n')
		for _, e := range entries {
			sb.WriteString(strings.Repeat(indent, depth+1))
			sb.WriteString(r.Paint("bold", truncate(bencode.DisplayBytes(e.Key), r.max_width)))
			sb.WriteString(": ")
			r.render(sb, e.Value, depth+1)
		}
	default:
		sb.WriteString(r.Paint("red", "#!NULL!#"))
		sb.WriteByte('\n')
	}
}

func (r *Renderer) text(s []byte) string {
	shown := truncate(bencode.DisplayBytes(s), r.max_width)
	if strings.HasPrefix(shown, "0x") {
		return r.Paint("light_gray", shown) + r.Paint("dark_gray", count(len(s), "byte"))
	}
	return r.Paint("green", shown)
}

func count(n int, noun string) string {
	switch {
	case n == 1:
		return fmt.Sprintf(" (1 %s)", noun)
	case strings.HasSuffix(noun, "y"):
		return fmt.Sprintf(" (%d %sies)", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf(" (%d %ss)", n, noun)
}

// truncate shortens s to at most width terminal columns, never splitting a grapheme cluster, and marks the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return s
	}

	var sb strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		sb.WriteString(g.Str())
		used += w
	}
	sb.WriteString("…")
	return sb.String()
}
