package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

type TextOptions struct {
	Heading string // p.ej. "allbirds.com vs rothys.com"; vacío = solo ResultsTitle
	NoColor bool
}

type palette struct {
	title   *color.Color
	section *color.Color
	label   *color.Color
	value   *color.Color
	dim     *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		title:   color.New(color.FgBlue, color.Bold),
		section: color.New(color.FgCyan, color.Bold),
		label:   color.New(color.FgWhite, color.Bold),
		value:   color.New(color.FgGreen, color.Bold),
		dim:     color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{p.title, p.section, p.label, p.value, p.dim} {
			c.DisableColor()
		}
	}
	return p
}

// WriteText pinta las secciones para terminal.
func WriteText(w io.Writer, sections []Section, opts TextOptions) error {
	p := newPalette(opts.NoColor)
	title := ResultsTitle
	if opts.Heading != "" {
		title += ": " + opts.Heading
	}
	if _, err := p.title.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	for _, s := range sections {
		fmt.Fprintln(w)
		p.section.Fprintf(w, "▸ %s\n", s.Title)
		if s.Intro != "" {
			p.dim.Fprintf(w, "  %s\n", s.Intro)
		}
		switch s.Kind {
		case SearchCampaign:
			if err := writeTable(w, s.Table); err != nil {
				return err
			}
		case PMaxThemes:
			for i, item := range s.Items {
				fmt.Fprintf(w, "  %d. %s\n", i+1, item)
			}
		case ShoppingBid:
			for _, m := range s.Metrics {
				p.label.Fprintf(w, "  %s: ", m.Label)
				p.value.Fprint(w, m.Value)
				p.dim.Fprintf(w, "  (%s)\n", m.Note)
			}
			if s.Explanation != "" {
				p.label.Fprintln(w, "  Calculation Explained:")
				fmt.Fprintf(w, "  %s\n", s.Explanation)
			}
		}
	}
	return nil
}

func writeTable(w io.Writer, t *Table) error {
	if t == nil {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\n", strings.Join(t.Header, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintf(tw, "  %s\n", strings.Join(row, "\t"))
	}
	return tw.Flush()
}
