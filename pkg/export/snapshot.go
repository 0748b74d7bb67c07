// Package export renders a grade's curriculum graph to a static image so a
// map can be shared outside the terminal. The layout is a fixed three-column
// spread (domains, strands, concepts) rather than a force simulation: the
// datasets are small and a deterministic picture beats a pretty one for
// diffing exports between curriculum revisions.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/r-imagination/sciencemap/pkg/analysis"
	"github.com/r-imagination/sciencemap/pkg/graph"
)

// Supported output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Layout geometry. Values are tuned for ~20-60 concepts per grade, the range
// real knowledge-base files sit in.
const (
	headerHeight  = 70
	footerHeight  = 110
	rowHeight     = 34
	marginX       = 40
	domainColX    = 170
	strandColX    = 470
	conceptColX   = 790
	canvasWidth   = 1060
	nodeHalfW     = 110
	nodeHalfH     = 13
	maxLabelRunes = 30
)

// Options configures a snapshot export.
type Options struct {
	// Path is the output file. When Format is empty the extension picks the
	// format, defaulting to SVG.
	Path   string
	Format string

	// Grade labels the snapshot header and summary block.
	Grade string

	Graph *graph.Graph

	// Stats orders the concept column by hub rank and feeds the summary
	// block. Optional; without it concepts keep build order and the summary
	// omits the top hub.
	Stats *analysis.Stats
}

// placed is a node with its resolved canvas position.
type placed struct {
	node graph.Node
	x, y float64
}

// layout is the fully positioned snapshot, ready for either renderer.
type layout struct {
	width, height int
	grade         string
	nodes         []placed
	pos           map[string]placed // node ID -> position
	edges         []graph.Edge
	domains       []graph.Node // legend order
	summary       []string
}

// Snapshot renders the graph to opts.Path in the requested format.
func Snapshot(opts Options) error {
	if opts.Graph == nil || len(opts.Graph.Nodes) == 0 {
		return fmt.Errorf("nothing to export: graph is empty")
	}
	if opts.Path == "" {
		return fmt.Errorf("no output path given")
	}

	format, err := resolveFormat(opts.Path, opts.Format)
	if err != nil {
		return err
	}

	l := buildLayout(opts)

	switch format {
	case FormatSVG:
		f, err := os.Create(opts.Path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.Path, err)
		}
		defer f.Close()
		renderSVG(f, l)
		return nil
	case FormatPNG:
		return renderPNG(opts.Path, l)
	default:
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
}

// resolveFormat picks the output format from the explicit option or the
// path's extension, defaulting to SVG.
func resolveFormat(path, format string) (string, error) {
	if format != "" {
		f := strings.ToLower(format)
		if f != FormatSVG && f != FormatPNG {
			return "", fmt.Errorf("unsupported format %q (want svg or png)", format)
		}
		return f, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	default:
		return FormatSVG, nil
	}
}

// buildLayout places every node into its tier column. Domains and strands
// keep build order; concepts are ordered by hub rank (then name) when stats
// are available so the most connected concepts sit at the top of their
// column.
func buildLayout(opts Options) *layout {
	var domains, strands, concepts []graph.Node
	for _, n := range opts.Graph.Nodes {
		switch n.Tier {
		case graph.TierDomain:
			domains = append(domains, n)
		case graph.TierStrand:
			strands = append(strands, n)
		case graph.TierConcept:
			concepts = append(concepts, n)
		}
	}

	if opts.Stats != nil {
		stats := opts.Stats
		sort.SliceStable(concepts, func(i, j int) bool {
			ri, rj := stats.PageRankRank(concepts[i].Label), stats.PageRankRank(concepts[j].Label)
			if ri != rj {
				return ri < rj
			}
			return concepts[i].Label < concepts[j].Label
		})
	}

	maxRows := len(domains)
	if len(strands) > maxRows {
		maxRows = len(strands)
	}
	if len(concepts) > maxRows {
		maxRows = len(concepts)
	}

	contentHeight := maxRows * rowHeight
	l := &layout{
		width:   canvasWidth,
		height:  headerHeight + contentHeight + footerHeight,
		grade:   opts.Grade,
		pos:     make(map[string]placed),
		edges:   opts.Graph.Edges,
		domains: domains,
	}

	// Each column spreads its nodes evenly over the full content height so
	// short columns stay visually centered against long ones.
	place := func(nodes []graph.Node, x float64) {
		step := float64(contentHeight) / float64(len(nodes)+1)
		for i, n := range nodes {
			p := placed{node: n, x: x, y: float64(headerHeight) + step*float64(i+1)}
			l.nodes = append(l.nodes, p)
			l.pos[n.ID] = p
		}
	}
	place(domains, domainColX)
	place(strands, strandColX)
	place(concepts, conceptColX)

	edgeCount := 0
	for _, e := range opts.Graph.Edges {
		if e.Kind == graph.EdgeConceptLink {
			edgeCount++
		}
	}
	l.summary = []string{
		fmt.Sprintf("grade %s", opts.Grade),
		fmt.Sprintf("%d concepts in %d strands across %d domains",
			len(concepts), len(strands), len(domains)),
		fmt.Sprintf("%d interconnections", edgeCount),
	}
	if opts.Stats != nil {
		if hub := opts.Stats.TopHub(); hub != "" {
			l.summary = append(l.summary, fmt.Sprintf("top hub: %s", hub))
		}
	}

	return l
}

// renderSVG writes the snapshot as an SVG document.
func renderSVG(w io.Writer, l *layout) {
	s := svg.New(w)
	s.Start(l.width, l.height)
	s.Rect(0, 0, l.width, l.height, "fill:#ffffff")

	s.Text(marginX, 42, fmt.Sprintf("Science curriculum map — grade %s", l.grade),
		"font-family:sans-serif;font-size:22px;font-weight:bold;fill:#222222")

	// Edges first so nodes paint over them.
	for _, e := range l.edges {
		from, okF := l.pos[e.Source]
		to, okT := l.pos[e.Target]
		if !okF || !okT {
			continue
		}
		width := 1
		if e.Kind == graph.EdgeConceptLink {
			width = 2
		}
		s.Line(int(from.x), int(from.y), int(to.x), int(to.y),
			fmt.Sprintf("stroke:%s;stroke-width:%d;fill:none", e.Color, width))
	}

	for _, p := range l.nodes {
		x, y := int(p.x), int(p.y)
		style := fmt.Sprintf("fill:%s;stroke:#444444;stroke-width:1", p.node.Color)
		switch p.node.Tier {
		case graph.TierDomain:
			s.Roundrect(x-nodeHalfW, y-nodeHalfH-4, 2*nodeHalfW, 2*(nodeHalfH+4), 8, 8, style)
		case graph.TierStrand:
			s.Ellipse(x, y, nodeHalfW-10, nodeHalfH+2, style)
		case graph.TierConcept:
			if p.node.HasActivity {
				// Activity emphasis: heavier ring around the dot.
				style = fmt.Sprintf("fill:%s;stroke:#444444;stroke-width:3", p.node.Color)
			}
			s.Circle(x-nodeHalfW+10, y, 7, style)
			s.Text(x-nodeHalfW+24, y+4, truncateLabel(p.node.Label),
				"font-family:sans-serif;font-size:12px;fill:#222222")
			continue
		}
		s.Text(x, y+4, truncateLabel(p.node.Label),
			"font-family:sans-serif;font-size:13px;fill:#ffffff;text-anchor:middle")
	}

	drawLegendSVG(s, l)
	drawSummarySVG(s, l)

	s.End()
}

func drawLegendSVG(s *svg.SVG, l *layout) {
	y := l.height - footerHeight + 24
	s.Text(marginX, y, "Domains", "font-family:sans-serif;font-size:13px;font-weight:bold;fill:#222222")
	for i, d := range l.domains {
		ry := y + 14 + i*16
		s.Rect(marginX, ry-9, 12, 12, fmt.Sprintf("fill:%s", d.Color))
		s.Text(marginX+20, ry, truncateLabel(d.Label),
			"font-family:sans-serif;font-size:12px;fill:#444444")
	}
}

func drawSummarySVG(s *svg.SVG, l *layout) {
	x := l.width - 380
	y := l.height - footerHeight + 24
	for i, line := range l.summary {
		s.Text(x, y+i*16, line, "font-family:sans-serif;font-size:12px;fill:#444444")
	}
}

// renderPNG draws the snapshot to a raster context and saves it.
func renderPNG(path string, l *layout) error {
	dc := gg.NewContext(l.width, l.height)
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetHexColor("#222222")
	dc.DrawString(fmt.Sprintf("Science curriculum map - grade %s", l.grade), marginX, 42)

	for _, e := range l.edges {
		from, okF := l.pos[e.Source]
		to, okT := l.pos[e.Target]
		if !okF || !okT {
			continue
		}
		dc.SetHexColor(e.Color)
		if e.Kind == graph.EdgeConceptLink {
			dc.SetLineWidth(2)
		} else {
			dc.SetLineWidth(1)
		}
		dc.DrawLine(from.x, from.y, to.x, to.y)
		dc.Stroke()
	}

	for _, p := range l.nodes {
		switch p.node.Tier {
		case graph.TierDomain:
			dc.SetHexColor(p.node.Color)
			dc.DrawRoundedRectangle(p.x-nodeHalfW, p.y-nodeHalfH-4, 2*nodeHalfW, 2*(nodeHalfH+4), 8)
			dc.Fill()
			dc.SetHexColor("#ffffff")
			dc.DrawStringAnchored(truncateLabel(p.node.Label), p.x, p.y, 0.5, 0.35)
		case graph.TierStrand:
			dc.SetHexColor(p.node.Color)
			dc.DrawEllipse(p.x, p.y, nodeHalfW-10, nodeHalfH+2)
			dc.Fill()
			dc.SetHexColor("#ffffff")
			dc.DrawStringAnchored(truncateLabel(p.node.Label), p.x, p.y, 0.5, 0.35)
		case graph.TierConcept:
			dc.SetHexColor(p.node.Color)
			dc.DrawCircle(p.x-nodeHalfW+10, p.y, 7)
			dc.Fill()
			if p.node.HasActivity {
				dc.SetHexColor("#444444")
				dc.SetLineWidth(2)
				dc.DrawCircle(p.x-nodeHalfW+10, p.y, 9)
				dc.Stroke()
			}
			dc.SetHexColor("#222222")
			dc.DrawString(truncateLabel(p.node.Label), p.x-nodeHalfW+24, p.y+4)
		}
	}

	// Legend.
	y := float64(l.height - footerHeight + 24)
	dc.SetHexColor("#222222")
	dc.DrawString("Domains", marginX, y)
	for i, d := range l.domains {
		ry := y + 14 + float64(i)*16
		dc.SetHexColor(d.Color)
		dc.DrawRectangle(marginX, ry-9, 12, 12)
		dc.Fill()
		dc.SetHexColor("#444444")
		dc.DrawString(truncateLabel(d.Label), marginX+20, ry)
	}

	// Summary.
	dc.SetHexColor("#444444")
	for i, line := range l.summary {
		dc.DrawString(line, float64(l.width-380), y+float64(i)*16)
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// truncateLabel keeps labels from overflowing their column.
func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelRunes {
		return s
	}
	return string(r[:maxLabelRunes-1]) + "…"
}
