package graph

// DomainColors maps the curriculum's top-level domains to their display
// colors. The palette matches the published curriculum map so exported
// snapshots and the TUI agree.
var DomainColors = map[string]string{
	"Physics (The Physical World)":                 "#1f77b4",
	"Chemistry (The World of Matter)":              "#2ca02c",
	"Biology (The Living World)":                   "#ff7f0e",
	"Earth & Space Science":                        "#9467bd",
	"Scientific Inquiry & Investigative Process":   "#7f7f7f",
}

// DefaultDomainColor is used for domains missing from DomainColors so an
// unrecognized domain still renders visibly instead of falling back to the
// renderer's unstyled default.
const DefaultDomainColor = "#8c8c8c"

// Edge colors per tier.
const (
	ColorEdgeDomainStrand  = "#cccccc"
	ColorEdgeStrandConcept = "#dddddd"
	ColorEdgeConceptLink   = "#ff9999"
)

// DomainColor returns the palette color for a domain, or DefaultDomainColor
// when the domain is not recognized.
func DomainColor(domain string) string {
	if c, ok := DomainColors[domain]; ok {
		return c
	}
	return DefaultDomainColor
}
