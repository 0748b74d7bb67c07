// Package graph turns one grade's flat concept and activity records into the
// three-tier node/edge set the rendering layer consumes: Domain boxes at the
// top, Strand ellipses under them, Concept dots at the bottom, plus direct
// concept-to-concept interconnection edges.
//
// Build is a pure function of its inputs. The whole set is rebuilt from
// scratch on every grade switch or data reload; there is no incremental
// mutation, and all grouping state is local to the call.
package graph

import (
	"fmt"

	"github.com/r-imagination/sciencemap/pkg/model"
)

// Tier identifies which level of the hierarchy a node belongs to.
type Tier int

const (
	TierDomain Tier = iota
	TierStrand
	TierConcept
)

// String returns the lowercase tier tag used in node IDs.
func (t Tier) String() string {
	switch t {
	case TierDomain:
		return "domain"
	case TierStrand:
		return "strand"
	case TierConcept:
		return "concept"
	default:
		return "unknown"
	}
}

// Shape per tier, mirroring the rendered look: domains are boxes, strands
// ellipses, concepts dots.
type Shape string

const (
	ShapeBox     Shape = "box"
	ShapeEllipse Shape = "ellipse"
	ShapeDot     Shape = "dot"
)

// Node sizes per tier.
const (
	SizeDomain  = 45
	SizeStrand  = 28
	SizeConcept = 18
)

// Node is one vertex of the curriculum graph. ID is tier-prefixed
// ("concept::Force") so names can repeat across tiers without colliding.
type Node struct {
	ID    string
	Label string
	Tier  Tier
	Shape Shape
	Size  int
	Color string

	// Domain and Strand back-reference the hierarchy for concept nodes
	// (for strand nodes, Domain names the parent domain).
	Domain string
	Strand string

	// HasActivity is set on concept nodes with at least one linked learning
	// activity; the renderer widens the border for emphasis.
	HasActivity bool
}

// EdgeKind tags which tiers an edge connects.
type EdgeKind int

const (
	EdgeDomainStrand EdgeKind = iota
	EdgeStrandConcept
	EdgeConceptLink
)

// Edge is an undirected connection between two node IDs.
type Edge struct {
	Source string
	Target string
	Kind   EdgeKind
	Color  string
}

// Graph is the complete node/edge set for one grade.
type Graph struct {
	Nodes []Node
	Edges []Edge

	nodeIndex map[string]int
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	if i, ok := g.nodeIndex[id]; ok {
		return &g.Nodes[i]
	}
	return nil
}

// DomainID, StrandID and ConceptID build the tier-prefixed identifiers.
func DomainID(name string) string  { return "domain::" + name }
func StrandID(name string) string  { return "strand::" + name }
func ConceptID(name string) string { return "concept::" + name }

// ConceptName strips the concept tier prefix from a node ID. The second
// return is false when the ID does not name a concept node, which is how the
// UI boundary normalizes selection events: clicks on domain or strand nodes
// carry no concept selection.
func ConceptName(id string) (string, bool) {
	const prefix = "concept::"
	if len(id) > len(prefix) && id[:len(prefix)] == prefix {
		return id[len(prefix):], true
	}
	return "", false
}

// orderedSet is an insertion-ordered string set. Grouping during Build uses
// these instead of bare maps so two identical inputs produce identical output
// sequences, not merely equal sets.
type orderedSet struct {
	keys []string
	seen map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(k string) {
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.keys = append(s.keys, k)
}

// Build constructs the node and edge set for one grade from its flat records.
//
// Records are validated up front; a malformed record aborts the build with an
// error naming the record index. Beyond that the transform has no failure
// modes: duplicate concept names collapse to one node (last record wins), a
// strand stays with its first-seen domain, and interconnection targets not
// present in the grade are silently dropped.
func Build(concepts []model.Concept, activities []model.Activity) (*Graph, error) {
	for i := range concepts {
		if err := concepts[i].Validate(); err != nil {
			return nil, fmt.Errorf("concept record %d: %w", i, err)
		}
	}
	for i := range activities {
		if err := activities[i].Validate(); err != nil {
			return nil, fmt.Errorf("activity record %d: %w", i, err)
		}
	}

	// One pass over the concepts to derive the hierarchy.
	domains := newOrderedSet()
	strands := newOrderedSet()            // strand name, first-seen order
	strandDomain := map[string]string{}   // strand -> owning domain (first wins)
	conceptNames := newOrderedSet()       // for dangling-reference checks

	for i := range concepts {
		c := &concepts[i]
		domains.add(c.Domain)
		strands.add(c.Strand)
		if _, ok := strandDomain[c.Strand]; !ok {
			strandDomain[c.Strand] = c.Domain
		}
		conceptNames.add(c.Name)
	}

	// Concepts with at least one linked activity, as a set so emphasis lookup
	// is O(1) per concept rather than a scan per concept.
	withActivity := make(map[string]struct{}, len(activities))
	for i := range activities {
		if p := activities[i].ParentConcept; p != "" {
			withActivity[p] = struct{}{}
		}
	}

	g := &Graph{nodeIndex: make(map[string]int)}
	addNode := func(n Node) {
		if i, ok := g.nodeIndex[n.ID]; ok {
			g.Nodes[i] = n // duplicate concept name: last record wins
			return
		}
		g.nodeIndex[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}

	for _, d := range domains.keys {
		addNode(Node{
			ID:    DomainID(d),
			Label: d,
			Tier:  TierDomain,
			Shape: ShapeBox,
			Size:  SizeDomain,
			Color: DomainColor(d),
		})
	}

	for _, s := range strands.keys {
		d := strandDomain[s]
		addNode(Node{
			ID:     StrandID(s),
			Label:  s,
			Tier:   TierStrand,
			Shape:  ShapeEllipse,
			Size:   SizeStrand,
			Color:  DomainColor(d),
			Domain: d,
		})
	}

	for i := range concepts {
		c := &concepts[i]
		_, hasAct := withActivity[c.Name]
		addNode(Node{
			ID:          ConceptID(c.Name),
			Label:       c.Name,
			Tier:        TierConcept,
			Shape:       ShapeDot,
			Size:        SizeConcept,
			Color:       DomainColor(c.Domain),
			Domain:      c.Domain,
			Strand:      c.Strand,
			HasActivity: hasAct,
		})
	}

	for _, s := range strands.keys {
		g.Edges = append(g.Edges, Edge{
			Source: DomainID(strandDomain[s]),
			Target: StrandID(s),
			Kind:   EdgeDomainStrand,
			Color:  ColorEdgeDomainStrand,
		})
	}

	// Strand→Concept edges follow concept record order; duplicates collapse to
	// the surviving node so a repeated name yields a single edge per strand.
	strandEdgeSeen := make(map[[2]string]struct{}, len(concepts))
	for i := range concepts {
		c := &concepts[i]
		key := [2]string{c.Strand, c.Name}
		if _, ok := strandEdgeSeen[key]; ok {
			continue
		}
		strandEdgeSeen[key] = struct{}{}
		g.Edges = append(g.Edges, Edge{
			Source: StrandID(c.Strand),
			Target: ConceptID(c.Name),
			Kind:   EdgeStrandConcept,
			Color:  ColorEdgeStrandConcept,
		})
	}

	// Interconnections are undirected: a mutual listing (Force lists Motion,
	// Motion lists Force) is one edge, keyed by the sorted name pair.
	linkSeen := make(map[[2]string]struct{})
	for i := range concepts {
		c := &concepts[i]
		for _, linked := range c.Interconnections {
			if _, known := conceptNames.seen[linked]; !known {
				continue // reference outside this grade
			}
			key := [2]string{c.Name, linked}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if _, ok := linkSeen[key]; ok {
				continue
			}
			linkSeen[key] = struct{}{}
			g.Edges = append(g.Edges, Edge{
				Source: ConceptID(c.Name),
				Target: ConceptID(linked),
				Kind:   EdgeConceptLink,
				Color:  ColorEdgeConceptLink,
			})
		}
	}

	return g, nil
}
