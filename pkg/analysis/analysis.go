// Package analysis derives structural metrics from a grade's concept
// interconnection network: which concepts are hubs, which bridge otherwise
// separate clusters, and how the network splits into components. The
// three-tier hierarchy (domains, strands) is deliberately excluded; only
// concept-to-concept links carry signal here.
//
// Datasets are a few hundred records at most, so everything is computed
// synchronously at build time.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/r-imagination/sciencemap/pkg/model"
)

// Stats holds the computed metrics for one grade's concept network.
// All maps are keyed by concept name. Concepts with no interconnections
// still appear, as isolated single-node components.
type Stats struct {
	NodeCount int
	EdgeCount int

	degree      map[string]int
	pageRank    map[string]float64
	betweenness map[string]float64

	component      map[string]int
	componentCount int

	degreeRank      map[string]int
	pageRankRank    map[string]int
	betweennessRank map[string]int
}

// Analyze builds the interconnection network for the given concepts and
// computes all metrics. Interconnection targets not present among the
// concepts are dropped, and duplicate links between the same pair collapse
// to a single edge, matching graph construction.
func Analyze(concepts []model.Concept) *Stats {
	s := &Stats{
		degree:          make(map[string]int, len(concepts)),
		pageRank:        make(map[string]float64, len(concepts)),
		betweenness:     make(map[string]float64, len(concepts)),
		component:       make(map[string]int, len(concepts)),
		degreeRank:      make(map[string]int, len(concepts)),
		pageRankRank:    make(map[string]int, len(concepts)),
		betweennessRank: make(map[string]int, len(concepts)),
	}

	// Node per distinct concept name, last record wins but the name set is
	// what matters here.
	names := make([]string, 0, len(concepts))
	known := make(map[string]struct{}, len(concepts))
	for i := range concepts {
		if _, ok := known[concepts[i].Name]; ok {
			continue
		}
		known[concepts[i].Name] = struct{}{}
		names = append(names, concepts[i].Name)
	}
	s.NodeCount = len(names)
	if s.NodeCount == 0 {
		return s
	}

	u := simple.NewUndirectedGraph()
	d := simple.NewDirectedGraph()
	nameToNode := make(map[string]int64, len(names))
	nodeToName := make(map[int64]string, len(names))
	for _, name := range names {
		n := u.NewNode()
		u.AddNode(n)
		d.AddNode(simple.Node(n.ID()))
		nameToNode[name] = n.ID()
		nodeToName[n.ID()] = name
	}

	// Undirected edges, deduplicated; the directed graph holds both
	// directions of every link so PageRank sees the symmetrized form.
	edgeSeen := make(map[[2]int64]struct{})
	for i := range concepts {
		from := nameToNode[concepts[i].Name]
		for _, linked := range concepts[i].Interconnections {
			to, ok := nameToNode[linked]
			if !ok || to == from {
				continue
			}
			key := [2]int64{from, to}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if _, dup := edgeSeen[key]; dup {
				continue
			}
			edgeSeen[key] = struct{}{}
			u.SetEdge(u.NewEdge(u.Node(from), u.Node(to)))
			d.SetEdge(d.NewEdge(d.Node(from), d.Node(to)))
			d.SetEdge(d.NewEdge(d.Node(to), d.Node(from)))
			s.EdgeCount++
		}
	}

	for _, name := range names {
		s.degree[name] = u.From(nameToNode[name]).Len()
	}

	for id, score := range network.PageRank(d, 0.85, 1e-6) {
		s.pageRank[nodeToName[id]] = score
	}

	for id, score := range network.Betweenness(u) {
		s.betweenness[nodeToName[id]] = score
	}
	// Betweenness omits zero-score nodes; fill them in so every concept
	// has an entry.
	for _, name := range names {
		if _, ok := s.betweenness[name]; !ok {
			s.betweenness[name] = 0
		}
	}

	comps := topo.ConnectedComponents(u)
	for i, comp := range comps {
		for _, n := range comp {
			s.component[nodeToName[n.ID()]] = i
		}
	}
	s.componentCount = len(comps)

	s.degreeRank = rankByScore(names, func(n string) float64 { return float64(s.degree[n]) })
	s.pageRankRank = rankByScore(names, func(n string) float64 { return s.pageRank[n] })
	s.betweennessRank = rankByScore(names, func(n string) float64 { return s.betweenness[n] })

	return s
}

// rankByScore assigns 1-indexed ranks by descending score, ties broken by
// name so ranking is deterministic.
func rankByScore(names []string, score func(string) float64) map[string]int {
	ordered := append([]string(nil), names...)
	sort.Slice(ordered, func(i, j int) bool {
		si, sj := score(ordered[i]), score(ordered[j])
		if si != sj {
			return si > sj
		}
		return ordered[i] < ordered[j]
	})
	ranks := make(map[string]int, len(ordered))
	for i, n := range ordered {
		ranks[n] = i + 1
	}
	return ranks
}

// Degree returns the number of distinct interconnections the concept has.
func (s *Stats) Degree(concept string) int { return s.degree[concept] }

// PageRank returns the concept's PageRank score, 0 if unknown.
func (s *Stats) PageRank(concept string) float64 { return s.pageRank[concept] }

// Betweenness returns the concept's betweenness centrality, 0 if unknown.
func (s *Stats) Betweenness(concept string) float64 { return s.betweenness[concept] }

// DegreeRank, PageRankRank and BetweennessRank return the concept's
// 1-indexed rank for the metric, or 0 when the concept is unknown.
func (s *Stats) DegreeRank(concept string) int      { return s.degreeRank[concept] }
func (s *Stats) PageRankRank(concept string) int    { return s.pageRankRank[concept] }
func (s *Stats) BetweennessRank(concept string) int { return s.betweennessRank[concept] }

// Component returns the concept's connected-component index and whether the
// concept is known.
func (s *Stats) Component(concept string) (int, bool) {
	c, ok := s.component[concept]
	return c, ok
}

// ComponentCount returns the number of connected components, counting
// isolated concepts as singleton components.
func (s *Stats) ComponentCount() int { return s.componentCount }

// TopHub returns the concept ranked first by PageRank, or "" for an empty
// network. The exporter uses this for its summary block.
func (s *Stats) TopHub() string {
	for name, rank := range s.pageRankRank {
		if rank == 1 {
			return name
		}
	}
	return ""
}

// TopBridges returns up to n concepts by descending betweenness, skipping
// concepts with zero score. These are the "bridge concepts" the metrics
// panel highlights.
func (s *Stats) TopBridges(n int) []string {
	type scored struct {
		name  string
		score float64
	}
	var list []scored
	for name, score := range s.betweenness {
		if score > 0 {
			list = append(list, scored{name, score})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].name < list[j].name
	})
	if len(list) > n {
		list = list[:n]
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.name
	}
	return out
}
