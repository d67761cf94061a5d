// Package arb searches a fixed currency-conversion graph for the most
// profitable trade cycle. It is an offline utility and is not wired into
// the per-tick decision path.
package arb

import "math"

// Edge is one directed conversion with a multiplicative exchange rate.
type Edge struct {
	From string
	To   string
	Rate float64
}

type edgeKey struct{ from, to string }

type neighbor struct {
	node   string
	weight float64 // -log(rate), so cheaper paths mean higher profit
}

// Graph is a conversion graph with fast rate lookup and adjacency in edge
// insertion order, which keeps the search deterministic.
type Graph struct {
	nodes []string
	rates map[edgeKey]float64
	adj   map[string][]neighbor
}

func NewGraph(nodes []string, edges []Edge) *Graph {
	g := &Graph{
		nodes: append([]string(nil), nodes...),
		rates: make(map[edgeKey]float64, len(edges)),
		adj:   make(map[string][]neighbor, len(nodes)),
	}
	for _, e := range edges {
		g.rates[edgeKey{e.From, e.To}] = e.Rate
		g.adj[e.From] = append(g.adj[e.From], neighbor{node: e.To, weight: -math.Log(e.Rate)})
	}
	return g
}

// Profit multiplies the conversion rates along path; a missing edge makes
// the whole path worthless.
func (g *Graph) Profit(path []string) float64 {
	profit := 1.0
	for i := 0; i+1 < len(path); i++ {
		profit *= g.rates[edgeKey{path[i], path[i+1]}]
	}
	return profit
}

// BestCycle returns the most profitable cycle starting and ending at start
// with at most maxTrades trades, and the path realizing it. A profit of 1
// with an empty path means no profitable cycle exists.
//
// Two passes: a step-bounded Bellman-Ford over -log(rate) weights that can
// revisit intermediate nodes, then a bounded DFS over near-simple paths.
// The better result of the two wins.
func (g *Graph) BestCycle(start string, maxTrades int) (float64, []string) {
	if !g.hasNode(start) {
		return 1.0, nil
	}

	bestProfit := 1.0
	var bestPath []string

	consider := func(path []string) {
		if profit := g.Profit(path); profit > bestProfit {
			bestProfit = profit
			bestPath = append([]string(nil), path...)
		}
	}

	g.bellmanFordCycles(start, maxTrades, consider)
	g.dfsCycles(start, maxTrades, consider)

	return bestProfit, bestPath
}

// bellmanFordCycles relaxes edges step by step for every cycle length and
// reports any negative-cost (profitable) path back to start.
func (g *Graph) bellmanFordCycles(start string, maxTrades int, consider func([]string)) {
	for cycleLength := 2; cycleLength <= maxTrades+1; cycleLength++ {
		dist := make(map[string]map[int]float64, len(g.nodes))
		pred := make(map[string]map[int]string, len(g.nodes))
		for _, node := range g.nodes {
			dist[node] = make(map[int]float64)
			pred[node] = make(map[int]string)
		}
		dist[start][0] = 0

		for step := 1; step < cycleLength; step++ {
			for _, u := range g.nodes {
				du, ok := dist[u][step-1]
				if !ok {
					continue
				}
				for _, nb := range g.adj[u] {
					dv, seen := dist[nb.node][step]
					if !seen || du+nb.weight < dv {
						dist[nb.node][step] = du + nb.weight
						pred[nb.node][step] = u
					}
				}
			}
		}

		for step := 1; step < cycleLength; step++ {
			d, ok := dist[start][step]
			if !ok || d >= 0 {
				continue
			}
			path := []string{start}
			current := start
			for s := step; s > 0; s-- {
				current = pred[current][s]
				path = append([]string{current}, path...)
			}
			// Close the cycle with the start's self-conversion leg.
			path = append(path, start)
			consider(path)
		}
	}
}

// dfsCycles enumerates paths that revisit no intermediate node, returning
// to start within the trade bound.
func (g *Graph) dfsCycles(start string, maxTrades int, consider func([]string)) {
	visited := make(map[string]bool)
	path := []string{start}

	var walk func(node string, depth int)
	walk = func(node string, depth int) {
		if depth == 0 {
			if node == start && len(path) > 1 {
				consider(append(path, start))
			}
			return
		}
		visited[node] = true
		for _, nb := range g.adj[node] {
			if visited[nb.node] && nb.node != start {
				continue
			}
			path = append(path, nb.node)
			if nb.node != start {
				walk(nb.node, depth-1)
			} else {
				walk(nb.node, 0)
			}
			path = path[:len(path)-1]
		}
		delete(visited, node)
	}

	walk(start, maxTrades)
}

func (g *Graph) hasNode(name string) bool {
	for _, n := range g.nodes {
		if n == name {
			return true
		}
	}
	return false
}
