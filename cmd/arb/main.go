package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mstrvictor/prosperity3/arb"
)

// rateTable is the YAML shape of a conversion table.
type rateTable struct {
	Nodes []string `yaml:"nodes"`
	Edges []struct {
		From string  `yaml:"from"`
		To   string  `yaml:"to"`
		Rate float64 `yaml:"rate"`
	} `yaml:"edges"`
	Start     string `yaml:"start"`
	MaxTrades int    `yaml:"maxTrades"`
}

func main() {
	tablePath := flag.String("table", "configs/rates.yaml", "conversion rate table (YAML)")
	flag.Parse()

	raw, err := os.ReadFile(*tablePath)
	if err != nil {
		log.Fatalf("read rate table: %v", err)
	}
	var table rateTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		log.Fatalf("parse rate table: %v", err)
	}
	if table.MaxTrades <= 0 {
		table.MaxTrades = 5
	}

	edges := make([]arb.Edge, 0, len(table.Edges))
	for _, e := range table.Edges {
		edges = append(edges, arb.Edge{From: e.From, To: e.To, Rate: e.Rate})
	}
	graph := arb.NewGraph(table.Nodes, edges)

	profit, path := graph.BestCycle(table.Start, table.MaxTrades)
	if len(path) == 0 {
		fmt.Println("No profitable arbitrage cycle found.")
		return
	}
	fmt.Printf("Most profitable arbitrage cycle: %s\n", strings.Join(path, " -> "))
	fmt.Printf("Profit multiplier: %.6fx\n", profit)
}
