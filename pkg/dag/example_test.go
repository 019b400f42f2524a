package dag_test

import (
	"fmt"

	"github.com/matzehuels/gemdeps/pkg/dag"
)

func ExampleDAG_basic() {
	// Create a simple dependency graph: app → lib → core
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "lib"})
	_ = g.AddNode(dag.Node{ID: "core"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: 3
	// Edges: 2
}

func ExampleDAG_traversal() {
	// rails depends on actionpack and railties, in that order
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "rails"})
	_ = g.AddNode(dag.Node{ID: "actionpack"})
	_ = g.AddNode(dag.Node{ID: "railties"})
	_ = g.AddEdge(dag.Edge{From: "rails", To: "actionpack"})
	_ = g.AddEdge(dag.Edge{From: "rails", To: "railties"})
	_ = g.AddEdge(dag.Edge{From: "railties", To: "actionpack"})

	fmt.Println("Children of rails:", g.Children("rails"))
	fmt.Println("Sources:", dag.NodeIDs(g.Sources()))
	fmt.Println("Sinks:", dag.NodeIDs(g.Sinks()))
	// Output:
	// Children of rails: [actionpack railties]
	// Sources: [rails]
	// Sinks: [actionpack]
}

func ExampleDAG_metadata() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{
		ID:   "nokogiri",
		Meta: dag.Metadata{"version": "1.16.2", "platform": "x86_64-linux"},
	})

	n, _ := g.Node("nokogiri")
	fmt.Println(n.Meta["version"], n.Meta["platform"])
	// Output:
	// 1.16.2 x86_64-linux
}

func ExampleDAG_Validate() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a"})
	_ = g.AddNode(dag.Node{ID: "b"})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})

	fmt.Println(g.Validate())
	// Output:
	// graph contains a cycle
}
