package network_test

import (
	"fmt"

	"github.com/subwayviz/spiderglyph/pkg/network"
)

func ExampleBuild() {
	stations := []network.Station{
		{ID: "A", Name: "Alpha"},
		{ID: "B", Name: "Bravo"},
		{ID: "C", Name: "Charlie"},
	}
	edges := []network.Edge{
		{Source: 0, Target: 1, Line: network.LineRed},
		{Source: 1, Target: 2, Line: network.LineRed},
	}
	g, err := network.Build(stations, edges)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, l := range g.Incident("B") {
		fmt.Println(l.Source.ID, "->", l.Target.ID, l.Line)
	}
	// Output:
	// A -> B red
	// B -> C red
}

func ExampleBuild_outOfRange() {
	_, err := network.Build([]network.Station{{ID: "A"}}, []network.Edge{{Source: 0, Target: 4}})
	fmt.Println(err)
	// Output:
	// edge 0: target 4 of 1 stations: station index out of range
}
