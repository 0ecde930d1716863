package nodelink

import (
	"strings"
	"testing"

	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/projection"
)

func TestToDOT(t *testing.T) {
	g, err := network.Build(
		[]network.Station{{ID: "A", Name: "Alpha"}, {ID: "B", X: 10}, {ID: "C", X: 10, Y: 10}},
		[]network.Edge{{Source: 0, Target: 1, Line: network.LineRed}, {Source: 1, Target: 2, Line: network.LineGreen}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	layout, err := projection.Project(g, projection.DefaultProjector(), 1)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name: "plain",
			want: []string{
				"graph G {",
				"layout=neato;",
				`"A" [pos="0.0000,0.0000!"];`,
				`"C" [pos="3.5417,-3.5417!"];`,
				`"A" -- "B" [color="#E12D27"];`,
				`"B" -- "C" [color="#00843D"];`,
			},
			notWant: []string{"xlabel"},
		},
		{
			name: "labels",
			opts: Options{Labels: true},
			want: []string{`xlabel="Alpha"`, `xlabel="B"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(g, layout, tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("DOT missing %q:\n%s", w, dot)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(dot, w) {
					t.Errorf("DOT contains %q", w)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if got := string(normalizeViewBox([]byte("<svg/>"))); got != "<svg/>" {
		t.Errorf("no viewBox: got %s", got)
	}
}
