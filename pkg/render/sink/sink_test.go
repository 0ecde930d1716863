package sink

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/projection"
)

func testFrame(t *testing.T) *glyph.Frame {
	t.Helper()
	g, err := network.Build(
		[]network.Station{{ID: "A", Name: "Alpha"}, {ID: "B", Name: "Bravo", X: 10}, {ID: "C", Name: "Charlie & Co", X: 10, Y: 10}},
		[]network.Edge{{Source: 0, Target: 1, Line: network.LineRed}, {Source: 1, Target: 2, Line: network.LineBlue}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p, err := projection.New(g, projection.DefaultProjector())
	if err != nil {
		t.Fatalf("projection.New: %v", err)
	}
	f, err := glyph.NewBuilder(g, p, nil).Frame(glyph.Input{
		Volumes:     glyph.Volumes{"A": 40, "B": 80},
		Speeds:      map[string]float64{"A|B": 0.5},
		Interaction: glyph.Interaction{Hovered: "A|B", Day: 1, Time: 17*time.Hour + 30*time.Minute},
	})
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	return f
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testFrame(t)))

	if !strings.Contains(out, `transform="translate(20,20)"`) {
		t.Error("missing margin translation")
	}
	if got := strings.Count(out, "<path"); got != 4 {
		t.Errorf("path count = %d, want 4", got)
	}
	hovered := strings.Index(out, `data-key="A|B"`)
	if hovered < 0 || hovered < strings.Index(out, `data-key="C|B"`) {
		t.Error("hovered segment is not drawn last")
	}
	if !strings.Contains(out, HoverStroke) {
		t.Error("hovered segment is not outlined")
	}
	if !strings.Contains(out, `class="blue-glyph"`) {
		t.Error("missing line class")
	}
	if !strings.Contains(out, "Charlie &amp; Co") {
		t.Error("station name is not escaped")
	}
	if strings.Contains(out, "<circle") || strings.Contains(out, "<text") {
		t.Error("end dots or caption drawn without options")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	out := string(RenderSVG(testFrame(t), WithEndDots(), WithCaption(), WithBackground("#fafafa")))

	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("circle count = %d, want 2", got)
	}
	if !strings.Contains(out, "5:30 pm on Mon Feb 3") {
		t.Error("missing caption")
	}
	if !strings.Contains(out, "fill:#fafafa") {
		t.Error("missing background")
	}
}

func TestRenderGeoJSON(t *testing.T) {
	data, err := RenderGeoJSON(testFrame(t))
	if err != nil {
		t.Fatalf("RenderGeoJSON: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("UnmarshalFeatureCollection: %v", err)
	}
	if len(fc.Features) != 6 {
		t.Fatalf("features = %d, want 4 segments and 2 end dots", len(fc.Features))
	}

	first := fc.Features[0]
	poly, ok := first.Geometry.(orb.Polygon)
	if !ok || len(poly) != 1 || len(poly[0]) != 5 {
		t.Fatalf("first geometry = %#v", first.Geometry)
	}
	if first.Properties.MustString("key") != "A|B" || first.Properties.MustFloat64("speed") != 0.5 {
		t.Errorf("properties = %v", first.Properties)
	}
	if !first.Properties.MustBool("hovered") {
		t.Error("A|B not marked hovered")
	}
	if _, ok := fc.Features[1].Properties["speed"]; ok {
		t.Error("B|A has a speed without a sample")
	}
	if fc.Features[5].Properties.MustString("kind") != KindEndDot {
		t.Errorf("last feature kind = %v", fc.Features[5].Properties["kind"])
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testFrame(t))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out.Width != 300 || out.Margin.Bottom != 25 || out.Scale != 25.5 {
		t.Errorf("frame = %v x %v margin %+v scale %v", out.Width, out.Height, out.Margin, out.Scale)
	}
	if out.Caption != "5:30 pm on Mon Feb 3" || out.Hovered != "A|B" {
		t.Errorf("caption %q hovered %q", out.Caption, out.Hovered)
	}
	if len(out.Segments) != 4 || len(out.EndDots) != 2 {
		t.Fatalf("segments %d end dots %d", len(out.Segments), len(out.EndDots))
	}
	s := out.Segments[0]
	if s.Key != "A|B" || s.Line != "red" || len(s.Points) != 5 || !strings.HasPrefix(s.D, "M0,0L255,0") {
		t.Errorf("segment = %+v", s)
	}
}
