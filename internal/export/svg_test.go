package export

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/vector"
)

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("malformed svg: %v\n%s", err, doc)
		}
	}
}

func TestSnapshotToSVG(t *testing.T) {
	snap := engine.Snapshot{Objects: []engine.BodyState{
		{ID: 1, Position: vector.New(-50, 0), Radius: 5, Color: "#ff0000"},
		{ID: 2, Position: vector.New(50, 0), Radius: 1, Color: "#00ff00"},
	}}

	out := SnapshotToSVG(snap, 400, 300)
	wellFormed(t, out)

	if strings.Count(out, "<circle") != 2 {
		t.Errorf("expected 2 circles:\n%s", out)
	}
	for _, c := range []string{"#ff0000", "#00ff00"} {
		if !strings.Contains(out, c) {
			t.Errorf("missing colour %s", c)
		}
	}
	if !strings.Contains(out, `width="400" height="300"`) {
		t.Error("missing dimensions")
	}
}

func TestSnapshotToSVGEmpty(t *testing.T) {
	out := SnapshotToSVG(engine.Snapshot{}, 100, 100)
	wellFormed(t, out)
	if strings.Contains(out, "<circle") {
		t.Error("expected no circles")
	}
}

func TestTraceToSVG(t *testing.T) {
	var tr storage.Trace
	for i := 0; i < 3; i++ {
		tr.Append(engine.Snapshot{
			Tick: uint64(i),
			Objects: []engine.BodyState{
				{ID: 1, Mass: 100, Position: vector.New(float64(i), 0)},
				{ID: 2, Mass: 1, Position: vector.New(0, float64(i))},
			},
		})
	}

	out := TraceToSVG(tr, 200, 200)
	wellFormed(t, out)

	if strings.Count(out, "<path") != 2 {
		t.Errorf("expected 2 paths:\n%s", out)
	}
	if strings.Count(out, " L") != 4 {
		t.Errorf("expected 4 line segments:\n%s", out)
	}

	wellFormed(t, TraceToSVG(nil, 10, 10))
}
