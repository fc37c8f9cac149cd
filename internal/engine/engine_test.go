package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"shapepad/internal/render"
	"shapepad/internal/shape"
)

var bg = color.RGBA{255, 255, 255, 255}

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func drag(e *Engine, from, to image.Point) {
	e.PointerDown(from)
	e.PointerDrag(to)
	e.PointerUp(to)
}

func click(e *Engine, p image.Point) {
	e.PointerDown(p)
	e.PointerUp(p)
}

func TestCommitCountAndUndo(t *testing.T) {
	e := newEngine(t)
	kinds := []shape.Kind{shape.Line, shape.Rectangle, shape.Ellipse}
	const n = 9
	for i := 0; i < n; i++ {
		e.SelectTool(kinds[i%len(kinds)])
		drag(e, image.Pt(i, i), image.Pt(i+10, i+20))
	}
	if got := len(e.History()); got != n {
		t.Fatalf("history length = %d, want %d", got, n)
	}
	for i := n; i > 0; i-- {
		if !e.CanUndo() {
			t.Fatalf("CanUndo false with %d records", i)
		}
		if !e.Undo() {
			t.Fatal("Undo returned false")
		}
		if got := len(e.History()); got != i-1 {
			t.Fatalf("after undo: %d records, want %d", got, i-1)
		}
	}
	if e.CanUndo() || e.Undo() {
		t.Error("undo on empty history should be a no-op")
	}
}

func TestUndoRemovesMostRecent(t *testing.T) {
	e := newEngine(t, WithTool(shape.Rectangle))
	drag(e, image.Pt(0, 0), image.Pt(5, 5))
	e.SelectTool(shape.Ellipse)
	drag(e, image.Pt(1, 1), image.Pt(6, 6))
	e.Undo()
	h := e.History()
	if len(h) != 1 || h[0].Kind() != shape.Rectangle {
		t.Fatalf("got %v, want the rectangle to remain", h)
	}
}

func TestRectangleScenario(t *testing.T) {
	e := newEngine(t)
	e.SelectTool(shape.Rectangle)
	e.SetFill(false)
	e.PointerDown(image.Pt(10, 10))
	e.PointerDrag(image.Pt(40, 10))
	e.PointerUp(image.Pt(40, 40))

	h := e.History()
	if len(h) != 1 {
		t.Fatalf("history length = %d, want 1", len(h))
	}
	if h[0].Kind() != shape.Rectangle || h[0].Filled() {
		t.Errorf("got kind %s filled %v", h[0].Kind(), h[0].Filled())
	}
	list := e.RenderList(false)
	diff(t, image.Rect(10, 10, 40, 40), list[0].Bounds)
	if b := list[0].Bounds; b.Min.X != 10 || b.Min.Y != 10 || b.Dx() != 30 || b.Dy() != 30 {
		t.Errorf("normalized bounds = %v", b)
	}
}

func TestFillAppliesOnlyToFutureCommits(t *testing.T) {
	e := newEngine(t, WithTool(shape.Ellipse))
	drag(e, image.Pt(0, 0), image.Pt(10, 10))
	e.SetFill(true)
	drag(e, image.Pt(20, 20), image.Pt(30, 30))

	h := e.History()
	if h[0].Filled() {
		t.Error("first shape became filled retroactively")
	}
	if !h[1].Filled() {
		t.Error("second shape should be filled")
	}
}

func TestDegenerateShapesAreRecorded(t *testing.T) {
	e := newEngine(t)
	for _, k := range []shape.Kind{shape.Line, shape.Rectangle, shape.Ellipse} {
		e.SelectTool(k)
		click(e, image.Pt(5, 5))
	}
	if got := len(e.History()); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestStrayReleaseDoesNotCommit(t *testing.T) {
	e := newEngine(t)
	e.PointerUp(image.Pt(3, 3))
	if e.CanUndo() {
		t.Error("release without press committed a shape")
	}
}

func TestNoToolNeverCommits(t *testing.T) {
	e := newEngine(t, WithTool(shape.None))
	drag(e, image.Pt(0, 0), image.Pt(10, 10))
	e.CompletionGesture(2)
	if e.CanUndo() {
		t.Error("commit with no tool selected")
	}
	if got := e.RenderList(true); len(got) != 0 {
		t.Errorf("got %d instructions, want none", len(got))
	}
}

func TestPolygonNeedsThreeVertices(t *testing.T) {
	e := newEngine(t)
	e.SelectTool(shape.Polygon)
	click(e, image.Pt(0, 0))
	click(e, image.Pt(10, 0))
	e.CompletionGesture(2)
	if e.CanUndo() {
		t.Fatal("polygon with 2 vertices was committed")
	}
	diff(t, []image.Point{{0, 0}, {10, 0}}, e.Pending())

	click(e, image.Pt(5, 8))
	e.CompletionGesture(1)
	if e.CanUndo() {
		t.Fatal("single click completed the polygon")
	}
	e.CompletionGesture(2)
	h := e.History()
	if len(h) != 1 || h[0].Kind() != shape.Polygon {
		t.Fatalf("got %v, want one polygon", h)
	}
	diff(t, []image.Point{{0, 0}, {10, 0}, {5, 8}}, h[0].Points())
	if len(e.Pending()) != 0 {
		t.Error("pending vertices not cleared after commit")
	}
}

func TestPolygonReleaseDoesNotCommit(t *testing.T) {
	e := newEngine(t, WithTool(shape.Polygon))
	for _, p := range []image.Point{{0, 0}, {9, 0}, {9, 9}, {0, 9}} {
		drag(e, p, p.Add(image.Pt(1, 1)))
	}
	if e.CanUndo() {
		t.Error("polygon committed on pointer up")
	}
	if got := len(e.Pending()); got != 4 {
		t.Errorf("pending = %d, want 4", got)
	}
}

func TestSwitchingAwayFromPolygonDiscardsVertices(t *testing.T) {
	e := newEngine(t)
	e.SelectTool(shape.Polygon)
	click(e, image.Pt(0, 0))
	click(e, image.Pt(10, 0))

	e.SelectTool(shape.Line)
	if len(e.Pending()) != 0 {
		t.Fatal("pending vertices survived a tool switch")
	}

	e.SelectTool(shape.Polygon)
	click(e, image.Pt(20, 20))
	click(e, image.Pt(30, 20))
	e.CompletionGesture(2)
	if e.CanUndo() {
		t.Fatal("stale vertices were counted toward the new polygon")
	}
	click(e, image.Pt(25, 30))
	e.CompletionGesture(2)
	h := e.History()
	if len(h) != 1 {
		t.Fatalf("history length = %d, want 1", len(h))
	}
	diff(t, []image.Point{{20, 20}, {30, 20}, {25, 30}}, h[0].Points())
}

func TestClearEmptiesHistoryAndPending(t *testing.T) {
	e := newEngine(t)
	e.Clear()
	drag(e, image.Pt(0, 0), image.Pt(4, 4))
	e.SelectTool(shape.Polygon)
	click(e, image.Pt(1, 1))
	e.Clear()
	if e.CanUndo() || len(e.Pending()) != 0 {
		t.Error("clear left state behind")
	}
}

func TestRenderListOrderAndPreview(t *testing.T) {
	e := newEngine(t, WithTool(shape.Rectangle))
	drag(e, image.Pt(0, 0), image.Pt(10, 10))

	e.SelectTool(shape.Ellipse)
	e.SetFill(true)
	e.PointerDown(image.Pt(50, 50))
	e.PointerDrag(image.Pt(20, 30))

	list := e.RenderList(true)
	if len(list) != 2 {
		t.Fatalf("got %d instructions, want 2", len(list))
	}
	if list[0].Preview || list[0].Color != render.RectangleColor {
		t.Errorf("first instruction should be the committed rectangle: %+v", list[0])
	}
	last := list[1]
	if !last.Preview || last.Kind != shape.Ellipse || !last.Filled || last.Color != render.PreviewColor {
		t.Errorf("unexpected preview %+v", last)
	}
	diff(t, image.Rect(20, 30, 50, 50), last.Bounds)

	if got := e.RenderList(false); len(got) != 1 {
		t.Errorf("history-only list has %d entries, want 1", len(got))
	}

	e.PointerUp(image.Pt(20, 30))
	if got := e.RenderList(true); len(got) != 2 || got[1].Preview {
		t.Errorf("preview still present after release: %+v", got)
	}
}

func TestPolygonRubberBand(t *testing.T) {
	e := newEngine(t, WithTool(shape.Polygon))
	click(e, image.Pt(10, 10))
	click(e, image.Pt(40, 10))
	e.PointerMove(image.Pt(25, 40))

	list := e.RenderList(true)
	if len(list) != 1 {
		t.Fatalf("got %d instructions, want 1", len(list))
	}
	p := list[0]
	if !p.Preview || p.Closed || p.Color != render.PreviewColor {
		t.Errorf("unexpected polygon preview %+v", p)
	}
	diff(t, []image.Point{{10, 10}, {40, 10}, {25, 40}}, p.Points)
}

func TestRedrawSignals(t *testing.T) {
	e := newEngine(t)
	n := 0
	e.OnRedraw(func() { n++ })

	e.SelectTool(shape.Line)
	e.SetFill(true)
	e.Clear()
	if n != 3 {
		t.Errorf("commands emitted %d redraws, want 3", n)
	}

	n = 0
	e.PointerMove(image.Pt(1, 1))
	if n != 0 {
		t.Error("hover with a box tool should not redraw")
	}
	e.SelectTool(shape.Polygon)
	n = 0
	e.PointerMove(image.Pt(2, 2))
	if n != 1 {
		t.Errorf("hover in polygon mode emitted %d redraws, want 1", n)
	}

	n = 0
	e.Undo()
	if n != 0 {
		t.Error("no-op undo emitted a redraw")
	}
}

func TestExportSnapshot(t *testing.T) {
	e := newEngine(t)
	for _, wh := range [][2]int{{0, 100}, {100, 0}, {-1, 5}} {
		img, err := e.ExportSnapshot(wh[0], wh[1], bg)
		if !errors.Is(err, ErrInvalidDimensions) || img != nil {
			t.Errorf("ExportSnapshot(%d, %d) = %v, %v; want ErrInvalidDimensions", wh[0], wh[1], img, err)
		}
	}

	img, err := e.ExportSnapshot(100, 100, bg)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if got := img.RGBAAt(x, y); got != bg {
				t.Fatalf("pixel (%d,%d) = %v, want background", x, y, got)
			}
		}
	}
}

func TestExportExcludesPreview(t *testing.T) {
	e := newEngine(t, WithTool(shape.Rectangle), WithFill(true))
	e.PointerDown(image.Pt(10, 10))
	e.PointerDrag(image.Pt(50, 50))

	img, err := e.ExportSnapshot(64, 64, bg)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(30, 30); got != bg {
		t.Errorf("preview leaked into export: %v", got)
	}
}

func TestExportNormalizationIsReproducible(t *testing.T) {
	for _, k := range []shape.Kind{shape.Rectangle, shape.Ellipse} {
		a := newEngine(t, WithTool(k))
		drag(a, image.Pt(50, 50), image.Pt(10, 30))
		b := newEngine(t, WithTool(k))
		drag(b, image.Pt(10, 30), image.Pt(50, 50))

		ia, err := a.ExportSnapshot(64, 64, bg)
		if err != nil {
			t.Fatal(err)
		}
		ib, err := b.ExportSnapshot(64, 64, bg)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(ia.Pix, ib.Pix) {
			t.Errorf("%s: exports differ", k)
		}
	}
}

func TestDraggingTracksPointer(t *testing.T) {
	e := newEngine(t, WithTool(shape.Ellipse))
	if e.Dragging() {
		t.Fatal("new engine is dragging")
	}
	e.PointerDown(image.Pt(3, 3))
	if !e.Dragging() {
		t.Error("not dragging after PointerDown")
	}
	e.PointerUp(image.Pt(9, 9))
	if e.Dragging() {
		t.Error("still dragging after PointerUp")
	}

	e.PointerUp(image.Pt(20, 20))
	if got := len(e.History()); got != 1 {
		t.Errorf("stray release committed: history length = %d", got)
	}
}

func TestExportOfHugeShapesStaysBounded(t *testing.T) {
	far := image.Pt(100000, 100000)
	for _, k := range []shape.Kind{shape.Line, shape.Rectangle, shape.Ellipse} {
		for _, filled := range []bool{false, true} {
			e := newEngine(t, WithTool(k), WithFill(filled))
			drag(e, image.Pt(-100000, -100000), far)
			drag(e, image.Pt(0, 0), far)

			start := time.Now()
			img, err := e.ExportSnapshot(64, 64, bg)
			if err != nil {
				t.Fatal(err)
			}
			if el := time.Since(start); el > 2*time.Second {
				t.Errorf("%s filled=%v: export took %v", k, filled, el)
			}
			if filled && k != shape.Line && img.RGBAAt(32, 32) != render.ColorOf(k) {
				t.Errorf("%s: center pixel = %v, want shape color", k, img.RGBAAt(32, 32))
			}
		}
	}
}
