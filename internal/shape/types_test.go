package shape

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func TestNewPolygonRejectsFewVertices(t *testing.T) {
	for n := 0; n < MinPolygonVertices; n++ {
		pts := make([]image.Point, n)
		if _, err := NewPolygon(pts, false); !errors.Is(err, ErrMalformed) {
			t.Errorf("NewPolygon with %d vertices: got err %v, want ErrMalformed", n, err)
		}
	}
	r, err := NewPolygon([]image.Point{{0, 0}, {10, 0}, {5, 5}}, true)
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind() != Polygon || !r.Filled() {
		t.Errorf("got kind %s filled %v", r.Kind(), r.Filled())
	}
}

func TestNewRejectsMismatchedForm(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		points []image.Point
	}{
		{"line with vertex list", Line, []image.Point{{0, 0}, {1, 1}, {2, 2}}},
		{"rect with single point", Rectangle, []image.Point{{0, 0}}},
		{"polygon with two corners", Polygon, []image.Point{{0, 0}, {1, 1}}},
		{"none kind", None, []image.Point{{0, 0}, {1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.kind, tt.points, false); !errors.Is(err, ErrMalformed) {
				t.Errorf("got %v, want ErrMalformed", err)
			}
		})
	}
	if _, err := NewBox(Polygon, image.Pt(0, 0), image.Pt(1, 1), false); !errors.Is(err, ErrMalformed) {
		t.Errorf("NewBox(Polygon): got %v, want ErrMalformed", err)
	}
}

func TestRecordIsImmutable(t *testing.T) {
	src := []image.Point{{0, 0}, {10, 0}, {5, 5}}
	r, err := NewPolygon(src, false)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = image.Pt(99, 99)
	got := r.Points()
	got[1] = image.Pt(42, 42)
	diff(t, []image.Point{{0, 0}, {10, 0}, {5, 5}}, r.Points())
}

func TestNormalize(t *testing.T) {
	a := Normalize(image.Pt(50, 50), image.Pt(10, 30))
	b := Normalize(image.Pt(10, 30), image.Pt(50, 50))
	diff(t, a, b)
	diff(t, image.Rect(10, 30, 50, 50), a)
	if a.Dx() != 40 || a.Dy() != 20 {
		t.Errorf("got %dx%d, want 40x20", a.Dx(), a.Dy())
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"line": Line, "rect": Rectangle, "Rectangle": Rectangle,
		"oval": Ellipse, "ellipse": Ellipse, "polygon": Polygon, "none": None,
	} {
		got, err := ParseKind(in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseKind("triangle"); err == nil {
		t.Error("ParseKind(triangle) succeeded")
	}
	for k := None; k <= Polygon; k++ {
		back, err := ParseKind(k.String())
		if err != nil || back != k {
			t.Errorf("round trip of %s gave %s, %v", k, back, err)
		}
	}
}

func TestDegenerateBoxIsAllowed(t *testing.T) {
	r, err := NewBox(Rectangle, image.Pt(7, 7), image.Pt(7, 7), false)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Bounds().Empty() {
		t.Errorf("got bounds %v, want empty", r.Bounds())
	}
}

func TestRecordEqual(t *testing.T) {
	a, _ := NewBox(Rectangle, image.Pt(1, 2), image.Pt(3, 4), true)
	b, _ := NewBox(Rectangle, image.Pt(1, 2), image.Pt(3, 4), true)
	diff(t, a, b)

	others := []Record{}
	for _, r := range []struct {
		kind   Kind
		p2     image.Point
		filled bool
	}{
		{Ellipse, image.Pt(3, 4), true},
		{Rectangle, image.Pt(3, 5), true},
		{Rectangle, image.Pt(3, 4), false},
	} {
		o, _ := NewBox(r.kind, image.Pt(1, 2), r.p2, r.filled)
		others = append(others, o)
	}
	tri, _ := NewPolygon([]image.Point{{1, 2}, {3, 4}, {5, 0}}, true)
	others = append(others, tri)

	for _, o := range others {
		if a.Equal(o) {
			t.Errorf("%+v should differ from %+v", o, a)
		}
	}
}
