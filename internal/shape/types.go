package shape

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Kind 图形类型
type Kind int

const (
	None      Kind = iota // 未选择工具
	Line                  // 直线
	Rectangle             // 矩形
	Ellipse               // 椭圆
	Polygon               // 多边形
)

// ErrMalformed 图形参数不合法（如多边形少于 3 个顶点）
var ErrMalformed = errors.New("shape: malformed record")

// MinPolygonVertices 多边形最少顶点数
const MinPolygonVertices = 3

var kindNames = map[Kind]string{
	None:      "none",
	Line:      "line",
	Rectangle: "rect",
	Ellipse:   "oval",
	Polygon:   "polygon",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsBox 是否为两点定义的图形（直线/矩形/椭圆）
func (k Kind) IsBox() bool {
	return k == Line || k == Rectangle || k == Ellipse
}

// ParseKind 解析工具名称，兼容 rect/rectangle、oval/ellipse 两种写法
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "line":
		return Line, nil
	case "rect", "rectangle":
		return Rectangle, nil
	case "oval", "ellipse":
		return Ellipse, nil
	case "polygon":
		return Polygon, nil
	}
	return None, fmt.Errorf("unknown shape kind %q", s)
}

// Record 一个已提交的图形，构造后不可变
type Record struct {
	kind   Kind
	points []image.Point // 直线/矩形/椭圆为两个角点，多边形为全部顶点
	filled bool
}

// NewBox 创建直线/矩形/椭圆记录，两个角点不要求有序
func NewBox(kind Kind, p1, p2 image.Point, filled bool) (Record, error) {
	if !kind.IsBox() {
		return Record{}, fmt.Errorf("%w: %s is not a two-point shape", ErrMalformed, kind)
	}
	return Record{kind: kind, points: []image.Point{p1, p2}, filled: filled}, nil
}

// NewPolygon 创建多边形记录，会复制顶点切片
func NewPolygon(vertices []image.Point, filled bool) (Record, error) {
	if len(vertices) < MinPolygonVertices {
		return Record{}, fmt.Errorf("%w: polygon needs %d vertices, got %d",
			ErrMalformed, MinPolygonVertices, len(vertices))
	}
	pts := make([]image.Point, len(vertices))
	copy(pts, vertices)
	return Record{kind: Polygon, points: pts, filled: filled}, nil
}

// New 按类型分派构造。两点图形必须恰好给出两个角点，多边形必须给出顶点列表
func New(kind Kind, points []image.Point, filled bool) (Record, error) {
	switch {
	case kind == Polygon:
		return NewPolygon(points, filled)
	case kind.IsBox():
		if len(points) != 2 {
			return Record{}, fmt.Errorf("%w: %s takes two corner points, got %d",
				ErrMalformed, kind, len(points))
		}
		return NewBox(kind, points[0], points[1], filled)
	}
	return Record{}, fmt.Errorf("%w: invalid kind %s", ErrMalformed, kind)
}

// Kind 图形类型
func (r Record) Kind() Kind { return r.kind }

// Filled 提交时的填充状态
func (r Record) Filled() bool { return r.filled }

// Corners 返回两点图形的原始角点；多边形返回前两个顶点
func (r Record) Corners() (image.Point, image.Point) {
	if len(r.points) < 2 {
		return image.Point{}, image.Point{}
	}
	return r.points[0], r.points[1]
}

// Points 返回点集副本
func (r Record) Points() []image.Point {
	pts := make([]image.Point, len(r.points))
	copy(pts, r.points)
	return pts
}

// Bounds 获取图形的包围盒（规范化后）
func (r Record) Bounds() image.Rectangle {
	return BoundsOf(r.points)
}

// Equal 按字段比较两条记录，go-cmp 比较 Record 时也会使用它
func (r Record) Equal(o Record) bool {
	if r.kind != o.kind || r.filled != o.filled || len(r.points) != len(o.points) {
		return false
	}
	for i := range r.points {
		if r.points[i] != o.points[i] {
			return false
		}
	}
	return true
}

// Normalize 将任意两个角点转换为 (min-x, min-y, |dx|, |dy|) 的规范矩形
func Normalize(p1, p2 image.Point) image.Rectangle {
	x0, x1 := p1.X, p2.X
	y0, y1 := p1.Y, p2.Y
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return image.Rect(x0, y0, x1, y1)
}

// BoundsOf 点集的包围盒
func BoundsOf(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX, maxY)
}
