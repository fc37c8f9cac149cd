package render

import (
	"image"
	"image/color"

	"shapepad/internal/shape"
)

// 各类图形的固定颜色
var (
	LineColor      = color.RGBA{0, 0, 255, 255}     // 蓝色
	RectangleColor = color.RGBA{0, 255, 0, 255}     // 绿色
	EllipseColor   = color.RGBA{255, 0, 0, 255}     // 红色
	PolygonColor   = color.RGBA{255, 0, 255, 255}   // 品红
	PreviewColor   = color.RGBA{128, 128, 128, 255} // 灰色，正在绘制的预览
)

// ColorOf 返回图形类型对应的颜色
func ColorOf(k shape.Kind) color.RGBA {
	switch k {
	case shape.Line:
		return LineColor
	case shape.Rectangle:
		return RectangleColor
	case shape.Ellipse:
		return EllipseColor
	case shape.Polygon:
		return PolygonColor
	}
	return PreviewColor
}

// Instruction 一条绘制指令
type Instruction struct {
	Kind    shape.Kind
	Points  []image.Point   // 直线为原始端点，多边形为顶点
	Bounds  image.Rectangle // 矩形/椭圆的规范化包围盒
	Filled  bool
	Color   color.RGBA
	Preview bool // 正在绘制、尚未提交
	Closed  bool // 多边形是否闭合；预览中的多边形是折线
}

// FromRecord 把已提交的图形转换为绘制指令
func FromRecord(r shape.Record) Instruction {
	in := Instruction{
		Kind:   r.Kind(),
		Filled: r.Filled(),
		Color:  ColorOf(r.Kind()),
	}
	switch r.Kind() {
	case shape.Line:
		p1, p2 := r.Corners()
		in.Points = []image.Point{p1, p2}
	case shape.Rectangle, shape.Ellipse:
		p1, p2 := r.Corners()
		in.Bounds = shape.Normalize(p1, p2)
	case shape.Polygon:
		in.Points = r.Points()
		in.Closed = true
	}
	return in
}

// BoxPreview 拖拽中的直线/矩形/椭圆预览
func BoxPreview(k shape.Kind, anchor, cursor image.Point, filled bool) Instruction {
	in := Instruction{
		Kind:    k,
		Filled:  filled,
		Color:   PreviewColor,
		Preview: true,
	}
	if k == shape.Line {
		in.Points = []image.Point{anchor, cursor}
	} else {
		in.Bounds = shape.Normalize(anchor, cursor)
	}
	return in
}

// PolylinePreview 多边形预览：已放置的顶点依次连线，最后一点连到当前光标
func PolylinePreview(vertices []image.Point, cursor image.Point) Instruction {
	pts := make([]image.Point, 0, len(vertices)+1)
	pts = append(pts, vertices...)
	pts = append(pts, cursor)
	return Instruction{
		Kind:    shape.Polygon,
		Points:  pts,
		Color:   PreviewColor,
		Preview: true,
	}
}
