package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"shapepad/internal/shape"
)

// Options 光栅化参数
type Options struct {
	LineWidth int // 描边线宽，<=0 时按 1 处理
}

// DefaultOptions 默认参数：1px 画笔
var DefaultOptions = Options{LineWidth: 1}

// kappa 四段三次贝塞尔逼近椭圆的控制点系数
const kappa = 0.5522847498

// Fill 用纯色填充整张图片
func Fill(img *image.RGBA, c color.Color) {
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Paint 按顺序把绘制指令画到图片上，后面的指令覆盖前面的
func Paint(img *image.RGBA, list []Instruction, opts Options) {
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}
	for i := range list {
		PaintOne(img, &list[i], opts)
	}
}

// PaintOne 绘制单条指令
func PaintOne(img *image.RGBA, in *Instruction, opts Options) {
	switch in.Kind {
	case shape.Line:
		renderLine(img, in, opts.LineWidth)
	case shape.Rectangle:
		renderRect(img, in, opts.LineWidth)
	case shape.Ellipse:
		renderEllipse(img, in, opts.LineWidth)
	case shape.Polygon:
		renderPolygon(img, in, opts.LineWidth)
	}
}

// ---------- 直线 ----------

func renderLine(img *image.RGBA, in *Instruction, width int) {
	if len(in.Points) < 2 {
		return
	}
	p0, p1 := in.Points[0], in.Points[1]
	drawThickLine(img, p0.X, p0.Y, p1.X, p1.Y, in.Color, width)
}

// ---------- 矩形 ----------

func renderRect(img *image.RGBA, in *Instruction, width int) {
	r := in.Bounds
	if in.Filled {
		r = r.Intersect(img.Bounds())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				setPixelBlend(img, x, y, in.Color)
			}
		}
		return
	}
	drawRectStroke(img, r, in.Color, width)
}

// drawRectStroke 绘制矩形描边，右/下边落在 Max 上
func drawRectStroke(img *image.RGBA, r image.Rectangle, c color.RGBA, width int) {
	drawThickLine(img, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, c, width)
	drawThickLine(img, r.Min.X, r.Max.Y, r.Max.X, r.Max.Y, c, width)
	drawThickLine(img, r.Min.X, r.Min.Y, r.Min.X, r.Max.Y, c, width)
	drawThickLine(img, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, c, width)
}

// ---------- 椭圆 ----------

func renderEllipse(img *image.RGBA, in *Instruction, width int) {
	r := in.Bounds
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		// 零宽或零高的椭圆描边退化为线段，填充则什么也不画
		if !in.Filled {
			drawThickLine(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, in.Color, width)
		}
		return
	}
	cx := float64(r.Min.X) + rx
	cy := float64(r.Min.Y) + ry

	if in.Filled {
		fillEllipse(img, cx, cy, rx, ry, in.Color)
		return
	}
	strokeEllipse(img, cx, cy, rx, ry, in.Color, width)
}

// fillEllipse 用四段三次贝塞尔构造椭圆路径后光栅化
func fillEllipse(img *image.RGBA, cx, cy, rx, ry float64, c color.RGBA) {
	z := newRasterizer(img)
	if z == nil {
		return
	}
	o := img.Bounds().Min
	x, y := float32(cx-float64(o.X)), float32(cy-float64(o.Y))
	a, b := float32(rx), float32(ry)
	ka, kb := float32(kappa*rx), float32(kappa*ry)

	z.MoveTo(x+a, y)
	z.CubeTo(x+a, y+kb, x+ka, y+b, x, y+b)
	z.CubeTo(x-ka, y+b, x-a, y+kb, x-a, y)
	z.CubeTo(x-a, y-kb, x-ka, y-b, x, y-b)
	z.CubeTo(x+ka, y-b, x+a, y-kb, x+a, y)
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
}

// strokeEllipse 使用距离场抗锯齿绘制椭圆描边
func strokeEllipse(img *image.RGBA, cx, cy, rx, ry float64, c color.RGBA, width int) {
	halfW := float64(width) / 2.0
	if halfW < 0.75 {
		halfW = 0.75
	}

	// 外边界和内边界用于快速裁剪
	outerRx := rx + halfW + 1.5
	outerRy := ry + halfW + 1.5
	innerRx := rx - halfW - 1.5
	innerRy := ry - halfW - 1.5

	y0 := int(math.Floor(cy - outerRy))
	y1 := int(math.Ceil(cy + outerRy))
	x0 := int(math.Floor(cx - outerRx))
	x1 := int(math.Ceil(cx + outerRx))

	// 只扫描与图片重叠的部分
	b := img.Bounds()
	x0, y0 = max(x0, b.Min.X), max(y0, b.Min.Y)
	x1, y1 = min(x1, b.Max.X-1), min(y1, b.Max.Y-1)

	for py := y0; py <= y1; py++ {
		dy := float64(py) - cy
		for px := x0; px <= x1; px++ {
			dx := float64(px) - cx

			if (dx*dx)/(outerRx*outerRx)+(dy*dy)/(outerRy*outerRy) > 1.0 {
				continue
			}
			if innerRx > 0 && innerRy > 0 {
				if (dx*dx)/(innerRx*innerRx)+(dy*dy)/(innerRy*innerRy) < 1.0 {
					continue
				}
			}

			dist := ellipsePointDist(float64(px), float64(py), cx, cy, rx, ry)
			renderAAPixel(img, px, py, c, dist, halfW)
		}
	}
}

// ellipsePointDist 计算点到椭圆的近似距离
func ellipsePointDist(px, py, cx, cy, rx, ry float64) float64 {
	dx := (px - cx) / rx
	dy := (py - cy) / ry
	r := math.Hypot(dx, dy)
	if r < 0.001 {
		return math.Min(rx, ry)
	}
	t := 1.0 / r
	ex := cx + rx*dx*t
	ey := cy + ry*dy*t
	return math.Hypot(px-ex, py-ey)
}

// ---------- 多边形 ----------

func renderPolygon(img *image.RGBA, in *Instruction, width int) {
	pts := in.Points
	if in.Closed {
		if len(pts) < shape.MinPolygonVertices {
			return
		}
		if in.Filled {
			fillPolygon(img, pts, in.Color)
			return
		}
	} else if len(pts) < 2 {
		return
	}

	for i := 1; i < len(pts); i++ {
		drawThickLine(img, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, in.Color, width)
	}
	if in.Closed {
		first, last := pts[0], pts[len(pts)-1]
		drawThickLine(img, last.X, last.Y, first.X, first.Y, in.Color, width)
	}
}

// fillPolygon 扫描转换填充多边形
func fillPolygon(img *image.RGBA, pts []image.Point, c color.RGBA) {
	z := newRasterizer(img)
	if z == nil {
		return
	}
	o := img.Bounds().Min
	z.MoveTo(float32(pts[0].X-o.X), float32(pts[0].Y-o.Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-o.X), float32(p.Y-o.Y))
	}
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
}

func newRasterizer(img *image.RGBA) *vector.Rasterizer {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z
}

// ========== 辅助绘图函数 ==========

// drawThickLine 使用距离场抗锯齿绘制线段（圆头端点）
func drawThickLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA, width int) {
	halfW := float64(width) / 2.0
	if halfW < 0.75 {
		halfW = 0.75
	}

	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	length := math.Hypot(dx, dy)

	if length < 0.5 {
		// 两点重合，画一个圆点
		drawFilledCircleAA(img, float64(x1), float64(y1), halfW, c)
		return
	}

	ux, uy := dx/length, dy/length
	nx, ny := -uy, ux

	// 扫描包围盒，先裁剪到图片范围
	margin := int(halfW) + 2
	box := image.Rect(x1, y1, x2, y2)
	box = image.Rect(box.Min.X-margin, box.Min.Y-margin, box.Max.X+margin+1, box.Max.Y+margin+1)
	box = box.Intersect(img.Bounds())

	x1f, y1f := float64(x1), float64(y1)
	x2f, y2f := float64(x2), float64(y2)

	for py := box.Min.Y; py < box.Max.Y; py++ {
		for px := box.Min.X; px < box.Max.X; px++ {
			vx := float64(px) - x1f
			vy := float64(py) - y1f
			along := vx*ux + vy*uy

			var dist float64
			if along <= 0 {
				dist = math.Hypot(vx, vy)
			} else if along >= length {
				dist = math.Hypot(float64(px)-x2f, float64(py)-y2f)
			} else {
				dist = math.Abs(vx*nx + vy*ny)
			}

			renderAAPixel(img, px, py, c, dist, halfW)
		}
	}
}

// renderAAPixel 根据距离渲染抗锯齿像素
func renderAAPixel(img *image.RGBA, x, y int, c color.RGBA, dist, halfW float64) {
	if dist > halfW+0.5 {
		return
	}
	if dist <= halfW-0.5 {
		setPixelBlend(img, x, y, c)
		return
	}
	frac := halfW + 0.5 - dist
	ac := color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * frac)}
	setPixelBlend(img, x, y, ac)
}

// drawFilledCircleAA 绘制抗锯齿填充圆
func drawFilledCircleAA(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	ri := int(r) + 2
	cxi, cyi := int(cx), int(cy)
	for py := cyi - ri; py <= cyi+ri; py++ {
		for px := cxi - ri; px <= cxi+ri; px++ {
			dist := math.Hypot(float64(px)-cx, float64(py)-cy)
			renderAAPixel(img, px, py, c, dist, r)
		}
	}
}

// setPixelBlend 混合绘制像素（支持半透明）
func setPixelBlend(img *image.RGBA, x, y int, c color.RGBA) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	if c.A == 0 {
		return
	}

	off := img.PixOffset(x, y)
	if c.A == 255 {
		img.Pix[off+0] = c.R
		img.Pix[off+1] = c.G
		img.Pix[off+2] = c.B
		img.Pix[off+3] = 255
		return
	}

	// Alpha 混合
	srcA := uint32(c.A)
	invA := 255 - srcA

	img.Pix[off+0] = uint8((uint32(c.R)*srcA + uint32(img.Pix[off+0])*invA) / 255)
	img.Pix[off+1] = uint8((uint32(c.G)*srcA + uint32(img.Pix[off+1])*invA) / 255)
	img.Pix[off+2] = uint8((uint32(c.B)*srcA + uint32(img.Pix[off+2])*invA) / 255)
	img.Pix[off+3] = uint8(srcA + uint32(img.Pix[off+3])*invA/255)
}
