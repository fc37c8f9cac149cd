package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"shapepad/internal/engine"
	"shapepad/internal/render"
)

// Canvas 绘图区域。把鼠标事件转成引擎的指针事件，并用栅格图显示引擎的绘制列表
type Canvas struct {
	widget.BaseWidget

	engine     *engine.Engine
	background color.Color
	raster     *canvas.Raster

	// 最近一次绘制时的像素尺寸，导出时沿用
	pixelSize image.Point
}

var _ fyne.Widget = (*Canvas)(nil)
var _ fyne.Draggable = (*Canvas)(nil)
var _ fyne.DoubleTappable = (*Canvas)(nil)
var _ desktop.Mouseable = (*Canvas)(nil)
var _ desktop.Hoverable = (*Canvas)(nil)
var _ desktop.Cursorable = (*Canvas)(nil)

// NewCanvas 创建绘图区域
func NewCanvas(e *engine.Engine, background color.Color) *Canvas {
	c := &Canvas{engine: e, background: background}
	c.raster = canvas.NewRaster(c.draw)
	c.ExtendBaseWidget(c)
	return c
}

// draw 栅格回调，w/h 为像素尺寸
func (c *Canvas) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	render.Fill(img, c.background)
	render.Paint(img, c.engine.RenderList(true), c.engine.RenderOptions())
	c.pixelSize = image.Pt(w, h)
	return img
}

// PixelSize 当前显示区域的像素尺寸，尚未绘制过时为零
func (c *Canvas) PixelSize() image.Point {
	return c.pixelSize
}

// scale 界面单位到像素的比例
func (c *Canvas) scale() float32 {
	app := fyne.CurrentApp()
	if app == nil {
		return 1
	}
	if cv := app.Driver().CanvasForObject(c); cv != nil && cv.Scale() > 0 {
		return cv.Scale()
	}
	return 1
}

func (c *Canvas) point(pos fyne.Position) image.Point {
	s := c.scale()
	return image.Pt(int(pos.X*s+0.5), int(pos.Y*s+0.5))
}

func (c *Canvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.engine.PointerDown(c.point(e.Position))
	}
}

func (c *Canvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.engine.PointerUp(c.point(e.Position))
	}
}

func (c *Canvas) MouseMoved(e *desktop.MouseEvent) {
	c.engine.PointerMove(c.point(e.Position))
}

func (c *Canvas) Dragged(e *fyne.DragEvent) {
	c.engine.PointerDrag(c.point(e.Position))
}

// DoubleTapped 双击完成多边形
func (c *Canvas) DoubleTapped(*fyne.PointEvent) {
	c.engine.CompletionGesture(2)
}

func (c *Canvas) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

func (c *Canvas) MouseIn(*desktop.MouseEvent) {}
func (c *Canvas) MouseOut()                   {}
func (c *Canvas) DragEnd()                    {}

func (c *Canvas) CreateRenderer() fyne.WidgetRenderer {
	return &canvasRenderer{canvas: c}
}

type canvasRenderer struct {
	canvas *Canvas
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *canvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *canvasRenderer) Destroy() {}
