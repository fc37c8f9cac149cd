// Package engine 维护绘图交互状态：当前工具、填充开关、正在绘制的坐标/顶点以及已提交的图形历史。
//
// Engine 不是并发安全的，所有方法应在同一个 UI 线程上调用。
package engine

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"

	"shapepad/internal/render"
	"shapepad/internal/shape"
)

// ErrInvalidDimensions 导出尺寸不合法（宽或高 <= 0）
var ErrInvalidDimensions = errors.New("engine: invalid export dimensions")

// Engine 绘图引擎
type Engine struct {
	history *History
	log     *zap.Logger
	opts    render.Options

	// 当前工具状态
	tool   shape.Kind
	filled bool

	// 绘制状态
	dragging bool
	anchor   image.Point   // 按下位置
	cursor   image.Point   // 当前光标位置
	pending  []image.Point // 尚未提交的多边形顶点

	onRedraw func()
}

// Option 创建引擎时的可选参数
type Option func(*Engine)

// WithLogger 设置日志，默认不输出
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTool 设置初始工具
func WithTool(k shape.Kind) Option { return func(e *Engine) { e.tool = k } }

// WithFill 设置初始填充状态
func WithFill(filled bool) Option { return func(e *Engine) { e.filled = filled } }

// WithRenderOptions 设置导出时的光栅化参数
func WithRenderOptions(o render.Options) Option { return func(e *Engine) { e.opts = o } }

// New 创建绘图引擎，默认工具为直线
func New(opts ...Option) *Engine {
	e := &Engine{
		history: NewHistory(),
		log:     zap.NewNop(),
		opts:    render.DefaultOptions,
		tool:    shape.Line,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// OnRedraw 设置重绘回调。回调只是提示，调用方可以合并多次重绘
func (e *Engine) OnRedraw(fn func()) {
	e.onRedraw = fn
}

func (e *Engine) redraw() {
	if e.onRedraw != nil {
		e.onRedraw()
	}
}

// ========== 命令 ==========

// SelectTool 切换工具。离开多边形模式时丢弃未完成的顶点
func (e *Engine) SelectTool(k shape.Kind) {
	if e.tool == shape.Polygon && k != shape.Polygon && len(e.pending) > 0 {
		e.log.Debug("discarding pending polygon", zap.Int("vertices", len(e.pending)))
	}
	e.tool = k
	if k != shape.Polygon {
		e.pending = nil
	}
	e.redraw()
}

// SetFill 设置之后提交的图形是否填充，不影响已有图形
func (e *Engine) SetFill(enabled bool) {
	e.filled = enabled
	e.redraw()
}

// Clear 清空历史和未完成的多边形
func (e *Engine) Clear() {
	e.history.Clear()
	e.pending = nil
	e.log.Debug("canvas cleared")
	e.redraw()
}

// Undo 移除最后提交的图形，历史为空时什么也不做
func (e *Engine) Undo() bool {
	if !e.history.Undo() {
		return false
	}
	e.log.Debug("undo", zap.Int("remaining", e.history.Len()))
	e.redraw()
	return true
}

// CanUndo 是否有可撤销的图形
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// ========== 指针事件 ==========

// PointerDown 按下：记录起点；多边形模式下同时放置一个新顶点
func (e *Engine) PointerDown(p image.Point) {
	e.anchor = p
	e.cursor = p
	e.dragging = true
	if e.tool == shape.Polygon {
		e.pending = append(e.pending, p)
		e.redraw()
	}
}

// PointerMove 悬停移动。多边形模式下需要刷新橡皮筋线
func (e *Engine) PointerMove(p image.Point) {
	e.cursor = p
	if e.tool == shape.Polygon {
		e.redraw()
	}
}

// PointerDrag 拖拽移动
func (e *Engine) PointerDrag(p image.Point) {
	e.cursor = p
	if e.tool == shape.Polygon || e.dragging {
		e.redraw()
	}
}

// PointerUp 释放：非多边形工具在此提交图形，零尺寸图形同样保留
func (e *Engine) PointerUp(p image.Point) {
	e.cursor = p
	wasDragging := e.dragging
	e.dragging = false
	if !wasDragging || !e.tool.IsBox() {
		return
	}

	r, err := shape.NewBox(e.tool, e.anchor, e.cursor, e.filled)
	if err != nil {
		// 工具已经过 IsBox 检查，不应发生
		e.log.Error("commit failed", zap.Error(err))
		return
	}
	e.commit(r)
}

// CompletionGesture 完成手势（双击）。顶点不足 3 个时忽略，顶点保留
func (e *Engine) CompletionGesture(clickCount int) {
	if e.tool != shape.Polygon || clickCount < 2 {
		return
	}
	if len(e.pending) < shape.MinPolygonVertices {
		e.log.Debug("polygon completion ignored", zap.Int("vertices", len(e.pending)))
		return
	}

	r, err := shape.NewPolygon(e.pending, e.filled)
	if err != nil {
		e.log.Error("commit failed", zap.Error(err))
		return
	}
	e.pending = nil
	e.commit(r)
}

func (e *Engine) commit(r shape.Record) {
	e.history.Add(r)
	e.log.Debug("shape committed",
		zap.Stringer("kind", r.Kind()),
		zap.Bool("filled", r.Filled()),
		zap.Int("history", e.history.Len()),
	)
	e.redraw()
}

// ========== 查询 ==========

// Tool 当前工具
func (e *Engine) Tool() shape.Kind { return e.tool }

// Filled 当前填充状态
func (e *Engine) Filled() bool { return e.filled }

// Dragging 是否正在拖拽
func (e *Engine) Dragging() bool { return e.dragging }

// History 已提交图形的副本
func (e *Engine) History() []shape.Record { return e.history.Records() }

// Pending 未提交多边形顶点的副本
func (e *Engine) Pending() []image.Point {
	pts := make([]image.Point, len(e.pending))
	copy(pts, e.pending)
	return pts
}

// RenderOptions 返回光栅化参数，界面实时绘制时与导出保持一致
func (e *Engine) RenderOptions() render.Options { return e.opts }

// ========== 渲染 ==========

// RenderList 生成有序绘制指令：先历史图形，再（可选）正在绘制的预览
func (e *Engine) RenderList(includeInProgress bool) []render.Instruction {
	records := e.history.Records()
	list := make([]render.Instruction, 0, len(records)+1)
	for _, r := range records {
		list = append(list, render.FromRecord(r))
	}
	if !includeInProgress {
		return list
	}

	switch {
	case e.tool == shape.Polygon && len(e.pending) > 0:
		list = append(list, render.PolylinePreview(e.pending, e.cursor))
	case e.dragging && e.tool.IsBox():
		list = append(list, render.BoxPreview(e.tool, e.anchor, e.cursor, e.filled))
	}
	return list
}

// ExportSnapshot 生成指定尺寸的图片：先铺背景色，再绘制历史图形（不含预览）
func (e *Engine) ExportSnapshot(width, height int, background color.Color) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	render.Fill(img, background)
	render.Paint(img, e.RenderList(false), e.opts)

	e.log.Debug("snapshot exported",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("shapes", e.history.Len()),
	)
	return img, nil
}
