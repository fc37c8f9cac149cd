package engine

import "shapepad/internal/shape"

// History 已提交图形的有序列表。只支持追加、弹出最后一个和全部清空
type History struct {
	records []shape.Record
}

// NewHistory 创建空历史
func NewHistory() *History {
	return &History{records: make([]shape.Record, 0)}
}

// Add 追加一个图形
func (h *History) Add(r shape.Record) {
	h.records = append(h.records, r)
}

// Undo 移除最后一个图形，返回是否成功
func (h *History) Undo() bool {
	if len(h.records) == 0 {
		return false
	}
	h.records[len(h.records)-1] = shape.Record{}
	h.records = h.records[:len(h.records)-1]
	return true
}

// Records 返回当前所有图形的副本
func (h *History) Records() []shape.Record {
	s := make([]shape.Record, len(h.records))
	copy(s, h.records)
	return s
}

// Len 图形数量
func (h *History) Len() int {
	return len(h.records)
}

// CanUndo 是否可以撤销
func (h *History) CanUndo() bool {
	return len(h.records) > 0
}

// Clear 清空所有图形
func (h *History) Clear() {
	h.records = h.records[:0]
}
