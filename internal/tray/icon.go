package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"runtime"

	"shapepad/internal/render"
	"shapepad/internal/shape"
)

const iconSize = 32

// IconImage 用自己的渲染器画出图标：一个矩形、一个椭圆和一个三角形
func IconImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	rect, _ := shape.NewBox(shape.Rectangle, image.Pt(2, 2), image.Pt(18, 18), true)
	oval, _ := shape.NewBox(shape.Ellipse, image.Pt(12, 10), image.Pt(30, 28), false)
	tri, _ := shape.NewPolygon([]image.Point{{4, 29}, {16, 20}, {22, 30}}, true)

	list := []render.Instruction{
		render.FromRecord(rect),
		render.FromRecord(oval),
		render.FromRecord(tri),
	}
	render.Paint(img, list, render.Options{LineWidth: 2})
	return img
}

// IconPNG 图标的 PNG 编码
func IconPNG() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, IconImage())
	return buf.Bytes()
}

// getIcon 返回托盘图标。Windows 托盘需要 ICO，其他平台直接用 PNG
func getIcon() []byte {
	if runtime.GOOS == "windows" {
		return wrapICO(IconPNG(), iconSize)
	}
	return IconPNG()
}

// wrapICO 把 PNG 数据包成只有一张图的 ICO 文件（Vista 起支持 PNG 压缩的 ICO）
func wrapICO(pngData []byte, size int) []byte {
	const headerSize = 6 + 16

	var buf bytes.Buffer
	// ICONDIR: reserved, type=1, count=1
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(size))
	buf.WriteByte(0) // palette
	buf.WriteByte(0) // reserved
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	_ = binary.Write(&buf, binary.LittleEndian, uint16(32)) // bpp
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(headerSize))
	buf.Write(pngData)
	return buf.Bytes()
}
