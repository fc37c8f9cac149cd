// Package replay 读取逐行的事件脚本并驱动绘图引擎，用于无界面导出和测试。
//
// 每行一条命令，空行和以 # 开头的行被忽略：
//
//	tool rect
//	fill on
//	down 10 10
//	drag 40 10
//	up 40 40
//	click 2
//	undo
//	clear
package replay

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"shapepad/internal/engine"
	"shapepad/internal/shape"
)

// Run 依次执行脚本中的命令，遇到错误时返回带行号的错误
func Run(e *engine.Engine, r io.Reader) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := Apply(e, text); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

// Apply 执行单条命令
func Apply(e *engine.Engine, cmd string) error {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "tool":
		if len(args) != 1 {
			return fmt.Errorf("tool: want 1 argument, got %d", len(args))
		}
		k, err := shape.ParseKind(args[0])
		if err != nil {
			return err
		}
		e.SelectTool(k)
	case "fill":
		if len(args) != 1 {
			return fmt.Errorf("fill: want 1 argument, got %d", len(args))
		}
		on, err := parseSwitch(args[0])
		if err != nil {
			return err
		}
		e.SetFill(on)
	case "down", "move", "drag", "up":
		p, err := parsePoint(name, args)
		if err != nil {
			return err
		}
		switch name {
		case "down":
			e.PointerDown(p)
		case "move":
			e.PointerMove(p)
		case "drag":
			e.PointerDrag(p)
		case "up":
			e.PointerUp(p)
		}
	case "click":
		if len(args) != 1 {
			return fmt.Errorf("click: want 1 argument, got %d", len(args))
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("click: %w", err)
		}
		e.CompletionGesture(n)
	case "undo":
		e.Undo()
	case "clear":
		e.Clear()
	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

func parsePoint(name string, args []string) (image.Point, error) {
	if len(args) != 2 {
		return image.Point{}, fmt.Errorf("%s: want 2 coordinates, got %d", name, len(args))
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return image.Point{}, fmt.Errorf("%s: %w", name, err)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return image.Point{}, fmt.Errorf("%s: %w", name, err)
	}
	return image.Pt(x, y), nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("fill: invalid value %q", s)
}
