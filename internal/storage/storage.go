package storage

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEncodeFailure 图片编码或写入失败
var ErrEncodeFailure = errors.New("storage: encode failure")

// Storage 导出图片的存储管理
type Storage struct {
	directory string
	format    string
	quality   int
	now       func() time.Time
}

// NewStorage 创建存储管理器
func NewStorage(directory, format string, quality int) *Storage {
	return &Storage{
		directory: ExpandHome(directory),
		format:    strings.ToLower(format),
		quality:   quality,
		now:       time.Now,
	}
}

// GetDirectory 获取保存目录
func (s *Storage) GetDirectory() string {
	return s.directory
}

// Ext 当前格式对应的扩展名
func (s *Storage) Ext() string {
	switch s.format {
	case "jpg", "jpeg":
		return "jpg"
	}
	return "png"
}

// NewFileName 生成文件名：时间戳 + 短 uuid，避免同一秒内重名
func (s *Storage) NewFileName() string {
	timestamp := s.now().Format("20060102_150405")
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("drawing_%s_%s.%s", timestamp, suffix, s.Ext())
}

// Save 保存图片到存储目录，返回文件路径
func (s *Storage) Save(img image.Image) (string, error) {
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return "", fmt.Errorf("%w: 无法创建目录: %v", ErrEncodeFailure, err)
	}
	path := filepath.Join(s.directory, s.NewFileName())
	if err := s.SaveAs(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// SaveAs 保存图片到指定路径。失败时删除不完整的文件
func (s *Storage) SaveAs(path string, img image.Image) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: 无法创建文件: %v", ErrEncodeFailure, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrEncodeFailure, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return s.EncodeExt(file, img, filepath.Ext(path))
}

// Encode 按配置的格式把图片编码到 w
func (s *Storage) Encode(w io.Writer, img image.Image) error {
	return s.encode(w, img, s.format)
}

// EncodeExt 按扩展名（如 ".jpg"）选择格式编码，无法识别时使用配置的格式
func (s *Storage) EncodeExt(w io.Writer, img image.Image, ext string) error {
	switch format := strings.ToLower(strings.TrimPrefix(ext, ".")); format {
	case "png", "jpg", "jpeg":
		return s.encode(w, img, format)
	}
	return s.Encode(w, img)
}

func (s *Storage) encode(w io.Writer, img image.Image, format string) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: 空图片", ErrEncodeFailure)
	}

	var err error
	switch format {
	case "jpg", "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: s.quality})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("%w: 无法保存图片: %v", ErrEncodeFailure, err)
	}
	return nil
}

// Cleanup 清理旧的导出文件
func (s *Storage) Cleanup(olderThan time.Duration) error {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return err
	}

	cutoff := s.now().Add(-olderThan)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "drawing_") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(s.directory, entry.Name()))
		}
	}

	return nil
}

// ExpandHome 展开路径开头的 ~
func ExpandHome(dir string) string {
	if len(dir) > 0 && dir[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, dir[1:])
	}
	return dir
}
