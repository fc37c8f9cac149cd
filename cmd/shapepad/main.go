package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"shapepad/internal/config"
	"shapepad/internal/engine"
	"shapepad/internal/hotkey"
	"shapepad/internal/logging"
	"shapepad/internal/render"
	"shapepad/internal/replay"
	"shapepad/internal/shape"
	"shapepad/internal/storage"
	"shapepad/internal/tray"
	"shapepad/internal/ui"
)

const version = "1.0.0"

func main() {
	// 命令行参数
	configPath := flag.String("config", "", "配置文件路径，默认使用用户配置目录")
	showConfig := flag.Bool("show-config", false, "显示配置文件路径")
	showVersion := flag.Bool("version", false, "显示版本信息")
	setHotkey := flag.String("set-hotkey", "", "设置导出快捷键，格式：ctrl+alt+s")
	replayPath := flag.String("replay", "", "回放事件脚本并导出，不打开窗口")
	outPath := flag.String("out", "", "回放导出的文件路径，默认保存到存储目录")
	flag.Parse()

	if *showVersion {
		fmt.Println("ShapePad v" + version)
		fmt.Println("直线、矩形、椭圆、多边形绘图工具")
		return
	}

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	if *showConfig {
		fmt.Println("配置文件路径:", path)
		return
	}

	cfg, cfgErr := config.LoadFrom(path)
	log := logging.New(cfg.Log)
	defer log.Sync()
	if cfgErr != nil {
		log.Warn("load config, using defaults", zap.String("path", path), zap.Error(cfgErr))
	}

	if *setHotkey != "" {
		h, err := hotkey.ParseBinding(*setHotkey)
		if err == nil {
			err = cfg.SetExportHotkey(path, h)
		}
		if err != nil {
			fmt.Println("设置快捷键失败:", err)
			os.Exit(1)
		}
		fmt.Println("快捷键已设置为:", h)
		return
	}

	if err := cfg.EnsureStorageDir(); err != nil {
		log.Warn("create storage directory", zap.String("dir", cfg.Storage.Directory), zap.Error(err))
	}
	store := storage.NewStorage(cfg.Storage.Directory, cfg.Storage.Format, cfg.Storage.Quality)
	if cfg.Storage.KeepDays > 0 {
		if err := store.Cleanup(time.Duration(cfg.Storage.KeepDays) * 24 * time.Hour); err != nil {
			log.Warn("cleanup old exports", zap.Error(err))
		}
	}

	if *replayPath != "" {
		out, err := runReplay(cfg, store, log, *replayPath, *outPath)
		if err != nil {
			log.Error("replay failed", zap.String("script", *replayPath), zap.Error(err))
			os.Exit(1)
		}
		fmt.Println(out)
		return
	}

	run(cfg, path, store, log)
}

func newEngine(cfg *config.Config, log *zap.Logger) *engine.Engine {
	return engine.New(
		engine.WithLogger(log.Named("engine")),
		engine.WithTool(cfg.Tool()),
		engine.WithFill(cfg.Drawing.Filled),
		engine.WithRenderOptions(render.Options{LineWidth: cfg.Drawing.LineWidth}),
	)
}

// runReplay 在新引擎上回放脚本，按配置的画布尺寸导出
func runReplay(cfg *config.Config, store *storage.Storage, log *zap.Logger, script, out string) (string, error) {
	f, err := os.Open(script)
	if err != nil {
		return "", err
	}
	defer f.Close()

	e := newEngine(cfg, log)
	if err := replay.Run(e, f); err != nil {
		return "", fmt.Errorf("%s: %w", script, err)
	}

	img, err := e.ExportSnapshot(cfg.Canvas.Width, cfg.Canvas.Height, cfg.BackgroundColor())
	if err != nil {
		return "", err
	}
	if out == "" {
		return store.Save(img)
	}
	if err := store.SaveAs(out, img); err != nil {
		return "", err
	}
	log.Info("replay exported", zap.String("path", out), zap.Int("shapes", len(e.History())))
	return out, nil
}

func run(cfg *config.Config, configPath string, store *storage.Storage, log *zap.Logger) {
	a := app.NewWithID("io.github.shapepad")
	a.SetIcon(fyne.NewStaticResource("shapepad.png", tray.IconPNG()))

	e := newEngine(cfg, log)
	u := ui.New(a, cfg, e, store, log.Named("ui"))
	u.ConfigPath = configPath

	logDisplayInfo(log)
	log.Info("ShapePad started",
		zap.String("version", version),
		zap.String("tool", cfg.Tool().String()),
		zap.String("storage", store.GetDirectory()),
	)

	// 托盘和全局热键的回调不在 UI 线程上，统一通过 fyne.Do 切回
	var t *tray.Tray
	if cfg.Behavior.ShowTray {
		if runtime.GOOS == "linux" {
			log.Info("tray disabled on linux, the GTK loop is not running under the GUI")
		} else {
			t = tray.NewTray(tray.Actions{
				SelectTool: func(k shape.Kind) { fyne.Do(func() { u.SelectTool(k) }) },
				SetFill:    func(on bool) { fyne.Do(func() { u.SetFill(on) }) },
				Undo:       func() { fyne.Do(u.Undo) },
				Clear:      func() { fyne.Do(u.Clear) },
				Export:     func() { fyne.Do(func() { u.Export() }) },
				OpenDir:    func() { openDir(store.GetDirectory(), log) },
				Show:       func() { fyne.Do(func() { u.Window().Show(); u.Window().RequestFocus() }) },
				Quit:       func() { fyne.Do(a.Quit) },
			}, log.Named("tray"))
			t.SetExportHotkeyText(cfg.Hotkeys.Export.String())
			t.SetFilled(cfg.Drawing.Filled)
			u.OnFillChanged = t.SetFilled
		}
	}

	var hk *hotkey.Manager
	if cfg.Behavior.GlobalHotkeys {
		hk = hotkey.NewManager(log.Named("hotkey"))
	}

	a.Lifecycle().SetOnStarted(func() {
		if t != nil {
			t.Start()
		}
		if hk != nil {
			bind := func(name string, h config.Hotkey, fn func()) {
				if err := hk.Register(name, h, func() { fyne.Do(fn) }); err != nil {
					log.Warn("请检查快捷键是否被其他程序占用", zap.Error(err))
				}
			}
			bind("export", cfg.Hotkeys.Export, func() { u.Export() })
			bind("undo", cfg.Hotkeys.Undo, u.Undo)
			bind("clear", cfg.Hotkeys.Clear, u.Clear)
		}
	})
	a.Lifecycle().SetOnStopped(func() {
		if hk != nil {
			hk.Close()
		}
		if t != nil {
			t.Stop()
		}
	})

	u.ShowAndRun()
}

func openDir(dir string, log *zap.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer.exe", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}

	if err := cmd.Start(); err != nil {
		log.Warn("打开目录失败", zap.String("dir", dir), zap.Error(err))
	}
}
