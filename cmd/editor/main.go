package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"scene-editor/internal/debug"
	"scene-editor/internal/editor"
	"scene-editor/internal/editorconfig"
	"scene-editor/internal/env"
	"scene-editor/internal/graphics"
	"scene-editor/internal/logger"
	"scene-editor/internal/render"
	"scene-editor/internal/terminal"
	"scene-editor/internal/ui"
	"scene-editor/internal/viewport"
)

const stylesheetPath = "assets/ui/editor.css"

func main() {
	scenePath := flag.String("scene", "", "scene file to open at startup")
	scriptPath := flag.String("script", "", "JSON action script to run after loading")
	width := flag.Int("width", 0, "window width (0 = fullscreen)")
	height := flag.Int("height", 0, "window height (0 = fullscreen)")
	flag.Parse()

	if err := env.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to read .env:", err)
	}
	ov := env.Read()
	cfgPath := editorconfig.ConfigPath
	if ov.ConfigPath != "" {
		cfgPath = ov.ConfigPath
	}

	prefs, cfgErr := editorconfig.Load(cfgPath)
	if ov.LogPath != nil {
		prefs.LogFile = *ov.LogPath
	}
	if ov.Debug != nil {
		prefs.Debug = *ov.Debug
	}

	log, err := logger.New(logger.Options{Path: prefs.LogFile, Debug: prefs.Debug, MaxLines: prefs.ConsoleLines})
	if err != nil {
		fmt.Fprintln(os.Stderr, "log file disabled:", err)
		log = logger.Nop()
	}
	defer log.Close()
	if cfgErr != nil {
		log.Warnw("using default config", "path", cfgPath, "error", cfgErr)
	} else if _, statErr := os.Stat(cfgPath); errors.Is(statErr, os.ErrNotExist) {
		if err := editorconfig.Save(cfgPath, prefs); err != nil {
			log.Warnw("failed to write default config", "path", cfgPath, "error", err)
		}
	}

	ed := editor.New(prefs, editor.WithLogger(log), editor.WithConfigPath(cfgPath))
	if *scenePath != "" {
		if err := ed.LoadScene(*scenePath); err != nil {
			log.Errorw("failed to open scene", "path", *scenePath, "error", err)
		}
	}
	if *scriptPath != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		summary, err := ed.Script().RunFile(ctx, *scriptPath)
		stop()
		if err != nil {
			log.Errorw("script failed", "path", *scriptPath, "error", err)
		} else {
			log.Info(summary)
		}
	}

	watcher, err := editorconfig.NewWatcher(cfgPath)
	if err != nil {
		log.Warnw("config hot reload disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	rend := render.New(ed.Primitives())
	overlay := debug.New()
	vp := viewport.New(ed)
	term := terminal.New(log, ed.Execute)
	panels := ui.New()
	if err := panels.LoadCSS(stylesheetPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnw("using built-in panel style", "path", stylesheetPath, "error", err)
	}
	inspector := ui.NewInspector(panels)

	var applied editorconfig.Prefs
	syncPrefs := func() {
		if p := ed.Prefs(); p != applied {
			rend.ApplyPrefs(p)
			overlay.ApplyPrefs(p)
			applied = p
		}
	}

	update := func(dt float32) {
		if watcher != nil {
			p, changed, err := watcher.Poll()
			switch {
			case err != nil:
				log.Warnw("config reload failed", "error", err)
			case changed:
				ed.ApplyPrefs(p)
				log.Info("config reloaded")
			}
		}
		syncPrefs()
		term.Update()
		vp.Update(!term.IsOpen())
		ed.Update(dt)
	}

	draw := func() {
		rend.Draw(ed.Camera(), ed.Scene().Entities(), ed.Scene().Selected(), vp.Preview())
		if center, ok := vp.GizmoCenter(); ok {
			render.DrawGizmo(center, vp.Op(), vp.DragAxis())
		}
		inspector.Draw(ed.Inspect())
		top := term.Draw()
		render.DrawStatus(top, vp.Op(), ed.Scene().Len(), selectionText(ed), spawnHint(ed))
		overlay.Draw(ed.PickStats())
	}

	graphics.Run(graphics.Window{
		Title:   "Scene Editor",
		Width:   int32(*width),
		Height:  int32(*height),
		OnClose: rend.Unload,
	}, update, draw)
}

func selectionText(ed *editor.Editor) string {
	sc := ed.Scene()
	e, ok := sc.FindByID(sc.Selected())
	if !ok {
		return "nothing selected"
	}
	return fmt.Sprintf("#%d %s", e.ID, e.Kind)
}

func spawnHint(ed *editor.Editor) string {
	if kind, pending := ed.SpawnPending(); pending {
		return fmt.Sprintf("click to place %s (%s), right click cancels", kind, ed.SpawnMode())
	}
	return ""
}
