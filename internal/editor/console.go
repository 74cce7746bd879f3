package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/commands"
	"scene-editor/internal/placement"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil || math32.IsNaN(float32(f)) || math32.IsInf(float32(f), 0) {
			return nil, fmt.Errorf("not a number: %q", a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseVec3 reads "x y z", or a single value repeated when uniform is set.
func parseVec3(args []string, uniform bool) (mgl32.Vec3, error) {
	f, err := parseFloats(args)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	switch {
	case len(f) == 3:
		return mgl32.Vec3{f[0], f[1], f[2]}, nil
	case len(f) == 1 && uniform:
		return mgl32.Vec3{f[0], f[0], f[0]}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("want x y z")
}

// target resolves an optional --id flag, falling back to the selection.
func (e *Editor) target(id string) (scene.ID, error) {
	if id != "" {
		parsed, err := scene.ParseID(id)
		if err != nil {
			return scene.None, err
		}
		if _, ok := e.scene.FindByID(parsed); !ok {
			return scene.None, fmt.Errorf("entity %d: %w", parsed, scene.ErrNotFound)
		}
		return parsed, nil
	}
	if sel := e.scene.Selected(); sel != scene.None {
		return sel, nil
	}
	return scene.None, fmt.Errorf("nothing selected")
}

func showHide(e *Editor, name, what string, set func(bool)) {
	fs := commands.NewFlagSet(name)
	show := fs.Bool("show", false, "show "+what)
	hide := fs.Bool("hide", false, "hide "+what)
	e.commands.Register(name, "show or hide "+what, fs, func() error {
		if *show == *hide {
			return fmt.Errorf("use --show or --hide")
		}
		set(*show)
		e.savePrefs()
		return nil
	})
}

func (e *Editor) registerCommands() {
	reg := e.commands

	reg.Register("help", "list commands", nil, func() error {
		for _, line := range reg.Help() {
			e.log.Info(line)
		}
		return nil
	})

	addFS := commands.NewFlagSet("add")
	reg.Register("add", "add <kind> [x y z]; without a position uses the spawn mode", addFS, func() error {
		args := addFS.Args()
		if len(args) != 1 && len(args) != 4 {
			return fmt.Errorf("usage: cmd add <cube|sphere|cylinder|plane> [x y z]")
		}
		kind, err := primitives.ParseKind(args[0])
		if err != nil {
			return err
		}
		if len(args) == 4 {
			p, err := parseVec3(args[1:], false)
			if err != nil {
				return err
			}
			e.Spawn(kind, placement.Result{Position: p, Normal: mgl32.Vec3{0, 1, 0}})
			return nil
		}
		e.RequestSpawn(kind)
		return nil
	})

	delFS := commands.NewFlagSet("delete")
	reg.Register("delete", "delete [id]; defaults to the selection", delFS, func() error {
		idArg := ""
		if args := delFS.Args(); len(args) > 0 && args[0] != "selected" {
			idArg = args[0]
		}
		id, err := e.target(idArg)
		if err != nil {
			return err
		}
		e.scene.DeleteRecorded(id)
		e.log.Infof("deleted #%d", id)
		return nil
	})

	selFS := commands.NewFlagSet("select")
	reg.Register("select", "select <id|none>", selFS, func() error {
		args := selFS.Args()
		if len(args) != 1 {
			return fmt.Errorf("usage: cmd select <id|none>")
		}
		if args[0] == "none" {
			e.scene.Select(scene.None)
			return nil
		}
		id, err := scene.ParseID(args[0])
		if err != nil {
			return err
		}
		if !e.scene.Select(id) {
			return fmt.Errorf("entity %d: %w", id, scene.ErrNotFound)
		}
		return nil
	})

	e.registerTransformCommand("move", "move x y z; relative unless --abs", false, func(t *scene.Transform, v mgl32.Vec3, abs bool) {
		if abs {
			t.Position = v
		} else {
			t.Position = t.Position.Add(v)
		}
	})
	e.registerTransformCommand("rotate", "rotate x y z degrees; relative unless --abs", false, func(t *scene.Transform, v mgl32.Vec3, abs bool) {
		if abs {
			t.Rotation = v
		} else {
			t.Rotation = t.Rotation.Add(v)
		}
	})
	e.registerTransformCommand("scale", "scale <s | x y z>; multiplies unless --abs", true, func(t *scene.Transform, v mgl32.Vec3, abs bool) {
		if abs {
			t.Scale = v
		} else {
			t.Scale = mgl32.Vec3{t.Scale[0] * v[0], t.Scale[1] * v[1], t.Scale[2] * v[2]}
		}
	})

	for _, name := range []string{"undo", "redo"} {
		fs := commands.NewFlagSet(name)
		step := e.scene.Undo
		if name == "redo" {
			step = e.scene.Redo
		}
		reg.Register(name, name+" [n]", fs, func() error {
			n := 1
			if args := fs.Args(); len(args) > 0 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < 1 {
					return fmt.Errorf("usage: cmd %s [n]", name)
				}
				n = v
			}
			done := 0
			for done < n && step() {
				done++
			}
			if done == 0 {
				e.log.Infof("nothing to %s", name)
			}
			return nil
		})
	}

	reg.Register("history", "show the undo and redo stacks", nil, func() error {
		undo, redo := e.scene.History()
		e.log.Infof("undo (%d): %s", len(undo), strings.Join(undo, ", "))
		e.log.Infof("redo (%d): %s", len(redo), strings.Join(redo, ", "))
		return nil
	})

	reg.Register("list", "list entities", nil, func() error {
		if e.scene.Len() == 0 {
			e.log.Info("scene is empty")
		}
		for _, info := range e.scene.Snapshot() {
			mark := " "
			if info.ID == e.scene.Selected() {
				mark = "*"
			}
			e.log.Infof("%s#%d %s %s", mark, info.ID, info.Kind, info.Transform)
		}
		return nil
	})

	pickFS := commands.NewFlagSet("pick")
	reg.Register("pick", "pick <x> <y> screen pixels", pickFS, func() error {
		f, err := parseFloats(pickFS.Args())
		if err != nil || len(f) != 2 {
			return fmt.Errorf("usage: cmd pick <x> <y>")
		}
		hit, ok := e.PickAt(mgl32.Vec2{f[0], f[1]})
		if !ok {
			e.log.Info("nothing under the cursor")
			return nil
		}
		e.log.Infof("hit #%d at %.3f %.3f %.3f (t=%.3f)", hit.EntityID, hit.Point[0], hit.Point[1], hit.Point[2], hit.T)
		return nil
	})

	saveFS := commands.NewFlagSet("save")
	reg.Register("save", "save [path]", saveFS, func() error {
		return e.SaveScene(saveFS.Arg(0))
	})
	loadFS := commands.NewFlagSet("load")
	reg.Register("load", "load [path]", loadFS, func() error {
		return e.LoadScene(loadFS.Arg(0))
	})
	reg.Register("new", "clear the scene", nil, func() error {
		e.NewScene()
		return nil
	})

	e.registerAnimCommand()

	modeFS := commands.NewFlagSet("spawnmode")
	align := modeFS.Bool("align", false, "align spawns to the surface normal")
	noAlign := modeFS.Bool("noalign", false, "keep spawns upright")
	reg.Register("spawnmode", "spawnmode <origin|plane|mesh>", modeFS, func() error {
		if arg := modeFS.Arg(0); arg != "" {
			m, err := placement.ParseMode(arg)
			if err != nil {
				return err
			}
			e.spawnMode = m
			e.prefs.SpawnMode = m.String()
		}
		if *align {
			e.prefs.AlignToNormal = true
		}
		if *noAlign {
			e.prefs.AlignToNormal = false
		}
		e.savePrefs()
		e.log.Infof("spawn mode %s, align %v", e.spawnMode, e.prefs.AlignToNormal)
		return nil
	})

	gridFS := commands.NewFlagSet("grid")
	gridShow := gridFS.Bool("show", false, "show the grid")
	gridHide := gridFS.Bool("hide", false, "hide the grid")
	gridCell := gridFS.Float64("cell", 0, "grid cell size")
	gridSnap := gridFS.Bool("snap", false, "snap spawns to cell centers")
	gridNoSnap := gridFS.Bool("nosnap", false, "stop snapping")
	reg.Register("grid", "ground grid and snapping", gridFS, func() error {
		if *gridShow && *gridHide {
			return fmt.Errorf("use --show or --hide")
		}
		if *gridShow {
			e.prefs.GridVisible = true
		}
		if *gridHide {
			e.prefs.GridVisible = false
		}
		if *gridCell < 0 {
			return fmt.Errorf("--cell must be positive")
		}
		if *gridCell > 0 {
			e.prefs.GridCell = float32(*gridCell)
		}
		if *gridSnap {
			e.prefs.SnapToGrid = true
		}
		if *gridNoSnap {
			e.prefs.SnapToGrid = false
		}
		e.savePrefs()
		return nil
	})

	showHide(e, "fps", "the FPS counter", func(on bool) { e.prefs.ShowFPS = on })
	showHide(e, "memalloc", "memory usage", func(on bool) { e.prefs.ShowMemAlloc = on })

	runFS := commands.NewFlagSet("run")
	reg.Register("run", "run <script.json>", runFS, func() error {
		if runFS.NArg() != 1 {
			return fmt.Errorf("usage: cmd run <script.json>")
		}
		summary, err := e.script.RunFile(context.Background(), runFS.Arg(0))
		if err != nil {
			return err
		}
		e.log.Info(summary)
		return nil
	})
}

func (e *Editor) registerTransformCommand(name, summary string, uniform bool, apply func(t *scene.Transform, v mgl32.Vec3, abs bool)) {
	fs := commands.NewFlagSet(name)
	abs := fs.Bool("abs", false, "set instead of adding")
	id := fs.String("id", "", "entity id (default: selection)")
	e.commands.Register(name, summary, fs, func() error {
		target, err := e.target(*id)
		if err != nil {
			return err
		}
		v, err := parseVec3(fs.Args(), uniform)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		t, _ := e.scene.Transform(target)
		apply(&t, v, *abs)
		e.scene.SetTransformRecorded(target, t)
		return nil
	})
}

func (e *Editor) registerAnimCommand() {
	fs := commands.NewFlagSet("anim")
	id := fs.String("id", "", "entity id (default: selection)")
	e.commands.Register("anim", "anim rot ax ay az deg/s | trn vx vy vz | scl dx dy dz | rm <anim> | clear | list | step <s>", fs, func() error {
		args := fs.Args()
		if len(args) == 0 {
			return fmt.Errorf("usage: cmd anim <rot|trn|scl|rm|clear|list|step> ...")
		}
		switch args[0] {
		case "rot", "trn", "scl":
			ent, err := e.target(*id)
			if err != nil {
				return err
			}
			want := 3
			if args[0] == "rot" {
				want = 4
			}
			f, err := parseFloats(args[1:])
			if err != nil {
				return err
			}
			if len(f) != want {
				return fmt.Errorf("anim %s wants %d numbers", args[0], want)
			}
			v := mgl32.Vec3{f[0], f[1], f[2]}
			switch args[0] {
			case "rot":
				e.anim.AddRotation(ent, v, f[3])
			case "trn":
				e.anim.AddTranslation(ent, v)
			case "scl":
				e.anim.AddScale(ent, v)
			}
		case "rm":
			if len(args) != 2 {
				return fmt.Errorf("usage: cmd anim rm <anim id>")
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			if !e.anim.Remove(n) {
				return fmt.Errorf("no animation %d", n)
			}
		case "clear":
			if *id != "" {
				ent, err := e.target(*id)
				if err != nil {
					return err
				}
				e.anim.RemoveForEntity(ent)
			} else {
				e.anim.Clear()
			}
		case "list":
			for _, a := range e.anim.Animations() {
				e.log.Infof("anim %d on #%d: %s", a.ID, a.Entity, a.Kind)
			}
		case "step":
			if len(args) != 2 {
				return fmt.Errorf("usage: cmd anim step <seconds, 0 for frame time>")
			}
			f, err := parseFloats(args[1:])
			if err != nil || f[0] < 0 {
				return fmt.Errorf("invalid step")
			}
			e.anim.SetFixedStep(f[0])
			e.prefs.FixedTimestep = f[0]
			e.savePrefs()
		default:
			return fmt.Errorf("unknown anim action %q", args[0])
		}
		return nil
	})
}
