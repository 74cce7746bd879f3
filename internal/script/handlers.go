package script

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

// maxBatch caps add_objects.
const maxBatch = 500

func (r *Runner) registerSceneHandlers() {
	r.RegisterHandler("add_object", r.addObject)
	r.RegisterHandler("add_objects", r.addObjects)
	r.RegisterHandler("delete", r.deleteObject)
	r.RegisterHandler("select", r.selectObject)
	r.RegisterHandler("set_transform", r.setTransform)
	r.RegisterHandler("run_cmd", r.runCmd)
}

func (r *Runner) spawn(kind primitives.Kind, t scene.Transform) scene.ID {
	id := r.ctrl.AddRecorded(kind, t.Position)
	if t != scene.At(t.Position) {
		r.ctrl.SetTransformRecorded(id, t)
	}
	return id
}

func (r *Runner) addObject(payload map[string]interface{}) error {
	kind, err := parseKind(payload["type"])
	if err != nil {
		return err
	}
	t := scene.Identity()
	if t.Position, err = parseFloat3(payload["position"]); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if v, ok := payload["rotation"]; ok {
		if t.Rotation, err = parseFloat3(v); err != nil {
			return fmt.Errorf("rotation: %w", err)
		}
	}
	if v, ok := payload["scale"]; ok {
		if t.Scale, err = parseFloat3(v); err != nil {
			return fmt.Errorf("scale: %w", err)
		}
	}
	r.spawn(kind, t)
	return nil
}

func (r *Runner) addObjects(payload map[string]interface{}) error {
	typ, _ := payload["type"].(string)
	randomKind := typ == "random" || typ == "any"
	var kind primitives.Kind
	if !randomKind {
		k, err := parseKind(payload["type"])
		if err != nil {
			return fmt.Errorf("%w (or random)", err)
		}
		kind = k
	}
	count := 1
	if n, ok := payload["count"].(float64); ok && n >= 1 {
		count = int(n)
	}
	count = min(count, maxBatch)
	spacing := float32(2)
	if s, err := parseFloat1(payload["spacing"]); err == nil && s > 0 {
		spacing = s
	}
	origin, _ := parseFloat3(payload["origin"])
	pattern, _ := payload["pattern"].(string)

	scale := mgl32.Vec3{1, 1, 1}
	if s, err := parseFloat3(payload["scale"]); err == nil {
		scale = s
	}
	scaleMin, errMin := parseFloat3(payload["scale_min"])
	scaleMax, errMax := parseFloat3(payload["scale_max"])
	randomScale := errMin == nil && errMax == nil

	cols := int(math.Ceil(math.Sqrt(float64(count))))
	for i := 0; i < count; i++ {
		var pos mgl32.Vec3
		switch pattern {
		case "line":
			pos = mgl32.Vec3{origin[0] + float32(i)*spacing, origin[1], origin[2]}
		case "random", "spread":
			half := max(spacing*float32(count)/4, 5)
			pos = mgl32.Vec3{
				origin[0] + (r.rng.Float32()*2-1)*half,
				origin[1],
				origin[2] + (r.rng.Float32()*2-1)*half,
			}
		default:
			row, col := i/cols, i%cols
			pos = mgl32.Vec3{origin[0] + float32(col)*spacing, origin[1], origin[2] + float32(row)*spacing}
		}
		k := kind
		if randomKind {
			k = primitives.Kinds[r.rng.Intn(len(primitives.Kinds))]
		}
		s := scale
		if randomScale {
			for j := range s {
				s[j] = scaleMin[j] + r.rng.Float32()*(scaleMax[j]-scaleMin[j])
			}
		}
		t := scene.At(pos)
		t.Scale = s
		r.spawn(k, t)
	}
	return nil
}

// targetID resolves an "id" field: a number, "#n", or "selected".
func (r *Runner) targetID(v interface{}) (scene.ID, error) {
	switch id := v.(type) {
	case nil:
		return scene.None, fmt.Errorf("missing id")
	case float64:
		if id < 1 || id != math.Trunc(id) {
			return scene.None, fmt.Errorf("invalid id %v", id)
		}
		return scene.ID(id), nil
	case string:
		if id == "selected" {
			if sel := r.ctrl.Selected(); sel != scene.None {
				return sel, nil
			}
			return scene.None, fmt.Errorf("nothing selected")
		}
		return scene.ParseID(id)
	}
	return scene.None, fmt.Errorf("invalid id %v", v)
}

func (r *Runner) deleteObject(payload map[string]interface{}) error {
	id, err := r.targetID(payload["id"])
	if err != nil {
		return err
	}
	if !r.ctrl.DeleteRecorded(id) {
		return fmt.Errorf("entity %d: %w", id, scene.ErrNotFound)
	}
	return nil
}

func (r *Runner) selectObject(payload map[string]interface{}) error {
	if s, _ := payload["id"].(string); s == "none" {
		r.ctrl.Select(scene.None)
		return nil
	}
	id, err := r.targetID(payload["id"])
	if err != nil {
		return err
	}
	if !r.ctrl.Select(id) {
		return fmt.Errorf("entity %d: %w", id, scene.ErrNotFound)
	}
	return nil
}

func (r *Runner) setTransform(payload map[string]interface{}) error {
	id, err := r.targetID(payload["id"])
	if err != nil {
		return err
	}
	t, ok := r.ctrl.Transform(id)
	if !ok {
		return fmt.Errorf("entity %d: %w", id, scene.ErrNotFound)
	}
	for key, dst := range map[string]*mgl32.Vec3{"position": &t.Position, "rotation": &t.Rotation, "scale": &t.Scale} {
		v, present := payload[key]
		if !present {
			continue
		}
		if *dst, err = parseFloat3(v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	r.ctrl.SetTransformRecorded(id, t)
	return nil
}

func (r *Runner) runCmd(payload map[string]interface{}) error {
	if r.reg == nil {
		return fmt.Errorf("commands unavailable")
	}
	args, ok := payload["args"].([]interface{})
	if !ok || len(args) == 0 {
		return fmt.Errorf("missing or empty args")
	}
	strs := make([]string, 0, len(args))
	for _, v := range args {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("args must be strings")
		}
		strs = append(strs, s)
	}
	return r.reg.Execute(strs)
}

func parseKind(v interface{}) (primitives.Kind, error) {
	typ, _ := v.(string)
	if typ == "" {
		return 0, fmt.Errorf("missing type")
	}
	return primitives.ParseKind(typ)
}

func parseFloat1(v interface{}) (float32, error) {
	switch n := v.(type) {
	case float64:
		return float32(n), nil
	case float32:
		return n, nil
	}
	return 0, fmt.Errorf("expected number")
}

func parseFloat3(v interface{}) (mgl32.Vec3, error) {
	var out mgl32.Vec3
	arr, ok := v.([]interface{})
	if !ok || len(arr) < 3 {
		return out, fmt.Errorf("expected [x,y,z]")
	}
	for i := 0; i < 3; i++ {
		f, err := parseFloat1(arr[i])
		if err != nil {
			return out, fmt.Errorf("component %d not a number", i)
		}
		out[i] = f
	}
	return out, nil
}
