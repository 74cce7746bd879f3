package editor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/animator"
)

func vecText(v mgl32.Vec3) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v[0], v[1], v[2])
}

// Inspect describes the selected entity for the inspector panel, or returns nil when
// nothing is selected.
func (e *Editor) Inspect() []string {
	sc := e.scene
	ent, ok := sc.FindByID(sc.Selected())
	if !ok {
		return nil
	}
	counts := map[animator.Kind]int{}
	for _, a := range e.anim.Animations() {
		if a.Entity == ent.ID {
			counts[a.Kind]++
		}
	}
	anims := "none"
	if n := counts[animator.Rotation] + counts[animator.Translation] + counts[animator.Scale]; n > 0 {
		anims = fmt.Sprintf("%d (rot %d, trn %d, scl %d)", n,
			counts[animator.Rotation], counts[animator.Translation], counts[animator.Scale])
	}
	tr := ent.Transform
	return []string{
		fmt.Sprintf("#%d %s", ent.ID, ent.Kind),
		"Position: " + vecText(tr.Position),
		"Rotation: " + vecText(tr.Rotation),
		"Scale: " + vecText(tr.Scale),
		"Color: " + ent.Color.Hex(),
		"Animations: " + anims,
	}
}
