package posekit

import "testing"

func TestPropTypes_AllHaveSpecs(t *testing.T) {
	types := PropTypes()
	if len(types) != len(propSpecs) {
		t.Fatalf("type list has %d entries, spec table %d", len(types), len(propSpecs))
	}
	for _, typ := range types {
		if _, ok := propSpecs[typ]; !ok {
			t.Fatalf("type %q has no spec", typ)
		}
	}
}

func TestNewPropGroup(t *testing.T) {
	p := NewPropGroup(PropSphere, "ball")

	if p.Kind != KindProp || p.PropType != PropSphere {
		t.Fatalf("group tagged wrong: kind=%v type=%v", p.Kind, p.PropType)
	}
	if len(p.Children()) != 1 {
		t.Fatalf("expected one mesh child, got %d", len(p.Children()))
	}
	mesh := p.Children()[0]
	if mesh.Name != "ball.mesh" || !mesh.Pickable {
		t.Fatalf("mesh child misbuilt: %+v", mesh)
	}
	if mesh.HalfExtents != propSpecs[PropSphere].halfExtents {
		t.Fatal("mesh extents must come from the spec table")
	}
}

func TestNewPropGroup_DefaultName(t *testing.T) {
	p := NewPropGroup(PropTorus, "")
	if p.Name != "torus" {
		t.Fatalf("empty name should default to the type, got %q", p.Name)
	}
}

func TestNewPropGroup_UnknownTypeFallsBackToCube(t *testing.T) {
	p := NewPropGroup(PropType("dinosaur"), "rex")
	if p.PropType != PropCube {
		t.Fatalf("unknown type should fall back to cube, got %q", p.PropType)
	}
}

func TestNewPropGroup_FlatTypesAreTilted(t *testing.T) {
	disc := NewPropGroup(PropDisc, "")
	mesh := disc.Children()[0]
	if !mesh.DoubleSided {
		t.Fatal("flat props render double-sided")
	}
	if mesh.Rotation == disc.Rotation {
		t.Fatal("flat props lie down via a mesh tilt")
	}

	cube := NewPropGroup(PropCube, "")
	if cube.Children()[0].DoubleSided {
		t.Fatal("solid props are single-sided")
	}
}
