package scene

import "github.com/ikari-pl/go-scene-hierarchy/internal/hierarchy"

type sampleObject struct {
	spec     Spec
	children []sampleObject
}

func obj(name string, components []string, children ...sampleObject) sampleObject {
	return sampleObject{
		spec: Spec{
			Name:       name,
			Active:     true,
			Components: components,
		},
		children: children,
	}
}

// Sample returns a small demo scene used when no scene file is given.
func Sample(id hierarchy.TreeID) *Scene {
	player := obj("Player", []string{"Transform", "Animator", "Rigidbody", "CapsuleCollider", "PlayerController"},
		obj("Model", []string{"Transform", "SkinnedMeshRenderer"}),
		obj("Weapon Socket", []string{"Transform"},
			obj("Sword", []string{"Transform", "MeshRenderer", "BoxCollider"}),
		),
		obj("Camera Target", []string{"Transform"}),
	)
	player.spec.Tag = "Player"
	player.spec.Layer = "Characters"
	player.spec.PrefabOverrides = 3

	enemy := obj("Enemy", []string{"Transform", "Animator", "NavMeshAgent", "EnemyAI"})
	enemy.spec.Tag = "Enemy"
	enemy.spec.Layer = "Characters"
	enemy.spec.PrefabOverrides = 1

	disabled := obj("Debug Overlay", []string{"Transform", "Canvas"})
	disabled.spec.Active = false
	disabled.spec.Layer = "UI"

	objects := []sampleObject{
		obj("--- Environment", nil),
		obj("Main Camera", []string{"Transform", "Camera", "AudioListener"}),
		obj("Directional Light", []string{"Transform", "Light"}),
		obj("Terrain", []string{"Transform", "Terrain", "TerrainCollider"},
			obj("Trees", []string{"Transform"},
				obj("Oak", []string{"Transform", "MeshRenderer"}),
				obj("Pine", []string{"Transform", "MeshRenderer"}),
			),
			obj("Rocks", []string{"Transform"}),
		),
		obj("--- Actors", nil),
		player,
		enemy,
		obj("--- UI", nil),
		obj("HUD", []string{"Transform", "Canvas", "CanvasScaler"},
			obj("Health Bar", []string{"Transform", "Image"}),
			obj("Minimap", []string{"Transform", "RawImage"}),
		),
		disabled,
	}
	objects[0].spec.Tag = "EditorOnly"
	objects[1].spec.Tag = "MainCamera"

	s := New(id, "Sample")
	addSample(s, NoParent, objects)
	return s
}

func addSample(s *Scene, parent hierarchy.ID, objects []sampleObject) {
	for _, o := range objects {
		id, err := s.Add(parent, o.spec)
		if err != nil {
			// Names above are never empty and parents always exist.
			panic(err)
		}
		addSample(s, id, o.children)
	}
}
