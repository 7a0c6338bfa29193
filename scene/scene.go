// Package scene decodes scene description documents and instantiates
// them into a world. The document is authoring output: entities with
// initial transforms, physics-body parameters, controller attachment,
// and opaque asset references. Instantiation only happens between
// ticks, never while a step is in flight.
package scene

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/lixenwraith/sim2d/component"
	"github.com/lixenwraith/sim2d/core"
	"github.com/lixenwraith/sim2d/engine"
	"github.com/lixenwraith/sim2d/vmath"
)

// Document is the deserialized scene description.
type Document struct {
	Name     string      `toml:"name"`
	Entities []EntityDef `toml:"entities"`
}

// EntityDef describes one authored entity.
type EntityDef struct {
	Name     string  `toml:"name"`
	X        float64 `toml:"x"`
	Y        float64 `toml:"y"`
	Rotation float64 `toml:"rotation"`
	ScaleX   float64 `toml:"scale_x"`
	ScaleY   float64 `toml:"scale_y"`

	Body       *BodyDef       `toml:"body"`
	Controller *ControllerDef `toml:"controller"`

	// Asset is an opaque reference resolved through the asset boundary.
	Asset string `toml:"asset"`
}

// BodyDef holds physics-body parameters.
type BodyDef struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	OffsetX       float64 `toml:"offset_x"`
	OffsetY       float64 `toml:"offset_y"`
	Kind          string  `toml:"kind"` // "static", "dynamic", "trigger"
	Mass          float64 `toml:"mass"`
	Layer         uint32  `toml:"layer"`
	Mask          uint32  `toml:"mask"`
	NoSelfCollide bool    `toml:"no_self_collide"`
}

// ControllerDef holds platformer controller tuning.
type ControllerDef struct {
	MoveSpeed      float64 `toml:"move_speed"`
	JumpSpeed      float64 `toml:"jump_speed"`
	Friction       float64 `toml:"friction"`
	CoyoteTime     float64 `toml:"coyote_time"`
	JumpBufferTime float64 `toml:"jump_buffer_time"`
}

// Load reads and decodes a scene file.
func Load(path string) (*Document, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}
	return &doc, nil
}

// Decode parses a scene document from TOML bytes.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &doc, nil
}

func bodyKind(s string) (component.BodyKind, error) {
	switch s {
	case "static", "":
		return component.BodyStatic, nil
	case "dynamic":
		return component.BodyDynamic, nil
	case "trigger":
		return component.BodyTrigger, nil
	}
	return 0, fmt.Errorf("unknown body kind %q", s)
}

// Instantiate spawns every valid entity of the document into the world
// and returns the created ids. Per-entity configuration errors (bad body
// kind, non-positive collider size) are logged and skip that entity;
// the rest of the scene still loads.
func Instantiate(doc *Document, world *engine.World, log *zap.Logger) []core.Entity {
	created := make([]core.Entity, 0, len(doc.Entities))

	for i := range doc.Entities {
		def := &doc.Entities[i]

		var body component.PhysicsBody
		if def.Body != nil {
			kind, err := bodyKind(def.Body.Kind)
			if err != nil {
				log.Warn("scene entity skipped",
					zap.String("scene", doc.Name),
					zap.String("entity", def.Name),
					zap.Error(err))
				continue
			}
			if def.Body.Width <= 0 || def.Body.Height <= 0 {
				log.Warn("scene entity skipped: collider size must be positive",
					zap.String("scene", doc.Name),
					zap.String("entity", def.Name),
					zap.Float64("width", def.Body.Width),
					zap.Float64("height", def.Body.Height))
				continue
			}
			body = component.PhysicsBody{
				Size:          vmath.Vec2{X: def.Body.Width, Y: def.Body.Height},
				Offset:        vmath.Vec2{X: def.Body.OffsetX, Y: def.Body.OffsetY},
				Kind:          kind,
				Layer:         def.Body.Layer,
				Mask:          def.Body.Mask,
				NoSelfCollide: def.Body.NoSelfCollide,
			}
			if kind == component.BodyDynamic {
				mass := def.Body.Mass
				if mass <= 0 {
					mass = 1
				}
				body.InvMass = 1 / mass
			}
		}

		e := world.Create()
		trans := component.NewTransform(def.X, def.Y)
		trans.Rotation = def.Rotation
		if def.ScaleX != 0 {
			trans.Scale.X = def.ScaleX
		}
		if def.ScaleY != 0 {
			trans.Scale.Y = def.ScaleY
		}
		world.Transforms.Set(e, trans)

		if def.Body != nil {
			world.Bodies.Set(e, body)
		}
		if def.Controller != nil {
			world.Controllers.Set(e, component.Platformer{
				MoveSpeed:      def.Controller.MoveSpeed,
				JumpSpeed:      def.Controller.JumpSpeed,
				Friction:       def.Controller.Friction,
				CoyoteTime:     def.Controller.CoyoteTime,
				JumpBufferTime: def.Controller.JumpBufferTime,
			})
		}
		if def.Asset != "" {
			world.Sprites.Set(e, component.Sprite{AssetRef: def.Asset})
		}

		created = append(created, e)
	}

	return created
}
