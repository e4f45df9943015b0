// Package scene builds a World and its named bodies from a YAML document.
package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"

	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownShape    = errors.New("unknown shape")
	ErrUnknownBodyType = errors.New("unknown body type")
	ErrInvalidMass     = errors.New("invalid mass")
	ErrDuplicateName   = errors.New("duplicate body name")
	ErrUnknownBody     = errors.New("unknown body")
)

// Document is the YAML layout of a scene file
type Document struct {
	World   impulse.Config `yaml:"world"`
	Seed    uint64         `yaml:"seed"`
	Bodies  []BodyDesc     `yaml:"bodies"`
	Respawn []RespawnRule  `yaml:"respawn"`
	Bounce  []BounceRule   `yaml:"bounce"`
}

type BodyDesc struct {
	Name     string     `yaml:"name"`
	Shape    string     `yaml:"shape"`
	Type     string     `yaml:"type"`
	Position mgl64.Vec3 `yaml:"position"`
	// Euler angles in degrees
	Rotation mgl64.Vec3 `yaml:"rotation"`
	Scale    mgl64.Vec3 `yaml:"scale"`
	// Derived from the shape when omitted
	Mass       *float64 `yaml:"mass"`
	CanCollide *bool    `yaml:"can_collide"`
}

// RespawnRule teleports bodies that fell to Below or lower back to Height + [0, Jitter).
// X and Z are kept.
type RespawnRule struct {
	Bodies []string `yaml:"bodies"`
	Below  float64  `yaml:"below"`
	Height float64  `yaml:"height"`
	Jitter float64  `yaml:"jitter"`
}

// BounceRule reflects the vertical velocity of bodies at Below or lower, scaled by Factor.
// A reflected speed under RestSpeed is zeroed.
type BounceRule struct {
	Bodies    []string `yaml:"bodies"`
	Below     float64  `yaml:"below"`
	Factor    float64  `yaml:"factor"`
	RestSpeed float64  `yaml:"rest_speed"`
}

type respawn struct {
	rule   RespawnRule
	bodies []*actor.RigidBody
}

type bounce struct {
	rule   BounceRule
	bodies []*actor.RigidBody
}

// Scene is a World plus the per-frame rules of its document
type Scene struct {
	World *impulse.World

	bodies   map[string]*actor.RigidBody
	respawns []respawn
	bounces  []bounce
	rng      *rand.Rand
}

// SphereMass is the mass given to spheres without an explicit mass
func SphereMass(radius float64) float64 {
	return 4.0 / 3.0 * math.Pi * radius * radius
}

func Load(r io.Reader) (*Scene, error) {
	doc := Document{World: impulse.DefaultConfig()}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	return New(doc)
}

func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// New validates doc and builds its World
func New(doc Document) (*Scene, error) {
	if err := doc.World.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	s := &Scene{
		World:  impulse.NewWorld(doc.World),
		bodies: make(map[string]*actor.RigidBody, len(doc.Bodies)),
		rng:    rand.New(rand.NewPCG(doc.Seed, doc.Seed)),
	}

	for i, desc := range doc.Bodies {
		body, err := desc.build()
		if err != nil {
			return nil, fmt.Errorf("body %d (%q): %w", i, desc.Name, err)
		}
		if desc.Name != "" {
			if _, ok := s.bodies[desc.Name]; ok {
				return nil, fmt.Errorf("body %d: %w: %q", i, ErrDuplicateName, desc.Name)
			}
			s.bodies[desc.Name] = body
		}
		s.World.AddBody(body)
	}

	for _, rule := range doc.Respawn {
		bodies, err := s.lookup(rule.Bodies)
		if err != nil {
			return nil, fmt.Errorf("respawn: %w", err)
		}
		s.respawns = append(s.respawns, respawn{rule: rule, bodies: bodies})
	}
	for _, rule := range doc.Bounce {
		bodies, err := s.lookup(rule.Bodies)
		if err != nil {
			return nil, fmt.Errorf("bounce: %w", err)
		}
		s.bounces = append(s.bounces, bounce{rule: rule, bodies: bodies})
	}

	s.World.Logger.Debugf("scene loaded: %d bodies, %d respawn rules, %d bounce rules", len(doc.Bodies), len(s.respawns), len(s.bounces))

	return s, nil
}

func (s *Scene) lookup(names []string) ([]*actor.RigidBody, error) {
	bodies := make([]*actor.RigidBody, 0, len(names))
	for _, name := range names {
		body, ok := s.bodies[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
		}
		bodies = append(bodies, body)
	}

	return bodies, nil
}

// Body returns the body named name, or nil
func (s *Scene) Body(name string) *actor.RigidBody {
	return s.bodies[name]
}

// Respawn applies the respawn rules and returns the teleported bodies
func (s *Scene) Respawn() []*actor.RigidBody {
	var moved []*actor.RigidBody
	for _, r := range s.respawns {
		for _, body := range r.bodies {
			position := body.Position()
			if position.Y() > r.rule.Below {
				continue
			}

			y := r.rule.Height
			if r.rule.Jitter > 0 {
				y += s.rng.Float64() * r.rule.Jitter
			}
			body.Teleport(mgl64.Vec3{position.X(), y, position.Z()})
			moved = append(moved, body)
			s.World.Logger.Debugf("respawn %q at y=%.3f", body.Name, y)
		}
	}

	return moved
}

// Bounce applies the bounce rules to bodies moving down below their threshold
func (s *Scene) Bounce() {
	for _, b := range s.bounces {
		for _, body := range b.bodies {
			if body.Position().Y() > b.rule.Below || body.Velocity.Y() >= 0 {
				continue
			}

			vy := -body.Velocity.Y() * b.rule.Factor
			if vy < b.rule.RestSpeed {
				vy = 0
			}
			body.Velocity[1] = vy
		}
	}
}

func (d BodyDesc) build() (*actor.RigidBody, error) {
	var kind actor.ShapeKind
	switch d.Shape {
	case "sphere":
		kind = actor.ShapeKindSphere
	case "box":
		kind = actor.ShapeKindBox
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, d.Shape)
	}

	var bodyType actor.BodyType
	switch d.Type {
	case "dynamic", "":
		bodyType = actor.BodyTypeDynamic
	case "kinematic":
		bodyType = actor.BodyTypeKinematic
	case "static":
		bodyType = actor.BodyTypeStatic
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBodyType, d.Type)
	}

	transform := actor.NewTransform()
	transform.Position = d.Position
	transform.Rotation = mgl64.Vec3{
		mgl64.DegToRad(d.Rotation.X()),
		mgl64.DegToRad(d.Rotation.Y()),
		mgl64.DegToRad(d.Rotation.Z()),
	}
	if d.Scale != (mgl64.Vec3{}) {
		transform.Scale = d.Scale
	}

	mass := 1.0
	if d.Mass != nil {
		mass = *d.Mass
	} else if kind == actor.ShapeKindSphere {
		mass = SphereMass(transform.Scale.X())
	}
	if bodyType == actor.BodyTypeDynamic && (mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0)) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMass, mass)
	}

	body := actor.NewRigidBody(transform, kind, mass, bodyType)
	body.Name = d.Name
	if d.CanCollide != nil {
		body.CanCollide = *d.CanCollide
	}

	return body, nil
}
