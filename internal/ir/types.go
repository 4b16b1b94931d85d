package ir

import (
	"encoding/json"
	"fmt"
)

// Vec3 is a fixed 3-vector. It marshals as a JSON array and rejects
// any other arity on decode; encoding/json would otherwise zero-fill
// or truncate silently.
type Vec3 [3]float64

func (v *Vec3) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("expected 3 components, got %d", len(raw))
	}
	copy(v[:], raw)
	return nil
}

// Vec2 is a fixed 2-vector with the same strict arity contract as Vec3.
type Vec2 [2]float64

func (v *Vec2) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("expected 2 components, got %d", len(raw))
	}
	copy(v[:], raw)
	return nil
}

// Pose is a position plus Euler orientation in degrees. Rotation is
// applied yaw (Z), then pitch (Y), then roll (X).
type Pose struct {
	Position Vec3    `json:"position"`
	YawDeg   float64 `json:"yaw_deg,omitempty"`
	PitchDeg float64 `json:"pitch_deg,omitempty"`
	RollDeg  float64 `json:"roll_deg,omitempty"`
}

// EulerDeg returns the orientation as (roll, pitch, yaw), the component
// order document euler attributes use.
func (p Pose) EulerDeg() (roll, pitch, yaw float64) {
	return p.RollDeg, p.PitchDeg, p.YawDeg
}

// IsIdentityRotation reports whether all three angles are zero.
func (p Pose) IsIdentityRotation() bool {
	return p.RollDeg == 0 && p.PitchDeg == 0 && p.YawDeg == 0
}

// InstanceSpec is one concrete placement of an asset.
type InstanceSpec struct {
	Pose       Pose   `json:"pose"`
	NameSuffix string `json:"name_suffix,omitempty"`
}

// Layout kind discriminators as they appear on the wire.
const (
	LayoutKindGrid   = "grid"
	LayoutKindRandom = "random"
)

// Layout is the closed set of placement patterns. Only GridLayout and
// RandomLayout implement it; the unexported marker keeps the set
// closed so expansion can dispatch by exhaustive type switch.
type Layout interface {
	Kind() string
	layoutVariant()
}

// GridLayout places instances on a regular row-major grid anchored at
// Origin. Spacing is (x, y) step per column and row; all instances
// share Origin's z.
type GridLayout struct {
	Origin          Vec3    `json:"origin"`
	Rows            int     `json:"rows"`
	Cols            int     `json:"cols"`
	Spacing         Vec2    `json:"spacing"`
	YawVariationDeg float64 `json:"yaw_variation_deg,omitempty"`
}

func (*GridLayout) Kind() string   { return LayoutKindGrid }
func (*GridLayout) layoutVariant() {}

// RandomLayout scatters Count instances area-uniformly in a disk
// around Center. MinSeparation is a minimum pairwise distance the
// engine tries to honor; RandomYaw assigns each instance a uniform
// heading and defaults to true.
type RandomLayout struct {
	Center        Vec3    `json:"center"`
	Radius        float64 `json:"radius"`
	Count         int     `json:"count"`
	MinSeparation float64 `json:"min_separation,omitempty"`
	RandomYaw     bool    `json:"random_yaw"`
}

func (*RandomLayout) Kind() string   { return LayoutKindRandom }
func (*RandomLayout) layoutVariant() {}

func (l *RandomLayout) UnmarshalJSON(data []byte) error {
	type randomAlias RandomLayout
	aux := randomAlias{RandomYaw: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = RandomLayout(aux)
	return nil
}

// UnmarshalLayout decodes one layout value by its "type" discriminator.
func UnmarshalLayout(data []byte) (Layout, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case LayoutKindGrid:
		var l GridLayout
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
		return &l, nil
	case LayoutKindRandom:
		var l RandomLayout
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
		return &l, nil
	default:
		return nil, fmt.Errorf("unknown layout type %q", head.Type)
	}
}

// MarshalLayout encodes a layout with its "type" discriminator.
func MarshalLayout(l Layout) ([]byte, error) {
	switch v := l.(type) {
	case *GridLayout:
		return json.Marshal(struct {
			Type string `json:"type"`
			*GridLayout
		}{LayoutKindGrid, v})
	case *RandomLayout:
		return json.Marshal(struct {
			Type string `json:"type"`
			*RandomLayout
		}{LayoutKindRandom, v})
	default:
		return nil, fmt.Errorf("unknown layout kind %T", l)
	}
}

// ObjectSpec asks for one asset placed in the world. Placement comes
// from exactly one of Layout or Instances; with neither, a single
// instance at the origin is implied. Name overrides AssetID as the
// base for instance body names.
type ObjectSpec struct {
	AssetID   string
	Name      string
	Layout    Layout
	Instances []InstanceSpec
}

func (o ObjectSpec) MarshalJSON() ([]byte, error) {
	aux := struct {
		AssetID   string          `json:"asset_id"`
		Name      string          `json:"name,omitempty"`
		Layout    json.RawMessage `json:"layout,omitempty"`
		Instances *[]InstanceSpec `json:"instances,omitempty"`
	}{
		AssetID: o.AssetID,
		Name:    o.Name,
	}
	// An empty-but-present instances list places nothing, which is not
	// the same as no list at all. Keep the distinction across a round
	// trip so the two specs hash differently.
	if o.Instances != nil {
		aux.Instances = &o.Instances
	}
	if o.Layout != nil {
		raw, err := MarshalLayout(o.Layout)
		if err != nil {
			return nil, err
		}
		aux.Layout = raw
	}
	return json.Marshal(aux)
}

func (o *ObjectSpec) UnmarshalJSON(data []byte) error {
	var aux struct {
		AssetID   string          `json:"asset_id"`
		Name      string          `json:"name"`
		Layout    json.RawMessage `json:"layout"`
		Instances []InstanceSpec  `json:"instances"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.AssetID = aux.AssetID
	o.Name = aux.Name
	o.Instances = aux.Instances
	o.Layout = nil
	if len(aux.Layout) == 0 || string(aux.Layout) == "null" {
		return nil
	}
	layout, err := UnmarshalLayout(aux.Layout)
	if err != nil {
		return fmt.Errorf("object %q: %w", aux.AssetID, err)
	}
	o.Layout = layout
	return nil
}

// DefaultFovy is the vertical field of view used when a camera omits one.
const DefaultFovy = 45.0

// CameraSpec places a camera in the world. When Target is set the
// orientation is derived by look-at and the pose angles are ignored.
// AssetID optionally ties the camera to a sensor asset for validation.
type CameraSpec struct {
	Name    string  `json:"name"`
	AssetID string  `json:"asset_id,omitempty"`
	Pose    Pose    `json:"pose"`
	Target  *Vec3   `json:"target,omitempty"`
	Fovy    float64 `json:"fovy"`
}

func (c *CameraSpec) UnmarshalJSON(data []byte) error {
	type cameraAlias CameraSpec
	aux := cameraAlias{Fovy: DefaultFovy}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = CameraSpec(aux)
	return nil
}

// LightType is the closed set of light kinds.
type LightType string

const (
	LightDirectional LightType = "directional"
	LightPoint       LightType = "point"
	LightSpot        LightType = "spot"
)

// Valid reports whether t is a known light type.
func (t LightType) Valid() bool {
	switch t {
	case LightDirectional, LightPoint, LightSpot:
		return true
	}
	return false
}

// LightSpec places a light. Direction is optional; position, diffuse
// and specular carry decode-time defaults so an explicit zero vector
// survives round trips.
type LightSpec struct {
	Name      string    `json:"name"`
	Type      LightType `json:"type"`
	Position  Vec3      `json:"position"`
	Direction *Vec3     `json:"direction,omitempty"`
	Diffuse   Vec3      `json:"diffuse"`
	Specular  Vec3      `json:"specular"`
}

func (l *LightSpec) UnmarshalJSON(data []byte) error {
	type lightAlias LightSpec
	aux := lightAlias{
		Type:     LightDirectional,
		Position: Vec3{0, 0, 10},
		Diffuse:  Vec3{1, 1, 1},
		Specular: Vec3{0.5, 0.5, 0.5},
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*l = LightSpec(aux)
	return nil
}

// EnvironmentSpec names the base world asset. Gravity defaults to
// Earth gravity along -z; a scene may set it to zero explicitly.
type EnvironmentSpec struct {
	AssetID string `json:"asset_id"`
	Size    *Vec3  `json:"size,omitempty"`
	Gravity Vec3   `json:"gravity"`
}

func (e *EnvironmentSpec) UnmarshalJSON(data []byte) error {
	type envAlias EnvironmentSpec
	aux := envAlias{Gravity: Vec3{0, 0, -9.81}}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = EnvironmentSpec(aux)
	return nil
}

// Solver is a physics constraint solver name.
type Solver string

const (
	SolverPGS    Solver = "PGS"
	SolverCG     Solver = "CG"
	SolverNewton Solver = "Newton"
)

// Valid reports whether s is a known solver.
func (s Solver) Valid() bool {
	switch s {
	case SolverPGS, SolverCG, SolverNewton:
		return true
	}
	return false
}

// Integrator is a physics integrator name.
type Integrator string

const (
	IntegratorEuler        Integrator = "Euler"
	IntegratorRK4          Integrator = "RK4"
	IntegratorImplicit     Integrator = "implicit"
	IntegratorImplicitFast Integrator = "implicitfast"
)

// Valid reports whether i is a known integrator.
func (i Integrator) Valid() bool {
	switch i {
	case IntegratorEuler, IntegratorRK4, IntegratorImplicit, IntegratorImplicitFast:
		return true
	}
	return false
}

// PhysicsSpec configures the simulation options of the compiled
// document.
type PhysicsSpec struct {
	Timestep   float64    `json:"timestep"`
	Solver     Solver     `json:"solver"`
	Iterations int        `json:"iterations"`
	Integrator Integrator `json:"integrator"`
}

// DefaultPhysics returns the physics settings used when a scene omits
// them.
func DefaultPhysics() PhysicsSpec {
	return PhysicsSpec{
		Timestep:   0.002,
		Solver:     SolverNewton,
		Iterations: 50,
		Integrator: IntegratorImplicitFast,
	}
}

func (p *PhysicsSpec) UnmarshalJSON(data []byte) error {
	type physicsAlias PhysicsSpec
	aux := physicsAlias(DefaultPhysics())
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = PhysicsSpec(aux)
	return nil
}

// SceneSpec is one complete declarative scene. A decoded SceneSpec has
// all defaults applied; code that builds one by hand should start from
// DefaultPhysics and friends.
type SceneSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Environment EnvironmentSpec `json:"environment"`
	Objects     []ObjectSpec    `json:"objects,omitempty"`
	Cameras     []CameraSpec    `json:"cameras,omitempty"`
	Lights      []LightSpec     `json:"lights,omitempty"`
	Physics     PhysicsSpec     `json:"physics"`
}

func (s *SceneSpec) UnmarshalJSON(data []byte) error {
	type sceneAlias SceneSpec
	aux := sceneAlias{
		Environment: EnvironmentSpec{Gravity: Vec3{0, 0, -9.81}},
		Physics:     DefaultPhysics(),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = SceneSpec(aux)
	return nil
}
