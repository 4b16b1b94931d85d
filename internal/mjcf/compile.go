package mjcf

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/roach88/mjscene/internal/catalog"
	"github.com/roach88/mjscene/internal/geom"
	"github.com/roach88/mjscene/internal/ir"
	"github.com/roach88/mjscene/internal/layout"
)

// Stats summarizes one successful compile.
type Stats struct {
	InstanceCount int `json:"instance_count"`
	AssetCount    int `json:"asset_count"`
}

// Option adjusts one compile call.
type Option func(*compilation)

// WithLayoutEngine substitutes the layout engine, e.g. one configured
// for strict separation.
func WithLayoutEngine(e *layout.Engine) Option {
	return func(c *compilation) { c.layouts = e }
}

// Compile links a validated scene against the catalog into one
// document. Identical (spec, catalog, seed) inputs yield byte-identical
// output; any failure aborts with a BuildError and no document.
func Compile(spec *ir.SceneSpec, cat *catalog.Catalog, seed int64, opts ...Option) ([]byte, error) {
	doc, _, err := CompileWithStats(spec, cat, seed, opts...)
	return doc, err
}

// CompileWithStats is Compile plus instance and asset counts for
// provenance records.
func CompileWithStats(spec *ir.SceneSpec, cat *catalog.Catalog, seed int64, opts ...Option) ([]byte, Stats, error) {
	c := &compilation{
		spec:      spec,
		catalog:   cat,
		seed:      seed,
		layouts:   layout.NewEngine(),
		usedNames: make(map[string]bool),
		fragments: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}

	root, err := c.run()
	if err != nil {
		return nil, Stats{}, err
	}
	doc := Serialize(root)
	slog.Debug("compiled scene",
		"scene", spec.Name,
		"seed", seed,
		"instances", c.stats.InstanceCount,
		"assets", c.stats.AssetCount,
		"bytes", len(doc))
	return doc, c.stats, nil
}

// compilation is the per-call state. Nothing in here outlives or is
// shared across calls.
type compilation struct {
	spec    *ir.SceneSpec
	catalog *catalog.Catalog
	seed    int64
	layouts *layout.Engine

	usedNames map[string]bool
	fragments map[string][]byte

	asset   *Element
	world   *Element
	sensors []*Element
	stats   Stats
}

func (c *compilation) run() (*Element, error) {
	// Resolve every referenced asset before any document state exists,
	// so a bad reference can never leave a half-built document behind.
	if err := c.resolveAll(); err != nil {
		return nil, err
	}

	root := NewElement("mujoco").SetAttr("model", c.spec.Name)

	root.AddChild(NewElement("compiler").
		SetAttr("angle", "degree").
		SetAttr("coordinate", "local"))

	physics := c.spec.Physics
	root.AddChild(NewElement("option").
		SetAttr("timestep", geom.FormatFloat(physics.Timestep)).
		SetAttr("iterations", strconv.Itoa(physics.Iterations)).
		SetAttr("solver", string(physics.Solver)).
		SetAttr("integrator", string(physics.Integrator)).
		SetAttr("gravity", geom.FormatVec3(c.spec.Environment.Gravity)))

	visual := root.AddChild(NewElement("visual"))
	visual.AddChild(NewElement("headlight").
		SetAttr("diffuse", "0.6 0.6 0.6").
		SetAttr("ambient", "0.3 0.3 0.3"))

	c.asset = root.AddChild(NewElement("asset"))
	c.asset.AddChild(NewElement("texture").
		SetAttr("name", "grid").
		SetAttr("type", "2d").
		SetAttr("builtin", "checker").
		SetAttr("width", "512").
		SetAttr("height", "512").
		SetAttr("rgb1", "0.2 0.3 0.4").
		SetAttr("rgb2", "0.1 0.2 0.3"))
	c.asset.AddChild(NewElement("material").
		SetAttr("name", "grid_mat").
		SetAttr("texture", "grid").
		SetAttr("texrepeat", "8 8").
		SetAttr("reflectance", "0.2"))

	c.world = root.AddChild(NewElement("worldbody"))

	if err := c.addEnvironment(); err != nil {
		return nil, err
	}
	if err := c.addObjects(); err != nil {
		return nil, err
	}
	if err := c.addCameras(); err != nil {
		return nil, err
	}
	if err := c.addLights(); err != nil {
		return nil, err
	}

	if len(c.sensors) > 0 {
		sensor := root.AddChild(NewElement("sensor"))
		sensor.Children = append(sensor.Children, c.sensors...)
	}
	return root, nil
}

func (c *compilation) resolveAll() error {
	resolved := make(map[string]bool)
	resolve := func(id string) error {
		if _, err := c.catalog.Resolve(id); err != nil {
			return NewBuildError(id, err)
		}
		resolved[id] = true
		return nil
	}

	if err := resolve(c.spec.Environment.AssetID); err != nil {
		return err
	}
	for _, obj := range c.spec.Objects {
		if err := resolve(obj.AssetID); err != nil {
			return err
		}
	}
	c.stats.AssetCount = len(resolved)
	return nil
}

// claimName registers a world-level element name; a duplicate violates
// the unique-name guarantee and aborts the compile.
func (c *compilation) claimName(assetID, name string) error {
	if c.usedNames[name] {
		return NewBuildError(assetID, fmt.Errorf("duplicate element name %q", name))
	}
	c.usedNames[name] = true
	return nil
}

// loadFragment reads (with per-compile byte caching) and links one
// asset's fragment under the given instance prefix.
func (c *compilation) loadFragment(assetID, prefix string) (*FragmentContent, error) {
	path, err := c.catalog.FragmentPath(assetID)
	if err != nil {
		return nil, NewBuildError(assetID, err)
	}
	data, ok := c.fragments[path]
	if !ok {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, NewBuildError(assetID, fmt.Errorf("read fragment: %w", err))
		}
		c.fragments[path] = data
	}
	content, err := ParseFragment(data, prefix)
	if err != nil {
		return nil, NewBuildError(assetID, err)
	}
	return content, nil
}

// splice attaches a fragment's partitions: bodies under the instance
// body, resources to the shared asset section, sensors to the
// aggregate.
func (c *compilation) splice(body *Element, content *FragmentContent) {
	body.Children = append(body.Children, content.Bodies...)
	c.asset.Children = append(c.asset.Children, content.Assets...)
	c.sensors = append(c.sensors, content.Sensors...)
}

func (c *compilation) addEnvironment() error {
	envID := c.spec.Environment.AssetID
	name := "env_" + envID
	if err := c.claimName(envID, name); err != nil {
		return err
	}

	body := NewElement("body").
		SetAttr("name", name).
		SetAttr("pos", "0 0 0")

	content, err := c.loadFragment(envID, name)
	if err != nil {
		return err
	}
	c.splice(body, content)
	c.world.AddChild(body)
	return nil
}

func (c *compilation) addObjects() error {
	for _, obj := range c.spec.Objects {
		instances, err := c.layouts.Expand(&obj, c.seed)
		if err != nil {
			return NewBuildError(obj.AssetID, err)
		}

		base := obj.Name
		if base == "" {
			base = obj.AssetID
		}
		for idx, inst := range instances {
			suffix := inst.NameSuffix
			if suffix == "" {
				suffix = strconv.Itoa(idx)
			}
			name := base + "_" + suffix
			if err := c.claimName(obj.AssetID, name); err != nil {
				return err
			}

			body := NewElement("body").
				SetAttr("name", name).
				SetAttr("pos", geom.FormatVec3(inst.Pose.Position))
			if !inst.Pose.IsIdentityRotation() {
				roll, pitch, yaw := inst.Pose.EulerDeg()
				body.SetAttr("euler", geom.FormatVec([]float64{roll, pitch, yaw}))
			}

			content, err := c.loadFragment(obj.AssetID, name)
			if err != nil {
				return err
			}
			c.splice(body, content)
			c.world.AddChild(body)
			c.stats.InstanceCount++
		}
	}
	return nil
}

func (c *compilation) addCameras() error {
	for _, cam := range c.spec.Cameras {
		if err := c.claimName(cam.AssetID, cam.Name); err != nil {
			return err
		}

		el := NewElement("camera").
			SetAttr("name", cam.Name).
			SetAttr("pos", geom.FormatVec3(cam.Pose.Position)).
			SetAttr("fovy", geom.FormatFloat(cam.Fovy))
		if cam.Target != nil {
			roll, pitch, yaw := geom.LookAtEuler(cam.Pose.Position, *cam.Target)
			el.SetAttr("euler", geom.FormatVec([]float64{roll, pitch, yaw}))
		} else if !cam.Pose.IsIdentityRotation() {
			roll, pitch, yaw := cam.Pose.EulerDeg()
			el.SetAttr("euler", geom.FormatVec([]float64{roll, pitch, yaw}))
		}
		c.world.AddChild(el)
	}
	return nil
}

func (c *compilation) addLights() error {
	if len(c.spec.Lights) == 0 {
		if err := c.claimName("", "default_light"); err != nil {
			return err
		}
		c.world.AddChild(NewElement("light").
			SetAttr("name", "default_light").
			SetAttr("pos", "0 0 10").
			SetAttr("dir", "0 0 -1").
			SetAttr("diffuse", "1 1 1"))
		return nil
	}

	for _, l := range c.spec.Lights {
		if err := c.claimName("", l.Name); err != nil {
			return err
		}

		el := NewElement("light").
			SetAttr("name", l.Name).
			SetAttr("pos", geom.FormatVec3(l.Position))
		if l.Direction != nil {
			el.SetAttr("dir", geom.FormatVec3(*l.Direction))
		}
		el.SetAttr("diffuse", geom.FormatVec3(l.Diffuse))
		el.SetAttr("specular", geom.FormatVec3(l.Specular))
		if l.Type == ir.LightDirectional {
			el.SetAttr("directional", "true")
		}
		c.world.AddChild(el)
	}
	return nil
}
