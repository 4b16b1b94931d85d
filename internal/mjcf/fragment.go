package mjcf

import (
	"bytes"
	"fmt"
	"os"
)

// referenceAttrs are the attributes whose values point at declared
// symbols and therefore follow them through renaming. A value absent
// from the rename table is an external reference and stays untouched.
var referenceAttrs = []string{"site", "material", "mesh", "texture", "class", "childclass"}

// FragmentContent is a parsed fragment partitioned for splicing:
// resource elements for the shared asset section, body-level elements
// for the instance body, sensor elements for the aggregated sensor
// section.
type FragmentContent struct {
	Assets  []*Element
	Bodies  []*Element
	Sensors []*Element
}

// LoadFragment reads, parses, renames, and partitions one asset
// fragment. prefix scopes every declared symbol to the instance being
// compiled. Unlike catalog scanning, failure here is fatal to the
// compile: the asset was explicitly requested, so a missing or
// unparsable fragment must not degrade into an empty body.
func LoadFragment(path, prefix string) (*FragmentContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fragment %s: %w", path, err)
	}
	content, err := ParseFragment(data, prefix)
	if err != nil {
		return nil, fmt.Errorf("fragment %s: %w", path, err)
	}
	return content, nil
}

// ParseFragment parses fragment bytes and links them under prefix. A
// whitespace-only fragment is a valid empty one.
func ParseFragment(data []byte, prefix string) (*FragmentContent, error) {
	content := &FragmentContent{}
	if len(bytes.TrimSpace(data)) == 0 {
		return content, nil
	}
	root, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if root.Tag != "mujoco" {
		// Legacy fragment: a bare element treated as a single body.
		renames := collectDeclaredNames(root, nil, prefix)
		applyRenames(root, renames)
		content.Bodies = append(content.Bodies, root)
		return content, nil
	}

	// First pass gathers declared names across all three sections so a
	// body can reference a material declared in the asset section.
	var renames map[string]string
	for _, tag := range []string{"asset", "worldbody", "sensor"} {
		if section := root.Child(tag); section != nil {
			renames = collectDeclaredNames(section, renames, prefix)
		}
	}

	if section := root.Child("asset"); section != nil {
		for _, child := range section.Children {
			applyRenames(child, renames)
			content.Assets = append(content.Assets, child)
		}
	}
	if section := root.Child("worldbody"); section != nil {
		for _, child := range section.Children {
			applyRenames(child, renames)
			content.Bodies = append(content.Bodies, child)
		}
	}
	if section := root.Child("sensor"); section != nil {
		for _, child := range section.Children {
			applyRenames(child, renames)
			content.Sensors = append(content.Sensors, child)
		}
	}
	return content, nil
}

// collectDeclaredNames maps every name declared in the subtree to its
// instance-scoped replacement.
func collectDeclaredNames(e *Element, renames map[string]string, prefix string) map[string]string {
	if renames == nil {
		renames = make(map[string]string)
	}
	if name, ok := e.Attr("name"); ok && name != "" {
		renames[name] = prefix + "_" + name
	}
	for _, c := range e.Children {
		collectDeclaredNames(c, renames, prefix)
	}
	return renames
}

// applyRenames rewrites declarations and the references that point at
// them.
func applyRenames(e *Element, renames map[string]string) {
	if name, ok := e.Attr("name"); ok {
		if renamed, ok := renames[name]; ok {
			e.SetAttr("name", renamed)
		}
	}
	for _, ref := range referenceAttrs {
		if val, ok := e.Attr(ref); ok {
			if renamed, ok := renames[val]; ok {
				e.SetAttr(ref, renamed)
			}
		}
	}
	for _, c := range e.Children {
		applyRenames(c, renames)
	}
}
