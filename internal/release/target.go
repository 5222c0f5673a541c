package release

import "fmt"

// Architecture is a build architecture label passed to the build tool (e.g. "Win32")
// together with the package slot its artifact lands in (e.g. "32-bit").
type Architecture struct {
	Name string `yaml:"name"`
	Slot string `yaml:"slot"`
}

// Revision is a dependency reference (tag or branch) plus the package slot it is
// published under and the artifact-layout generation it belongs to.
type Revision struct {
	Ref        string `yaml:"ref"`
	Slot       string `yaml:"slot"`
	Generation string `yaml:"generation"`
}

// BuildTarget identifies one cell of the dependency compilation matrix.
type BuildTarget struct {
	Dependency   string
	Revision     Revision
	Architecture Architecture
	// OutputPath is the absolute destination of the compiled artifact inside the package tree.
	OutputPath string
}

// Cell renders the matrix coordinates, used in stage names and error messages.
func (t BuildTarget) Cell() string {
	return fmt.Sprintf("%s@%s/%s", t.Dependency, t.Revision.Ref, t.Architecture.Name)
}

// OutputFragment maps a path in a build output tree to a path in the package tree.
// Source may name a file or a directory.
type OutputFragment struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}
