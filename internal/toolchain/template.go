package toolchain

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder is a named slot in a CommandTemplate argument.
type Placeholder string

const (
	PlaceholderInput  Placeholder = "input"
	PlaceholderOutput Placeholder = "output"
	PlaceholderTitle  Placeholder = "title"
	PlaceholderMajor  Placeholder = "major"
	PlaceholderMinor  Placeholder = "minor"
	PlaceholderPatch  Placeholder = "patch"
	PlaceholderTheme  Placeholder = "theme"
)

var knownPlaceholders = map[Placeholder]struct{}{
	PlaceholderInput:  {},
	PlaceholderOutput: {},
	PlaceholderTitle:  {},
	PlaceholderMajor:  {},
	PlaceholderMinor:  {},
	PlaceholderPatch:  {},
	PlaceholderTheme:  {},
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// CommandTemplate is a structured command line. Each argument is expanded on its own, so a
// substituted value containing spaces stays a single argument.
type CommandTemplate struct {
	Executable string
	Args       []string
}

// TemplateValues supplies placeholder values for one expansion.
type TemplateValues map[Placeholder]string

// Validate rejects unknown placeholders and templates that never reference the input or output.
func (t CommandTemplate) Validate() error {
	if strings.TrimSpace(t.Executable) == "" {
		return fmt.Errorf("command template has no executable")
	}
	seen := map[Placeholder]bool{}
	for _, p := range t.Placeholders() {
		if _, ok := knownPlaceholders[p]; !ok {
			return fmt.Errorf("unknown placeholder {%s}", p)
		}
		seen[p] = true
	}
	for _, required := range []Placeholder{PlaceholderInput, PlaceholderOutput} {
		if !seen[required] {
			return fmt.Errorf("command template must reference {%s}", required)
		}
	}
	return nil
}

// Placeholders returns the placeholders referenced by the template, in first-use order.
func (t CommandTemplate) Placeholders() []Placeholder {
	var out []Placeholder
	seen := map[Placeholder]bool{}
	for _, arg := range t.Args {
		for _, m := range placeholderPattern.FindAllStringSubmatch(arg, -1) {
			p := Placeholder(m[1])
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Expand substitutes values into every argument and returns a Command running in dir.
func (t CommandTemplate) Expand(values TemplateValues, dir string) Command {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = placeholderPattern.ReplaceAllStringFunc(arg, func(m string) string {
			p := Placeholder(m[1 : len(m)-1])
			if v, ok := values[p]; ok {
				return v
			}
			return m
		})
	}
	return Command{Name: t.Executable, Args: args, Dir: dir}
}
