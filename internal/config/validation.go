package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateProduct,
		c.validateDependencies,
		c.validateDocs,
		c.validatePackage,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return errors.ConfigError(fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...))).
		WithContext("field", field).
		Build()
}

// packageRelative reports whether p stays inside the directory it is joined to.
func packageRelative(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func (c *Config) validateProduct() error {
	p := c.Product
	if strings.TrimSpace(p.SourceDir) == "" {
		return invalid("product.source_dir", "must be set")
	}
	if !packageRelative(p.BuildDir) {
		return invalid("product.build_dir", "must be a relative path inside work_dir, got %q", p.BuildDir)
	}
	if len(p.Fragments) == 0 {
		return invalid("product.fragments", "at least one fragment is required")
	}
	for i, f := range p.Fragments {
		field := fmt.Sprintf("product.fragments[%d]", i)
		if !packageRelative(f.Source) {
			return invalid(field+".source", "must be a relative path, got %q", f.Source)
		}
		if !packageRelative(f.Destination) {
			return invalid(field+".destination", "must be a relative path inside the package, got %q", f.Destination)
		}
	}
	return c.validateAuth("product.auth", p.Auth)
}

func (c *Config) validateDependencies() error {
	names := map[string]bool{}
	for i, dep := range c.Dependencies {
		field := fmt.Sprintf("dependencies[%d]", i)
		if dep.Name == "" {
			return invalid(field+".name", "must be set")
		}
		if names[dep.Name] {
			return invalid(field+".name", "duplicate dependency %q", dep.Name)
		}
		names[dep.Name] = true
		if dep.URL == "" {
			return invalid(field+".url", "must be set")
		}
		if dep.Policy != PolicyPinned && dep.Policy != PolicyFloating {
			return invalid(field+".policy", "unsupported policy %q (%s)", dep.Policy, strings.Join(syncPolicies.Keys(), "|"))
		}
		if !packageRelative(dep.PackageDir) {
			return invalid(field+".package_dir", "must be a relative path inside the package, got %q", dep.PackageDir)
		}
		if dep.ArtifactName == "" || strings.ContainsAny(dep.ArtifactName, `/\`) {
			return invalid(field+".artifact_name", "must be a plain file name, got %q", dep.ArtifactName)
		}
		for name, gen := range dep.Generations {
			if !packageRelative(gen.ArtifactPath) {
				return invalid(fmt.Sprintf("%s.generations.%s.artifact_path", field, name), "must be a relative path, got %q", gen.ArtifactPath)
			}
		}
		if len(dep.Revisions) == 0 {
			return invalid(field+".revisions", "at least one revision is required")
		}
		slots := map[string]bool{}
		for j, rev := range dep.Revisions {
			rf := fmt.Sprintf("%s.revisions[%d]", field, j)
			if rev.Ref == "" {
				return invalid(rf+".ref", "must be set")
			}
			if !packageRelative(rev.Slot) {
				return invalid(rf+".slot", "must be a relative path, got %q", rev.Slot)
			}
			if slots[rev.Slot] {
				return invalid(rf+".slot", "duplicate slot %q", rev.Slot)
			}
			slots[rev.Slot] = true
			if _, ok := dep.Generations[rev.Generation]; !ok {
				return invalid(rf+".generation", "unknown generation %q", rev.Generation)
			}
		}
		archs := map[string]bool{}
		for j, arch := range dep.Architectures {
			af := fmt.Sprintf("%s.architectures[%d]", field, j)
			if arch.Name == "" {
				return invalid(af+".name", "must be set")
			}
			if archs[arch.Name] {
				return invalid(af+".name", "duplicate architecture %q", arch.Name)
			}
			archs[arch.Name] = true
			if !packageRelative(arch.Slot) {
				return invalid(af+".slot", "must be a relative path, got %q", arch.Slot)
			}
		}
		if err := c.validateAuth(field+".auth", dep.Auth); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateDocs() error {
	d := c.Docs
	if d.Repository.URL == "" {
		return invalid("docs.repository.url", "must be set")
	}
	if d.Repository.Policy != PolicyPinned && d.Repository.Policy != PolicyFloating {
		return invalid("docs.repository.policy", "unsupported policy %q (%s)", d.Repository.Policy, strings.Join(syncPolicies.Keys(), "|"))
	}
	if !packageRelative(d.Repository.Name) {
		return invalid("docs.repository.name", "must be a folder name inside work_dir, got %q", d.Repository.Name)
	}
	if !packageRelative(d.OutputDir) {
		return invalid("docs.output_dir", "must be a relative path inside the package, got %q", d.OutputDir)
	}
	if !strings.HasPrefix(d.Extension, ".") {
		return invalid("docs.extension", "must start with a dot, got %q", d.Extension)
	}
	switch d.Converter.Engine {
	case EngineGoldmark:
	case EngineCommand:
		tmpl, err := d.Converter.Template()
		if err != nil {
			return invalid("docs.converter.extra_args", "%v", err)
		}
		if err := tmpl.Validate(); err != nil {
			return invalid("docs.converter.args", "%v", err)
		}
	default:
		return invalid("docs.converter.engine", "unsupported engine %q (%s)", d.Converter.Engine, strings.Join(converterEngines.Keys(), "|"))
	}
	return c.validateAuth("docs.repository.auth", d.Repository.Auth)
}

func (c *Config) validatePackage() error {
	name := c.Package.Name
	if name == "" || strings.ContainsAny(name, `/\`) {
		return invalid("package.name", "must be a plain name, got %q", name)
	}
	return nil
}

func (c *Config) validateAuth(field string, a *AuthConfig) error {
	if a.IsZero() {
		return nil
	}
	switch a.Type {
	case AuthTypeSSH:
		return nil
	case AuthTypeToken:
		if a.Token == "" {
			return invalid(field+".token", "token authentication requires a token")
		}
	case AuthTypeBasic:
		if a.Username == "" || a.Password == "" {
			return invalid(field, "basic authentication requires username and password")
		}
	default:
		return invalid(field+".type", "unsupported authentication type %q", a.Type)
	}
	return nil
}
