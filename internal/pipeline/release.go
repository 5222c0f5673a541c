package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/underrout/callisto-release/internal/config"
	"github.com/underrout/callisto-release/internal/depbuild"
	"github.com/underrout/callisto-release/internal/docs"
	"github.com/underrout/callisto-release/internal/git"
	"github.com/underrout/callisto-release/internal/logfields"
	"github.com/underrout/callisto-release/internal/metrics"
	"github.com/underrout/callisto-release/internal/packager"
	"github.com/underrout/callisto-release/internal/product"
	"github.com/underrout/callisto-release/internal/release"
	"github.com/underrout/callisto-release/internal/toolchain"
	"github.com/underrout/callisto-release/internal/workspace"
)

// Syncer brings a repository working copy to a reference and returns its path.
type Syncer interface {
	Sync(ctx context.Context, repo config.Repository) (string, error)
}

// DocGenerator produces the documentation folder.
type DocGenerator interface {
	Generate(ctx context.Context, inputDir, outputDir string, v release.Version) (*docs.Result, error)
}

// RemoteResolver finds the URL the version gate queries when none is configured.
type RemoteResolver func(sourceDir, remote string) (string, error)

// RunState carries values produced by one stage and consumed by later ones.
type RunState struct {
	Version     release.Version
	PackageRoot string
	ArchivePath string
	// Sources maps a dependency name to its synchronized working copy.
	Sources    map[string]string
	DocsSource string
	Docs       *docs.Result
	Archive    packager.Stats
	workspace  *workspace.Manager
}

// Release runs the release stages for one configuration.
type Release struct {
	cfg       *config.Config
	syncer    Syncer
	tags      release.TagLister
	remote    RemoteResolver
	runner    toolchain.Runner
	docs      DocGenerator
	recorder  metrics.Recorder
	observers []BuildObserver
	progress  io.Writer
}

// Option customizes a Release.
type Option func(*Release)

// WithSyncer replaces the go-git backed repository synchronizer.
func WithSyncer(s Syncer) Option { return func(r *Release) { r.syncer = s } }

// WithTagLister replaces the remote tag source of the version gate.
func WithTagLister(l release.TagLister) Option { return func(r *Release) { r.tags = l } }

// WithRemoteResolver replaces the lookup of the product's remote URL.
func WithRemoteResolver(fn RemoteResolver) Option { return func(r *Release) { r.remote = fn } }

// WithRunner replaces the process runner used for cmake and the doc converter.
func WithRunner(tr toolchain.Runner) Option { return func(r *Release) { r.runner = tr } }

// WithDocGenerator replaces the documentation pipeline.
func WithDocGenerator(d DocGenerator) Option { return func(r *Release) { r.docs = d } }

// WithProgress streams clone and fetch progress of the go-git synchronizer to w.
func WithProgress(w io.Writer) Option { return func(r *Release) { r.progress = w } }

// WithRecorder enables metrics.
func WithRecorder(m metrics.Recorder) Option { return func(r *Release) { r.recorder = m } }

// WithObserver adds a stage observer.
func WithObserver(o BuildObserver) Option {
	return func(r *Release) { r.observers = append(r.observers, o) }
}

// New wires a release from configuration. Components not replaced by options use go-git,
// external processes and the configured documentation converter.
func New(cfg *config.Config, opts ...Option) (*Release, error) {
	r := &Release{cfg: cfg, recorder: metrics.NoopRecorder{}, remote: git.RemoteURL}
	for _, opt := range opts {
		opt(r)
	}
	if r.recorder == nil {
		r.recorder = metrics.NoopRecorder{}
	}
	if r.syncer == nil || r.tags == nil {
		client := git.NewClient(cfg.WorkDir).WithRemoteAuth(cfg.Product.Auth)
		if r.progress != nil {
			client.WithProgress(r.progress)
		}
		if r.syncer == nil {
			r.syncer = client
		}
		if r.tags == nil {
			r.tags = client
		}
	}
	if r.runner == nil {
		r.runner = toolchain.NewExecRunner()
	}
	if r.docs == nil {
		d, err := docs.NewPipeline(cfg.Docs, r.runner)
		if err != nil {
			return nil, err
		}
		r.docs = d
	}
	return r, nil
}

// Plan returns the ordered stages of a release of v.
func (r *Release) Plan(v release.Version) []StageDef {
	cfg := r.cfg
	root := cfg.PackageRoot(v)
	cmake := toolchain.NewCMake(r.runner, cfg.Toolchain.CMake, cfg.Toolchain.BuildConfig)
	deps := depbuild.NewBuilder(cfg, cmake)
	prod := product.NewBuilder(cmake)

	s := NewStages()
	s.Add(StageDef{Name: StageVersionGate, Detail: "refuse " + v.String() + " if already tagged", Fn: r.versionGate})
	s.Add(StageDef{Name: StagePreparePackage, Detail: "create " + root, Fn: r.preparePackage})

	for _, dep := range cfg.Dependencies {
		for _, rev := range dep.Revisions {
			repo := dep.RepositoryFor(rev.Ref)
			s.Add(StageDef{
				Name:   Qualify(StageSyncDependency, dep.Name+"@"+rev.Ref),
				Kind:   StageSyncDependency,
				Detail: fmt.Sprintf("%s %s (%s) into %s", repo.URL, repo.Ref, repo.Policy, cfg.DependencyDir(dep)),
				Fn:     r.syncDependency(dep, repo),
			})
			for _, target := range depbuild.Targets(dep, root) {
				if target.Revision.Ref != rev.Ref {
					continue
				}
				rel, _ := filepath.Rel(root, target.OutputPath)
				s.Add(StageDef{
					Name:   Qualify(StageBuildDependency, target.Cell()),
					Kind:   StageBuildDependency,
					Detail: fmt.Sprintf("cmake -A %s, artifact to %s", target.Architecture.Name, filepath.ToSlash(rel)),
					Fn:     r.buildDependency(deps, dep, target),
				})
			}
		}
	}

	s.Add(StageDef{
		Name:   StageBuildProduct,
		Detail: fmt.Sprintf("cmake %s, %d fragments", cfg.Product.SourceDir, len(cfg.Product.Fragments)),
		Fn:     r.buildProduct(prod),
	})
	s.Add(StageDef{
		Name:   StageSyncDocs,
		Detail: fmt.Sprintf("%s %s (%s)", cfg.Docs.Repository.URL, cfg.Docs.Repository.Ref, cfg.Docs.Repository.Policy),
		Fn:     r.syncDocs,
	})
	s.Add(StageDef{Name: StageGenerateDocs, Detail: "into " + filepath.Join(root, cfg.Docs.OutputDir), Fn: r.generateDocs})
	s.Add(StageDef{Name: StageArchive, Detail: "write " + cfg.ArchivePath(v), Fn: r.archive})
	return s.Build()
}

// Run executes the release of v and returns its report. The error, when set, is a
// *StageError naming the failed stage.
func (r *Release) Run(ctx context.Context, v release.Version) (*Report, error) {
	report := NewReport(v)
	report.PackageRoot = r.cfg.PackageRoot(v)
	report.ArchivePath = r.cfg.ArchivePath(v)

	obs := observers{LogObserver{RunID: report.RunID}, RecorderObserver{Recorder: r.recorder}}
	obs = append(obs, r.observers...)

	rs := &RunState{
		Version:     v,
		PackageRoot: report.PackageRoot,
		ArchivePath: report.ArchivePath,
		Sources:     map[string]string{},
	}
	defer func() {
		if rs.workspace != nil {
			if err := rs.workspace.Cleanup(); err != nil {
				slog.Warn("Failed to release work directory", logfields.Error(err))
			}
		}
	}()

	slog.Info("Starting release", logfields.RunID(report.RunID), logfields.Version(v.String()), logfields.Path(report.PackageRoot))
	err := RunStages(ctx, rs, r.Plan(v), obs, report)
	report.Finish(err)
	obs.OnRunComplete(report)
	return report, err
}

// CheckVersion runs the version gate alone. Nothing is written locally.
func (r *Release) CheckVersion(ctx context.Context, v release.Version) error {
	return r.versionGate(ctx, &RunState{Version: v})
}

// SyncDocs synchronizes the documentation repository and returns its working copy.
func (r *Release) SyncDocs(ctx context.Context) (string, error) {
	return r.sync(ctx, r.cfg.Docs.Repository)
}

// Docs returns the documentation generator used by the generate_docs stage.
func (r *Release) Docs() DocGenerator { return r.docs }

func (r *Release) versionGate(ctx context.Context, rs *RunState) error {
	url := r.cfg.Product.RemoteURL
	if url == "" {
		resolved, err := r.remote(r.cfg.Product.SourceDir, r.cfg.Product.Remote)
		if err != nil {
			return err
		}
		url = resolved
	}
	return release.NewGate(r.tags, url).Check(ctx, rs.Version)
}

func (r *Release) preparePackage(_ context.Context, rs *RunState) error {
	ws := workspace.NewPersistentManager(r.cfg.WorkDir)
	if err := ws.Create(); err != nil {
		return err
	}
	if err := ws.Lock(); err != nil {
		return err
	}
	rs.workspace = ws

	removed, err := packager.Prepare(rs.PackageRoot, r.cfg.Package.ShouldReplaceExisting())
	if err != nil {
		return err
	}
	if removed {
		slog.Warn("Removed previous package tree", logfields.Path(rs.PackageRoot))
	}

	var dirs []string
	for _, dep := range r.cfg.Dependencies {
		dirs = append(dirs, depbuild.SkeletonDirs(dep)...)
	}
	dirs = append(dirs, r.cfg.Docs.OutputDir)
	if err := packager.CreateSkeleton(rs.PackageRoot, dirs); err != nil {
		return err
	}
	slog.Info("Package skeleton created", logfields.Path(rs.PackageRoot), logfields.Count(len(dirs)))
	return nil
}

func (r *Release) syncDependency(dep config.DependencyConfig, repo config.Repository) Stage {
	return func(ctx context.Context, rs *RunState) error {
		path, err := r.sync(ctx, repo)
		if err != nil {
			return err
		}
		rs.Sources[dep.Name] = path
		return nil
	}
}

func (r *Release) buildDependency(b *depbuild.Builder, dep config.DependencyConfig, target release.BuildTarget) Stage {
	return func(ctx context.Context, rs *RunState) error {
		source, ok := rs.Sources[dep.Name]
		if !ok {
			source = r.cfg.DependencyDir(dep)
		}
		start := time.Now()
		err := b.Build(ctx, dep, target, source)
		r.recorder.ObserveCompileDuration(target.Cell(), time.Since(start), err == nil)
		return err
	}
}

func (r *Release) buildProduct(b *product.Builder) Stage {
	return func(ctx context.Context, rs *RunState) error {
		start := time.Now()
		err := b.Build(ctx, product.OptionsFrom(r.cfg, rs.Version, rs.PackageRoot))
		r.recorder.ObserveCompileDuration(r.cfg.Package.Name, time.Since(start), err == nil)
		return err
	}
}

func (r *Release) syncDocs(ctx context.Context, rs *RunState) error {
	path, err := r.sync(ctx, r.cfg.Docs.Repository)
	if err != nil {
		return err
	}
	rs.DocsSource = path
	return nil
}

func (r *Release) generateDocs(ctx context.Context, rs *RunState) error {
	source := rs.DocsSource
	if source == "" {
		source = r.cfg.DocsSourceDir()
	}
	res, err := r.docs.Generate(ctx, source, filepath.Join(rs.PackageRoot, r.cfg.Docs.OutputDir), rs.Version)
	if err != nil {
		return err
	}
	rs.Docs = res
	return nil
}

func (r *Release) archive(_ context.Context, rs *RunState) error {
	stats, err := packager.Archive(rs.PackageRoot, rs.ArchivePath)
	if err != nil {
		return err
	}
	rs.Archive = stats
	entries, err := packager.Entries(rs.ArchivePath)
	if err != nil {
		return err
	}
	slog.Info("Archive written", logfields.Path(rs.ArchivePath), logfields.Count(stats.Files),
		slog.Int("entries", len(entries)), slog.Int64("bytes", stats.Bytes))
	return nil
}

func (r *Release) sync(ctx context.Context, repo config.Repository) (string, error) {
	start := time.Now()
	path, err := r.syncer.Sync(ctx, repo)
	r.recorder.ObserveRepoSyncDuration(repo.Name, time.Since(start), err == nil)
	return path, err
}
