package config

import "github.com/underrout/callisto-release/internal/foundation/normalization"

// SyncPolicy tells RepoSync how to treat a repository reference.
type SyncPolicy string

const (
	// PolicyPinned checks out an immutable tag (detached HEAD).
	PolicyPinned SyncPolicy = "pinned"
	// PolicyFloating tracks a moving branch and hard-resets to the remote tip on every sync.
	PolicyFloating SyncPolicy = "floating"
)

// "tag" and "branch" are accepted as aliases.
var syncPolicies = normalization.NewNormalizer(map[string]SyncPolicy{
	"pinned":   PolicyPinned,
	"tag":      PolicyPinned,
	"floating": PolicyFloating,
	"branch":   PolicyFloating,
})

// NormalizeSyncPolicy case-folds a policy string and returns "" when unknown.
func NormalizeSyncPolicy(raw string) SyncPolicy {
	return syncPolicies.Normalize(raw, "")
}

// Repository is one repository to synchronize into the work directory.
type Repository struct {
	// Name is the folder under work_dir.
	Name   string      `yaml:"name"`
	URL    string      `yaml:"url"`
	Ref    string      `yaml:"ref"`
	Policy SyncPolicy  `yaml:"policy"`
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// RepositoryFor returns the sync request for one revision of a dependency.
func (d DependencyConfig) RepositoryFor(ref string) Repository {
	return Repository{Name: d.Folder, URL: d.URL, Ref: ref, Policy: d.Policy, Auth: d.Auth}
}
