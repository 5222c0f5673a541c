package release

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// Version is a release version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a dotted-integer version such as "0.2.4". A leading "v" is accepted
// so a tag name can be passed back in.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.Split(raw, ".")
	if raw == "" || len(parts) != 3 {
		return Version{}, invalidVersion(s, "expected MAJOR.MINOR.PATCH")
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" {
			return Version{}, invalidVersion(s, "empty version component")
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return Version{}, invalidVersion(s, fmt.Sprintf("component %q is not a non-negative integer", p))
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, invalidVersion(s, err.Error())
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func invalidVersion(s, reason string) error {
	return errors.ValidationError(fmt.Sprintf("invalid release version %q: %s", s, reason)).
		WithContext("version", s).
		Build()
}

// String returns the canonical form used for tags, directory names and archive names.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Dotted returns the version without the "v" prefix.
func (v Version) Dotted() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Components returns major, minor and patch as decimal strings.
func (v Version) Components() (major, minor, patch string) {
	return strconv.Itoa(v.Major), strconv.Itoa(v.Minor), strconv.Itoa(v.Patch)
}
