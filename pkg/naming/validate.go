package naming

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/distribution/reference"
	"k8s.io/apimachinery/pkg/util/validation"

	skerrors "github.com/appforge/skelgen/pkg/errors"
)

// DefaultSimilarityDistance is the edit distance under which two application
// names are reported as near duplicates.
const DefaultSimilarityDistance = 2

// ValidateStrict checks that name can be used unchanged as a Helm release
// name, a Kubernetes object name and a container repository name.
func ValidateStrict(name string) error {
	if name == "" {
		return skerrors.New(skerrors.ErrCodeMissingArgument, "application name is required")
	}

	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return skerrors.WrapWithContext(skerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("application name %q is not a valid DNS-1123 label", name),
			fmt.Errorf("%s", strings.Join(errs, "; ")),
			map[string]any{"name": name})
	}

	if _, err := reference.ParseNormalizedNamed(name); err != nil {
		return skerrors.WrapWithContext(skerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("application name %q is not a valid container repository name", name),
			err, map[string]any{"name": name})
	}

	return nil
}

// Similar returns the entries of existing whose edit distance to name is
// between 1 and maxDistance, closest first.
func Similar(name string, existing []string, maxDistance int) []string {
	type match struct {
		name     string
		distance int
	}

	var matches []match
	for _, candidate := range existing {
		d := levenshtein.ComputeDistance(name, candidate)
		if d == 0 || d > maxDistance {
			continue
		}
		matches = append(matches, match{name: candidate, distance: d})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	return out
}
