package pypi

import (
	"regexp"

	"github.com/mirrorlab/mirrorsnap/pkg/pyver"
)

// filenameRE matches artifact filenames of the shape
// <name>-<version>[-<build tags>].<extension>. The version must start
// with a digit; wheel filenames carry python/abi/platform tags between
// the version and the extension. Package names containing hyphens do not
// match, which downstream treats as "cannot filter this package".
var filenameRE = regexp.MustCompile(`^\w+-(\d[\w.!+]*?)(?:-[\w.+-]*)?\.(?:tar\.gz|tar\.bz2|zip|whl|exe|egg)$`)

// versionFromFilename extracts the version encoded in an artifact
// filename. The second return is false when the filename does not follow
// the convention or the version text does not parse; that is an expected
// condition, not an error.
func versionFromFilename(filename string) (pyver.Version, bool) {
	m := filenameRE.FindStringSubmatch(filename)
	if m == nil {
		return pyver.Version{}, false
	}
	v, err := pyver.Parse(m[1])
	if err != nil {
		return pyver.Version{}, false
	}
	return v, true
}
