// Package pyver parses and orders Python package version numbers.
//
// It covers the PEP 440 public version scheme: optional epoch, dotted
// release, pre-release (a/b/rc), post-release, dev-release and local
// segments. Versions form a total order, so artifact filenames from a
// package listing can be sorted newest-first and grouped by release.
package pyver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRE follows the PEP 440 grammar, including the spelling variants
// (alpha, beta, c, pre, preview, rev, r) that normalize onto a/b/rc/post.
var versionRE = regexp.MustCompile(`^v?` +
	`(?:(\d+)!)?` + // 1: epoch
	`(\d+(?:\.\d+)*)` + // 2: release
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d*))?` + // 3, 4: pre phase and number
	`(?:(?:-(\d+))|(?:[-_.]?(post|rev|r)[-_.]?(\d*)))?` + // 5: bare post, 6, 7: spelled post
	`(?:[-_.]?(dev)[-_.]?(\d*))?` + // 8, 9: dev
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`) // 10: local

// Pre is a pre-release segment such as a1, b2 or rc3.
type Pre struct {
	// Rank orders the pre-release phases: 0 for a, 1 for b, 2 for rc.
	Rank int
	N    int
}

// Version is a parsed version number. The zero value is not valid; use
// Parse or MustParse.
type Version struct {
	Epoch   int
	Release []int
	Pre     *Pre
	Post    *int
	Dev     *int
	Local   string

	orig string
}

// Parse parses s as a version number. Leading/trailing whitespace and a
// leading "v" are tolerated; comparisons are case-insensitive.
func Parse(s string) (Version, error) {
	orig := s
	s = strings.ToLower(strings.TrimSpace(s))
	m := versionRE.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", orig)
	}

	v := Version{orig: orig}
	if m[1] != "" {
		v.Epoch = mustInt(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		v.Release = append(v.Release, mustInt(part))
	}
	if m[3] != "" {
		v.Pre = &Pre{Rank: preRank(m[3]), N: optInt(m[4])}
	}
	switch {
	case m[5] != "":
		n := mustInt(m[5])
		v.Post = &n
	case m[6] != "":
		n := optInt(m[7])
		v.Post = &n
	}
	if m[8] != "" {
		n := optInt(m[9])
		v.Dev = &n
	}
	v.Local = m[10]
	return v, nil
}

// MustParse is Parse for known-good input; it panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Sprintf("pyver: digits %q overflow int", s))
	}
	return n
}

func optInt(s string) int {
	if s == "" {
		return 0
	}
	return mustInt(s)
}

func preRank(phase string) int {
	switch phase {
	case "a", "alpha":
		return 0
	case "b", "beta":
		return 1
	default: // c, rc, pre, preview
		return 2
	}
}

// Stable reports whether v is a stable release: no pre-release and no
// dev-release segment. Post releases of a final version count as stable.
func (v Version) Stable() bool {
	return v.Pre == nil && v.Dev == nil
}

// String returns the version as it was written.
func (v Version) String() string {
	if v.orig != "" {
		return v.orig
	}
	parts := make([]string, len(v.Release))
	for i, r := range v.Release {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ".")
}

// Compare orders v against w, returning -1, 0 or +1. The ordering is the
// PEP 440 one: dev releases sort before pre-releases of the same version,
// pre-releases before the final release, post releases after it. Local
// segments break ties last, absent sorting lowest.
func (v Version) Compare(w Version) int {
	if c := cmpInt(v.Epoch, w.Epoch); c != 0 {
		return c
	}
	if c := cmpRelease(v.Release, w.Release); c != 0 {
		return c
	}
	if c := cmpKey(v.preKey(), w.preKey()); c != 0 {
		return c
	}
	if c := cmpKey(v.postKey(), w.postKey()); c != 0 {
		return c
	}
	if c := cmpKey(v.devKey(), w.devKey()); c != 0 {
		return c
	}
	return cmpLocal(v.Local, w.Local)
}

// Equal reports whether v and w denote the same version.
func (v Version) Equal(w Version) bool { return v.Compare(w) == 0 }

// Less reports whether v orders strictly before w.
func (v Version) Less(w Version) bool { return v.Compare(w) < 0 }

// The three-slot keys encode PEP 440's infinities: slot zero is the
// class (-1 below any real segment, 0 a real segment, +1 above all).

func (v Version) preKey() [3]int {
	switch {
	case v.Pre == nil && v.Post == nil && v.Dev != nil:
		return [3]int{-1, 0, 0} // 1.0.dev1 sorts before 1.0a1
	case v.Pre == nil:
		return [3]int{1, 0, 0} // 1.0 and 1.0.post1 sort after 1.0rc1
	default:
		return [3]int{0, v.Pre.Rank, v.Pre.N}
	}
}

func (v Version) postKey() [3]int {
	if v.Post == nil {
		return [3]int{-1, 0, 0}
	}
	return [3]int{0, *v.Post, 0}
}

func (v Version) devKey() [3]int {
	if v.Dev == nil {
		return [3]int{1, 0, 0} // 1.0a1.dev1 sorts before 1.0a1
	}
	return [3]int{0, *v.Dev, 0}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpKey(a, b [3]int) int {
	for i := range a {
		if c := cmpInt(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// cmpRelease compares dotted release numbers component-wise, padding the
// shorter one with zeros so that 1.0 equals 1.0.0.
func cmpRelease(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if c := cmpInt(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// cmpLocal compares local version segments. A missing local segment sorts
// lowest; present ones compare pairwise per separator-delimited part, with
// numeric parts ordering after alphanumeric ones.
func cmpLocal(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	as := splitLocal(a)
	bs := splitLocal(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aNum := localInt(as[i])
		bn, bNum := localInt(bs[i])
		switch {
		case aNum && bNum:
			if c := cmpInt(an, bn); c != 0 {
				return c
			}
		case aNum != bNum:
			if aNum {
				return 1
			}
			return -1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return cmpInt(len(as), len(bs))
}

func splitLocal(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
}

func localInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
