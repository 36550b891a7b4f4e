package pyver

import (
	"math/rand"
	"sort"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		epoch   int
		release []int
		pre     *Pre
		post    *int
		dev     *int
		local   string
	}{
		{name: "plain release", input: "1.0.0", release: []int{1, 0, 0}},
		{name: "short release", input: "2.0", release: []int{2, 0}},
		{name: "epoch", input: "2!1.0", epoch: 2, release: []int{1, 0}},
		{name: "release candidate", input: "2.0.0rc1", release: []int{2, 0, 0}, pre: &Pre{Rank: 2, N: 1}},
		{name: "alpha", input: "1.0a12", release: []int{1, 0}, pre: &Pre{Rank: 0, N: 12}},
		{name: "spelled alpha", input: "1.0alpha3", release: []int{1, 0}, pre: &Pre{Rank: 0, N: 3}},
		{name: "beta with separator", input: "1.0.b2", release: []int{1, 0}, pre: &Pre{Rank: 1, N: 2}},
		{name: "preview normalizes to rc", input: "1.0preview4", release: []int{1, 0}, pre: &Pre{Rank: 2, N: 4}},
		{name: "post release", input: "1.0.post2", release: []int{1, 0}, post: intp(2)},
		{name: "implicit post", input: "1.0-3", release: []int{1, 0}, post: intp(3)},
		{name: "rev spelling", input: "1.0.rev4", release: []int{1, 0}, post: intp(4)},
		{name: "dev release", input: "1.0.dev456", release: []int{1, 0}, dev: intp(456)},
		{name: "pre with dev", input: "1.0a2.dev456", release: []int{1, 0}, pre: &Pre{Rank: 0, N: 2}, dev: intp(456)},
		{name: "local segment", input: "1.0+ubuntu.1", release: []int{1, 0}, local: "ubuntu.1"},
		{name: "leading v", input: "v1.2.3", release: []int{1, 2, 3}},
		{name: "uppercase", input: "1.0RC1", release: []int{1, 0}, pre: &Pre{Rank: 2, N: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) should succeed, got error: %v", tt.input, err)
			}
			if v.Epoch != tt.epoch {
				t.Errorf("epoch should be %d, got %d", tt.epoch, v.Epoch)
			}
			if len(v.Release) != len(tt.release) {
				t.Fatalf("release should have %d parts, got %v", len(tt.release), v.Release)
			}
			for i := range tt.release {
				if v.Release[i] != tt.release[i] {
					t.Errorf("release part %d should be %d, got %d", i, tt.release[i], v.Release[i])
				}
			}
			if (v.Pre == nil) != (tt.pre == nil) {
				t.Fatalf("pre presence should be %v", tt.pre != nil)
			}
			if tt.pre != nil && (v.Pre.Rank != tt.pre.Rank || v.Pre.N != tt.pre.N) {
				t.Errorf("pre should be %+v, got %+v", *tt.pre, *v.Pre)
			}
			if !intpEqual(v.Post, tt.post) {
				t.Errorf("post should be %v, got %v", fmtIntp(tt.post), fmtIntp(v.Post))
			}
			if !intpEqual(v.Dev, tt.dev) {
				t.Errorf("dev should be %v, got %v", fmtIntp(tt.dev), fmtIntp(v.Dev))
			}
			if v.Local != tt.local {
				t.Errorf("local should be %q, got %q", tt.local, v.Local)
			}
			if v.String() != tt.input {
				t.Errorf("String should return the original text %q, got %q", tt.input, v.String())
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{
		"",
		"banana",
		"1.0.0.linux",
		"1.0-abc",
		"os.path",
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) should fail", input)
		}
	}
}

// TestCompareOrdering walks the ordered chain from the PEP 440 examples and
// checks every adjacent pair, then re-sorts a shuffled copy.
func TestCompareOrdering(t *testing.T) {
	ordered := []string{
		"1.0.dev456",
		"1.0a1",
		"1.0a2.dev456",
		"1.0a12.dev456",
		"1.0a12",
		"1.0b1.dev456",
		"1.0b2",
		"1.0b2.post345.dev456",
		"1.0b2.post345",
		"1.0rc1.dev456",
		"1.0rc1",
		"1.0",
		"1.0+abc.5",
		"1.0+abc.7",
		"1.0+5",
		"1.0.post456.dev34",
		"1.0.post456",
		"1.1.dev1",
		"1!0.5",
	}

	versions := make([]Version, len(ordered))
	for i, s := range ordered {
		versions[i] = MustParse(s)
	}
	for i := 1; i < len(versions); i++ {
		if !versions[i-1].Less(versions[i]) {
			t.Errorf("%s should order before %s", ordered[i-1], ordered[i])
		}
		if versions[i].Less(versions[i-1]) {
			t.Errorf("%s should not order before %s", ordered[i], ordered[i-1])
		}
	}

	shuffled := make([]Version, len(versions))
	copy(shuffled, versions)
	rand.New(rand.NewSource(1)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	sort.Slice(shuffled, func(i, j int) bool { return shuffled[i].Less(shuffled[j]) })
	for i := range shuffled {
		if shuffled[i].String() != ordered[i] {
			t.Fatalf("sorted position %d should be %s, got %s", i, ordered[i], shuffled[i])
		}
	}
}

func TestEqualSpellings(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"1.0", "1.0.0"},
		{"1.0.post1", "1.0-1"},
		{"1.0.post1", "1.0.rev1"},
		{"1.0rc1", "1.0.c1"},
		{"1.0a2", "1.0alpha2"},
		{"1.0RC1", "1.0rc1"},
		{"v1.0", "1.0"},
	}
	for _, tt := range tests {
		if !MustParse(tt.a).Equal(MustParse(tt.b)) {
			t.Errorf("%s should equal %s", tt.a, tt.b)
		}
	}
}

func TestStable(t *testing.T) {
	stable := []string{"1.0", "1.0.0", "1.0.post1", "2!1.0", "1.0+local.1"}
	unstable := []string{"1.0rc1", "1.0a1", "1.0b2", "1.0.dev1", "1.0b2.post3", "1.0.post1.dev2"}

	for _, s := range stable {
		if !MustParse(s).Stable() {
			t.Errorf("%s should be stable", s)
		}
	}
	for _, s := range unstable {
		if MustParse(s).Stable() {
			t.Errorf("%s should not be stable", s)
		}
	}
}

func intp(n int) *int { return &n }

func intpEqual(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func fmtIntp(p *int) any {
	if p == nil {
		return "nil"
	}
	return *p
}
