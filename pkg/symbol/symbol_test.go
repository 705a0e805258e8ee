package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternReturnsSamePointerForSameName(t *testing.T) {
	a := Intern("frobnicate")
	b := Intern("frobnicate")

	assert.Same(t, a, b)
	assert.True(t, Same(a, b))
}

func TestInternDistinguishesDifferentNames(t *testing.T) {
	a := Intern("foo")
	b := Intern("bar")

	assert.False(t, Same(a, b))
	assert.NotEqual(t, a.Name(), b.Name())
}

func TestInternRoundTripsName(t *testing.T) {
	s := Intern("myVariable")

	assert.Equal(t, "myVariable", s.Name())
	assert.Equal(t, "myVariable", s.String())
}

// TestInternBucketsDoNotCollideAcrossNames exercises the hash-bucketed
// intern table with enough distinct names that, were the bucket lookup not
// comparing the actual name after hashing, some of these would alias.
func TestInternBucketsDoNotCollideAcrossNames(t *testing.T) {
	names := []string{
		"a", "b", "c", "alpha", "beta", "gamma", "delta", "epsilon",
		"x1", "x2", "x3", "x4", "x5", "longerIdentifierName",
		"anotherLongerIdentifierName", "_private", "$jquery",
	}

	seen := make(map[string]*Symbol, len(names))
	for _, n := range names {
		seen[n] = Intern(n)
	}
	for _, n := range names {
		assert.Same(t, seen[n], Intern(n), "re-interning %q should return the same symbol", n)
		for _, other := range names {
			if other == n {
				continue
			}
			assert.NotSame(t, seen[n], seen[other])
		}
	}
}

func TestReservedSymbolsAreDistinctAndStable(t *testing.T) {
	assert.True(t, Same(Program, Intern("Program")))
	assert.True(t, Same(Let, Intern("Let")))
	assert.False(t, Same(Let, Const))
	assert.False(t, Same(Program, Block))
}
