package specifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func isEven(n int) bool { return n%2 == 0 }
func isPositive(n int) bool { return n > 0 }

func TestBaseSpecification_IsSatisfiedBy(t *testing.T) {
	spec := NewBaseSpecification(isEven)
	assert.True(t, spec.IsSatisfiedBy(4))
	assert.False(t, spec.IsSatisfiedBy(3))
}

func TestAndSpecification(t *testing.T) {
	even := NewBaseSpecification(isEven)
	positive := NewBaseSpecification(isPositive)
	both := even.And(positive)

	assert.True(t, both.IsSatisfiedBy(4))
	assert.False(t, both.IsSatisfiedBy(-4))
	assert.False(t, both.IsSatisfiedBy(3))
}

func TestOrSpecification(t *testing.T) {
	even := NewBaseSpecification(isEven)
	positive := NewBaseSpecification(isPositive)
	either := even.Or(positive)

	assert.True(t, either.IsSatisfiedBy(4))
	assert.True(t, either.IsSatisfiedBy(-4))
	assert.True(t, either.IsSatisfiedBy(3))
	assert.False(t, either.IsSatisfiedBy(-3))
}

func TestNotSpecification(t *testing.T) {
	even := NewBaseSpecification(isEven)
	odd := even.Not()

	assert.True(t, odd.IsSatisfiedBy(3))
	assert.False(t, odd.IsSatisfiedBy(4))

	// Double negation cancels out back to the original specification.
	doubled := odd.Not()
	assert.True(t, doubled.IsSatisfiedBy(4))
}

func TestSpecification_Composition(t *testing.T) {
	even := NewBaseSpecification(isEven)
	positive := NewBaseSpecification(isPositive)

	// (even AND positive) OR NOT positive
	spec := even.And(positive).Or(positive.Not())

	assert.True(t, spec.IsSatisfiedBy(4))  // even and positive
	assert.True(t, spec.IsSatisfiedBy(-3)) // not positive
	assert.False(t, spec.IsSatisfiedBy(3)) // odd and positive
}
