package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSampleRate(t *testing.T) {
	assert.Equal(t, 0.1, defaultSampleRate("production"))
	assert.Equal(t, 1.0, defaultSampleRate("development"))
	assert.Equal(t, 1.0, defaultSampleRate(""))
}
