package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqDedup(t *testing.T) {
	d := newSeqDedup()

	assert.False(t, d.isDuplicate(1))
	assert.True(t, d.isDuplicate(1))
	assert.False(t, d.isDuplicate(2))
	assert.True(t, d.isDuplicate(1))
	assert.True(t, d.isDuplicate(2))
}

func TestSeqDedupEviction(t *testing.T) {
	d := newSeqDedup()

	for seq := uint32(1); seq <= 600; seq++ {
		assert.False(t, d.isDuplicate(seq))
	}

	// Old entries fall out of the ring and are forgotten.
	assert.False(t, d.isDuplicate(1))
	// Recent ones are still tracked.
	assert.True(t, d.isDuplicate(600))
}
