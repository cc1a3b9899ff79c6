package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 6, 10, 8, 0, 0, 0, time.FixedZone("CST", 8*3600))
	c := NewFixed(at)
	assert.True(t, c.Now().Equal(at))
	assert.Equal(t, time.UTC, c.Now().Location())
}

func TestAdjustable(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	c := NewAdjustable(NewFixed(base))

	assert.True(t, c.Now().Equal(base))

	target := base.Add(33 * time.Hour)
	c.Set(target)
	assert.True(t, c.Now().Equal(target))
	assert.Equal(t, 33*time.Hour, c.Offset())

	c.Reset()
	assert.True(t, c.Now().Equal(base))
	assert.Zero(t, c.Offset())
}
