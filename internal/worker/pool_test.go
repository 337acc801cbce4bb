package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_RunsEverythingBeforeStop(t *testing.T) {
	p := NewPool(4)
	var n atomic.Int64
	for i := 0; i < 500; i++ {
		assert.True(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	assert.Equal(t, int64(500), n.Load())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1)
	p.Stop()
	assert.False(t, p.Submit(func() { t.Error("must not run") }))
	p.Stop() // idempotent
}
