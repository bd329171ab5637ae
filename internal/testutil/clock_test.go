package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_Advances(t *testing.T) {
	c := NewDeterministicClock()

	assert.Equal(t, Epoch, c.Now())
	assert.Equal(t, Epoch.Add(time.Second), c.Now())
	assert.Equal(t, int64(2), c.Readings())
}

func TestDeterministicClock_Reset(t *testing.T) {
	c := NewDeterministicClockAt(Epoch, time.Minute)
	c.Now()
	c.Now()
	c.Reset()

	assert.Equal(t, Epoch, c.Now())
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	c := NewDeterministicClock()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Now()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), c.Readings())
}
