package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("user-1")
			counter++
			km.Unlock("user-1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex()

	km.Lock("user-1")
	done := make(chan struct{})
	go func() {
		km.Lock("user-2")
		km.Unlock("user-2")
		close(done)
	}()
	<-done
	km.Unlock("user-1")
}

func TestKeyedMutex_ReusableAfterUnlock(t *testing.T) {
	km := NewKeyedMutex()

	for i := 0; i < 3; i++ {
		km.Lock("key")
		km.Unlock("key")
	}
}
