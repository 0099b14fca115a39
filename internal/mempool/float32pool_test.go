package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeClass(t *testing.T) {
	assert.Equal(t, 1024, sizeClass(1))
	assert.Equal(t, 1024, sizeClass(1024))
	assert.Equal(t, 2048, sizeClass(1025))
	assert.Equal(t, 3072, sizeClass(2500))
}

func TestGetFloat32Length(t *testing.T) {
	buf := GetFloat32(100)
	assert.Len(t, buf, 100)
	assert.GreaterOrEqual(t, cap(buf), 1024)
	PutFloat32(buf)
}

func TestGetFloat32Reuse(t *testing.T) {
	buf := GetFloat32(2048)
	for i := range buf {
		buf[i] = float32(i)
	}
	PutFloat32(buf)

	// Same size class: the pooled buffer may come back with stale contents,
	// which callers are expected to overwrite fully.
	again := GetFloat32(2000)
	assert.Len(t, again, 2000)
	PutFloat32(again)
}

func TestPutFloat32Nil(t *testing.T) {
	assert.NotPanics(t, func() { PutFloat32(nil) })
}
