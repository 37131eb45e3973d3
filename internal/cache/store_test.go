package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"careerlens/internal/cache"
)

func TestKey_OrderIndependent(t *testing.T) {
	a := cache.Key("search", map[string]string{"term": "golang", "location": "Berlin"})
	b := cache.Key("search", map[string]string{"location": "Berlin", "term": "golang"})
	assert.Equal(t, a, b)
}

func TestKey_EmptyValuesDropped(t *testing.T) {
	a := cache.Key("search", map[string]string{"term": "golang", "location": ""})
	b := cache.Key("search", map[string]string{"term": "golang"})
	assert.Equal(t, a, b)
}

func TestKey_TypeChangesKey(t *testing.T) {
	params := map[string]string{"term": "golang"}
	assert.NotEqual(t, cache.Key("search", params), cache.Key("featured", params))
}

func TestKey_ValueChangesKey(t *testing.T) {
	a := cache.Key("search", map[string]string{"term": "golang"})
	b := cache.Key("search", map[string]string{"term": "python"})
	assert.NotEqual(t, a, b)
}
