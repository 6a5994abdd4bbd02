package lavalink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeepMerge_NestedMaps(t *testing.T) {
	dst := map[string]any{
		"server": map[string]any{
			"address": "localhost",
			"port":    2333,
		},
	}
	src := map[string]any{
		"server": map[string]any{
			"port": 2444,
		},
	}

	DeepMerge(dst, src)

	server := dst["server"].(map[string]any)
	assert.Equal(t, "localhost", server["address"])
	assert.Equal(t, 2444, server["port"])
}

func TestDeepMerge_ScalarReplacesMap(t *testing.T) {
	dst := map[string]any{"sources": map[string]any{"youtube": true}}
	src := map[string]any{"sources": "none"}

	DeepMerge(dst, src)
	assert.Equal(t, "none", dst["sources"])
}

func TestDeepMerge_CopiesSource(t *testing.T) {
	src := map[string]any{
		"lavalink": map[string]any{
			"server": map[string]any{"password": "secret"},
		},
	}
	dst := map[string]any{}

	DeepMerge(dst, src)

	// Mutating the merged result must not reach back into src.
	dst["lavalink"].(map[string]any)["server"].(map[string]any)["password"] = "changed"
	assert.Equal(t, "secret", src["lavalink"].(map[string]any)["server"].(map[string]any)["password"])
}

func TestDeepMerge_NewKeys(t *testing.T) {
	dst := map[string]any{"a": 1}
	DeepMerge(dst, map[string]any{"b": []any{"x", "y"}})

	assert.Equal(t, 1, dst["a"])
	assert.Equal(t, []any{"x", "y"}, dst["b"])
}
