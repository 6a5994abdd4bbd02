package lavalink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolab/coreexp/pkg/releases"
)

func TestDefaultPins(t *testing.T) {
	pins := DefaultPins()
	assert.NotEmpty(t, pins.JarVersion)
	assert.NotEmpty(t, pins.SupportedJavaVersions)
}

func TestFromRelease(t *testing.T) {
	info := releases.Info{
		JarVersion:      "4.0.8",
		YTPluginVersion: "1.8.3",
		JavaVersions:    []int{17, 21},
	}

	pins := FromRelease(info)
	assert.Equal(t, "4.0.8", pins.JarVersion)
	assert.Equal(t, "1.8.3", pins.YTPluginVersion)
	require.Equal(t, []int{17, 21}, pins.SupportedJavaVersions)

	assert.Equal(t, 21, pins.LatestSupportedJava())
	assert.Equal(t, []int{17}, pins.OlderSupportedJava())
	assert.True(t, pins.SupportsJava(17))
	assert.False(t, pins.SupportsJava(11))
}

func TestPins_Empty(t *testing.T) {
	var pins Pins
	assert.Equal(t, 0, pins.LatestSupportedJava())
	assert.Nil(t, pins.OlderSupportedJava())
	assert.False(t, pins.SupportsJava(17))
}
