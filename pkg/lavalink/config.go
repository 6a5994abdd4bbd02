package lavalink

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
)

// ytPluginRepository is the maven repository the YouTube plugin is served from.
const ytPluginRepository = "https://maven.lavalink.dev/releases"

// ytPluginDependency is the maven coordinate of the YouTube plugin, without
// the version component.
const ytPluginDependency = "dev.lavalink.youtube:youtube-plugin"

// DefaultServerConfig returns the baseline application.yml document for the
// managed node. Release overrides and user settings are merged on top.
func DefaultServerConfig() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"address": "localhost",
			"port":    2333,
		},
		"lavalink": map[string]any{
			"server": map[string]any{
				"password":                "youshallnotpass",
				"bufferDurationMs":        400,
				"frameBufferDurationMs":   1000,
				"playerUpdateInterval":    5,
				"youtubeSearchEnabled":    true,
				"soundcloudSearchEnabled": true,
				"sources": map[string]any{
					"bandcamp":   true,
					"http":       true,
					"local":      true,
					"soundcloud": true,
					"twitch":     true,
					"vimeo":      true,
					"youtube":    false,
				},
			},
		},
		"metrics": map[string]any{
			"prometheus": map[string]any{
				"enabled": false,
			},
		},
		"logging": map[string]any{
			"file": map[string]any{
				"max-history": 15,
			},
			"level": map[string]any{
				"root":     "INFO",
				"lavalink": "INFO",
			},
		},
	}
}

// GenerateConfig produces the application.yml document for the node.
// Layers are merged in order, later layers winning key by key: the built-in
// defaults, then each overrides document (release overrides first, user
// settings last). When pins carries a YouTube plugin version, the plugin
// dependency is injected with that version.
func GenerateConfig(pins Pins, overrides ...map[string]any) map[string]any {
	config := DefaultServerConfig()
	for _, layer := range overrides {
		if layer == nil {
			continue
		}
		DeepMerge(config, layer)
	}

	if pins.YTPluginVersion != "" {
		injectYTPlugin(config, pins.YTPluginVersion)
	}

	return config
}

// injectYTPlugin pins the YouTube plugin dependency in the config document.
// An existing entry for the plugin is replaced so the pinned version wins.
func injectYTPlugin(config map[string]any, version string) {
	section, ok := config["lavalink"].(map[string]any)
	if !ok {
		section = map[string]any{}
		config["lavalink"] = section
	}

	entry := map[string]any{
		"dependency": ytPluginDependency + ":" + version,
		"repository": ytPluginRepository,
	}

	plugins, _ := section["plugins"].([]any)
	for i, raw := range plugins {
		plugin, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if dep, _ := plugin["dependency"].(string); len(dep) >= len(ytPluginDependency) &&
			dep[:len(ytPluginDependency)] == ytPluginDependency {
			plugins[i] = entry
			section["plugins"] = plugins
			return
		}
	}

	section["plugins"] = append(plugins, any(entry))
}

// WriteConfig marshals the config document and writes it atomically to path.
func WriteConfig(path string, config map[string]any) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".application_*.yml")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("move", path, err)
	}
	return nil
}
