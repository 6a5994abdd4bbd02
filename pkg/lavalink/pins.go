package lavalink

import "github.com/audiolab/coreexp/pkg/releases"

// Pins are the version pins for the managed node: the Lavalink build the node
// runs, the YouTube plugin version injected into its config, and the Java
// majors the build supports. The shipped defaults mirror the build the core
// application was released with; applying a release overrides them.
type Pins struct {
	JarVersion            string
	YTPluginVersion       string
	SupportedJavaVersions []int
}

// DefaultPins returns the pins for the shipped Lavalink build.
func DefaultPins() Pins {
	return Pins{
		JarVersion:            "3.7.11",
		YTPluginVersion:       "1.7.2",
		SupportedJavaVersions: []int{11, 17},
	}
}

// FromRelease returns the pins a release dictates.
func FromRelease(info releases.Info) Pins {
	return Pins{
		JarVersion:            info.JarVersion,
		YTPluginVersion:       info.YTPluginVersion,
		SupportedJavaVersions: info.JavaVersions,
	}
}

// LatestSupportedJava returns the newest supported Java major version.
// SupportedJavaVersions is kept in ascending order.
func (p Pins) LatestSupportedJava() int {
	if len(p.SupportedJavaVersions) == 0 {
		return 0
	}
	return p.SupportedJavaVersions[len(p.SupportedJavaVersions)-1]
}

// OlderSupportedJava returns the supported Java majors other than the newest.
func (p Pins) OlderSupportedJava() []int {
	if len(p.SupportedJavaVersions) == 0 {
		return nil
	}
	return p.SupportedJavaVersions[:len(p.SupportedJavaVersions)-1]
}

// SupportsJava reports whether the given Java major version can run the
// pinned build.
func (p Pins) SupportsJava(major int) bool {
	for _, v := range p.SupportedJavaVersions {
		if v == major {
			return true
		}
	}
	return false
}
