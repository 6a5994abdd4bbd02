package llupdates

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/audiolab/coreexp/pkg/releases"
)

// printRelease writes a human-readable summary of a release entry.
func printRelease(out io.Writer, info releases.Info) {
	fmt.Fprintf(out, "Release %s is available:\n", info.ReleaseName)
	fmt.Fprintf(out, "  Lavalink:       %s\n", info.JarVersion)
	fmt.Fprintf(out, "  YouTube plugin: %s\n", info.YTPluginVersion)
	fmt.Fprintf(out, "  Java:           %s\n", formatJavaVersions(info.JavaVersions))
	fmt.Fprintf(out, "  Stream:         %s\n", info.Stream)
}

// formatJavaVersions renders a supported Java major version list.
func formatJavaVersions(versions []int) string {
	parts := make([]string, 0, len(versions))
	for _, v := range versions {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ", ")
}
