package lavalink

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/audiolab/coreexp/pkg/errors"
)

// versionLinePrefix is the line the jar prints when run with --version.
const versionLinePrefix = "Version: "

// ParseVersionOutput extracts the build version from the output of
// `java -jar Lavalink.jar --version`.
func ParseVersionOutput(output []byte) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if version, ok := strings.CutPrefix(line, versionLinePrefix); ok {
			version = strings.TrimSpace(version)
			if version == "" {
				break
			}
			return version, nil
		}
	}
	return "", &errors.ParseError{
		Format:  "version output",
		Source:  "Lavalink.jar",
		Message: "no \"Version:\" line found",
	}
}

// ParseJavaVersionOutput extracts the Java major version from the output of
// `java -version`. Both the legacy 1.x scheme ("1.8.0_292" is major 8) and
// the modern scheme ("17.0.2" is major 17) are handled.
func ParseJavaVersionOutput(output []byte) (int, error) {
	text := string(output)

	start := strings.Index(text, `"`)
	if start < 0 {
		return 0, &errors.ParseError{
			Format:  "version output",
			Source:  "java",
			Message: "no quoted version string found",
		}
	}
	rest := text[start+1:]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return 0, &errors.ParseError{
			Format:  "version output",
			Source:  "java",
			Message: "unterminated version string",
		}
	}

	return parseJavaMajor(rest[:end])
}

func parseJavaMajor(version string) (int, error) {
	parts := strings.SplitN(version, ".", 3)

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.WrapParse("version output", "java", err)
	}

	// Legacy scheme: "1.8.0_292" means Java 8.
	if major == 1 && len(parts) > 1 {
		minor, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, errors.WrapParse("version output", "java", err)
		}
		return minor, nil
	}

	return major, nil
}
