package llupdates

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfirmApply warns that applying a release restarts the node and asks for
// confirmation. Returns true when the user confirms to proceed, false when
// cancelled.
func ConfirmApply(out io.Writer, isQuiet, autoApprove bool) (bool, error) {
	if !isQuiet {
		fmt.Fprintf(os.Stderr, "⚠️  WARNING: applying a release restarts the managed node and interrupts any audio it is playing.\n")
	}

	if autoApprove {
		return true, nil
	}

	fmt.Fprintf(out, "\nApply this release? (y/N): ")
	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		response = "n"
	}
	response = strings.ToLower(strings.TrimSpace(response))

	if response != "y" && response != "yes" {
		fmt.Fprintln(out, "Update cancelled")
		return false, nil
	}

	fmt.Fprintln(out)
	return true, nil
}
