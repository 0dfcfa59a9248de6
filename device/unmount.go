// ABOUTME: Device unmounting via the host volume-ejection command
// ABOUTME: Treats the command as opaque; failures are reported, not retried

package device

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Unmount requests the operating system eject the volume at mount. A failed
// unmount does not reverse prior file operations; the caller reports it and
// moves on.
func Unmount(ctx context.Context, mount string) error {
	args := unmountArgs(runtime.GOOS, mount)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("unmount of %s failed: %v: %s", mount, err, detail)
		}

		return fmt.Errorf("unmount of %s failed: %w", mount, err)
	}

	return nil
}

// unmountArgs returns the ejection command line for the platform
func unmountArgs(goos, mount string) []string {
	if goos == "darwin" {
		return []string{"diskutil", "unmount", mount}
	}

	return []string{"umount", mount}
}
