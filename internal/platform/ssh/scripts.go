package ssh

import (
	"fmt"
	"strings"
)

// DeviceName maps the device name used when attaching a volume (/dev/sdf)
// to the name the kernel exposes on Xen-based instances (/dev/xvdf).
// Other names are returned unchanged.
func DeviceName(attached string) string {
	if rest, ok := strings.CutPrefix(attached, "/dev/sd"); ok {
		return "/dev/xvd" + rest
	}
	return attached
}

// MountVolumeScript formats device as ext4 and mounts it world-writable at
// mountPoint. Formatting destroys any existing data on the device.
func MountVolumeScript(device, mountPoint string) []string {
	return []string{
		fmt.Sprintf("sudo mkfs -t ext4 %s", shellQuote(device)),
		fmt.Sprintf("sudo mkdir -p %s", shellQuote(mountPoint)),
		fmt.Sprintf("sudo mount %s %s", shellQuote(device), shellQuote(mountPoint)),
		fmt.Sprintf("sudo chmod 777 %s", shellQuote(mountPoint)),
	}
}

// MountFileSystemScript installs the EFS mount helper and mounts the file
// system root at mountPoint.
func MountFileSystemScript(fileSystemID, mountPoint string) []string {
	return []string{
		"sudo yum install -y amazon-efs-utils",
		fmt.Sprintf("sudo mkdir -p %s", shellQuote(mountPoint)),
		fmt.Sprintf("sudo mount -t efs %s:/ %s", fileSystemID, shellQuote(mountPoint)),
		fmt.Sprintf("sudo chmod 777 %s", shellQuote(mountPoint)),
	}
}

// WriteProbeFileScript writes content to path and reads it back.
func WriteProbeFileScript(path, content string) []string {
	return []string{
		fmt.Sprintf("echo %s | sudo tee %s > /dev/null", shellQuote(content), shellQuote(path)),
		ReadFileCommand(path),
	}
}

// ReadFileCommand prints the file at path.
func ReadFileCommand(path string) string {
	return "sudo cat " + shellQuote(path)
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
