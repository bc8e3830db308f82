package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/imamik/storagelab/internal/platform/ssh"
	"github.com/imamik/storagelab/internal/provisioning"
)

// ProbeFileName is written to every mount point to check it is writable.
const ProbeFileName = "prueba.txt"

// instanceID returns the instance created earlier in the workflow, or the
// configured one.
func instanceID(ctx *provisioning.Context) (string, error) {
	if ctx.State.Instance != nil && ctx.State.Instance.ID != "" {
		return ctx.State.Instance.ID, nil
	}
	if err := ctx.Config.RequireInstanceID(); err != nil {
		return "", err
	}
	return ctx.Config.Instance.ID, nil
}

// mount runs script on the instance, writes the probe file under mountPoint
// and records what was read back.
func mount(ctx *provisioning.Context, phase, instanceID, mountPoint string, script []string) error {
	host := ctx.State.PublicIP
	if host == "" {
		ip, err := ctx.Compute.PublicIP(ctx, instanceID, ctx.Config.Instance.IP)
		if err != nil {
			return fmt.Errorf("failed to get public address of %s: %w", instanceID, err)
		}
		host = ip
	}

	shell, err := ctx.OpenShell(host)
	if err != nil {
		return fmt.Errorf("failed to open shell on %s: %w", host, err)
	}

	ctx.Observer.Printf("[%s] mounting %s on %s", phase, mountPoint, host)
	if _, err := shell.RunScript(ctx, script); err != nil {
		return fmt.Errorf("failed to mount %s: %w", mountPoint, err)
	}

	content := fmt.Sprintf("storagelab %s probe %s", phase, time.Now().UTC().Format(time.RFC3339))
	results, err := shell.RunScript(ctx, ssh.WriteProbeFileScript(path.Join(mountPoint, ProbeFileName), content))
	if err != nil {
		return fmt.Errorf("failed to write probe file on %s: %w", mountPoint, err)
	}
	readBack := strings.TrimSpace(results[len(results)-1].Output)
	if readBack != content {
		return fmt.Errorf("probe file on %s reads %q, want %q", mountPoint, readBack, content)
	}

	ctx.State.AddMount(mountPoint, readBack)
	ctx.Observer.Printf("[%s] %s mounted and writable", phase, mountPoint)
	return nil
}
