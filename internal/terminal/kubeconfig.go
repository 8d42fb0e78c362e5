// Package terminal manages interactive shell sessions scoped to a cluster
// context via temporary credential files.
package terminal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/kubedeck/kubedeck/internal/kube"
)

// WriteTempKubeconfig materializes a kubeconfig whose current context is
// pinned to contextName, readable only by the owner. The caller removes the
// file when the session ends.
func WriteTempKubeconfig(contextName, kubeconfigPath string) (string, error) {
	cfg, err := kube.LoadRawKubeconfig(kubeconfigPath)
	if err != nil {
		return "", err
	}
	if _, ok := cfg.Contexts[contextName]; !ok {
		return "", fmt.Errorf("context %q not found in kubeconfig", contextName)
	}
	cfg.CurrentContext = contextName

	path := filepath.Join(os.TempDir(), "kubedeck-kubeconfig-"+uuid.NewString())
	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		return "", fmt.Errorf("writing temp kubeconfig: %w", err)
	}
	// Credential files must never be group or world readable.
	if err := os.Chmod(path, 0o600); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("restricting temp kubeconfig permissions: %w", err)
	}
	return path, nil
}
