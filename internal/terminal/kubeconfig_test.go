package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

func writeKubeconfig(t *testing.T, current string, contexts ...string) string {
	t.Helper()
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["test-cluster"] = &clientcmdapi.Cluster{Server: "https://kubernetes.example.com:6443"}
	cfg.AuthInfos["test-user"] = &clientcmdapi.AuthInfo{Token: "test-token"}
	for _, name := range contexts {
		cfg.Contexts[name] = &clientcmdapi.Context{Cluster: "test-cluster", AuthInfo: "test-user"}
	}
	cfg.CurrentContext = current

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, clientcmd.WriteToFile(*cfg, path))
	return path
}

func TestWriteTempKubeconfig(t *testing.T) {
	t.Run("pins the current context and restricts permissions", func(t *testing.T) {
		src := writeKubeconfig(t, "staging", "staging", "production")

		path, err := WriteTempKubeconfig("production", src)
		require.NoError(t, err)
		defer os.Remove(path)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		cfg, err := clientcmd.LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.CurrentContext)
		assert.Contains(t, cfg.Contexts, "production")
	})

	t.Run("unknown context is rejected", func(t *testing.T) {
		src := writeKubeconfig(t, "staging", "staging")

		_, err := WriteTempKubeconfig("ghost", src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("each call produces a distinct file", func(t *testing.T) {
		src := writeKubeconfig(t, "staging", "staging")

		a, err := WriteTempKubeconfig("staging", src)
		require.NoError(t, err)
		defer os.Remove(a)
		b, err := WriteTempKubeconfig("staging", src)
		require.NoError(t, err)
		defer os.Remove(b)

		assert.NotEqual(t, a, b)
	})
}
