package kube

import (
	"fmt"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// ConnectionIdentity keys one cluster connection. Equality is structural;
// two identities with the same fields always map to the same pooled entry.
type ConnectionIdentity struct {
	// Context is the kubeconfig context name. Empty means ambient
	// configuration: in-cluster if available, otherwise the kubeconfig's
	// current context.
	Context string
	// KubeconfigPath overrides the default kubeconfig location when set.
	KubeconfigPath string
}

func (id ConnectionIdentity) String() string {
	if id.KubeconfigPath == "" {
		return id.Context
	}
	return id.Context + "@" + id.KubeconfigPath
}

// loadingRulesFor builds kubeconfig loading rules honoring an explicit path.
func loadingRulesFor(kubeconfigPath string) *clientcmd.ClientConfigLoadingRules {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	return rules
}

// LoadRawKubeconfig loads the merged kubeconfig without resolving a context.
func LoadRawKubeconfig(kubeconfigPath string) (*clientcmdapi.Config, error) {
	cfg, err := loadingRulesFor(kubeconfigPath).Load()
	if err != nil {
		return nil, NewConfigError(err)
	}
	return cfg, nil
}

// ResolveRestConfig turns a connection identity into a rest.Config.
//
// Without a context name it prefers in-cluster configuration and falls back
// to the kubeconfig's current context. With a context name the kubeconfig is
// loaded, the context must exist in it, and the config is scoped to it.
func ResolveRestConfig(id ConnectionIdentity) (*rest.Config, error) {
	if id.Context == "" {
		if cfg, err := rest.InClusterConfig(); err == nil {
			return cfg, nil
		}
		cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			loadingRulesFor(id.KubeconfigPath),
			&clientcmd.ConfigOverrides{},
		).ClientConfig()
		if err != nil {
			return nil, NewConfigError(err)
		}
		return cfg, nil
	}

	raw, err := LoadRawKubeconfig(id.KubeconfigPath)
	if err != nil {
		return nil, err
	}
	if _, ok := raw.Contexts[id.Context]; !ok {
		return nil, NewConfigError(fmt.Errorf("context %q not found in kubeconfig", id.Context))
	}
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRulesFor(id.KubeconfigPath),
		&clientcmd.ConfigOverrides{CurrentContext: id.Context},
	).ClientConfig()
	if err != nil {
		return nil, NewConfigError(err)
	}
	return cfg, nil
}
