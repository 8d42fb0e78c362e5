package kube

import "sort"

// ListKubeContexts returns the context names from the kubeconfig, sorted for
// stable UI rendering.
func ListKubeContexts(kubeconfigPath string) ([]string, error) {
	cfg, err := LoadRawKubeconfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
