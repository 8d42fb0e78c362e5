package kube

import (
	apiextensionsclientset "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// Conn bundles the API clients for one resolved cluster connection. All
// clients share the same rest.Config and are cheap to copy around; the
// struct is treated as immutable once built.
type Conn struct {
	Clientset  kubernetes.Interface
	Dynamic    dynamic.Interface
	Discovery  discovery.DiscoveryInterface
	Apiext     apiextensionsclientset.Interface
	RestConfig *rest.Config
}

// NewConn constructs the client set for cfg. Failures here mean the
// credentials resolved but clients could not be built from them.
func NewConn(cfg *rest.Config) (*Conn, error) {
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, NewConnectionError(err)
	}
	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, NewConnectionError(err)
	}
	disco, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, NewConnectionError(err)
	}
	apiext, err := apiextensionsclientset.NewForConfig(cfg)
	if err != nil {
		return nil, NewConnectionError(err)
	}
	return &Conn{
		Clientset:  clientset,
		Dynamic:    dyn,
		Discovery:  disco,
		Apiext:     apiext,
		RestConfig: cfg,
	}, nil
}
