package kube

import (
	"context"
	"log/slog"

	apiextv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextfake "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/fake"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"
	kubescheme "k8s.io/client-go/kubernetes/scheme"
)

// mockProvider serves deterministic fixture data for offline and demo
// operation. It reuses the regular Client over fake clientsets, so scope
// rules, error types and event correlation behave exactly like the real
// provider.
type mockProvider struct {
	client   *Client
	contexts []string
}

// NewMockProvider builds the fixture-backed provider.
func NewMockProvider(logger *slog.Logger) Provider {
	sch := runtime.NewScheme()
	_ = kubescheme.AddToScheme(sch)
	_ = apiextv1.AddToScheme(sch)

	typed := mockTypedObjects()
	clientset := kubefake.NewSimpleClientset(typed...)
	if disco, ok := clientset.Discovery().(*fakediscovery.FakeDiscovery); ok {
		disco.FakedServerVersion = &version.Info{
			Major:      "1",
			Minor:      "29",
			GitVersion: "v1.29.3",
		}
	}

	dynObjects := make([]runtime.Object, 0, len(typed))
	dynObjects = append(dynObjects, typed...)
	dynObjects = append(dynObjects, mockCustomResources()...)
	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(sch,
		map[schema.GroupVersionResource]string{
			{Group: mockCRDGroup, Version: "v1", Resource: "widgets"}: "WidgetList",
			{Group: mockCRDGroup, Version: "v1", Resource: "gadgets"}: "GadgetList",
		},
		dynObjects...,
	)

	apiext := apiextfake.NewSimpleClientset(mockCRDs()...)

	conn := &Conn{
		Clientset: clientset,
		Dynamic:   dyn,
		Discovery: clientset.Discovery(),
		Apiext:    apiext,
	}
	return &mockProvider{
		client: NewClient(conn, logger),
		contexts: []string{
			"arn:aws:eks:eu-west-1:123456789012:cluster/staging",
			"docker-desktop",
			"gke_acme-prod_us-central1_main-cluster",
			"minikube",
		},
	}
}

func (p *mockProvider) ClientFor(_ context.Context, _ string) (*Client, error) {
	return p.client, nil
}

func (p *mockProvider) KubeContexts() ([]string, error) {
	out := make([]string, len(p.contexts))
	copy(out, p.contexts)
	return out, nil
}

func (p *mockProvider) SetKubeconfigPath(string) {}

func (p *mockProvider) KubeconfigPath() string { return "" }

func (p *mockProvider) InvalidateAll() {}
