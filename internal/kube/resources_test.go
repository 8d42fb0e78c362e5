package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextfake "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/fake"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	kubefake "k8s.io/client-go/kubernetes/fake"
	kubescheme "k8s.io/client-go/kubernetes/scheme"
)

// testConn bundles a Client over fake clientsets plus the fakes themselves
// for action assertions.
type testConn struct {
	client    *Client
	clientset *kubefake.Clientset
	dynamic   *dynamicfake.FakeDynamicClient
	apiext    *apiextfake.Clientset
}

func newTestConn(t *testing.T, objects ...runtime.Object) *testConn {
	t.Helper()

	sch := runtime.NewScheme()
	require.NoError(t, kubescheme.AddToScheme(sch))
	require.NoError(t, apiextv1.AddToScheme(sch))

	var typed, custom []runtime.Object
	for _, obj := range objects {
		gvks, _, err := sch.ObjectKinds(obj)
		if err == nil && len(gvks) > 0 {
			typed = append(typed, obj)
		} else {
			custom = append(custom, obj)
		}
	}

	clientset := kubefake.NewSimpleClientset(typed...)
	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(sch,
		map[schema.GroupVersionResource]string{
			{Group: "apps.example.com", Version: "v1", Resource: "widgets"}: "WidgetList",
			{Group: "apps.example.com", Version: "v1", Resource: "gadgets"}: "GadgetList",
		},
		append(append([]runtime.Object{}, typed...), custom...)...,
	)
	apiext := apiextfake.NewSimpleClientset()

	conn := &Conn{
		Clientset: clientset,
		Dynamic:   dyn,
		Discovery: clientset.Discovery(),
		Apiext:    apiext,
	}
	return &testConn{
		client:    NewClient(conn, discardLogger()),
		clientset: clientset,
		dynamic:   dyn,
		apiext:    apiext,
	}
}

func TestClientList(t *testing.T) {
	ctx := context.Background()

	t.Run("namespace narrows a namespaced list", func(t *testing.T) {
		tc := newTestConn(t,
			mockPod("web-app-1", "default", "web", "nginx:1.25", "Running"),
			mockPod("db-0", "production", "db", "postgres:16", "Running"),
		)

		items, err := tc.client.List(ctx, "Pods", "default")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "web-app-1", items[0].GetName())
	})

	t.Run("missing namespace lists across all namespaces", func(t *testing.T) {
		tc := newTestConn(t,
			mockPod("web-app-1", "default", "web", "nginx:1.25", "Running"),
			mockPod("db-0", "production", "db", "postgres:16", "Running"),
		)

		items, err := tc.client.List(ctx, "Pods", "")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("cluster scoped list ignores the namespace argument", func(t *testing.T) {
		tc := newTestConn(t, mockNode("node-1", true), mockNode("node-2", false))

		items, err := tc.client.List(ctx, "Nodes", "default")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("unknown kind yields an empty list without touching the API", func(t *testing.T) {
		tc := newTestConn(t)

		items, err := tc.client.List(ctx, "Gizmos", "")
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Empty(t, tc.dynamic.Actions())
	})

	t.Run("custom resource token lists dynamically", func(t *testing.T) {
		tc := newTestConn(t, mockWidget("widget-alpha", "default"), mockWidget("widget-beta", "production"))

		all, err := tc.client.List(ctx, "cr:apps.example.com/v1/widgets/Namespaced", "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		scoped, err := tc.client.List(ctx, "cr:apps.example.com/v1/widgets/Namespaced", "production")
		require.NoError(t, err)
		require.Len(t, scoped, 1)
		assert.Equal(t, "widget-beta", scoped[0].GetName())
	})

	t.Run("malformed custom resource token is a bad request", func(t *testing.T) {
		tc := newTestConn(t)

		_, err := tc.client.List(ctx, "cr:apps.example.com/v1", "")
		require.Error(t, err)
		assert.True(t, apierrors.IsBadRequest(err))
	})
}

func TestClientGet(t *testing.T) {
	ctx := context.Background()

	t.Run("namespaced get without namespace fails before any API call", func(t *testing.T) {
		tc := newTestConn(t, mockPod("web-app-1", "default", "web", "nginx:1.25", "Running"))

		_, err := tc.client.Get(ctx, "Pod", "web-app-1", "")
		require.Error(t, err)
		assert.True(t, apierrors.IsBadRequest(err))
		assert.Contains(t, err.Error(), "Pod")
		assert.Empty(t, tc.dynamic.Actions())
	})

	t.Run("namespaced get with namespace succeeds", func(t *testing.T) {
		tc := newTestConn(t, mockPod("web-app-1", "default", "web", "nginx:1.25", "Running"))

		obj, err := tc.client.Get(ctx, "Pod", "web-app-1", "default")
		require.NoError(t, err)
		assert.Equal(t, "web-app-1", obj.GetName())
	})

	t.Run("cluster scoped get works without namespace", func(t *testing.T) {
		tc := newTestConn(t, mockNode("node-1", true))

		obj, err := tc.client.Get(ctx, "Node", "node-1", "")
		require.NoError(t, err)
		assert.Equal(t, "node-1", obj.GetName())
	})

	t.Run("missing object is not found", func(t *testing.T) {
		tc := newTestConn(t)

		_, err := tc.client.Get(ctx, "Pod", "ghost", "default")
		require.Error(t, err)
		assert.True(t, apierrors.IsNotFound(err))
	})

	t.Run("unknown kind is a bad request", func(t *testing.T) {
		tc := newTestConn(t)

		_, err := tc.client.Get(ctx, "Gizmo", "x", "default")
		require.Error(t, err)
		assert.True(t, apierrors.IsBadRequest(err))
	})

	t.Run("namespaced custom resource get requires a namespace", func(t *testing.T) {
		tc := newTestConn(t, mockWidget("widget-alpha", "default"))

		_, err := tc.client.Get(ctx, "cr:apps.example.com/v1/widgets/Namespaced", "widget-alpha", "")
		require.Error(t, err)
		assert.True(t, apierrors.IsBadRequest(err))

		obj, err := tc.client.Get(ctx, "cr:apps.example.com/v1/widgets/Namespaced", "widget-alpha", "default")
		require.NoError(t, err)
		assert.Equal(t, "widget-alpha", obj.GetName())
	})
}

func TestClientDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete removes the object", func(t *testing.T) {
		tc := newTestConn(t, mockPod("web-app-1", "default", "web", "nginx:1.25", "Running"))

		require.NoError(t, tc.client.Delete(ctx, "Pod", "web-app-1", "default"))

		_, err := tc.client.Get(ctx, "Pod", "web-app-1", "default")
		assert.True(t, apierrors.IsNotFound(err))
	})

	t.Run("namespaced delete without namespace is rejected", func(t *testing.T) {
		tc := newTestConn(t, mockPod("web-app-1", "default", "web", "nginx:1.25", "Running"))

		err := tc.client.Delete(ctx, "Pod", "web-app-1", "")
		require.Error(t, err)
		assert.True(t, apierrors.IsBadRequest(err))

		// The object is still there.
		_, err = tc.client.Get(ctx, "Pod", "web-app-1", "default")
		assert.NoError(t, err)
	})

	t.Run("unknown kind is a bad request naming the kind", func(t *testing.T) {
		tc := newTestConn(t)

		err := tc.client.Delete(ctx, "Gizmo", "x", "default")
		require.Error(t, err)
		assert.True(t, apierrors.IsBadRequest(err))
		assert.Contains(t, err.Error(), "Gizmo")
	})
}

func TestMarshalItems(t *testing.T) {
	tc := newTestConn(t,
		mockPod("web-app-1", "default", "web", "nginx:1.25", "Running"),
		mockPod("web-app-2", "default", "web", "nginx:1.25", "Running"),
	)

	items, err := tc.client.List(context.Background(), "Pods", "default")
	require.NoError(t, err)

	raw := MarshalItems(discardLogger(), items)
	require.Len(t, raw, len(items))
	for _, msg := range raw {
		assert.Contains(t, string(msg), `"kind":"Pod"`)
	}
}
