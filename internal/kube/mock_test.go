package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

func TestMockProvider(t *testing.T) {
	ctx := context.Background()
	provider := NewMockProvider(discardLogger())

	client, err := provider.ClientFor(ctx, "docker-desktop")
	require.NoError(t, err)

	t.Run("lists deterministic fixtures", func(t *testing.T) {
		pods, err := client.List(ctx, "Pods", "default")
		require.NoError(t, err)
		require.NotEmpty(t, pods)
		for _, pod := range pods {
			assert.Equal(t, "default", pod.GetNamespace())
		}

		all, err := client.List(ctx, "Pods", "")
		require.NoError(t, err)
		assert.Greater(t, len(all), len(pods))
	})

	t.Run("enforces the same scope rules as the real provider", func(t *testing.T) {
		_, err := client.Get(ctx, "Pod", "web-app-1", "")
		require.Error(t, err)
		assert.True(t, apierrors.IsBadRequest(err))
	})

	t.Run("detail folds events in", func(t *testing.T) {
		detail, err := client.GetDetail(ctx, "Pod", "web-app-1", "default")
		require.NoError(t, err)
		require.NotEmpty(t, detail.Events)
		for _, ev := range detail.Events {
			assert.Equal(t, "web-app-1", ev.InvolvedObject.Name)
		}
	})

	t.Run("serves custom resources through the token path", func(t *testing.T) {
		widgets, err := client.List(ctx, "cr:apps.example.com/v1/widgets/Namespaced", "default")
		require.NoError(t, err)
		require.Len(t, widgets, 1)
		assert.Equal(t, "widget-alpha", widgets[0].GetName())
	})

	t.Run("serves crd groups", func(t *testing.T) {
		groups, err := client.ListCrdGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, mockCRDGroup, groups[0].Group)
		require.Len(t, groups[0].Resources, 2)
		assert.Equal(t, "Gadget", groups[0].Resources[0].Kind)
		assert.Equal(t, "Widget", groups[0].Resources[1].Kind)
	})

	t.Run("reports cluster stats from fixtures", func(t *testing.T) {
		stats, err := client.ClusterStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalNodes)
		assert.Equal(t, 2, stats.ReadyNodes)
		assert.Equal(t, 5, stats.TotalPods)
		assert.Equal(t, 4, stats.RunningPods)
		assert.Equal(t, 3, stats.NamespaceCount)
		assert.Equal(t, 2, stats.DeploymentCount)
		assert.Equal(t, 1, stats.JobCount)
	})

	t.Run("context list is stable", func(t *testing.T) {
		first, err := provider.KubeContexts()
		require.NoError(t, err)
		second, err := provider.KubeContexts()
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.NotEmpty(t, first)
	})

	t.Run("every context resolves to the same fixture cluster", func(t *testing.T) {
		other, err := provider.ClientFor(ctx, "gke_acme-prod_us-central1_main-cluster")
		require.NoError(t, err)
		assert.Same(t, client.Conn(), other.Conn())
	})
}

func TestUseMockFromEnv(t *testing.T) {
	t.Run("enabled values", func(t *testing.T) {
		for _, v := range []string{"1", "true", "TRUE", "True"} {
			t.Setenv(EnvUseMock, v)
			assert.True(t, UseMockFromEnv(), v)
		}
	})

	t.Run("disabled values", func(t *testing.T) {
		for _, v := range []string{"", "0", "false", "no"} {
			t.Setenv(EnvUseMock, v)
			assert.False(t, UseMockFromEnv(), v)
		}
	})
}

func TestNewProviderSelection(t *testing.T) {
	mock := NewProvider(discardLogger(), true)
	_, ok := mock.(*mockProvider)
	assert.True(t, ok)

	real := NewProvider(discardLogger(), false)
	_, ok = real.(*clusterProvider)
	assert.True(t, ok)
}
