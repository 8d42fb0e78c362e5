package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func crdFixture(group, kind, plural string, scope apiextv1.ResourceScope, versions ...apiextv1.CustomResourceDefinitionVersion) *apiextv1.CustomResourceDefinition {
	return &apiextv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: plural + "." + group},
		Spec: apiextv1.CustomResourceDefinitionSpec{
			Group:    group,
			Names:    apiextv1.CustomResourceDefinitionNames{Kind: kind, Plural: plural},
			Scope:    scope,
			Versions: versions,
		},
	}
}

func served(name string) apiextv1.CustomResourceDefinitionVersion {
	return apiextv1.CustomResourceDefinitionVersion{Name: name, Served: true}
}

func unserved(name string) apiextv1.CustomResourceDefinitionVersion {
	return apiextv1.CustomResourceDefinitionVersion{Name: name, Served: false}
}

func TestListCrdGroups(t *testing.T) {
	ctx := context.Background()

	t.Run("groups sorted by group, resources sorted by kind", func(t *testing.T) {
		tc := newTestConn(t)
		for _, crd := range []*apiextv1.CustomResourceDefinition{
			crdFixture("zoo.example.com", "Zebra", "zebras", apiextv1.NamespaceScoped, served("v1")),
			crdFixture("apps.example.com", "Widget", "widgets", apiextv1.NamespaceScoped, served("v1")),
			crdFixture("apps.example.com", "Gadget", "gadgets", apiextv1.ClusterScoped, served("v1alpha1")),
		} {
			_, err := tc.apiext.ApiextensionsV1().CustomResourceDefinitions().Create(ctx, crd, metav1.CreateOptions{})
			require.NoError(t, err)
		}

		groups, err := tc.client.ListCrdGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		assert.Equal(t, "apps.example.com", groups[0].Group)
		require.Len(t, groups[0].Resources, 2)
		assert.Equal(t, "Gadget", groups[0].Resources[0].Kind)
		assert.Equal(t, ScopeCluster, groups[0].Resources[0].Scope)
		assert.Equal(t, "Widget", groups[0].Resources[1].Kind)

		assert.Equal(t, "zoo.example.com", groups[1].Group)
	})

	t.Run("first served version wins", func(t *testing.T) {
		tc := newTestConn(t)
		crd := crdFixture("apps.example.com", "Widget", "widgets", apiextv1.NamespaceScoped,
			unserved("v1alpha1"), served("v1beta1"), served("v1"))
		_, err := tc.apiext.ApiextensionsV1().CustomResourceDefinitions().Create(ctx, crd, metav1.CreateOptions{})
		require.NoError(t, err)

		groups, err := tc.client.ListCrdGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Resources, 1)
		assert.Equal(t, "v1beta1", groups[0].Resources[0].Version)
	})

	t.Run("no served version yields an empty version string", func(t *testing.T) {
		tc := newTestConn(t)
		crd := crdFixture("apps.example.com", "Widget", "widgets", apiextv1.NamespaceScoped, unserved("v1"))
		_, err := tc.apiext.ApiextensionsV1().CustomResourceDefinitions().Create(ctx, crd, metav1.CreateOptions{})
		require.NoError(t, err)

		groups, err := tc.client.ListCrdGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "", groups[0].Resources[0].Version)
	})

	t.Run("no definitions yields an empty slice", func(t *testing.T) {
		tc := newTestConn(t)

		groups, err := tc.client.ListCrdGroups(ctx)
		require.NoError(t, err)
		assert.Empty(t, groups)
	})
}
