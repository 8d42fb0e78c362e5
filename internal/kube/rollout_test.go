package kube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	clienttesting "k8s.io/client-go/testing"
)

func TestRolloutRestartDeployment(t *testing.T) {
	ctx := context.Background()

	t.Run("patches the restart annotation on the pod template", func(t *testing.T) {
		tc := newTestConn(t, mockDeployment("web-app", "default", "web", 2))

		require.NoError(t, tc.client.RolloutRestartDeployment(ctx, "web-app", "default"))

		var patch clienttesting.PatchAction
		for _, action := range tc.clientset.Actions() {
			if p, ok := action.(clienttesting.PatchAction); ok {
				patch = p
			}
		}
		require.NotNil(t, patch)
		assert.Equal(t, types.StrategicMergePatchType, patch.GetPatchType())
		assert.Equal(t, "web-app", patch.GetName())
		assert.Contains(t, string(patch.GetPatch()), restartedAtAnnotation)

		updated, err := tc.clientset.AppsV1().Deployments("default").Get(ctx, "web-app", metav1.GetOptions{})
		require.NoError(t, err)
		stamp := updated.Spec.Template.Annotations[restartedAtAnnotation]
		require.NotEmpty(t, stamp)
		parsed, err := time.Parse(time.RFC3339, stamp)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
	})

	t.Run("missing namespace is rejected", func(t *testing.T) {
		tc := newTestConn(t)

		err := tc.client.RolloutRestartDeployment(ctx, "web-app", "")
		require.Error(t, err)
		assert.True(t, IsBadRequest(err))
		assert.Empty(t, tc.clientset.Actions())
	})

	t.Run("missing deployment surfaces not found", func(t *testing.T) {
		tc := newTestConn(t)

		err := tc.client.RolloutRestartDeployment(ctx, "ghost", "default")
		require.Error(t, err)
	})
}
