package kube

import (
	"context"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/kubedeck/kubedeck/internal/logging"
)

// restartedAtAnnotation is the annotation kubectl sets to force a new
// rollout without changing the functional spec.
const restartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// fieldManager identifies this application in managed-field entries.
const fieldManager = "kubedeck"

// RolloutRestartDeployment stamps the pod template with a fresh restart
// annotation via a strategic merge patch, so unrelated annotations are left
// untouched while every pod is recreated.
func (c *Client) RolloutRestartDeployment(ctx context.Context, name, namespace string) error {
	if namespace == "" {
		return ErrNamespaceRequired("Deployment")
	}
	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{%q:%q}}}}}`,
		restartedAtAnnotation,
		time.Now().UTC().Format(time.RFC3339),
	)
	_, err := c.conn.Clientset.AppsV1().Deployments(namespace).Patch(
		ctx,
		name,
		types.StrategicMergePatchType,
		[]byte(patch),
		metav1.PatchOptions{FieldManager: fieldManager},
	)
	if err != nil {
		return err
	}
	c.logger.Info("deployment rollout restarted",
		logging.ResourceName(name),
		logging.Namespace(namespace),
	)
	return nil
}
