package kube

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Cluster providers inferred from the shape of a context name.
const (
	ProviderGKE   = "GKE"
	ProviderEKS   = "EKS"
	ProviderOther = "Other"
)

// ClusterOverview is a read-only snapshot of cluster identity and version,
// computed on demand.
type ClusterOverview struct {
	Provider         string `json:"provider"`
	ProjectOrAccount string `json:"projectOrAccount"`
	Region           string `json:"region"`
	ClusterName      string `json:"clusterName"`
	ClusterVersion   string `json:"clusterVersion"`
}

// ClusterStats are live counts across the whole cluster.
type ClusterStats struct {
	TotalNodes      int `json:"totalNodes"`
	ReadyNodes      int `json:"readyNodes"`
	TotalPods       int `json:"totalPods"`
	RunningPods     int `json:"runningPods"`
	NamespaceCount  int `json:"namespaceCount"`
	DeploymentCount int `json:"deploymentCount"`
	JobCount        int `json:"jobCount"`
}

// ParseContextID infers the cloud provider and cluster coordinates from a
// context name. GKE contexts look like gke_<project>_<region>_<name>, where
// the name may itself contain underscores. EKS contexts are cluster ARNs.
// Anything else is Other with the raw name.
func ParseContextID(contextID string) (provider, projectOrAccount, region, clusterName string) {
	if strings.HasPrefix(contextID, "gke_") {
		parts := strings.Split(contextID, "_")
		if len(parts) >= 4 {
			return ProviderGKE, parts[1], parts[2], strings.Join(parts[3:], "_")
		}
	} else if strings.HasPrefix(contextID, "arn:aws:eks:") {
		parts := strings.Split(contextID, ":")
		if len(parts) >= 6 {
			return ProviderEKS, parts[4], parts[3], strings.TrimPrefix(parts[5], "cluster/")
		}
	}
	return ProviderOther, "", "", contextID
}

// ClusterOverview combines the parsed context identity with the API server
// version.
func (c *Client) ClusterOverview(ctx context.Context, contextID string) (*ClusterOverview, error) {
	provider, projectOrAccount, region, clusterName := ParseContextID(contextID)
	info, err := c.conn.Discovery.ServerVersion()
	if err != nil {
		return nil, err
	}
	return &ClusterOverview{
		Provider:         provider,
		ProjectOrAccount: projectOrAccount,
		Region:           region,
		ClusterName:      clusterName,
		ClusterVersion:   fmt.Sprintf("%s.%s", info.Major, info.Minor),
	}, nil
}

// ClusterStats counts nodes, pods, namespaces, deployments and jobs by
// listing each collection. Listing just to count is O(cluster size) but keeps
// the counts consistent with what the resource views show.
func (c *Client) ClusterStats(ctx context.Context) (*ClusterStats, error) {
	stats := &ClusterStats{}

	nodes, err := c.conn.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	stats.TotalNodes = len(nodes.Items)
	for _, node := range nodes.Items {
		for _, cond := range node.Status.Conditions {
			if cond.Type == corev1.NodeReady && cond.Status == corev1.ConditionTrue {
				stats.ReadyNodes++
				break
			}
		}
	}

	pods, err := c.conn.Clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	stats.TotalPods = len(pods.Items)
	for _, pod := range pods.Items {
		if pod.Status.Phase == corev1.PodRunning {
			stats.RunningPods++
		}
	}

	namespaces, err := c.conn.Clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	stats.NamespaceCount = len(namespaces.Items)

	deployments, err := c.conn.Clientset.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	stats.DeploymentCount = len(deployments.Items)

	jobs, err := c.conn.Clientset.BatchV1().Jobs(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	stats.JobCount = len(jobs.Items)

	return stats, nil
}
