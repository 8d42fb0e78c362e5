package kube

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// ResourceScope describes whether a resource lives inside a namespace or at
// cluster level.
type ResourceScope string

const (
	ScopeNamespaced ResourceScope = "Namespaced"
	ScopeCluster    ResourceScope = "Cluster"
)

// KindDescriptor binds a UI kind token to the API resource it addresses.
// Singular names address a single object (get, delete), plural names address
// collections (list, watch).
type KindDescriptor struct {
	// Singular is the kind name as it appears on objects, e.g. "Pod".
	Singular string
	// Plural is the collection token used by list and watch calls, e.g. "Pods".
	Plural string
	// GVR identifies the REST resource for the dynamic client.
	GVR schema.GroupVersionResource
	// Scope decides whether namespace arguments are honored or ignored.
	Scope ResourceScope
	// Watchable marks kinds the watch manager will open streams for.
	Watchable bool
	// BearsEvents marks kinds whose detail view folds in matching core Events.
	BearsEvents bool
}

// CustomResourceToken is the prefix marking a dynamically addressed kind.
const CustomResourceToken = "cr:"

// builtinKinds is the closed set of resource kinds the browser understands
// natively. Everything else goes through the custom resource token path.
var builtinKinds = []KindDescriptor{
	{Singular: "Pod", Plural: "Pods", GVR: schema.GroupVersionResource{Version: "v1", Resource: "pods"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "Deployment", Plural: "Deployments", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "Service", Plural: "Services", GVR: schema.GroupVersionResource{Version: "v1", Resource: "services"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "ReplicaSet", Plural: "ReplicaSets", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "replicasets"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "StatefulSet", Plural: "StatefulSets", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "statefulsets"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "DaemonSet", Plural: "DaemonSets", GVR: schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "daemonsets"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "Job", Plural: "Jobs", GVR: schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "jobs"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "CronJob", Plural: "CronJobs", GVR: schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "cronjobs"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "ConfigMap", Plural: "ConfigMaps", GVR: schema.GroupVersionResource{Version: "v1", Resource: "configmaps"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "Secret", Plural: "Secrets", GVR: schema.GroupVersionResource{Version: "v1", Resource: "secrets"}, Scope: ScopeNamespaced, Watchable: true, BearsEvents: true},
	{Singular: "Ingress", Plural: "Ingresses", GVR: schema.GroupVersionResource{Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"}, Scope: ScopeNamespaced, Watchable: true},
	{Singular: "NetworkPolicy", Plural: "NetworkPolicies", GVR: schema.GroupVersionResource{Group: "networking.k8s.io", Version: "v1", Resource: "networkpolicies"}, Scope: ScopeNamespaced},
	{Singular: "PersistentVolumeClaim", Plural: "PersistentVolumeClaims", GVR: schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumeclaims"}, Scope: ScopeNamespaced, BearsEvents: true},
	{Singular: "ServiceAccount", Plural: "ServiceAccounts", GVR: schema.GroupVersionResource{Version: "v1", Resource: "serviceaccounts"}, Scope: ScopeNamespaced},
	{Singular: "Role", Plural: "Roles", GVR: schema.GroupVersionResource{Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "roles"}, Scope: ScopeNamespaced},
	{Singular: "RoleBinding", Plural: "RoleBindings", GVR: schema.GroupVersionResource{Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "rolebindings"}, Scope: ScopeNamespaced},
	{Singular: "HorizontalPodAutoscaler", Plural: "HorizontalPodAutoscalers", GVR: schema.GroupVersionResource{Group: "autoscaling", Version: "v2", Resource: "horizontalpodautoscalers"}, Scope: ScopeNamespaced},
	{Singular: "LimitRange", Plural: "LimitRanges", GVR: schema.GroupVersionResource{Version: "v1", Resource: "limitranges"}, Scope: ScopeNamespaced},
	{Singular: "ResourceQuota", Plural: "ResourceQuotas", GVR: schema.GroupVersionResource{Version: "v1", Resource: "resourcequotas"}, Scope: ScopeNamespaced},
	{Singular: "Endpoints", Plural: "Endpoints", GVR: schema.GroupVersionResource{Version: "v1", Resource: "endpoints"}, Scope: ScopeNamespaced},
	{Singular: "Event", Plural: "Events", GVR: schema.GroupVersionResource{Version: "v1", Resource: "events"}, Scope: ScopeNamespaced},

	{Singular: "Node", Plural: "Nodes", GVR: schema.GroupVersionResource{Version: "v1", Resource: "nodes"}, Scope: ScopeCluster, Watchable: true},
	{Singular: "Namespace", Plural: "Namespaces", GVR: schema.GroupVersionResource{Version: "v1", Resource: "namespaces"}, Scope: ScopeCluster, Watchable: true},
	{Singular: "PersistentVolume", Plural: "PersistentVolumes", GVR: schema.GroupVersionResource{Version: "v1", Resource: "persistentvolumes"}, Scope: ScopeCluster, BearsEvents: true},
	{Singular: "StorageClass", Plural: "StorageClasses", GVR: schema.GroupVersionResource{Group: "storage.k8s.io", Version: "v1", Resource: "storageclasses"}, Scope: ScopeCluster},
	{Singular: "ClusterRole", Plural: "ClusterRoles", GVR: schema.GroupVersionResource{Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "clusterroles"}, Scope: ScopeCluster},
	{Singular: "ClusterRoleBinding", Plural: "ClusterRoleBindings", GVR: schema.GroupVersionResource{Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "clusterrolebindings"}, Scope: ScopeCluster},
	{Singular: "CustomResourceDefinition", Plural: "CRDs", GVR: schema.GroupVersionResource{Group: "apiextensions.k8s.io", Version: "v1", Resource: "customresourcedefinitions"}, Scope: ScopeCluster},
}

// kindIndex maps both the singular and the plural token of every built-in
// kind to its descriptor.
var kindIndex = func() map[string]KindDescriptor {
	idx := make(map[string]KindDescriptor, 2*len(builtinKinds))
	for _, d := range builtinKinds {
		idx[d.Singular] = d
		idx[d.Plural] = d
	}
	return idx
}()

// LookupKind resolves a built-in UI kind token, singular or plural.
func LookupKind(kind string) (KindDescriptor, bool) {
	d, ok := kindIndex[kind]
	return d, ok
}

// BuiltinKinds returns the full descriptor table in declaration order.
func BuiltinKinds() []KindDescriptor {
	out := make([]KindDescriptor, len(builtinKinds))
	copy(out, builtinKinds)
	return out
}

// CustomResourceRef addresses a custom resource collection discovered at
// runtime rather than through the static table.
type CustomResourceRef struct {
	Group   string
	Version string
	Plural  string
	Scope   ResourceScope
}

// GVR returns the REST resource reference for the dynamic client.
func (r CustomResourceRef) GVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: r.Group, Version: r.Version, Resource: r.Plural}
}

// Token renders the reference back into its UI token form.
func (r CustomResourceRef) Token() string {
	return CustomResourceToken + r.Group + "/" + r.Version + "/" + r.Plural + "/" + string(r.Scope)
}

// IsCustomResourceToken reports whether kind uses the cr: token form.
func IsCustomResourceToken(kind string) bool {
	return strings.HasPrefix(kind, CustomResourceToken)
}

// ParseCustomResourceToken parses a cr:<group>/<version>/<plural>/<scope>
// token. Anything with fewer than four segments is rejected as a bad request.
func ParseCustomResourceToken(kind string) (CustomResourceRef, error) {
	if !IsCustomResourceToken(kind) {
		return CustomResourceRef{}, ErrInvalidCustomResourceToken(kind)
	}
	parts := strings.SplitN(strings.TrimPrefix(kind, CustomResourceToken), "/", 4)
	if len(parts) != 4 {
		return CustomResourceRef{}, ErrInvalidCustomResourceToken(kind)
	}
	scope := ScopeCluster
	if parts[3] == string(ScopeNamespaced) {
		scope = ScopeNamespaced
	}
	return CustomResourceRef{
		Group:   parts[0],
		Version: parts[1],
		Plural:  parts[2],
		Scope:   scope,
	}, nil
}
