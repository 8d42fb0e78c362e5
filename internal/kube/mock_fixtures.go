package kube

import (
	"time"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	apiextv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// mockCRDGroup is the API group of the fixture custom resources.
const mockCRDGroup = "apps.example.com"

// fixtureTime keeps every mock object's timestamps deterministic.
var fixtureTime = metav1.NewTime(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))

func fixtureMeta(name, namespace string, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:              name,
		Namespace:         namespace,
		Labels:            labels,
		CreationTimestamp: fixtureTime,
	}
}

func mockPod(name, namespace, app, image string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Pod"},
		ObjectMeta: fixtureMeta(name, namespace, map[string]string{"app": app}),
		Spec: corev1.PodSpec{
			NodeName: "node-1",
			Containers: []corev1.Container{
				{Name: app, Image: image},
			},
		},
		Status: corev1.PodStatus{
			Phase: phase,
			ContainerStatuses: []corev1.ContainerStatus{
				{Name: app, Image: image, Ready: phase == corev1.PodRunning, RestartCount: 0},
			},
		},
	}
}

func mockDeployment(name, namespace, app string, replicas int32) *appsv1.Deployment {
	selector := map[string]string{"app": app}
	return &appsv1.Deployment{
		ObjectMeta: fixtureMeta(name, namespace, selector),
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: selector},
			},
		},
		Status: appsv1.DeploymentStatus{
			Replicas:      replicas,
			ReadyReplicas: replicas,
		},
	}
}

func mockNode(name string, ready bool) *corev1.Node {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Node{
		ObjectMeta: fixtureMeta(name, "", map[string]string{"kubernetes.io/hostname": name}),
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: status},
			},
			NodeInfo: corev1.NodeSystemInfo{
				KubeletVersion:  "v1.29.3",
				OSImage:         "Ubuntu 22.04.3 LTS",
				Architecture:    "amd64",
				OperatingSystem: "linux",
			},
		},
	}
}

func mockNamespace(name string) *corev1.Namespace {
	return &corev1.Namespace{
		ObjectMeta: fixtureMeta(name, "", nil),
		Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceActive},
	}
}

func mockEvent(name, namespace, kind, objName, reason, message string) *corev1.Event {
	return &corev1.Event{
		ObjectMeta: fixtureMeta(name, namespace, nil),
		InvolvedObject: corev1.ObjectReference{
			Kind:      kind,
			Name:      objName,
			Namespace: namespace,
		},
		Reason:         reason,
		Message:        message,
		Type:           corev1.EventTypeNormal,
		Count:          1,
		FirstTimestamp: fixtureTime,
		LastTimestamp:  fixtureTime,
	}
}

// mockTypedObjects is the fixture cluster: a small web stack in default, a
// database in production, and enough cluster-scoped objects to exercise every
// view.
func mockTypedObjects() []runtime.Object {
	webReplicas := int32(2)
	dbReplicas := int32(1)
	completions := int32(1)

	return []runtime.Object{
		mockPod("web-app-1", "default", "web", "nginx:1.25", corev1.PodRunning),
		mockPod("web-app-2", "default", "web", "nginx:1.25", corev1.PodRunning),
		mockPod("api-server-1", "default", "api", "myapp/api:2.0", corev1.PodRunning),
		mockPod("db-0", "production", "db", "postgres:16", corev1.PodRunning),
		mockPod("batch-worker-1", "production", "worker", "myapp/worker:1.4", corev1.PodPending),

		mockDeployment("web-app", "default", "web", 2),
		mockDeployment("api-server", "default", "api", 1),

		&appsv1.ReplicaSet{
			ObjectMeta: fixtureMeta("web-app-5b8d9", "default", map[string]string{"app": "web"}),
			Spec: appsv1.ReplicaSetSpec{
				Replicas: &webReplicas,
				Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"app": "web"}},
			},
			Status: appsv1.ReplicaSetStatus{Replicas: 2, ReadyReplicas: 2},
		},
		&appsv1.StatefulSet{
			ObjectMeta: fixtureMeta("db", "production", map[string]string{"app": "db"}),
			Spec: appsv1.StatefulSetSpec{
				Replicas:    &dbReplicas,
				ServiceName: "db-service",
				Selector:    &metav1.LabelSelector{MatchLabels: map[string]string{"app": "db"}},
			},
			Status: appsv1.StatefulSetStatus{Replicas: 1, ReadyReplicas: 1},
		},
		&appsv1.DaemonSet{
			ObjectMeta: fixtureMeta("log-agent", "kube-system", map[string]string{"app": "logging"}),
			Spec: appsv1.DaemonSetSpec{
				Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"app": "logging"}},
			},
			Status: appsv1.DaemonSetStatus{DesiredNumberScheduled: 2, NumberReady: 2},
		},

		&corev1.Service{
			ObjectMeta: fixtureMeta("web-app", "default", map[string]string{"app": "web"}),
			Spec: corev1.ServiceSpec{
				Type:     corev1.ServiceTypeClusterIP,
				Selector: map[string]string{"app": "web"},
				Ports:    []corev1.ServicePort{{Name: "http", Port: 80}},
			},
		},
		&corev1.Service{
			ObjectMeta: fixtureMeta("db-service", "production", map[string]string{"app": "db"}),
			Spec: corev1.ServiceSpec{
				ClusterIP: corev1.ClusterIPNone,
				Selector:  map[string]string{"app": "db"},
				Ports:     []corev1.ServicePort{{Name: "pg", Port: 5432}},
			},
		},

		&corev1.ConfigMap{
			ObjectMeta: fixtureMeta("app-config", "default", nil),
			Data:       map[string]string{"LOG_LEVEL": "info", "FEATURE_FLAGS": "beta-ui"},
		},
		&corev1.Secret{
			ObjectMeta: fixtureMeta("app-credentials", "default", nil),
			Type:       corev1.SecretTypeOpaque,
			Data:       map[string][]byte{"api-key": []byte("bW9jay1rZXk=")},
		},
		&corev1.ServiceAccount{
			ObjectMeta: fixtureMeta("web-app", "default", nil),
		},

		&batchv1.Job{
			ObjectMeta: fixtureMeta("data-migration", "production", map[string]string{"app": "db"}),
			Spec:       batchv1.JobSpec{Completions: &completions},
			Status:     batchv1.JobStatus{Succeeded: 1},
		},
		&batchv1.CronJob{
			ObjectMeta: fixtureMeta("nightly-backup", "production", map[string]string{"app": "db"}),
			Spec: batchv1.CronJobSpec{
				Schedule: "0 2 * * *",
			},
		},

		&corev1.PersistentVolumeClaim{
			ObjectMeta: fixtureMeta("data-db-0", "production", map[string]string{"app": "db"}),
			Spec: corev1.PersistentVolumeClaimSpec{
				AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
			},
			Status: corev1.PersistentVolumeClaimStatus{Phase: corev1.ClaimBound},
		},
		&corev1.PersistentVolume{
			ObjectMeta: fixtureMeta("pv-0001", "", nil),
			Spec: corev1.PersistentVolumeSpec{
				Capacity: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse("10Gi"),
				},
				AccessModes:      []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
				StorageClassName: "standard",
			},
			Status: corev1.PersistentVolumeStatus{Phase: corev1.VolumeBound},
		},
		&storagev1.StorageClass{
			ObjectMeta:  fixtureMeta("standard", "", nil),
			Provisioner: "kubernetes.io/no-provisioner",
		},

		mockNode("node-1", true),
		mockNode("node-2", true),
		mockNode("node-3", false),

		mockNamespace("default"),
		mockNamespace("kube-system"),
		mockNamespace("production"),

		mockEvent("web-app-1.17a9e1", "default", "Pod", "web-app-1", "Started", "Started container web"),
		mockEvent("web-app-1.17a9e2", "default", "Pod", "web-app-1", "Pulled", "Container image \"nginx:1.25\" already present on machine"),
		mockEvent("web-app.17a9f0", "default", "Deployment", "web-app", "ScalingReplicaSet", "Scaled up replica set web-app-5b8d9 to 2"),
		mockEvent("db-0.17b001", "production", "Pod", "db-0", "Scheduled", "Successfully assigned production/db-0 to node-1"),
	}
}

func mockWidget(name, namespace string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": mockCRDGroup + "/v1",
		"kind":       "Widget",
		"metadata": map[string]interface{}{
			"name":              name,
			"namespace":         namespace,
			"creationTimestamp": fixtureTime.UTC().Format(time.RFC3339),
		},
		"spec": map[string]interface{}{
			"size": "medium",
		},
	}}
}

// mockCustomResources backs the generic cr: token path.
func mockCustomResources() []runtime.Object {
	return []runtime.Object{
		mockWidget("widget-alpha", "default"),
		mockWidget("widget-beta", "production"),
	}
}

func mockCRD(kind, plural string, scope apiextv1.ResourceScope) *apiextv1.CustomResourceDefinition {
	return &apiextv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{
			Name:              plural + "." + mockCRDGroup,
			CreationTimestamp: fixtureTime,
		},
		Spec: apiextv1.CustomResourceDefinitionSpec{
			Group: mockCRDGroup,
			Names: apiextv1.CustomResourceDefinitionNames{
				Kind:   kind,
				Plural: plural,
			},
			Scope: scope,
			Versions: []apiextv1.CustomResourceDefinitionVersion{
				{Name: "v1", Served: true, Storage: true},
			},
		},
	}
}

func mockCRDs() []runtime.Object {
	return []runtime.Object{
		mockCRD("Widget", "widgets", apiextv1.NamespaceScoped),
		mockCRD("Gadget", "gadgets", apiextv1.ClusterScoped),
	}
}
