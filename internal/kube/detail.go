package kube

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// ResourceDetail is a single object together with the core Events that
// reference it.
type ResourceDetail struct {
	Resource *unstructured.Unstructured `json:"resource"`
	Events   []corev1.Event             `json:"events"`
}

// GetDetail fetches one object and, for event-bearing kinds, the Events whose
// involvedObject matches it on kind, name and namespace. Kinds outside the
// event-bearing set get an empty event list, never an error.
func (c *Client) GetDetail(ctx context.Context, kind, name, namespace string) (*ResourceDetail, error) {
	obj, err := c.Get(ctx, kind, name, namespace)
	if err != nil {
		return nil, err
	}

	detail := &ResourceDetail{Resource: obj, Events: []corev1.Event{}}

	desc, ok := LookupKind(kind)
	if !ok || !desc.BearsEvents {
		return detail, nil
	}

	evNamespace := namespace
	if evNamespace == "" {
		evNamespace = metav1.NamespaceAll
	}
	events, err := c.conn.Clientset.CoreV1().Events(evNamespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	for _, ev := range events.Items {
		if ev.InvolvedObject.Kind != desc.Singular {
			continue
		}
		if ev.InvolvedObject.Name != name {
			continue
		}
		// An absent namespace on both sides counts as a match.
		if ev.InvolvedObject.Namespace != namespace {
			continue
		}
		detail.Events = append(detail.Events, ev)
	}
	return detail, nil
}
