package kube

import (
	"context"
	"encoding/json"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"

	"github.com/kubedeck/kubedeck/internal/logging"
)

// Client executes resource operations against one cluster connection. The
// same code path serves built-in kinds and custom resources; the only
// difference is where the GroupVersionResource comes from.
type Client struct {
	conn   *Conn
	logger *slog.Logger
}

// NewClient wraps conn for resource operations.
func NewClient(conn *Conn, logger *slog.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

// Conn exposes the underlying connection, e.g. for the watch manager.
func (c *Client) Conn() *Conn {
	return c.conn
}

// collectionFor resolves the dynamic interface for listing a kind. Missing
// namespaces on namespaced kinds widen to all namespaces; cluster-scoped
// kinds ignore the namespace entirely.
func (c *Client) collectionFor(kind, namespace string) (dynamic.ResourceInterface, bool, error) {
	if IsCustomResourceToken(kind) {
		ref, err := ParseCustomResourceToken(kind)
		if err != nil {
			return nil, false, err
		}
		res := c.conn.Dynamic.Resource(ref.GVR())
		if ref.Scope == ScopeNamespaced && namespace != "" {
			return res.Namespace(namespace), true, nil
		}
		return res, true, nil
	}

	desc, ok := LookupKind(kind)
	if !ok {
		return nil, false, nil
	}
	res := c.conn.Dynamic.Resource(desc.GVR)
	if desc.Scope == ScopeNamespaced && namespace != "" {
		return res.Namespace(namespace), true, nil
	}
	return res, true, nil
}

// itemFor resolves the dynamic interface for addressing a single object.
// Namespaced kinds require a namespace here; gets and deletes are always
// precise, never cluster-wide.
func (c *Client) itemFor(kind, namespace string) (dynamic.ResourceInterface, error) {
	if IsCustomResourceToken(kind) {
		ref, err := ParseCustomResourceToken(kind)
		if err != nil {
			return nil, err
		}
		res := c.conn.Dynamic.Resource(ref.GVR())
		if ref.Scope == ScopeNamespaced {
			if namespace == "" {
				return nil, ErrNamespaceRequired("CustomResource")
			}
			return res.Namespace(namespace), nil
		}
		return res, nil
	}

	desc, ok := LookupKind(kind)
	if !ok {
		return nil, ErrUnknownKind(kind)
	}
	res := c.conn.Dynamic.Resource(desc.GVR)
	if desc.Scope == ScopeNamespaced {
		if namespace == "" {
			return nil, ErrNamespaceRequired(desc.Singular)
		}
		return res.Namespace(namespace), nil
	}
	return res, nil
}

// List returns all objects of kind, optionally namespace-scoped. An unknown
// built-in kind yields an empty list rather than an error so the UI can probe
// kinds the cluster may not serve.
func (c *Client) List(ctx context.Context, kind, namespace string) ([]unstructured.Unstructured, error) {
	res, ok, err := c.collectionFor(kind, namespace)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.logger.Warn("list requested for unknown resource kind", logging.ResourceKind(kind))
		return []unstructured.Unstructured{}, nil
	}
	list, err := res.List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Get returns a single object by name.
func (c *Client) Get(ctx context.Context, kind, name, namespace string) (*unstructured.Unstructured, error) {
	res, err := c.itemFor(kind, namespace)
	if err != nil {
		return nil, err
	}
	return res.Get(ctx, name, metav1.GetOptions{})
}

// Delete removes a single object by name.
func (c *Client) Delete(ctx context.Context, kind, name, namespace string) error {
	res, err := c.itemFor(kind, namespace)
	if err != nil {
		return err
	}
	if err := res.Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		return err
	}
	c.logger.Info("resource deleted",
		logging.ResourceKind(kind),
		logging.ResourceName(name),
		logging.Namespace(namespace),
	)
	return nil
}

// MarshalItems serializes list items to raw JSON. An item that fails to
// serialize is dropped with a warning instead of failing the whole list.
func MarshalItems(logger *slog.Logger, items []unstructured.Unstructured) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for i := range items {
		raw, err := items[i].MarshalJSON()
		if err != nil {
			logger.Warn("dropping unserializable list item",
				logging.ResourceName(items[i].GetName()),
				logging.Err(err),
			)
			continue
		}
		out = append(out, raw)
	}
	return out
}
