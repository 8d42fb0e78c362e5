package kube

import (
	"context"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CrdResource describes one CustomResourceDefinition for UI consumption. The
// version is the first one the server marks as served; an empty version means
// the CRD currently serves none.
type CrdResource struct {
	Kind    string        `json:"kind"`
	Plural  string        `json:"plural"`
	Version string        `json:"version"`
	Scope   ResourceScope `json:"scope"`
}

// CrdGroup is one API group and its definitions.
type CrdGroup struct {
	Group     string        `json:"group"`
	Resources []CrdResource `json:"resources"`
}

// ListCrdGroups discovers every CustomResourceDefinition and arranges them by
// API group. Groups are sorted by name and resources by kind; the UI renders
// them in order, so the sort is part of the contract.
func (c *Client) ListCrdGroups(ctx context.Context) ([]CrdGroup, error) {
	crds, err := c.conn.Apiext.ApiextensionsV1().CustomResourceDefinitions().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}

	byGroup := make(map[string][]CrdResource)
	for _, crd := range crds.Items {
		version := ""
		for _, v := range crd.Spec.Versions {
			if v.Served {
				version = v.Name
				break
			}
		}
		byGroup[crd.Spec.Group] = append(byGroup[crd.Spec.Group], CrdResource{
			Kind:    crd.Spec.Names.Kind,
			Plural:  crd.Spec.Names.Plural,
			Version: version,
			Scope:   ResourceScope(crd.Spec.Scope),
		})
	}

	groups := make([]CrdGroup, 0, len(byGroup))
	for group, resources := range byGroup {
		sort.Slice(resources, func(i, j int) bool {
			return resources[i].Kind < resources[j].Kind
		})
		groups = append(groups, CrdGroup{Group: group, Resources: resources})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Group < groups[j].Group
	})
	return groups, nil
}
