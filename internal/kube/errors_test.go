package kube

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("config errors unwrap and detect through chains", func(t *testing.T) {
		base := errors.New("no such file")
		err := fmt.Errorf("loading: %w", NewConfigError(base))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConnectionError(err))
		assert.ErrorIs(t, err, base)
	})

	t.Run("connection errors are distinct from config errors", func(t *testing.T) {
		err := NewConnectionError(errors.New("bad transport"))
		assert.True(t, IsConnectionError(err))
		assert.False(t, IsConfigError(err))
	})

	t.Run("namespace required is a bad request naming the kind", func(t *testing.T) {
		err := ErrNamespaceRequired("Pod")
		assert.True(t, apierrors.IsBadRequest(err))
		assert.Contains(t, err.Error(), "Pod")
	})

	t.Run("unknown kind is a bad request naming the kind", func(t *testing.T) {
		err := ErrUnknownKind("Gizmo")
		assert.True(t, apierrors.IsBadRequest(err))
		assert.Contains(t, err.Error(), "Gizmo")
	})

	t.Run("malformed token is a bad request", func(t *testing.T) {
		err := ErrInvalidCustomResourceToken("cr:oops")
		assert.True(t, apierrors.IsBadRequest(err))
		assert.Contains(t, err.Error(), "cr:oops")
	})
}
