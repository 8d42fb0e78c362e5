package kube

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ConfigError indicates that a kubeconfig could not be loaded or that the
// requested context does not resolve to usable credentials. It is returned
// before any network call is attempted.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("kubeconfig error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps err as a configuration failure.
func NewConfigError(err error) *ConfigError {
	return &ConfigError{Err: err}
}

// IsConfigError reports whether any error in err's chain is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConnectionError indicates that credentials resolved fine but constructing
// the API clients for them failed.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cluster connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewConnectionError wraps err as a client construction failure.
func NewConnectionError(err error) *ConnectionError {
	return &ConnectionError{Err: err}
}

// IsConnectionError reports whether any error in err's chain is a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// ErrNamespaceRequired is returned when a namespaced resource is addressed
// without a namespace. The check happens before any API call.
func ErrNamespaceRequired(kind string) error {
	return apierrors.NewBadRequest(fmt.Sprintf("namespace is required for namespaced resource %q", kind))
}

// ErrUnknownKind is returned when a UI kind token matches neither the
// built-in table nor the custom resource token format.
func ErrUnknownKind(kind string) error {
	return apierrors.NewBadRequest(fmt.Sprintf("unsupported resource kind %q", kind))
}

// ErrInvalidCustomResourceToken is returned for a cr: token that does not
// carry all four of group, version, plural and scope.
func ErrInvalidCustomResourceToken(token string) error {
	return apierrors.NewBadRequest(fmt.Sprintf("invalid custom resource token %q, expected cr:<group>/<version>/<plural>/<scope>", token))
}

// IsBadRequest reports whether err is a client-side request error such as a
// missing namespace or a malformed kind token.
func IsBadRequest(err error) bool {
	return apierrors.IsBadRequest(err)
}
