package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("json format produces json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "info", FormatJSON)
		logger.Info("hello", Operation("test"))
		assert.Contains(t, buf.String(), `"operation":"test"`)
	})

	t.Run("debug level enables debug records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "debug", FormatText)
		logger.Debug("detail")
		assert.Contains(t, buf.String(), "detail")
	})

	t.Run("default level suppresses debug records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FormatText)
		logger.Debug("detail")
		assert.Empty(t, buf.String())
	})
}

func TestSanitizeHost(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{
			name: "empty host",
			host: "",
			want: "<empty>",
		},
		{
			name: "bare ipv4",
			host: "192.168.1.100",
			want: "<redacted-ip>",
		},
		{
			name: "https url with ipv4",
			host: "https://192.168.1.100:6443",
			want: "https://<redacted-ip>:6443",
		},
		{
			name: "hostname url unchanged",
			host: "https://api.cluster.example.com:6443",
			want: "https://api.cluster.example.com:6443",
		},
		{
			name: "bare ipv6",
			host: "2001:db8::1",
			want: "<redacted-ip>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeHost(tt.host))
		})
	}
}

func TestErrAttrs(t *testing.T) {
	t.Run("nil error yields empty value", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, KeyError, attr.Key)
		assert.Equal(t, "", attr.Value.String())
	})

	t.Run("sanitized error redacts addresses", func(t *testing.T) {
		err := errors.New("dial tcp 10.0.0.5:6443: connection refused")
		attr := SanitizedErr(err)
		assert.NotContains(t, attr.Value.String(), "10.0.0.5")
		assert.Contains(t, attr.Value.String(), "<redacted-ip>")
	})
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithKubeContext(WithOperation(logger, "resource.get"), "minikube").Info("done")

	out := buf.String()
	assert.Contains(t, out, `"operation":"resource.get"`)
	assert.Contains(t, out, `"kube_context":"minikube"`)
}
