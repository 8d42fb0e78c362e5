// Package watch turns Kubernetes watch streams into named, cancellable
// background tasks that feed the event bus.
package watch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic/dynamicinformer"
	"k8s.io/client-go/tools/cache"

	"github.com/kubedeck/kubedeck/internal/events"
	"github.com/kubedeck/kubedeck/internal/kube"
	"github.com/kubedeck/kubedeck/internal/logging"
)

// Metrics receives watch lifecycle notifications. A nil Metrics disables
// reporting.
type Metrics interface {
	WatchStarted()
	WatchStopped()
}

// Manager owns the registry of running watch tasks. Each task runs a dynamic
// informer for one kind, normalizes its callbacks to modified/deleted events
// and publishes them tagged with the watch id. The informer re-lists and
// re-watches on transient stream errors by itself.
type Manager struct {
	mu    sync.Mutex
	tasks map[string]context.CancelFunc

	baseCtx context.Context
	bus     *events.Bus
	logger  *slog.Logger
	metrics Metrics
}

// NewManager creates a watch manager. baseCtx bounds the lifetime of every
// task; cancelling it stops them all.
func NewManager(baseCtx context.Context, bus *events.Bus, logger *slog.Logger, metrics Metrics) *Manager {
	return &Manager{
		tasks:   make(map[string]context.CancelFunc),
		baseCtx: baseCtx,
		bus:     bus,
		logger:  logger,
		metrics: metrics,
	}
}

// Start opens a watch for kind and returns a fresh watch id immediately,
// without waiting for the first event. Kinds outside the watchable set get an
// id but no task; callers treat the resulting silence as valid. Cluster-scoped
// kinds ignore the namespace argument.
func (m *Manager) Start(kind, namespace string, conn *kube.Conn) (string, error) {
	watchID := uuid.NewString()
	logger := m.logger.With(logging.WatchID(watchID), logging.ResourceKind(kind))

	desc, ok := kube.LookupKind(kind)
	if !ok || !desc.Watchable {
		logger.Warn("resource kind not watchable, returning idle watch id")
		return watchID, nil
	}

	ns := metav1.NamespaceAll
	if desc.Scope == kube.ScopeNamespaced && namespace != "" {
		ns = namespace
	}

	ctx, cancel := context.WithCancel(m.baseCtx)

	m.mu.Lock()
	m.tasks[watchID] = cancel
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.WatchStarted()
	}

	factory := dynamicinformer.NewFilteredDynamicSharedInformerFactory(conn.Dynamic, 0, ns, nil)
	informer := factory.ForResource(desc.GVR).Informer()
	_, err := informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			m.emit(logger, watchID, events.ResourceModified, obj)
		},
		UpdateFunc: func(_, obj interface{}) {
			m.emit(logger, watchID, events.ResourceModified, obj)
		},
		DeleteFunc: func(obj interface{}) {
			if tombstone, ok := obj.(cache.DeletedFinalStateUnknown); ok {
				obj = tombstone.Obj
			}
			m.emit(logger, watchID, events.ResourceDeleted, obj)
		},
	})
	if err != nil {
		m.mu.Lock()
		delete(m.tasks, watchID)
		m.mu.Unlock()
		cancel()
		if m.metrics != nil {
			m.metrics.WatchStopped()
		}
		return "", err
	}

	go func() {
		logger.Info("watch task started", logging.Namespace(namespace))
		informer.Run(ctx.Done())
		m.Stop(watchID)
		logger.Info("watch task finished")
	}()

	return watchID, nil
}

// Stop cancels the watch task and removes its registration. Stopping an
// unknown or already finished id is a no-op.
func (m *Manager) Stop(watchID string) {
	m.mu.Lock()
	cancel, ok := m.tasks[watchID]
	if ok {
		delete(m.tasks, watchID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	cancel()
	if m.metrics != nil {
		m.metrics.WatchStopped()
	}
	m.logger.Debug("watch stopped", logging.WatchID(watchID))
}

// StopAll cancels every running watch task.
func (m *Manager) StopAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Stop(id)
	}
}

// Active returns the number of registered watch tasks.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// IsActive reports whether watchID has a registered task.
func (m *Manager) IsActive(watchID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[watchID]
	return ok
}

func (m *Manager) emit(logger *slog.Logger, watchID, eventType string, obj interface{}) {
	u, ok := obj.(*unstructured.Unstructured)
	if !ok {
		logger.Warn("skipping watch event with unexpected object type")
		return
	}
	raw, err := u.MarshalJSON()
	if err != nil {
		logger.Warn("skipping unserializable watch event", logging.Err(err))
		return
	}
	m.bus.Publish(events.Event{
		Type:      events.TypeResource,
		WatchID:   watchID,
		EventType: eventType,
		Resource:  raw,
	})
}
