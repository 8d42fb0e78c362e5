package terminal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/kubedeck/kubedeck/internal/events"
	"github.com/kubedeck/kubedeck/internal/logging"
)

// Session is one running shell process.
type Session struct {
	ID             string
	cmd            *exec.Cmd
	stdin          io.WriteCloser
	tempKubeconfig string
}

// Manager owns the registry of terminal sessions and streams their output to
// the event bus.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	bus    *events.Bus
	logger *slog.Logger
}

// NewManager creates an empty session registry.
func NewManager(bus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		bus:      bus,
		logger:   logger,
	}
}

// Create starts shellPath as a new session. When contextName is set, a
// temporary kubeconfig pinned to that context is written and exported as
// KUBECONFIG so kubectl in the shell talks to the right cluster.
func (m *Manager) Create(shellPath, contextName, kubeconfigPath string) (string, error) {
	if _, err := exec.LookPath(shellPath); err != nil {
		return "", fmt.Errorf("shell %q not found: %w", shellPath, err)
	}

	tempKubeconfig := ""
	if contextName != "" {
		path, err := WriteTempKubeconfig(contextName, kubeconfigPath)
		if err != nil {
			return "", err
		}
		tempKubeconfig = path
	}

	cmd := exec.Command(shellPath)
	cmd.Env = os.Environ()
	if tempKubeconfig != "" {
		cmd.Env = append(cmd.Env, "KUBECONFIG="+tempKubeconfig)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		m.cleanupFile(tempKubeconfig)
		return "", fmt.Errorf("opening shell stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		m.cleanupFile(tempKubeconfig)
		return "", fmt.Errorf("opening shell stdout: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		m.cleanupFile(tempKubeconfig)
		return "", fmt.Errorf("starting shell: %w", err)
	}

	session := &Session{
		ID:             uuid.NewString(),
		cmd:            cmd,
		stdin:          stdin,
		tempKubeconfig: tempKubeconfig,
	}
	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	logger := m.logger.With(logging.SessionID(session.ID))
	logger.Info("terminal session started", logging.KubeContext(contextName))

	go m.pump(session, stdout, logger)
	return session.ID, nil
}

// pump forwards shell output to the bus until the process exits, then tears
// the session down.
func (m *Manager) pump(session *Session, stdout io.Reader, logger *slog.Logger) {
	buf := make([]byte, 4096)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			m.bus.Publish(events.Event{
				Type:      events.TypeTerminal,
				SessionID: session.ID,
				Data:      string(buf[:n]),
			})
		}
		if err != nil {
			break
		}
	}
	_ = session.cmd.Wait()
	m.Close(session.ID)
	logger.Info("terminal session ended")
}

// Write sends input to the session's shell.
func (m *Manager) Write(sessionID string, data []byte) error {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("terminal session %q not found", sessionID)
	}
	_, err := session.stdin.Write(data)
	return err
}

// Close terminates the session and removes its temporary kubeconfig. Closing
// an unknown or already closed session is a no-op.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	_ = session.stdin.Close()
	if session.cmd.Process != nil {
		_ = session.cmd.Process.Kill()
	}
	m.cleanupFile(session.tempKubeconfig)
	m.logger.Debug("terminal session closed", logging.SessionID(sessionID))
}

// CloseAll terminates every session, for shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Close(id)
	}
}

// Active returns the number of running sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) cleanupFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("failed to remove temp kubeconfig", logging.Err(err))
	}
}
