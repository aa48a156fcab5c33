package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/screenyapp/screeny/internal/daemon"
	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/manager"
	"github.com/screenyapp/screeny/internal/monitors"
	"github.com/screenyapp/screeny/internal/rules"
	"github.com/screenyapp/screeny/internal/runtimepath"
	"github.com/screenyapp/screeny/internal/screen"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener

	manager   *manager.Manager
	store     *layout.Store
	detector  *screen.Detector
	registry  *monitors.Registry
	scheduler *daemon.Scheduler

	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(mgr *manager.Manager, store *layout.Store, det *screen.Detector,
	reg *monitors.Registry, sched *daemon.Scheduler) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		manager:    mgr,
		store:      store,
		detector:   det,
		registry:   reg,
		scheduler:  sched,
		startTime:  time.Now(),
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListLayouts:
		return s.handleListLayouts()
	case CommandPreviewLayout:
		return s.handlePreviewLayout(req.Payload)
	case CommandActivateLayout:
		return s.handleActivateLayout(req.Payload)
	case CommandDeactivateLayout:
		return s.handleDeactivateLayout()
	case CommandGetActiveLayout:
		return s.handleGetActiveLayout()
	case CommandGetScreens:
		return s.handleGetScreens()
	case CommandGetActiveRules:
		return s.handleGetActiveRules()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandPruneMonitor:
		return s.handlePruneMonitor(req.Payload)
	case CommandCreateLayout:
		return s.handleCreateLayout(req.Payload)
	case CommandSetDefaultLayout:
		return s.handleSetDefaultLayout(req.Payload)
	case CommandApplyNow:
		return s.handleApplyNow()
	case CommandPause:
		return s.handlePause()
	case CommandResume:
		return s.handleResume()
	default:
		return NewErrorResponseKind(ErrorKindValidation, fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// errorResponse classifies a domain error into an error-kind response.
func errorResponse(err error) *Response {
	var validationErr *layout.ValidationError
	var layoutNotFound *layout.NotFoundError
	var monitorNotFound *monitors.NotFoundError
	var compatErr *manager.CompatibilityError

	switch {
	case errors.As(err, &validationErr):
		return NewErrorResponseKind(ErrorKindValidation, err.Error())
	case errors.As(err, &layoutNotFound), errors.As(err, &monitorNotFound):
		return NewErrorResponseKind(ErrorKindNotFound, err.Error())
	case errors.As(err, &compatErr):
		return NewErrorResponseKind(ErrorKindCompatibility, err.Error())
	default:
		return NewErrorResponseKind(ErrorKindInternal, err.Error())
	}
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	activeName := ""
	if active := s.manager.Active(); active != nil {
		activeName = active.Name
	}
	schedStatus := s.scheduler.Status()

	status := StatusData{
		DaemonRunning: true,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		ActiveLayout:  activeName,
		Paused:        schedStatus.Paused,
		ScreenSummary: s.detector.Current().Summary(),
		LastApply:     schedStatus.LastApply,
		LastResult:    schedStatus.LastResult,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListLayouts() *Response {
	infos, err := s.store.List()
	if err != nil {
		return errorResponse(err)
	}

	activeName := ""
	if active := s.manager.Active(); active != nil {
		activeName = active.Name
	}

	data := LayoutsData{
		Layouts:       infos,
		DefaultLayout: s.registry.DefaultLayout(),
		ActiveLayout:  activeName,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handlePreviewLayout(payload json.RawMessage) *Response {
	var p LayoutNamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponseKind(ErrorKindValidation, fmt.Sprintf("Invalid preview payload: %v", err))
	}
	if p.LayoutName == "" {
		return NewErrorResponseKind(ErrorKindValidation, "layout_name is required")
	}

	preview, err := s.manager.Preview(p.LayoutName)
	if err != nil {
		return errorResponse(err)
	}

	resp, _ := NewOKResponse(preview)
	return resp
}

func (s *Server) handleActivateLayout(payload json.RawMessage) *Response {
	var p LayoutNamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponseKind(ErrorKindValidation, fmt.Sprintf("Invalid activate payload: %v", err))
	}
	if p.LayoutName == "" {
		return NewErrorResponseKind(ErrorKindValidation, "layout_name is required")
	}

	log.Printf("IPC: Activate layout '%s'", p.LayoutName)

	active, err := s.manager.Activate(p.LayoutName)
	if err != nil {
		return errorResponse(err)
	}

	resp, _ := NewOKResponse(s.activeData(active))
	return resp
}

func (s *Server) handleDeactivateLayout() *Response {
	name, wasActive := s.manager.Deactivate()
	resp, _ := NewOKResponse(DeactivateData{
		Deactivated: wasActive,
		Layout:      name,
	})
	return resp
}

func (s *Server) handleGetActiveLayout() *Response {
	active := s.manager.Active()
	if active == nil {
		resp, _ := NewOKResponse(ActiveLayoutData{Active: false})
		return resp
	}

	resp, _ := NewOKResponse(s.activeData(active))
	return resp
}

func (s *Server) activeData(active *manager.Active) ActiveLayoutData {
	rulesCount := 0
	if resolved, err := s.manager.ActiveRules(); err == nil {
		rulesCount = len(resolved)
	}
	return ActiveLayoutData{
		Active:      true,
		Name:        active.Name,
		FileName:    active.FileName,
		ActivatedAt: active.ActivatedAt,
		DisplayMap:  active.DisplayMap,
		RulesCount:  rulesCount,
	}
}

func (s *Server) handleGetScreens() *Response {
	snap, err := s.detector.Detect()
	if err != nil {
		return errorResponse(err)
	}

	resp, _ := NewOKResponse(ScreensData{
		Screens: snap,
		Summary: snap.Summary(),
	})
	return resp
}

func (s *Server) handleGetActiveRules() *Response {
	resolved, err := s.manager.ActiveRules()
	if err != nil {
		return errorResponse(err)
	}

	activeName := ""
	if active := s.manager.Active(); active != nil {
		activeName = active.Name
	}

	if resolved == nil {
		resolved = []rules.Resolved{}
	}
	resp, _ := NewOKResponse(RulesData{Layout: activeName, Rules: resolved})
	return resp
}

func (s *Server) handleGetMonitors() *Response {
	resp, _ := NewOKResponse(MonitorsData{
		Monitors:      s.registry.Known(),
		DefaultLayout: s.registry.DefaultLayout(),
	})
	return resp
}

func (s *Server) handlePruneMonitor(payload json.RawMessage) *Response {
	var p PruneMonitorPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponseKind(ErrorKindValidation, fmt.Sprintf("Invalid prune payload: %v", err))
	}
	if p.MonitorID == "" {
		return NewErrorResponseKind(ErrorKindValidation, "monitor_id is required")
	}

	if err := s.registry.Prune(p.MonitorID); err != nil {
		return errorResponse(err)
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleCreateLayout writes a new layout file describing the current screen
// configuration, with an empty rule list for the user to fill in.
func (s *Server) handleCreateLayout(payload json.RawMessage) *Response {
	var p CreateLayoutPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponseKind(ErrorKindValidation, fmt.Sprintf("Invalid create payload: %v", err))
	}
	if p.Name == "" {
		return NewErrorResponseKind(ErrorKindValidation, "name is required")
	}

	snap, err := s.detector.Detect()
	if err != nil {
		return errorResponse(err)
	}
	if len(snap) == 0 {
		return NewErrorResponseKind(ErrorKindInternal, "no screens detected")
	}

	def := definitionFromSnapshot(p.Name, p.Description, snap)
	fileName, err := s.store.Create(def)
	if err != nil {
		return errorResponse(err)
	}

	log.Printf("IPC: Created layout file %s", fileName)

	resp, _ := NewOKResponse(CreateLayoutData{FileName: fileName})
	return resp
}

func definitionFromSnapshot(name, description string, snap screen.Snapshot) *layout.Definition {
	screens := make([]layout.ScreenRequirement, 0, len(snap))
	tags := []string{fmt.Sprintf("%d-screen", len(snap))}
	seenOrientations := make(map[screen.Orientation]bool)
	for _, scr := range snap {
		screens = append(screens, layout.ScreenRequirement{
			DisplayNumber: scr.DisplayNumber,
			Orientation:   scr.Orientation,
			Description:   fmt.Sprintf("%dx%d", scr.Width, scr.Height),
		})
		if !seenOrientations[scr.Orientation] {
			seenOrientations[scr.Orientation] = true
			tags = append(tags, string(scr.Orientation))
		}
	}

	return &layout.Definition{
		Name:        name,
		Description: description,
		Version:     "1.0",
		ScreenRequirements: layout.Requirements{
			TotalScreens: len(snap),
			Screens:      screens,
		},
		Rules: []layout.Rule{},
		Metadata: &layout.Metadata{
			Created: time.Now().Format(time.RFC3339),
			Tags:    tags,
		},
	}
}

func (s *Server) handleSetDefaultLayout(payload json.RawMessage) *Response {
	var p LayoutNamePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponseKind(ErrorKindValidation, fmt.Sprintf("Invalid set default payload: %v", err))
	}

	// Empty name clears the default.
	if p.LayoutName != "" {
		if _, err := s.store.Load(p.LayoutName); err != nil {
			return errorResponse(err)
		}
	}

	if err := s.registry.SetDefaultLayout(p.LayoutName); err != nil {
		return errorResponse(err)
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleApplyNow() *Response {
	s.scheduler.ApplyNow()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handlePause() *Response {
	s.scheduler.Pause()
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleResume() *Response {
	s.scheduler.Resume()
	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponseKind(ErrorKindValidation, errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
