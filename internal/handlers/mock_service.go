package handlers

import (
	"context"
	"net/http"
	"sync"

	"cube_navigator/internal/models"
	"cube_navigator/internal/motion"
	"cube_navigator/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

// mockAuth accepts any token and resolves it to identity unless parseErr
// is set.
type mockAuth struct {
	user     models.User
	token    string
	identity models.Identity
	err      error
	parseErr error

	signUps   []string
	lastToken string
}

func operatorAuth(id int) *mockAuth {
	return &mockAuth{identity: models.Identity{UserID: id, Role: models.RoleOperator}}
}

func viewerAuth(id int) *mockAuth {
	return &mockAuth{identity: models.Identity{UserID: id, Role: models.RoleViewer}}
}

func (m *mockAuth) SignUp(_ context.Context, username, _ string) (models.User, error) {
	m.signUps = append(m.signUps, username)
	return m.user, m.err
}
func (m *mockAuth) GenerateToken(_ context.Context, _, _ string) (string, error) {
	return m.token, m.err
}
func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.lastToken = token
	return m.identity, m.parseErr
}
func (m *mockAuth) SetRole(context.Context, string, string) error {
	return m.err
}

type mockNavigator struct {
	sighting service.Sighting
	approach service.Approach
	commands []motion.Command
	err      error
	busy     bool

	findCalls     int
	moveCalls     int
	goToPoseCalls int
	lastPose      [3]float64
	hadDeadline   bool
}

func (m *mockNavigator) FindCube(ctx context.Context) (service.Sighting, error) {
	m.findCalls++
	_, m.hadDeadline = ctx.Deadline()
	return m.sighting, m.err
}
func (m *mockNavigator) MoveToCube(ctx context.Context) (service.Approach, error) {
	m.moveCalls++
	_, m.hadDeadline = ctx.Deadline()
	return m.approach, m.err
}
func (m *mockNavigator) GoToPose(ctx context.Context, x, y, angleZDeg float64) ([]motion.Command, error) {
	m.goToPoseCalls++
	m.lastPose = [3]float64{x, y, angleZDeg}
	_, m.hadDeadline = ctx.Deadline()
	return m.commands, m.err
}
func (m *mockNavigator) Busy() bool {
	return m.busy
}

type mockMonitoring struct {
	mu    sync.Mutex
	state models.RobotState
	err   error
	reads int
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.RobotState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	return m.state, m.err
}

func (m *mockMonitoring) set(st models.RobotState) {
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
}

func (m *mockMonitoring) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

type mockEventLog struct {
	resp  []models.RobotEvent
	err   error
	last  service.LogFilter
	calls int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.RobotEvent, error) {
	m.calls++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
