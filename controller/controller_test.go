package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gala/auth"
	"gala/config"
	"gala/metrics"
	"gala/repository"
	"gala/service"

	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t           *testing.T
	db          *gorm.DB
	cache       *service.ResultsCache
	router      *gin.Engine
	adminToken  string
	judgeToken  string
	gala        *repository.Gala
	category    *repository.GalaCategory
	questions   []*repository.Question
	participant *repository.Participant
}

func token(t *testing.T, user *repository.User) string {
	t.Helper()
	tokenString, err := auth.CreateToken(user)
	require.NoError(t, err)
	return tokenString
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gala.db")+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	s := &testServer{t: t, db: db}
	s.cache = service.NewResultsCache(persistence.NewInMemoryStore(time.Minute), time.Minute)
	dispatcher := service.NewDispatcher(nil, nil, s.cache)
	s.router = gin.New()
	SetRoutes(s.router, db, dispatcher, s.cache)

	admin := &repository.User{Username: "admin", FirstName: "Ada", LastName: "Admin", Role: repository.RoleAdmin}
	judgeUser := &repository.User{Username: "juge", FirstName: "Jeanne", LastName: "Juge", Role: repository.RoleJudge}
	s.create(admin)
	s.create(judgeUser)
	judge := &repository.Judge{UserId: judgeUser.ID}
	s.create(judge)
	s.adminToken = token(t, admin)
	s.judgeToken = token(t, judgeUser)

	s.gala = &repository.Gala{Name: "Gala Excellence", Year: 2025}
	s.create(s.gala)
	category := &repository.Category{Name: "Innovation"}
	s.create(category)
	s.category = &repository.GalaCategory{GalaId: s.gala.Id, CategoryId: category.Id, Active: true}
	s.create(s.category)
	for _, text := range []string{"Originality", "Impact"} {
		question := &repository.Question{GalaCategoryId: s.category.Id, Text: text, Weight: 1}
		s.create(question)
		s.questions = append(s.questions, question)
	}
	company := &repository.Company{Name: "Alpha"}
	s.create(company)
	s.participant = &repository.Participant{CompanyId: company.Id, GalaCategoryId: s.category.Id}
	s.create(s.participant)
	s.create(&repository.JudgeAssignment{JudgeId: judge.Id, GalaCategoryId: s.category.Id})
	return s
}

func (s *testServer) create(value any) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(value).Error)
}

func (s *testServer) do(method string, path string, tokenString string, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tokenString != "" {
		req.Header.Set("Authorization", "Bearer "+tokenString)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) notePath(questionId int) string {
	return fmt.Sprintf("/api/judge/galas/%d/categories/%d/participants/%d/questions/%d",
		s.gala.Id, s.category.Id, s.participant.Id, questionId)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &value))
	return value
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	w := s.do("GET", "/api/judge/galas", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthenticated"}`, w.Body.String())

	w = s.do("GET", "/api/judge/galas", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do("GET", "/api/judge/galas", s.adminToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = s.do("GET", fmt.Sprintf("/api/admin/results?gala_id=%d", s.gala.Id), s.judgeToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest("GET", "/api/judge/galas", nil)
	req.AddCookie(&http.Cookie{Name: "auth", Value: s.judgeToken})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJudgeGalas(t *testing.T) {
	s := newTestServer(t)

	w := s.do("GET", "/api/judge/galas", s.judgeToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	galas := decode[[]JudgeGalaResponse](t, w)
	require.Len(t, galas, 1)
	assert.Equal(t, "Gala Excellence", galas[0].Name)
	assert.Equal(t, 2, galas[0].Total)
	assert.Equal(t, "en_attente", string(galas[0].Status))
	assert.False(t, galas[0].Locked)

	w = s.do("GET", "/api/judge/galas/abc", s.judgeToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid gala_id"}`, w.Body.String())

	w = s.do("GET", "/api/judge/galas/4242", s.judgeToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateNoteParsesPartialBodies(t *testing.T) {
	s := newTestServer(t)

	w := s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":"7.5","commentaire":"solide"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	note := decode[NoteResponse](t, w)
	require.NotNil(t, note.Value)
	assert.Equal(t, 7.5, *note.Value)
	require.NotNil(t, note.Comment)
	assert.Equal(t, "solide", *note.Comment)
	assert.Equal(t, s.participant.Id, note.TargetParticipantId)
	assert.Equal(t, 1, note.Progress.Completed)
	assert.Equal(t, 2, note.Progress.Total)

	w = s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"commentaire":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	note = decode[NoteResponse](t, w)
	require.NotNil(t, note.Value)
	assert.Equal(t, 7.5, *note.Value)
	assert.Nil(t, note.Comment)

	w = s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	note = decode[NoteResponse](t, w)
	assert.Nil(t, note.Value)
	assert.Equal(t, 0, note.Progress.Completed)

	w = s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid note value"}`, w.Body.String())

	w = s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":11}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"note value must be between 0 and 10"}`, w.Body.String())

	w = s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitAndFavoriteEndpoints(t *testing.T) {
	s := newTestServer(t)
	base := fmt.Sprintf("/api/judge/galas/%d", s.gala.Id)

	w := s.do("POST", base+"/submit", s.judgeToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do("PUT", base+"/favorite", s.judgeToken, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do("PUT", base+"/favorite", s.judgeToken, fmt.Sprintf(`{"participant_id":%d}`, s.participant.Id))
	require.Equal(t, http.StatusOK, w.Code)
	favorite := decode[FavoriteResponse](t, w)
	require.NotNil(t, favorite.ParticipantId)
	assert.Equal(t, s.participant.Id, *favorite.ParticipantId)

	w = s.do("DELETE", base+"/favorite", s.judgeToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	for _, question := range s.questions {
		w = s.do("PATCH", s.notePath(question.Id), s.judgeToken, `{"valeur":8}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = s.do("POST", base+"/submit", s.judgeToken, "")
	require.Equal(t, http.StatusCreated, w.Code)
	submission := decode[SubmissionResponse](t, w)
	assert.Equal(t, s.gala.Id, submission.GalaId)

	w = s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":9}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"already submitted"}`, w.Body.String())
}

func TestAdminResultsAndLocking(t *testing.T) {
	s := newTestServer(t)
	w := s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":6}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do("GET", "/api/admin/results", s.adminToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"gala_id is required"}`, w.Body.String())

	w = s.do("GET", fmt.Sprintf("/api/admin/results?gala_id=%d", s.gala.Id), s.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	results := decode[service.Results](t, w)
	require.Len(t, results.Categories, 1)
	require.Len(t, results.Categories[0].Participants, 1)
	require.NotNil(t, results.Categories[0].Participants[0].ScoreFinal)
	assert.Equal(t, 6.0, *results.Categories[0].Participants[0].ScoreFinal)

	w = s.do("GET", "/api/admin/results?gala_id=4242", s.adminToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	lockPath := fmt.Sprintf("/api/admin/galas/%d/lock", s.gala.Id)
	w = s.do("POST", lockPath, s.adminToken, "")
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do("POST", lockPath, s.adminToken, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do("PATCH", s.notePath(s.questions[1].Id), s.judgeToken, `{"valeur":6}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"gala locked"}`, w.Body.String())

	w = s.do("GET", "/api/admin/galas", s.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	galas := decode[[]GalaSummaryResponse](t, w)
	require.Len(t, galas, 1)
	assert.True(t, galas[0].Locked)

	w = s.do("DELETE", lockPath, s.adminToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do("DELETE", lockPath, s.adminToken, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminQuestionEndpoints(t *testing.T) {
	s := newTestServer(t)
	path := fmt.Sprintf("/api/admin/galas/%d/categories/%d/questions", s.gala.Id, s.category.Id)

	w := s.do("POST", path, s.adminToken, `{"texte":"Vision","ponderation":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	question := decode[QuestionResponse](t, w)
	assert.Equal(t, "Vision", question.Text)

	w = s.do("PATCH", fmt.Sprintf("%s/%d", path, question.Id), s.adminToken, `{"ponderation":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do("DELETE", fmt.Sprintf("%s/%d", path, question.Id), s.adminToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do("PATCH", fmt.Sprintf("/api/admin/galas/%d", s.gala.Id), s.adminToken, `{"lieu":"Québec"}`)
	require.Equal(t, http.StatusOK, w.Code)
	gala := decode[GalaResponse](t, w)
	require.NotNil(t, gala.Venue)
	assert.Equal(t, "Québec", *gala.Venue)
}

func TestResultsWebSocketStreamsUpdates(t *testing.T) {
	s := newTestServer(t)
	results := service.NewResultService(s.db, s.cache)
	hub := NewResultsHub(results)
	r := gin.New()
	r.GET("/ws", AuthMiddleware([]repository.Role{repository.RoleAdmin}), hub.WebSocketHandler)
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + fmt.Sprintf("/ws?gala_id=%d&token=%s", s.gala.Id, s.adminToken)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var initial service.Results
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, s.gala.Id, initial.Meta.Gala.Id)
	assert.Equal(t, 0, initial.Categories[0].Progress.Recorded)
	require.Eventually(t, func() bool { return hub.Subscribers(s.gala.Id) == 1 }, time.Second, 10*time.Millisecond)

	w := s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":7}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var updated service.Results
	require.NoError(t, conn.ReadJSON(&updated))
	assert.Equal(t, 1, updated.Categories[0].Progress.Recorded)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(s.gala.Id) == 0 }, time.Second, 10*time.Millisecond)
}

func cacheLookups(t *testing.T, outcome string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, metrics.ResultsCacheCounter.WithLabelValues(outcome).Write(m))
	return m.GetCounter().GetValue()
}

func TestResultsWebSocketComputesOncePerView(t *testing.T) {
	s := newTestServer(t)
	hub := NewResultsHub(service.NewResultService(s.db, s.cache))
	r := gin.New()
	r.GET("/ws", AuthMiddleware([]repository.Role{repository.RoleAdmin}), hub.WebSocketHandler)
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + fmt.Sprintf("/ws?gala_id=%d&token=%s", s.gala.Id, s.adminToken)
	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()
		var initial service.Results
		require.NoError(t, conn.ReadJSON(&initial))
		conns[i] = conn
	}
	require.Eventually(t, func() bool { return hub.Subscribers(s.gala.Id) == 3 }, time.Second, 10*time.Millisecond)
	misses, hits := cacheLookups(t, "miss"), cacheLookups(t, "hit")

	w := s.do("PATCH", s.notePath(s.questions[0].Id), s.judgeToken, `{"valeur":4}`)
	require.Equal(t, http.StatusOK, w.Code)

	for _, conn := range conns {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var updated service.Results
		require.NoError(t, conn.ReadJSON(&updated))
		assert.Equal(t, 1, updated.Categories[0].Progress.Recorded)
	}
	assert.Equal(t, misses+1, cacheLookups(t, "miss"))
	assert.Equal(t, hits, cacheLookups(t, "hit"))
	assert.Equal(t, 3, hub.Subscribers(s.gala.Id))
}

func TestResultsWebSocketRejectsJudges(t *testing.T) {
	s := newTestServer(t)
	hub := NewResultsHub(service.NewResultService(s.db, s.cache))
	r := gin.New()
	r.GET("/ws", AuthMiddleware(nil), hub.WebSocketHandler)

	req := httptest.NewRequest("GET", fmt.Sprintf("/ws?gala_id=%d&token=%s", s.gala.Id, s.judgeToken), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserSelf(t *testing.T) {
	s := newTestServer(t)

	w := s.do("GET", "/api/users/self", s.judgeToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[UserResponse](t, w)
	assert.Equal(t, "Jeanne", user.FirstName)
	assert.Equal(t, repository.RoleJudge, user.Role)
	assert.NotNil(t, user.JudgeId)

	w = s.do("GET", "/api/users/self", s.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	user = decode[UserResponse](t, w)
	assert.Equal(t, repository.RoleAdmin, user.Role)
	assert.Nil(t, user.JudgeId)

	w = s.do("GET", "/api/users/self", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do("POST", "/api/users/logout", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "auth=;")
}
