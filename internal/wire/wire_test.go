package wire

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/security"
	"Atelier/internal/testutil"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	jwt    *security.JWT
}

func (s *testServer) do(method, path string, userID uint64, roles []string, body any) envelope {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := s.jwt.GenerateToken(userID, roles)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(s.t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, resp envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func newTestServer(t *testing.T) (*testServer, *ApplicationContainer) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "atelier"
	config.Cfg = cfg

	db := testutil.NewDB(t)
	app, err := BuildApplication(db, cfg)
	require.NoError(t, err)
	return &testServer{t: t, router: app.Router, jwt: security.NewJWT(cfg.JWT)}, app
}

func TestBuildApplication(t *testing.T) {
	_, app := newTestServer(t)
	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.CronMgr)
	assert.Nil(t, app.KafkaManager)
}

func TestLikeAndNotificationFlow(t *testing.T) {
	srv, app := newTestServer(t)
	owner := testutil.CreateProfile(t, app.DB, "owner")
	fan := testutil.CreateProfile(t, app.DB, "fan")

	resp := srv.do(http.MethodPost, "/api/models", owner.ID, nil, dto.EntityCreateReq{Name: "Oak Table"})
	require.Equal(t, 200, resp.Code, resp.Message)
	entity := decode[dto.EntityDTO](t, resp)
	assert.Equal(t, "oak-table", entity.Slug)
	entityPath := "/api/likes/" + strconv.FormatUint(entity.ID, 10)

	// 未登录不能点赞
	resp = srv.do(http.MethodPost, entityPath, 0, nil, nil)
	assert.Equal(t, 401, resp.Code)

	resp = srv.do(http.MethodPost, entityPath, fan.ID, nil, nil)
	require.Equal(t, 200, resp.Code, resp.Message)
	state := decode[dto.LikeStateDTO](t, resp)
	assert.True(t, state.Changed)
	assert.Equal(t, int64(1), state.LikeCount)

	resp = srv.do(http.MethodPost, entityPath, fan.ID, nil, nil)
	assert.False(t, decode[dto.LikeStateDTO](t, resp).Changed)

	resp = srv.do(http.MethodGet, entityPath, 0, nil, nil)
	stats := decode[dto.EntityStatsDTO](t, resp)
	assert.Equal(t, int64(1), stats.LikeCount)
	assert.False(t, stats.IsLiked)

	resp = srv.do(http.MethodGet, entityPath, fan.ID, nil, nil)
	assert.True(t, decode[dto.EntityStatsDTO](t, resp).IsLiked)

	resp = srv.do(http.MethodGet, "/api/notifications/unread", owner.ID, nil, nil)
	assert.Equal(t, int64(1), decode[dto.NotificationUnreadDTO](t, resp).UnreadCount)

	resp = srv.do(http.MethodGet, "/api/notifications", owner.ID, nil, nil)
	list := decode[dto.NotificationListDTO](t, resp)
	require.Len(t, list.List, 1)
	assert.Equal(t, string(model.ActionNewModelLike), list.List[0].ActionID)
	assert.Equal(t, "fan", list.List[0].Notifier.Username)
	require.NotNil(t, list.List[0].Model)
	assert.Equal(t, "oak-table", list.List[0].Model.Slug)

	// 没有 ids 也没有 all 不允许全部已读
	resp = srv.do(http.MethodPut, "/api/notifications/seen", owner.ID, nil, map[string]any{})
	assert.Equal(t, 400, resp.Code)

	resp = srv.do(http.MethodPut, "/api/notifications/seen", owner.ID, nil, dto.NotificationSeenReq{All: true})
	require.Equal(t, 200, resp.Code, resp.Message)
	assert.Equal(t, int64(1), decode[dto.AffectedDTO](t, resp).Count)

	resp = srv.do(http.MethodDelete, entityPath, fan.ID, nil, nil)
	require.Equal(t, 200, resp.Code, resp.Message)
	assert.Equal(t, int64(0), decode[dto.LikeStateDTO](t, resp).LikeCount)
	assert.Equal(t, int64(0), testutil.Count(t, app.DB, &model.Notification{}))
}

func TestCommentRoutes(t *testing.T) {
	srv, app := newTestServer(t)
	owner := testutil.CreateProfile(t, app.DB, "owner")
	fan := testutil.CreateProfile(t, app.DB, "fan")
	entity := testutil.CreateInterior(t, app.DB, owner.ID, "loft")

	resp := srv.do(http.MethodPost, "/api/comments", fan.ID, nil, dto.CommentCreateReq{
		EntityID:     entity.ID,
		EntitySource: string(model.EntitySourceInterior),
		Text:         "  lovely light  ",
	})
	require.Equal(t, 200, resp.Code, resp.Message)
	comment := decode[dto.CommentDTO](t, resp)
	assert.Equal(t, "lovely light", comment.Text)

	resp = srv.do(http.MethodPost, "/api/comments", fan.ID, nil, map[string]any{
		"entity_id":     entity.ID,
		"entity_source": "post",
		"text":          "x",
	})
	assert.Equal(t, 400, resp.Code)

	resp = srv.do(http.MethodGet, "/api/comments?entity_id="+strconv.FormatUint(entity.ID, 10), 0, nil, nil)
	require.Equal(t, 200, resp.Code, resp.Message)
	comments := decode[[]*dto.CommentDTO](t, resp)
	require.Len(t, comments, 1)
	assert.NotNil(t, comments[0].Replies)

	// 非作者不能修改
	commentPath := "/api/comments/" + strconv.FormatUint(comment.ID, 10)
	resp = srv.do(http.MethodPut, commentPath, owner.ID, nil, dto.CommentUpdateReq{Text: "hijack"})
	assert.Equal(t, 401, resp.Code)

	resp = srv.do(http.MethodPost, commentPath+"/likes", owner.ID, nil, nil)
	require.Equal(t, 200, resp.Code, resp.Message)
	assert.Equal(t, int64(1), decode[dto.CommentLikeStateDTO](t, resp).LikeCount)

	adminPath := "/api/admin/comments?user_id=" + strconv.FormatUint(fan.ID, 10)
	resp = srv.do(http.MethodDelete, adminPath, owner.ID, nil, nil)
	assert.Equal(t, 403, resp.Code)

	resp = srv.do(http.MethodDelete, adminPath, owner.ID, []string{"ADMIN"}, nil)
	require.Equal(t, 200, resp.Code, resp.Message)
	assert.Equal(t, int64(1), decode[dto.AffectedDTO](t, resp).Count)
	assert.Equal(t, int64(0), testutil.Count(t, app.DB, &model.Comment{}))
	assert.Equal(t, int64(0), testutil.Count(t, app.DB, &model.CommentLike{}))
}
