package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mentorify/mentorify-api/internal/handlers"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
)

func newMentorSessionsRouter(svc *MockBookingService, mentorID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewMentorSessionsHandler(svc)

	router := gin.New()
	mentor := router.Group("/mentor", asUser(mentorID, models.RoleMentor))
	mentor.GET("/sessions/pending", handler.PendingRequests)
	mentor.GET("/sessions", handler.ListSessions)
	mentor.POST("/sessions/:sessionId/accept", handler.AcceptSession)
	mentor.POST("/sessions/:sessionId/complete", handler.CompleteSession)
	mentor.POST("/sessions/:sessionId/cancel", handler.CancelSession)
	mentor.POST("/sessions/:sessionId/meeting-link", handler.AttachMeetingLink)
	return router
}

func TestMentorSessionsHandler_PendingRequests(t *testing.T) {
	mentorID := uuid.New()
	svc := new(MockBookingService)
	router := newMentorSessionsRouter(svc, mentorID)

	svc.On("ListMentorSessions", mock.Anything, mentorID, "pending").
		Return([]*models.Session{
			{SessionID: uuid.New(), Status: models.SessionPending},
			{SessionID: uuid.New(), Status: models.SessionPending},
		}, nil)

	req := httptest.NewRequest("GET", "/mentor/sessions/pending", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PendingRequestsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

func TestMentorSessionsHandler_ListSessions_BucketPassthrough(t *testing.T) {
	mentorID := uuid.New()
	svc := new(MockBookingService)
	router := newMentorSessionsRouter(svc, mentorID)

	svc.On("ListMentorSessions", mock.Anything, mentorID, "completed").
		Return([]*models.Session{}, nil)

	req := httptest.NewRequest("GET", "/mentor/sessions?bucket=completed", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestMentorSessionsHandler_AcceptSession_Success(t *testing.T) {
	mentorID := uuid.New()
	sessionID := uuid.New()
	svc := new(MockBookingService)
	router := newMentorSessionsRouter(svc, mentorID)

	svc.On("AcceptSession", mock.Anything, mentorID, sessionID).
		Return(&models.Session{SessionID: sessionID, Status: models.SessionConfirmed}, nil)

	req := httptest.NewRequest("POST", "/mentor/sessions/"+sessionID.String()+"/accept", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.SessionConfirmed))
}

func TestMentorSessionsHandler_TransitionErrors(t *testing.T) {
	mentorID := uuid.New()
	sessionID := uuid.New()

	tests := []struct {
		name       string
		path       string
		method     string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "accept on non-pending session",
			path:       "/accept",
			method:     "AcceptSession",
			serviceErr: services.ErrInvalidTransition,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "complete on pending session",
			path:       "/complete",
			method:     "CompleteSession",
			serviceErr: services.ErrInvalidTransition,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "cancel on terminal session",
			path:       "/cancel",
			method:     "CancelSession",
			serviceErr: services.ErrInvalidTransition,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "accept on missing session",
			path:       "/accept",
			method:     "AcceptSession",
			serviceErr: services.ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			router := newMentorSessionsRouter(svc, mentorID)

			svc.On(tt.method, mock.Anything, mentorID, sessionID).
				Return(nil, tt.serviceErr)

			req := httptest.NewRequest("POST", "/mentor/sessions/"+sessionID.String()+tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestMentorSessionsHandler_AttachMeetingLink_Success(t *testing.T) {
	mentorID := uuid.New()
	sessionID := uuid.New()
	svc := new(MockBookingService)
	router := newMentorSessionsRouter(svc, mentorID)

	link := "https://meet.google.com/abc-defg-hij"
	svc.On("AttachMeetingLink", mock.Anything, mentorID, sessionID, link).
		Return(&models.Session{SessionID: sessionID, Status: models.SessionConfirmed, MeetingLink: &link}, nil)

	w := postJSON(router, "/mentor/sessions/"+sessionID.String()+"/meeting-link", gin.H{"meetingLink": link})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestMentorSessionsHandler_AttachMeetingLink_NotGoogleMeet(t *testing.T) {
	mentorID := uuid.New()
	sessionID := uuid.New()
	svc := new(MockBookingService)
	router := newMentorSessionsRouter(svc, mentorID)

	link := "https://zoom.us/j/123456"
	svc.On("AttachMeetingLink", mock.Anything, mentorID, sessionID, link).
		Return(nil, services.ErrInvalidLink)

	w := postJSON(router, "/mentor/sessions/"+sessionID.String()+"/meeting-link", gin.H{"meetingLink": link})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMentorSessionsHandler_AttachMeetingLink_NotConfirmed(t *testing.T) {
	mentorID := uuid.New()
	sessionID := uuid.New()
	svc := new(MockBookingService)
	router := newMentorSessionsRouter(svc, mentorID)

	link := "https://meet.google.com/abc-defg-hij"
	svc.On("AttachMeetingLink", mock.Anything, mentorID, sessionID, link).
		Return(nil, services.ErrInvalidTransition)

	w := postJSON(router, "/mentor/sessions/"+sessionID.String()+"/meeting-link", gin.H{"meetingLink": link})

	assert.Equal(t, http.StatusConflict, w.Code)
}
