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
	"github.com/mentorify/mentorify-api/internal/middleware"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
	apperrors "github.com/mentorify/mentorify-api/pkg/errors"
)

// asUser injects an authenticated identity, standing in for AuthMiddleware
func asUser(id uuid.UUID, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthUserContextKey, &middleware.AuthUser{
			ID:   id,
			Role: role,
		})
		c.Next()
	}
}

func newBookingRouter(svc *MockBookingService, menteeID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewBookingHandler(svc)

	router := gin.New()
	mentee := router.Group("/mentee", asUser(menteeID, models.RoleMentee))
	mentee.POST("/sessions", handler.BookSession)
	mentee.GET("/sessions", handler.ListSessions)
	mentee.POST("/sessions/:sessionId/cancel", handler.CancelSession)
	mentee.GET("/sessions/:sessionId/meeting-link", handler.GetMeetingLink)
	return router
}

func validBookingPayload(mentorID uuid.UUID) models.BookSessionRequest {
	return models.BookSessionRequest{
		MentorID: mentorID.String(),
		Day:      "Monday",
		Date:     "2026-09-07",
		TimeSlot: "9:00 AM - 10:00 AM",
		Message:  "Looking for help with system design",
	}
}

func TestBookingHandler_BookSession_Success(t *testing.T) {
	menteeID := uuid.New()
	mentorID := uuid.New()
	svc := new(MockBookingService)
	router := newBookingRouter(svc, menteeID)

	session := &models.Session{
		SessionID: uuid.New(),
		MentorID:  mentorID,
		MenteeID:  menteeID,
		Status:    models.SessionPending,
	}
	svc.On("ProposeBooking", mock.Anything, menteeID, mock.MatchedBy(func(r *models.BookSessionRequest) bool {
		return r.MentorID == mentorID.String() && r.TimeSlot == "9:00 AM - 10:00 AM"
	})).Return(session, nil)

	w := postJSON(router, "/mentee/sessions", validBookingPayload(mentorID))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.BookSessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.SessionPending, resp.Session.Status)
	svc.AssertExpectations(t)
}

func TestBookingHandler_BookSession_SlotTaken(t *testing.T) {
	menteeID := uuid.New()
	svc := new(MockBookingService)
	router := newBookingRouter(svc, menteeID)

	svc.On("ProposeBooking", mock.Anything, menteeID, mock.Anything).
		Return(nil, services.ErrSlotUnavailable)

	w := postJSON(router, "/mentee/sessions", validBookingPayload(uuid.New()))

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp models.BookSessionResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestBookingHandler_BookSession_InvalidDate(t *testing.T) {
	menteeID := uuid.New()
	svc := new(MockBookingService)
	router := newBookingRouter(svc, menteeID)

	svc.On("ProposeBooking", mock.Anything, menteeID, mock.Anything).
		Return(nil, services.ErrInvalidDate)

	w := postJSON(router, "/mentee/sessions", validBookingPayload(uuid.New()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_BookSession_MissingFields(t *testing.T) {
	svc := new(MockBookingService)
	router := newBookingRouter(svc, uuid.New())

	w := postJSON(router, "/mentee/sessions", gin.H{"day": "Monday"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ProposeBooking")
}

func TestBookingHandler_ListSessions_DefaultBucket(t *testing.T) {
	menteeID := uuid.New()
	svc := new(MockBookingService)
	router := newBookingRouter(svc, menteeID)

	svc.On("ListMenteeSessions", mock.Anything, menteeID, "upcoming").
		Return([]*models.Session{{SessionID: uuid.New()}}, nil)

	req := httptest.NewRequest("GET", "/mentee/sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SessionsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestBookingHandler_CancelSession_InvalidTransition(t *testing.T) {
	menteeID := uuid.New()
	sessionID := uuid.New()
	svc := new(MockBookingService)
	router := newBookingRouter(svc, menteeID)

	svc.On("CancelSession", mock.Anything, menteeID, sessionID).
		Return(nil, services.ErrInvalidTransition)

	req := httptest.NewRequest("POST", "/mentee/sessions/"+sessionID.String()+"/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_CancelSession_BadID(t *testing.T) {
	svc := new(MockBookingService)
	router := newBookingRouter(svc, uuid.New())

	req := httptest.NewRequest("POST", "/mentee/sessions/not-a-uuid/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CancelSession")
}

func TestBookingHandler_GetMeetingLink(t *testing.T) {
	menteeID := uuid.New()
	sessionID := uuid.New()

	tests := []struct {
		name       string
		returnLink string
		returnErr  error
		wantStatus int
	}{
		{
			name:       "link attached",
			returnLink: "https://meet.google.com/abc-defg-hij",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no link yet",
			returnErr:  services.ErrNoMeetingLink,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not a participant",
			returnErr:  apperrors.ErrAccessDenied,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "session missing",
			returnErr:  services.ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBookingService)
			router := newBookingRouter(svc, menteeID)

			svc.On("GetMeetingLink", mock.Anything, menteeID, sessionID).
				Return(tt.returnLink, tt.returnErr)

			req := httptest.NewRequest("GET", "/mentee/sessions/"+sessionID.String()+"/meeting-link", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.returnErr == nil {
				var resp models.MeetingLinkResponse
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.returnLink, resp.Data.MeetingLink)
			}
		})
	}
}
