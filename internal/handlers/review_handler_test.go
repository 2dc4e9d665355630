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

func newReviewRouter(svc *MockReviewService, menteeID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewReviewHandler(svc)

	router := gin.New()
	mentee := router.Group("/mentee", asUser(menteeID, models.RoleMentee))
	mentee.POST("/reviews", handler.SubmitReview)
	mentee.GET("/sessions/:sessionId/review", handler.GetSessionReview)
	router.GET("/mentors/:mentorId/reviews", handler.ListMentorReviews)
	return router
}

func validReviewPayload(sessionID, mentorID uuid.UUID) models.SubmitReviewRequest {
	return models.SubmitReviewRequest{
		SessionID: sessionID.String(),
		MentorID:  mentorID.String(),
		Rating:    5,
		Comment:   "Great session, very practical advice",
	}
}

func TestReviewHandler_SubmitReview_Success(t *testing.T) {
	menteeID := uuid.New()
	sessionID := uuid.New()
	mentorID := uuid.New()
	svc := new(MockReviewService)
	router := newReviewRouter(svc, menteeID)

	svc.On("SubmitReview", mock.Anything, menteeID, mock.MatchedBy(func(r *models.SubmitReviewRequest) bool {
		return r.SessionID == sessionID.String() && r.Rating == 5
	})).Return(&models.Review{ID: uuid.New(), SessionID: sessionID, Rating: 5}, nil)

	w := postJSON(router, "/mentee/reviews", validReviewPayload(sessionID, mentorID))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.SubmitReviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.ReviewID)
}

func TestReviewHandler_SubmitReview_RatingOutOfRange(t *testing.T) {
	svc := new(MockReviewService)
	router := newReviewRouter(svc, uuid.New())

	payload := validReviewPayload(uuid.New(), uuid.New())
	payload.Rating = 6

	w := postJSON(router, "/mentee/reviews", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SubmitReview")
}

func TestReviewHandler_SubmitReview_ServiceErrors(t *testing.T) {
	menteeID := uuid.New()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "duplicate review",
			serviceErr: services.ErrReviewAlreadyExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "session not completed",
			serviceErr: services.ErrReviewSessionNotDone,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "session belongs to someone else",
			serviceErr: services.ErrReviewWrongSession,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "session missing",
			serviceErr: services.ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReviewService)
			router := newReviewRouter(svc, menteeID)

			svc.On("SubmitReview", mock.Anything, menteeID, mock.Anything).
				Return(nil, tt.serviceErr)

			w := postJSON(router, "/mentee/reviews", validReviewPayload(uuid.New(), uuid.New()))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestReviewHandler_GetSessionReview_None(t *testing.T) {
	menteeID := uuid.New()
	sessionID := uuid.New()
	svc := new(MockReviewService)
	router := newReviewRouter(svc, menteeID)

	svc.On("GetSessionReview", mock.Anything, menteeID, sessionID).Return(nil, nil)

	req := httptest.NewRequest("GET", "/mentee/sessions/"+sessionID.String()+"/review", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ReviewsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Reviews)
}

func TestReviewHandler_GetSessionReview_Found(t *testing.T) {
	menteeID := uuid.New()
	sessionID := uuid.New()
	svc := new(MockReviewService)
	router := newReviewRouter(svc, menteeID)

	svc.On("GetSessionReview", mock.Anything, menteeID, sessionID).
		Return(&models.Review{ID: uuid.New(), SessionID: sessionID, Rating: 4}, nil)

	req := httptest.NewRequest("GET", "/mentee/sessions/"+sessionID.String()+"/review", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ReviewsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Reviews, 1)
	assert.Equal(t, 4, resp.Data.Reviews[0].Rating)
}

func TestReviewHandler_ListMentorReviews(t *testing.T) {
	mentorID := uuid.New()
	svc := new(MockReviewService)
	router := newReviewRouter(svc, uuid.New())

	svc.On("ListMentorReviews", mock.Anything, mentorID).
		Return([]models.Review{{Rating: 5, MenteeName: "A Mentee"}}, nil)

	req := httptest.NewRequest("GET", "/mentors/"+mentorID.String()+"/reviews", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A Mentee")
}
