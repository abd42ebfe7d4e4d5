package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/member-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/member-gate/internal/models"
	"github.com/magabrotheeeer/member-gate/internal/services/notification"
)

// MockService реализует интерфейс publish.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ContentCreated(ctx context.Context, item models.ContentItem) (notification.Report, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(notification.Report), args.Error(1)
}

func (m *MockService) ContentEdited(ctx context.Context, item models.ContentItem) (notification.Report, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(notification.Report), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var post = models.ContentItem{
	Slug:        "budget-2025",
	Title:       "Budget 2025",
	Permalink:   "https://kb.afripoli.org/budget-2025",
	Description: "Annual budget",
	Status:      models.StatusPublished,
}

func TestPublishHandler(t *testing.T) {
	tests := []struct {
		name           string
		event          Event
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "создание опубликованной страницы",
			event:       Created,
			requestBody: post,
			setupMock: func(m *MockService) {
				m.On("ContentCreated", mock.Anything, post).
					Return(notification.Report{Recipients: 3, Sent: 2, Skipped: 1}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"recipients":3,"sent":2,"skipped":1,"failed":0}}`,
		},
		{
			name:        "редактирование страницы",
			event:       Edited,
			requestBody: post,
			setupMock: func(m *MockService) {
				m.On("ContentEdited", mock.Anything, post).
					Return(notification.Report{Recipients: 1, Sent: 1}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"recipients":1,"sent":1,"skipped":0,"failed":0}}`,
		},
		{
			name:           "некорректный JSON",
			event:          Created,
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации",
			event:          Created,
			requestBody:    models.ContentItem{Permalink: "not a url"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Slug is a required field, field Title is a required field, field Permalink must be a valid URL"}`,
		},
		{
			name:        "ошибка получения участников",
			event:       Edited,
			requestBody: post,
			setupMock: func(m *MockService) {
				m.On("ContentEdited", mock.Anything, post).
					Return(notification.Report{}, errors.New("storage down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not notify members"}`,
		},
		{
			name:           "неизвестное событие",
			event:          Event("deleted"),
			requestBody:    post,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"unknown event"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}
			req := httptest.NewRequest(http.MethodPost, "/hooks/content/"+string(tt.event), bytes.NewReader(body))
			rr := httptest.NewRecorder()

			New(newNoopLogger(), service, tt.event).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}

func TestPublishHandler_IgnoresClientCancel(t *testing.T) {
	service := new(MockService)
	service.On("ContentCreated", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), post).Return(notification.Report{}, nil).Once()

	body, _ := json.Marshal(post)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/hooks/content/created", bytes.NewReader(body)).WithContext(ctx)
	rr := httptest.NewRecorder()

	New(newNoopLogger(), service, Created).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	service.AssertExpectations(t)
}

func TestPublishHandler_LongBroadcastOutlivesWriteTimeout(t *testing.T) {
	service := new(MockService)
	service.On("ContentCreated", mock.Anything, post).
		Run(func(_ mock.Arguments) { time.Sleep(300 * time.Millisecond) }).
		Return(notification.Report{Recipients: 5, Sent: 5}, nil).Once()

	h := middlewarectx.NoWriteDeadline(newNoopLogger(), "/hooks/")(New(newNoopLogger(), service, Created))
	srv := httptest.NewUnstartedServer(h)
	srv.Config.WriteTimeout = 100 * time.Millisecond
	srv.Start()
	defer srv.Close()

	body, _ := json.Marshal(post)
	resp, err := http.Post(srv.URL+"/hooks/content/created", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","data":{"recipients":5,"sent":5,"skipped":0,"failed":0}}`, string(got))
	service.AssertExpectations(t)
}
