package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockPostRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) GetLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Like), args.Error(1)
}

func (m *MockPostRepository) RemoveLikesByUser(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCommentRepository is a mock of the CommentRepository interface.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestCreatePost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockUsers := new(MockUserRepository)
	s := newTestServer(mockUsers, new(MockProfileRepository), mockPosts, new(MockCommentRepository))

	app := fiber.New()
	app.Post("/posts", asUser(1), s.CreatePost)

	t.Run("Success", func(t *testing.T) {
		mockUsers.On("GetByID", mock.Anything, uint(1)).
			Return(&models.User{ID: 1, Name: "John Doe", Avatar: "//gravatar/john"}, nil).Once()
		mockPosts.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.AuthorName == "John Doe" && p.Text == "Hello world"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Post).ID = 42
		}).Return(nil).Once()
		mockPosts.On("GetByID", mock.Anything, uint(42)).
			Return(&models.Post{ID: 42, UserID: 1, Text: "Hello world", AuthorName: "John Doe"}, nil).Once()

		body, _ := json.Marshal(map[string]string{"text": "Hello world"})
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockPosts.AssertExpectations(t)
	})

	t.Run("Empty text", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"text": ""})
		req := httptest.NewRequest(http.MethodPost, "/posts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeletePost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	s := newTestServer(new(MockUserRepository), new(MockProfileRepository), mockPosts, new(MockCommentRepository))

	app := fiber.New()
	app.Delete("/posts/:id", asUser(1), s.DeletePost)

	t.Run("Owner deletes", func(t *testing.T) {
		mockPosts.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Post{ID: 5, UserID: 1}, nil).Once()
		mockPosts.On("Delete", mock.Anything, uint(5)).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/posts/5", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Non-owner is forbidden", func(t *testing.T) {
		mockPosts.On("GetByID", mock.Anything, uint(6)).
			Return(&models.Post{ID: 6, UserID: 99}, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/posts/6", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Missing post", func(t *testing.T) {
		mockPosts.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Post", uint(99))).Once()

		req := httptest.NewRequest(http.MethodDelete, "/posts/99", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLikeUnlikePost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	s := newTestServer(new(MockUserRepository), new(MockProfileRepository), mockPosts, new(MockCommentRepository))

	app := fiber.New()
	app.Put("/posts/:id/like", asUser(1), s.LikePost)
	app.Put("/posts/:id/unlike", asUser(1), s.UnlikePost)

	post := &models.Post{ID: 5, UserID: 2, Text: "hello"}

	t.Run("Like returns updated list", func(t *testing.T) {
		mockPosts.On("GetByID", mock.Anything, uint(5)).Return(post, nil).Once()
		mockPosts.On("IsLiked", mock.Anything, uint(1), uint(5)).Return(false, nil).Once()
		mockPosts.On("Like", mock.Anything, uint(1), uint(5)).Return(nil).Once()
		mockPosts.On("GetLikes", mock.Anything, uint(5)).
			Return([]models.Like{{UserID: 1, PostID: 5}}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/posts/5/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var likes []models.Like
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&likes))
		assert.Len(t, likes, 1)
	})

	t.Run("Double like is rejected", func(t *testing.T) {
		mockPosts.On("GetByID", mock.Anything, uint(5)).Return(post, nil).Once()
		mockPosts.On("IsLiked", mock.Anything, uint(1), uint(5)).Return(true, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/posts/5/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, models.CodeAlreadyLiked, errResp.Code)
	})

	t.Run("Unlike without like is rejected", func(t *testing.T) {
		mockPosts.On("GetByID", mock.Anything, uint(5)).Return(post, nil).Once()
		mockPosts.On("IsLiked", mock.Anything, uint(1), uint(5)).Return(false, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/posts/5/unlike", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, models.CodeNotLiked, errResp.Code)
	})
}

func TestCreateComment(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockUsers := new(MockUserRepository)
	mockComments := new(MockCommentRepository)
	s := newTestServer(mockUsers, new(MockProfileRepository), mockPosts, mockComments)

	app := fiber.New()
	app.Post("/posts/:id/comments", asUser(1), s.CreateComment)

	mockPosts.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Post{ID: 5, UserID: 2}, nil).Once()
	mockUsers.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Name: "John Doe"}, nil).Once()
	mockComments.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.PostID == 5 && c.AuthorName == "John Doe"
	})).Return(nil).Once()
	mockComments.On("ListByPost", mock.Anything, uint(5)).
		Return([]models.Comment{{ID: 1, PostID: 5, Text: "nice"}}, nil).Once()

	body, _ := json.Marshal(map[string]string{"text": "nice"})
	req := httptest.NewRequest(http.MethodPost, "/posts/5/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockComments.AssertExpectations(t)
}
