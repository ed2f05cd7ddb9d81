package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"codearena/internal/cache"
	apperrors "codearena/internal/errors"
	"codearena/internal/model"
)

// MockQuestionRepository is a mock implementation of QuestionRepository.
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) ([]model.Question, error) {
	args := m.Called(ctx, questions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestCache(t *testing.T) *cache.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func fourCaseQuestion() *model.Question {
	return &model.Question{
		ID:         1,
		Title:      "Two Sum",
		Difficulty: "EASY",
		TestCases: []model.TestCase{
			{Input: "1", ExpectedOutput: "a"},
			{Input: "2", ExpectedOutput: "b"},
			{Input: "3", ExpectedOutput: "c"},
			{Input: "4", ExpectedOutput: "d"},
		},
	}
}

func TestQuestionService_GetQuestion(t *testing.T) {
	t.Run("public fetch truncates to the sample cases", func(t *testing.T) {
		mockRepo := new(MockQuestionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(fourCaseQuestion(), nil)

		svc := NewQuestionService(mockRepo, newTestCache(t))
		question, err := svc.GetQuestion(context.Background(), 1, false)

		assert.NoError(t, err)
		assert.Len(t, question.TestCases, model.SampleTestCaseLimit)
		assert.Equal(t, "a", question.TestCases[0].ExpectedOutput)
	})

	t.Run("full fetch keeps hidden cases", func(t *testing.T) {
		mockRepo := new(MockQuestionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(fourCaseQuestion(), nil)

		svc := NewQuestionService(mockRepo, newTestCache(t))
		question, err := svc.GetQuestion(context.Background(), 1, true)

		assert.NoError(t, err)
		assert.Len(t, question.TestCases, 4)
	})

	t.Run("missing question reports not found", func(t *testing.T) {
		mockRepo := new(MockQuestionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewQuestionService(mockRepo, newTestCache(t))
		_, err := svc.GetQuestion(context.Background(), 99, false)
		assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
	})
}

func TestQuestionService_ListQuestions(t *testing.T) {
	questions := []model.Question{{ID: 1, Title: "Two Sum"}, {ID: 2, Title: "Valid Parentheses"}}

	mockRepo := new(MockQuestionRepository)
	mockRepo.On("List", mock.Anything).Return(questions, nil).Once()

	svc := NewQuestionService(mockRepo, newTestCache(t))

	first, err := svc.ListQuestions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, first, 2)

	// Second call is served from the cache; the repository is not hit again.
	second, err := svc.ListQuestions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	mockRepo.AssertExpectations(t)
}

func TestQuestionService_ListCacheInvalidation(t *testing.T) {
	mockRepo := new(MockQuestionRepository)
	mockRepo.On("List", mock.Anything).Return([]model.Question{{ID: 1, Title: "Two Sum"}}, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Question")).Return(nil)
	mockRepo.On("List", mock.Anything).Return([]model.Question{
		{ID: 1, Title: "Two Sum"},
		{ID: 2, Title: "Valid Parentheses"},
	}, nil).Once()

	svc := NewQuestionService(mockRepo, newTestCache(t))
	ctx := context.Background()

	first, err := svc.ListQuestions(ctx)
	assert.NoError(t, err)
	assert.Len(t, first, 1)

	_, err = svc.AddQuestion(ctx, &model.Question{Title: "Valid Parentheses"})
	assert.NoError(t, err)

	second, err := svc.ListQuestions(ctx)
	assert.NoError(t, err)
	assert.Len(t, second, 2)
	mockRepo.AssertExpectations(t)
}

func TestQuestionService_AddQuestions(t *testing.T) {
	batch := []model.Question{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	mockRepo := new(MockQuestionRepository)
	mockRepo.On("CreateBatch", mock.Anything, batch).Return(batch, nil)

	svc := NewQuestionService(mockRepo, newTestCache(t))
	saved, err := svc.AddQuestions(context.Background(), batch)

	assert.NoError(t, err)
	assert.Len(t, saved, 3)
	mockRepo.AssertExpectations(t)
}

func TestQuestionService_UpdateQuestion(t *testing.T) {
	t.Run("copies the updatable fields", func(t *testing.T) {
		existing := &model.Question{ID: 1, Title: "Old", Difficulty: "EASY"}
		mockRepo := new(MockQuestionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(existing, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Question")).Return(nil)

		svc := NewQuestionService(mockRepo, newTestCache(t))
		updated, err := svc.UpdateQuestion(context.Background(), 1, &model.Question{
			Title:      "New",
			Difficulty: "HARD",
			TestCases:  []model.TestCase{{Input: "x", ExpectedOutput: "y"}},
		})

		assert.NoError(t, err)
		assert.Equal(t, uint(1), updated.ID)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "HARD", updated.Difficulty)
		assert.Len(t, updated.TestCases, 1)
	})

	t.Run("missing question reports not found", func(t *testing.T) {
		mockRepo := new(MockQuestionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewQuestionService(mockRepo, newTestCache(t))
		_, err := svc.UpdateQuestion(context.Background(), 99, &model.Question{Title: "X"})
		assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
	})
}

func TestQuestionService_DeleteQuestion(t *testing.T) {
	t.Run("deletes an existing question", func(t *testing.T) {
		mockRepo := new(MockQuestionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(1)).Return(&model.Question{ID: 1}, nil)
		mockRepo.On("Delete", mock.Anything, uint(1)).Return(nil)

		svc := NewQuestionService(mockRepo, newTestCache(t))
		assert.NoError(t, svc.DeleteQuestion(context.Background(), 1))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing question reports not found", func(t *testing.T) {
		mockRepo := new(MockQuestionRepository)
		mockRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewQuestionService(mockRepo, newTestCache(t))
		assert.ErrorIs(t, svc.DeleteQuestion(context.Background(), 99), apperrors.ErrQuestionNotFound)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
