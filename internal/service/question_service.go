package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"codearena/internal/cache"
	apperrors "codearena/internal/errors"
	"codearena/internal/model"
	"codearena/internal/repository"
)

const (
	questionListCacheKey = "questions:list"
	questionListCacheTTL = 5 * time.Minute
)

// QuestionService exposes question CRUD.
type QuestionService interface {
	AddQuestion(ctx context.Context, question *model.Question) (*model.Question, error)
	AddQuestions(ctx context.Context, questions []model.Question) ([]model.Question, error)
	// GetQuestion returns a question. Without includeHidden, test cases are
	// truncated to the public samples so graders' hidden cases never leak.
	GetQuestion(ctx context.Context, id uint, includeHidden bool) (*model.Question, error)
	ListQuestions(ctx context.Context) ([]model.Question, error)
	UpdateQuestion(ctx context.Context, id uint, updated *model.Question) (*model.Question, error)
	DeleteQuestion(ctx context.Context, id uint) error
}

type questionService struct {
	repo  repository.QuestionRepository
	cache *cache.Client
}

// NewQuestionService builds a QuestionService with repository and cache.
func NewQuestionService(repo repository.QuestionRepository, cache *cache.Client) QuestionService {
	return &questionService{repo: repo, cache: cache}
}

func (s *questionService) AddQuestion(ctx context.Context, question *model.Question) (*model.Question, error) {
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	_ = s.cache.Delete(ctx, questionListCacheKey)
	return question, nil
}

func (s *questionService) AddQuestions(ctx context.Context, questions []model.Question) ([]model.Question, error) {
	saved, err := s.repo.CreateBatch(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("create questions: %w", err)
	}
	_ = s.cache.Delete(ctx, questionListCacheKey)
	return saved, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id uint, includeHidden bool) (*model.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	if !includeHidden && len(question.TestCases) > model.SampleTestCaseLimit {
		question.TestCases = question.TestCases[:model.SampleTestCaseLimit]
	}
	return question, nil
}

func (s *questionService) ListQuestions(ctx context.Context) ([]model.Question, error) {
	if data, _ := s.cache.Get(ctx, questionListCacheKey); data != nil {
		var cached []model.Question
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	if payload, err := json.Marshal(questions); err == nil {
		_ = s.cache.Set(ctx, questionListCacheKey, payload, questionListCacheTTL)
	}
	return questions, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, id uint, updated *model.Question) (*model.Question, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}

	existing.Title = updated.Title
	existing.Description = updated.Description
	existing.Difficulty = updated.Difficulty
	existing.InputFormat = updated.InputFormat
	existing.OutputFormat = updated.OutputFormat
	existing.TestCases = updated.TestCases

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	_ = s.cache.Delete(ctx, questionListCacheKey)
	return existing, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrQuestionNotFound
		}
		return fmt.Errorf("find question: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	_ = s.cache.Delete(ctx, questionListCacheKey)
	return nil
}
