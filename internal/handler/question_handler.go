package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "codearena/internal/errors"
	"codearena/internal/model"
	"codearena/internal/service"
)

// QuestionHandler bundles question CRUD endpoints.
type QuestionHandler struct {
	svc service.QuestionService
}

// NewQuestionHandler creates a handler layer.
func NewQuestionHandler(svc service.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

// QuestionRequest represents a question create/update payload.
type QuestionRequest struct {
	Title        string           `json:"title" validate:"required"`
	Description  string           `json:"description" validate:"required"`
	Difficulty   string           `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
	InputFormat  string           `json:"input_format"`
	OutputFormat string           `json:"output_format"`
	TestCases    []model.TestCase `json:"test_cases"`
}

func (r *QuestionRequest) toModel() *model.Question {
	return &model.Question{
		Title:        r.Title,
		Description:  r.Description,
		Difficulty:   r.Difficulty,
		InputFormat:  r.InputFormat,
		OutputFormat: r.OutputFormat,
		TestCases:    r.TestCases,
	}
}

// CreateQuestion godoc
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QuestionRequest true "Question payload"
// @Success 201 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	var req QuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.svc.AddQuestion(c.Request().Context(), req.toModel())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, created)
}

// CreateQuestions godoc
// @Summary Create multiple questions at once
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []QuestionRequest true "Question payloads"
// @Success 201 {array} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Router /questions/bulk [post]
func (h *QuestionHandler) CreateQuestions(c echo.Context) error {
	var reqs []QuestionRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty question list")
	}
	questions := make([]model.Question, 0, len(reqs))
	for _, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		questions = append(questions, *req.toModel())
	}

	created, err := h.svc.AddQuestions(c.Request().Context(), questions)
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, created)
}

// ListQuestions godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Success 200 {array} model.Question
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c echo.Context) error {
	questions, err := h.svc.ListQuestions(c.Request().Context())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary Get question by id
// @Description Test cases are truncated to the public samples.
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c echo.Context) error {
	return h.getQuestion(c, false)
}

// GetQuestionFull godoc
// @Summary Get question by id including hidden test cases
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/questions/{id} [get]
func (h *QuestionHandler) GetQuestionFull(c echo.Context) error {
	return h.getQuestion(c, true)
}

func (h *QuestionHandler) getQuestion(c echo.Context, includeHidden bool) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	question, err := h.svc.GetQuestion(c.Request().Context(), id, includeHidden)
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, question)
}

// UpdateQuestion godoc
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body QuestionRequest true "Question payload"
// @Success 200 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req QuestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.UpdateQuestion(c.Request().Context(), id, req.toModel())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteQuestion godoc
// @Summary Delete question
// @Tags questions
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteQuestion(c.Request().Context(), id); err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
