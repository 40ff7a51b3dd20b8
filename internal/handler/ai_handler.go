package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/indcric-api/internal/handler/dto"
	"github.com/yourusername/indcric-api/internal/middleware"
	"github.com/yourusername/indcric-api/internal/service"
	"github.com/yourusername/indcric-api/internal/service/ai"
)

// AIHandler разбор попыток, генерация викторин и фактов
type AIHandler struct {
	attempts *service.AttemptService
	analyzer *ai.Analyzer
	quizzes  *ai.QuizGenerator
	facts    *ai.FactGenerator
}

func NewAIHandler(attempts *service.AttemptService, analyzer *ai.Analyzer, quizzes *ai.QuizGenerator, facts *ai.FactGenerator) *AIHandler {
	return &AIHandler{attempts: attempts, analyzer: analyzer, quizzes: quizzes, facts: facts}
}

// Analyze POST /api/analysis. Ошибки модели дают запасной разбор.
func (h *AIHandler) Analyze(c *gin.Context) {
	var req dto.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	attempt, err := h.attempts.Get(c.Request.Context(), middleware.UserID(c), req.AttemptID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.analyzer.AnalyzeAttempt(c.Request.Context(), attempt))
}

// GenerateQuiz POST /api/quizzes/generate
func (h *AIHandler) GenerateQuiz(c *gin.Context) {
	var req dto.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	quiz, err := h.quizzes.GenerateQuiz(c.Request.Context(), req.Format, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// Facts POST /api/facts
func (h *AIHandler) Facts(c *gin.Context) {
	var req dto.FactsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, h.facts.GenerateFacts(c.Request.Context(), req.Context, req.Count))
}
