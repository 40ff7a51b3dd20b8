package dto

import "github.com/yourusername/indcric-api/internal/domain/entity"

// ReportQuestionRequest жалоба на вопрос
type ReportQuestionRequest struct {
	QuestionID   string `json:"question_id" binding:"required,max=128"`
	QuestionText string `json:"question_text" binding:"max=1000"`
	Reason       string `json:"reason" binding:"required,max=100"`
	Comment      string `json:"comment" binding:"max=1000"`
}

// ReportListResponse список жалоб
type ReportListResponse struct {
	Items []entity.QuestionReport `json:"items"`
}

// AnalysisRequest запрос разбора попытки
type AnalysisRequest struct {
	AttemptID string `json:"attempt_id" binding:"required,uuid"`
}

// GenerateQuizRequest запрос новой викторины
type GenerateQuizRequest struct {
	Format string `json:"format" binding:"required,max=32"`
}

// FactsRequest запрос фактов. Count приводится к диапазону 1..10.
type FactsRequest struct {
	Context string `json:"context" binding:"max=200"`
	Count   int    `json:"count"`
}
