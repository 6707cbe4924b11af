package dto

import (
	"time"

	"henryedu.com/henryplatform/internal/entity"
)

type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Response  string      `json:"response"`
	Timestamp int64       `json:"timestamp"`
	UserRole  entity.Role `json:"user_role"`
}

type PresentationRequest struct {
	Title    string `json:"title" binding:"required"`
	Topic    string `json:"topic" binding:"required"`
	Duration string `json:"duration" binding:"required"`
	Audience string `json:"audience" binding:"required"`
	Style    string `json:"style" binding:"required"`
}

type GeneratedPresentation struct {
	Title       string         `json:"title"`
	Topic       string         `json:"topic"`
	Duration    string         `json:"duration"`
	Audience    string         `json:"audience"`
	Style       string         `json:"style"`
	SlidesCount int            `json:"slides_count"`
	CreatedAt   time.Time      `json:"created_at"`
	Slides      []entity.Slide `json:"slides"`
}

type QuizRequest struct {
	Topic         string `json:"topic" binding:"required"`
	Difficulty    string `json:"difficulty" binding:"required"`
	QuestionCount int    `json:"question_count" binding:"required,min=1"`
	QuestionType  string `json:"question_type" binding:"required"`
}

type QuizQuestion struct {
	ID            int               `json:"id"`
	Type          string            `json:"type"`
	Question      string            `json:"question"`
	Options       []string          `json:"options,omitempty"`
	CorrectAnswer any               `json:"correct_answer,omitempty"`
	SampleAnswer  string            `json:"sample_answer,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	Rubric        map[string]string `json:"rubric,omitempty"`
	Points        int               `json:"points"`
}

type GeneratedQuiz struct {
	Topic         string         `json:"topic"`
	Difficulty    string         `json:"difficulty"`
	QuestionCount int            `json:"question_count"`
	QuestionType  string         `json:"question_type"`
	CreatedAt     time.Time      `json:"created_at"`
	Questions     []QuizQuestion `json:"questions"`
}

type ExplainInput struct {
	Concept string `json:"concept" binding:"required"`
	Subject string `json:"subject"`
	Level   string `json:"level"`
}

type SolveInput struct {
	Problem string `json:"problem" binding:"required"`
	Subject string `json:"subject"`
}

type StudyPlanRequest struct {
	Subject       string `json:"subject" binding:"required"`
	Duration      string `json:"duration" binding:"required"`
	Goals         string `json:"goals" binding:"required"`
	CurrentLevel  string `json:"current_level"`
	AvailableTime string `json:"available_time"`
}

type StudyPhase struct {
	Name         string   `json:"name"`
	DurationDays int      `json:"duration_days"`
	Objectives   []string `json:"objectives"`
	Activities   []string `json:"activities"`
}

type DaySchedule struct {
	Hours    int    `json:"hours"`
	Activity string `json:"activity"`
	Focus    string `json:"focus"`
}

type StudyPlan struct {
	Subject        string                 `json:"subject"`
	Duration       string                 `json:"duration"`
	TotalDays      int                    `json:"total_days"`
	DailyHours     int                    `json:"daily_hours"`
	CurrentLevel   string                 `json:"current_level"`
	Goals          string                 `json:"goals"`
	CreatedAt      time.Time              `json:"created_at"`
	Phases         []StudyPhase           `json:"phases"`
	WeeklySchedule map[string]DaySchedule `json:"weekly_schedule"`
}

type ResearchInput struct {
	ResearchTopic  string `json:"research_topic" binding:"required"`
	AssistanceType string `json:"assistance_type" binding:"required"`
	AcademicLevel  string `json:"academic_level"`
	FieldOfStudy   string `json:"field_of_study"`
}

type FeedbackInput struct {
	Content       string   `json:"content" binding:"required"`
	ContentType   string   `json:"content_type" binding:"required"`
	Criteria      []string `json:"criteria"`
	AcademicLevel string   `json:"academic_level"`
}

type FeedbackAspect struct {
	Score       int    `json:"score"`
	Comments    string `json:"comments"`
	Suggestions string `json:"suggestions"`
}

type Feedback struct {
	ContentType      string                    `json:"content_type"`
	AcademicLevel    string                    `json:"academic_level"`
	OverallScore     int                       `json:"overall_score"`
	Timestamp        time.Time                 `json:"timestamp"`
	DetailedFeedback map[string]FeedbackAspect `json:"detailed_feedback"`
	GeneralComments  string                    `json:"general_comments"`
}

type Status struct {
	Status         string   `json:"status"`
	Version        string   `json:"version"`
	Features       []string `json:"features"`
	SupportedRoles []string `json:"supported_roles"`
}
