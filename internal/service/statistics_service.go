package service

import (
	"context"
	"time"

	"formpulse/internal/model"
	"formpulse/internal/repository"
)

// StatisticsService computes read-only summary metrics over the completed
// responses of one questionnaire. Everything is a single pass over the
// response set at query time; nothing is pre-aggregated or cached.
type StatisticsService struct {
	questionnaireRepo repository.QuestionnaireRepo
	responseRepo      repository.ResponseRepo
	now               func() time.Time
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(questionnaireRepo repository.QuestionnaireRepo, responseRepo repository.ResponseRepo) *StatisticsService {
	return &StatisticsService{
		questionnaireRepo: questionnaireRepo,
		responseRepo:      responseRepo,
		now:               time.Now,
	}
}

// ComputeStatistics aggregates the completed responses of a questionnaire.
// Zero completed responses is reported as not-found; the caller treats it as
// the designed empty-result case, not a hard error.
func (s *StatisticsService) ComputeStatistics(ctx context.Context, questionnaireID string) (*model.Statistics, error) {
	q, err := s.questionnaireRepo.GetByID(ctx, questionnaireID)
	if err != nil {
		return nil, model.Storagef("get questionnaire", err)
	}
	if q == nil {
		return nil, &model.NotFoundError{Resource: "questionnaire", ID: questionnaireID}
	}

	responses, err := s.responseRepo.FindCompletedByQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, model.Storagef("load responses", err)
	}
	if len(responses) == 0 {
		return nil, &model.NotFoundError{Resource: "responses for questionnaire", ID: questionnaireID}
	}

	// Only choice answers land in the pie; free text and image answers have
	// no finite bucket space.
	choiceQuestions := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		if question.Type.IsChoice() {
			choiceQuestions[question.ID] = true
		}
	}

	now := s.now()
	weekStart := startOfWeek(now)

	stats := &model.Statistics{
		TotalResponses: len(responses),
		PieChartData:   make(map[string]int),
	}

	totalTime := 0
	for _, resp := range responses {
		totalTime += resp.TimeSpentSec

		if resp.CompletedAt != nil {
			completed := resp.CompletedAt.In(now.Location())
			if sameDate(completed, now) {
				stats.DailyResponsesCount++
			}
			if !completed.Before(weekStart) {
				stats.WeeklyResponsesCount++
			}
			if completed.Month() == now.Month() && completed.Year() == now.Year() {
				stats.MonthlyResponsesCount++
			}
		}

		for _, answer := range resp.Answers {
			if !choiceQuestions[answer.QuestionID] {
				continue
			}
			// Each selected option of a multi-value answer counts on its own
			for _, value := range answer.Value.Flatten() {
				stats.PieChartData[value]++
			}
		}
	}

	stats.AverageCompletionTime = float64(totalTime) / float64(len(responses))
	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the Sunday opening the week of t
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
