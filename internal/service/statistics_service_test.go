package service

import (
	"context"
	"testing"
	"time"

	"formpulse/internal/model"
)

// Wednesday afternoon; the current week opened Sunday 2025-09-14.
var statsNow = time.Date(2025, 9, 17, 15, 0, 0, 0, time.UTC)

func newStatsUnderTest(qs ...*model.Questionnaire) (*StatisticsService, *stubResponseRepo) {
	qRepo := newStubQuestionnaireRepo(qs...)
	rRepo := newStubResponseRepo()
	svc := NewStatisticsService(qRepo, rRepo)
	svc.now = func() time.Time { return statsNow }
	return svc, rRepo
}

func completedResponse(questionnaireID, sessionID string, completedAt time.Time, timeSpent int, ans ...model.Answer) *model.Response {
	return &model.Response{
		SessionID:       sessionID,
		QuestionnaireID: questionnaireID,
		Answers:         ans,
		TimeSpentSec:    timeSpent,
		Status:          model.ResponseCompleted,
		CompletedAt:     &completedAt,
	}
}

func TestComputeStatisticsZeroResponses(t *testing.T) {
	svc, _ := newStatsUnderTest(twoQuestionForm("Q1"))

	_, err := svc.ComputeStatistics(context.Background(), "Q1")
	if !model.IsNotFound(err) {
		t.Fatalf("ComputeStatistics = %v, want NotFoundError", err)
	}
}

func TestComputeStatisticsUnknownQuestionnaire(t *testing.T) {
	svc, _ := newStatsUnderTest()

	_, err := svc.ComputeStatistics(context.Background(), "missing")
	if !model.IsNotFound(err) {
		t.Fatalf("ComputeStatistics = %v, want NotFoundError", err)
	}
}

// The single-submit scenario: one completed response with {q1: "A",
// q2: "hello"} and timeSpent 42. Free text stays out of the pie.
func TestComputeStatisticsSingleResponse(t *testing.T) {
	svc, rRepo := newStatsUnderTest(twoQuestionForm("Q1"))
	rRepo.InsertCompleted(context.Background(), completedResponse("Q1", "sess-1", statsNow, 42,
		model.Answer{QuestionID: "q1", Value: model.SingleValue("A")},
		model.Answer{QuestionID: "q2", Value: model.SingleValue("hello")},
	))

	stats, err := svc.ComputeStatistics(context.Background(), "Q1")
	if err != nil {
		t.Fatalf("ComputeStatistics: %v", err)
	}

	if stats.TotalResponses != 1 {
		t.Errorf("totalResponses = %d, want 1", stats.TotalResponses)
	}
	if stats.AverageCompletionTime != 42 {
		t.Errorf("averageCompletionTime = %v, want 42", stats.AverageCompletionTime)
	}
	if len(stats.PieChartData) != 1 || stats.PieChartData["A"] != 1 {
		t.Errorf("pieChartData = %v, want {A:1}", stats.PieChartData)
	}
	if stats.DailyResponsesCount != 1 || stats.WeeklyResponsesCount != 1 || stats.MonthlyResponsesCount != 1 {
		t.Errorf("window counts = %d/%d/%d, want 1/1/1",
			stats.DailyResponsesCount, stats.WeeklyResponsesCount, stats.MonthlyResponsesCount)
	}
}

func TestComputeStatisticsWindows(t *testing.T) {
	svc, rRepo := newStatsUnderTest(twoQuestionForm("Q1"))
	ctx := context.Background()

	a := func(v string) model.Answer {
		return model.Answer{QuestionID: "q1", Value: model.SingleValue(v)}
	}
	text := model.Answer{QuestionID: "q2", Value: model.SingleValue("words")}

	// Today, this week, this month, last month
	rRepo.InsertCompleted(ctx, completedResponse("Q1", "s1",
		time.Date(2025, 9, 17, 10, 0, 0, 0, time.UTC), 30, a("A"), text))
	rRepo.InsertCompleted(ctx, completedResponse("Q1", "s2",
		time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC), 60,
		model.Answer{QuestionID: "q1", Value: model.MultiValue("A", "B")}, text))
	rRepo.InsertCompleted(ctx, completedResponse("Q1", "s3",
		time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC), 90, a("B"), text))
	rRepo.InsertCompleted(ctx, completedResponse("Q1", "s4",
		time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC), 20, a("B"), text))

	// A different questionnaire's response must not leak in
	rRepo.InsertCompleted(ctx, completedResponse("other", "s5", statsNow, 999, a("A")))

	stats, err := svc.ComputeStatistics(ctx, "Q1")
	if err != nil {
		t.Fatalf("ComputeStatistics: %v", err)
	}

	if stats.TotalResponses != 4 {
		t.Errorf("totalResponses = %d, want 4", stats.TotalResponses)
	}
	if stats.AverageCompletionTime != 50 {
		t.Errorf("averageCompletionTime = %v, want 50", stats.AverageCompletionTime)
	}
	if stats.DailyResponsesCount != 1 {
		t.Errorf("daily = %d, want 1", stats.DailyResponsesCount)
	}
	if stats.WeeklyResponsesCount != 2 {
		t.Errorf("weekly = %d, want 2", stats.WeeklyResponsesCount)
	}
	if stats.MonthlyResponsesCount != 3 {
		t.Errorf("monthly = %d, want 3", stats.MonthlyResponsesCount)
	}

	// The size-2 multi answer contributes one increment per selection
	want := map[string]int{"A": 2, "B": 3}
	for k, v := range want {
		if stats.PieChartData[k] != v {
			t.Errorf("pieChartData[%q] = %d, want %d", k, stats.PieChartData[k], v)
		}
	}
	if len(stats.PieChartData) != len(want) {
		t.Errorf("pieChartData = %v, want %v", stats.PieChartData, want)
	}
}

func TestStartOfWeekIsSunday(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2025, 9, 17, 15, 30, 0, 0, time.UTC), time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 9, 14, 0, 0, 1, 0, time.UTC), time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 9, 13, 23, 59, 0, 0, time.UTC), time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := startOfWeek(c.in); !got.Equal(c.want) {
			t.Errorf("startOfWeek(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
