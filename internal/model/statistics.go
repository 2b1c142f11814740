package model

// Statistics summarizes the completed responses of one questionnaire.
// All windows are computed relative to query time, not a stored anchor.
type Statistics struct {
	TotalResponses        int            `json:"totalResponses"`
	AverageCompletionTime float64        `json:"averageCompletionTime"` // Seconds
	DailyResponsesCount   int            `json:"dailyResponsesCount"`
	WeeklyResponsesCount  int            `json:"weeklyResponsesCount"` // Week starts Sunday
	MonthlyResponsesCount int            `json:"monthlyResponsesCount"`
	PieChartData          map[string]int `json:"pieChartData"` // Answer value -> occurrence count
}
