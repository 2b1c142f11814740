package model

import "time"

// CatalogSortKey selects the field the questionnaire listing is ordered by
type CatalogSortKey string

const (
	SortByName             CatalogSortKey = "name"
	SortByQuestionCount    CatalogSortKey = "questionCount"
	SortByTotalCompletions CatalogSortKey = "totalCompletions"
)

// ParseCatalogSortKey maps a query-string value onto the enum. The empty
// string falls back to sorting by name.
func ParseCatalogSortKey(s string) (CatalogSortKey, error) {
	switch s {
	case "", string(SortByName):
		return SortByName, nil
	case string(SortByQuestionCount), "questions":
		return SortByQuestionCount, nil
	case string(SortByTotalCompletions):
		return SortByTotalCompletions, nil
	}
	return "", Validationf("unknown sort key %q", s)
}

// QuestionnaireSummary is a catalog row. QuestionCount is derived at query
// time from the embedded question list, never stored.
type QuestionnaireSummary struct {
	ID               string    `json:"id" bson:"_id"`
	Name             string    `json:"name" bson:"name"`
	Description      string    `json:"description" bson:"description"`
	QuestionCount    int       `json:"questionCount" bson:"questionCount"`
	TotalCompletions int64     `json:"totalCompletions" bson:"totalCompletions"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

// Less is the ascending comparator for k, with name as tiebreak
func (k CatalogSortKey) Less(a, b QuestionnaireSummary) bool {
	switch k {
	case SortByQuestionCount:
		if a.QuestionCount != b.QuestionCount {
			return a.QuestionCount < b.QuestionCount
		}
	case SortByTotalCompletions:
		if a.TotalCompletions != b.TotalCompletions {
			return a.TotalCompletions < b.TotalCompletions
		}
	}
	return a.Name < b.Name
}

// ListOptions controls catalog pagination and ordering. LastItemID takes
// precedence over Page when both are set.
type ListOptions struct {
	SortKey    CatalogSortKey
	Descending bool
	Page       int
	Limit      int
	LastItemID string
}

// CatalogPage is one page of catalog rows plus the cursor for the next page
type CatalogPage struct {
	Items      []QuestionnaireSummary `json:"items"`
	LastItemID string                 `json:"lastItemId,omitempty"`
}
