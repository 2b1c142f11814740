package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"formpulse/internal/model"
)

// In-memory doubles for the Mongo repositories and the Redis draft cache,
// mirroring the store-side guarantees the services rely on: $max on draft
// timeSpent, the status guard on Complete, $inc on the counter.

type stubQuestionnaireRepo struct {
	byID       map[string]*model.Questionnaire
	summaries  []model.QuestionnaireSummary
	increments map[string]int64
	nextID     int
}

func newStubQuestionnaireRepo(qs ...*model.Questionnaire) *stubQuestionnaireRepo {
	r := &stubQuestionnaireRepo{
		byID:       make(map[string]*model.Questionnaire),
		increments: make(map[string]int64),
	}
	for _, q := range qs {
		r.byID[q.ID] = q
	}
	return r
}

func (r *stubQuestionnaireRepo) Create(ctx context.Context, q *model.Questionnaire) (string, error) {
	r.nextID++
	q.ID = "q" + strconv.Itoa(r.nextID)
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	cp := *q
	r.byID[q.ID] = &cp
	return q.ID, nil
}

func (r *stubQuestionnaireRepo) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	q, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *stubQuestionnaireRepo) Update(ctx context.Context, q *model.Questionnaire) (bool, error) {
	if _, ok := r.byID[q.ID]; !ok {
		return false, nil
	}
	cp := *q
	r.byID[q.ID] = &cp
	return true, nil
}

func (r *stubQuestionnaireRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *stubQuestionnaireRepo) List(ctx context.Context, opts model.ListOptions) ([]model.QuestionnaireSummary, error) {
	items := append([]model.QuestionnaireSummary{}, r.summaries...)
	sort.SliceStable(items, func(i, j int) bool {
		if opts.Descending {
			return opts.SortKey.Less(items[j], items[i])
		}
		return opts.SortKey.Less(items[i], items[j])
	})
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items, nil
}

func (r *stubQuestionnaireRepo) IncrementCompletions(ctx context.Context, id string, delta int64) (bool, error) {
	q, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	q.TotalCompletions += delta
	r.increments[id] += delta
	return true, nil
}

type stubResponseRepo struct {
	inProgress map[string]*model.Response // sessionID|questionnaireID
	completed  []*model.Response
	nextID     int
}

func newStubResponseRepo() *stubResponseRepo {
	return &stubResponseRepo{inProgress: make(map[string]*model.Response)}
}

func attemptKey(sessionID, questionnaireID string) string {
	return sessionID + "|" + questionnaireID
}

func (r *stubResponseRepo) FindInProgress(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error) {
	resp, ok := r.inProgress[attemptKey(sessionID, questionnaireID)]
	if !ok {
		return nil, nil
	}
	cp := *resp
	return &cp, nil
}

func (r *stubResponseRepo) FindCompletedBySession(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error) {
	for _, resp := range r.completed {
		if resp.SessionID == sessionID && resp.QuestionnaireID == questionnaireID {
			cp := *resp
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubResponseRepo) SaveDraft(ctx context.Context, resp *model.Response) error {
	key := attemptKey(resp.SessionID, resp.QuestionnaireID)
	if existing, ok := r.inProgress[key]; ok {
		existing.Answers = resp.Answers
		if resp.TimeSpentSec > existing.TimeSpentSec {
			existing.TimeSpentSec = resp.TimeSpentSec
		}
		return nil
	}
	r.nextID++
	cp := *resp
	cp.ID = "r" + strconv.Itoa(r.nextID)
	r.inProgress[key] = &cp
	return nil
}

func (r *stubResponseRepo) Complete(ctx context.Context, id string, answers []model.Answer, timeSpentSec int, completedAt time.Time) (bool, error) {
	for key, resp := range r.inProgress {
		if resp.ID == id {
			resp.Answers = answers
			resp.TimeSpentSec = timeSpentSec
			resp.Status = model.ResponseCompleted
			at := completedAt
			resp.CompletedAt = &at
			r.completed = append(r.completed, resp)
			delete(r.inProgress, key)
			return true, nil
		}
	}
	return false, nil
}

func (r *stubResponseRepo) InsertCompleted(ctx context.Context, resp *model.Response) (string, error) {
	r.nextID++
	resp.ID = "r" + strconv.Itoa(r.nextID)
	resp.Status = model.ResponseCompleted
	cp := *resp
	r.completed = append(r.completed, &cp)
	return resp.ID, nil
}

func (r *stubResponseRepo) FindCompletedByQuestionnaire(ctx context.Context, questionnaireID string) ([]*model.Response, error) {
	var out []*model.Response
	for _, resp := range r.completed {
		if resp.QuestionnaireID == questionnaireID {
			cp := *resp
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubResponseRepo) DeleteByQuestionnaire(ctx context.Context, questionnaireID string) (int64, error) {
	var deleted int64
	kept := r.completed[:0]
	for _, resp := range r.completed {
		if resp.QuestionnaireID == questionnaireID {
			deleted++
			continue
		}
		kept = append(kept, resp)
	}
	r.completed = kept
	for key, resp := range r.inProgress {
		if resp.QuestionnaireID == questionnaireID {
			delete(r.inProgress, key)
			deleted++
		}
	}
	return deleted, nil
}

type stubDraftCache struct {
	entries map[string]*model.Response
	deletes int
}

func newStubDraftCache() *stubDraftCache {
	return &stubDraftCache{entries: make(map[string]*model.Response)}
}

func (c *stubDraftCache) Get(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error) {
	return c.entries[attemptKey(sessionID, questionnaireID)], nil
}

func (c *stubDraftCache) Set(ctx context.Context, resp *model.Response) error {
	cp := *resp
	c.entries[attemptKey(resp.SessionID, resp.QuestionnaireID)] = &cp
	return nil
}

func (c *stubDraftCache) Delete(ctx context.Context, sessionID, questionnaireID string) error {
	delete(c.entries, attemptKey(sessionID, questionnaireID))
	c.deletes++
	return nil
}

type stubBroadcaster struct {
	events []string
}

func (b *stubBroadcaster) BroadcastToQuestionnaire(questionnaireID string, msgType string, payload interface{}) {
	b.events = append(b.events, questionnaireID+":"+msgType)
}

// twoQuestionForm is the fixture most tracker tests use: one single-choice
// question and one free-text question.
func twoQuestionForm(id string) *model.Questionnaire {
	return &model.Questionnaire{
		ID:          id,
		Name:        "Customer feedback",
		Description: "How did we do?",
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionTypeSingleChoice, Text: "Rating", Options: []string{"A", "B"}},
			{ID: "q2", Type: model.QuestionTypeText, Text: "Comments"},
		},
	}
}
