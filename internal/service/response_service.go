package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"formpulse/internal/cache"
	"formpulse/internal/model"
	"formpulse/internal/repository"
)

// Broadcaster pushes events to live subscribers of a questionnaire
type Broadcaster interface {
	BroadcastToQuestionnaire(questionnaireID string, msgType string, payload interface{})
}

// NewSessionID returns a fresh opaque session identifier. It is a pure
// generator with a uniqueness contract, not shared state: the caller owns
// the id and correlates its draft across requests with it.
func NewSessionID() string {
	return uuid.NewString()
}

// ResponseService owns the respondent attempt lifecycle: draft saves while
// in-progress and the one-way transition to completed on submit, keeping the
// questionnaire completion counter in step.
type ResponseService struct {
	questionnaireRepo repository.QuestionnaireRepo
	responseRepo      repository.ResponseRepo
	drafts            cache.DraftCache
	broadcaster       Broadcaster
	now               func() time.Time
}

// NewResponseService creates a new response service
func NewResponseService(questionnaireRepo repository.QuestionnaireRepo, responseRepo repository.ResponseRepo, drafts cache.DraftCache) *ResponseService {
	return &ResponseService{
		questionnaireRepo: questionnaireRepo,
		responseRepo:      responseRepo,
		drafts:            drafts,
		now:               time.Now,
	}
}

// SetBroadcaster sets the broadcaster for live completion events
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SaveProgress persists the current draft without finalizing it. Saving the
// same state twice is a no-op in effect.
func (s *ResponseService) SaveProgress(ctx context.Context, sessionID, questionnaireID string, answers []model.Answer, timeSpentSec int) error {
	q, err := s.loadQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return err
	}
	if err := checkAnswers(q, answers, timeSpentSec); err != nil {
		return err
	}

	draft := &model.Response{
		SessionID:       sessionID,
		QuestionnaireID: questionnaireID,
		Answers:         answers,
		TimeSpentSec:    timeSpentSec,
		Status:          model.ResponseInProgress,
		StartedAt:       s.now(),
	}
	if err := s.responseRepo.SaveDraft(ctx, draft); err != nil {
		return model.Storagef("save progress", err)
	}

	// The cache is advisory; Mongo already holds the draft
	if err := s.drafts.Set(ctx, draft); err != nil {
		log.Printf("draft cache set failed for session %s: %v", sessionID, err)
	}
	return nil
}

// GetProgress returns the in-progress draft for (session, questionnaire),
// preferring the cache and falling back to the store.
func (s *ResponseService) GetProgress(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error) {
	if draft, err := s.drafts.Get(ctx, sessionID, questionnaireID); err == nil && draft != nil {
		return draft, nil
	} else if err != nil {
		log.Printf("draft cache get failed for session %s: %v", sessionID, err)
	}

	draft, err := s.responseRepo.FindInProgress(ctx, sessionID, questionnaireID)
	if err != nil {
		return nil, model.Storagef("get progress", err)
	}
	if draft == nil {
		return nil, &model.NotFoundError{Resource: "in-progress response"}
	}

	if err := s.drafts.Set(ctx, draft); err != nil {
		log.Printf("draft cache backfill failed for session %s: %v", sessionID, err)
	}
	return draft, nil
}

// Submit finalizes the attempt. Every question must carry a non-empty answer;
// on success the response becomes completed exactly once and totalCompletions
// is incremented exactly once. A retry after a successful submit is
// acknowledged with the stored response and does not increment again.
func (s *ResponseService) Submit(ctx context.Context, sessionID, questionnaireID string, answers []model.Answer, timeSpentSec int) (*model.Response, error) {
	q, err := s.loadQuestionnaire(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}
	if err := checkAnswers(q, answers, timeSpentSec); err != nil {
		return nil, err
	}

	// Idempotence: a completed response for this (session, questionnaire)
	// means the counter was already bumped for this attempt.
	done, err := s.responseRepo.FindCompletedBySession(ctx, sessionID, questionnaireID)
	if err != nil {
		return nil, model.Storagef("submit", err)
	}
	if done != nil {
		return done, nil
	}

	if unanswered := unansweredQuestions(q, answers); len(unanswered) > 0 {
		return nil, model.Validationf("unanswered questions: %s", strings.Join(unanswered, ", "))
	}

	completedAt := s.now()
	resp := &model.Response{
		SessionID:       sessionID,
		QuestionnaireID: questionnaireID,
		Answers:         answers,
		TimeSpentSec:    timeSpentSec,
		Status:          model.ResponseCompleted,
		StartedAt:       completedAt,
		CompletedAt:     &completedAt,
	}

	existing, err := s.responseRepo.FindInProgress(ctx, sessionID, questionnaireID)
	if err != nil {
		return nil, model.Storagef("submit", err)
	}
	if existing != nil {
		finalized, err := s.responseRepo.Complete(ctx, existing.ID, answers, timeSpentSec, completedAt)
		if err != nil {
			return nil, model.Storagef("submit", err)
		}
		if !finalized {
			// Lost a race against another finalize of the same draft; the
			// winner already incremented the counter.
			done, err := s.responseRepo.FindCompletedBySession(ctx, sessionID, questionnaireID)
			if err != nil {
				return nil, model.Storagef("submit", err)
			}
			if done != nil {
				return done, nil
			}
			return nil, &model.NotFoundError{Resource: "in-progress response"}
		}
		resp.ID = existing.ID
		resp.StartedAt = existing.StartedAt
	} else {
		// No draft was ever saved; the submit itself creates the record
		if _, err := s.responseRepo.InsertCompleted(ctx, resp); err != nil {
			return nil, model.Storagef("submit", err)
		}
	}

	if _, err := s.questionnaireRepo.IncrementCompletions(ctx, questionnaireID, 1); err != nil {
		// The response is committed; a crash here leaves the counter one
		// behind, which the model accepts as at-least-attempted semantics.
		return nil, model.Storagef("increment completions", err)
	}

	if err := s.drafts.Delete(ctx, sessionID, questionnaireID); err != nil {
		log.Printf("draft cache delete failed for session %s: %v", sessionID, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToQuestionnaire(questionnaireID, "response_completed", map[string]interface{}{
			"questionnaireId":  questionnaireID,
			"totalCompletions": q.TotalCompletions + 1,
			"completedAt":      completedAt,
		})
	}

	return resp, nil
}

func (s *ResponseService) loadQuestionnaire(ctx context.Context, questionnaireID string) (*model.Questionnaire, error) {
	q, err := s.questionnaireRepo.GetByID(ctx, questionnaireID)
	if err != nil {
		return nil, model.Storagef("get questionnaire", err)
	}
	if q == nil {
		return nil, &model.NotFoundError{Resource: "questionnaire", ID: questionnaireID}
	}
	return q, nil
}

// checkAnswers rejects input that cannot belong to the questionnaire
func checkAnswers(q *model.Questionnaire, answers []model.Answer, timeSpentSec int) error {
	if timeSpentSec < 0 {
		return model.Validationf("timeSpent must not be negative")
	}
	for _, a := range answers {
		if _, ok := q.QuestionByID(a.QuestionID); !ok {
			return model.Validationf("answer references unknown question %q", a.QuestionID)
		}
	}
	return nil
}

func unansweredQuestions(q *model.Questionnaire, answers []model.Answer) []string {
	byQuestion := make(map[string]model.AnswerValue, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Value
	}

	var missing []string
	for _, question := range q.Questions {
		v, ok := byQuestion[question.ID]
		if !ok || v.IsEmpty() {
			missing = append(missing, question.ID)
		}
	}
	return missing
}
