package service

import (
	"context"

	"github.com/google/uuid"

	"formpulse/internal/model"
	"formpulse/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// QuestionnaireService handles questionnaire CRUD and the catalog listing
type QuestionnaireService struct {
	questionnaireRepo repository.QuestionnaireRepo
	responseRepo      repository.ResponseRepo
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(questionnaireRepo repository.QuestionnaireRepo, responseRepo repository.ResponseRepo) *QuestionnaireService {
	return &QuestionnaireService{
		questionnaireRepo: questionnaireRepo,
		responseRepo:      responseRepo,
	}
}

// Create validates and stores a new questionnaire
func (s *QuestionnaireService) Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	if err := validateQuestionnaire(q); err != nil {
		return nil, err
	}

	q.TotalCompletions = 0
	id, err := s.questionnaireRepo.Create(ctx, q)
	if err != nil {
		return nil, model.Storagef("create questionnaire", err)
	}
	q.ID = id
	return q, nil
}

// GetByID retrieves a questionnaire
func (s *QuestionnaireService) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	q, err := s.questionnaireRepo.GetByID(ctx, id)
	if err != nil {
		return nil, model.Storagef("get questionnaire", err)
	}
	if q == nil {
		return nil, &model.NotFoundError{Resource: "questionnaire", ID: id}
	}
	return q, nil
}

// Update replaces the questionnaire document. The completion counter and
// creation timestamp are carried over from the stored document so a
// full-document replace cannot reset them.
func (s *QuestionnaireService) Update(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	if err := validateQuestionnaire(q); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.TotalCompletions = existing.TotalCompletions
	q.CreatedAt = existing.CreatedAt

	found, err := s.questionnaireRepo.Update(ctx, q)
	if err != nil {
		return nil, model.Storagef("update questionnaire", err)
	}
	if !found {
		return nil, &model.NotFoundError{Resource: "questionnaire", ID: q.ID}
	}
	return q, nil
}

// Delete removes a questionnaire and all responses that reference it
func (s *QuestionnaireService) Delete(ctx context.Context, id string) error {
	found, err := s.questionnaireRepo.Delete(ctx, id)
	if err != nil {
		return model.Storagef("delete questionnaire", err)
	}
	if !found {
		return &model.NotFoundError{Resource: "questionnaire", ID: id}
	}

	if _, err := s.responseRepo.DeleteByQuestionnaire(ctx, id); err != nil {
		return model.Storagef("delete responses", err)
	}
	return nil
}

// List returns one page of the catalog
func (s *QuestionnaireService) List(ctx context.Context, opts model.ListOptions) (*model.CatalogPage, error) {
	if opts.SortKey == "" {
		opts.SortKey = model.SortByName
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageSize
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	items, err := s.questionnaireRepo.List(ctx, opts)
	if err != nil {
		return nil, model.Storagef("list questionnaires", err)
	}

	page := &model.CatalogPage{Items: items}
	if len(items) > 0 {
		page.LastItemID = items[len(items)-1].ID
	}
	return page, nil
}

func validateQuestionnaire(q *model.Questionnaire) error {
	if q.Name == "" {
		return model.Validationf("name is required")
	}
	for i := range q.Questions {
		question := &q.Questions[i]
		if !question.Type.Valid() {
			return model.Validationf("question %d: unknown type %q", i+1, question.Type)
		}
		if question.Text == "" {
			return model.Validationf("question %d: text is required", i+1)
		}
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		if !question.Type.IsChoice() {
			// Options carry no meaning outside choice questions
			question.Options = nil
		}
	}
	return nil
}
