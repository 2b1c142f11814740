package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"formpulse/internal/model"
)

// QuestionnaireRepo handles MongoDB operations for questionnaires
type QuestionnaireRepo interface {
	Create(ctx context.Context, q *model.Questionnaire) (string, error)
	GetByID(ctx context.Context, id string) (*model.Questionnaire, error)
	Update(ctx context.Context, q *model.Questionnaire) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, opts model.ListOptions) ([]model.QuestionnaireSummary, error)
	IncrementCompletions(ctx context.Context, id string, delta int64) (bool, error)
}

type questionnaireRepo struct {
	collection *mongo.Collection
}

// NewQuestionnaireRepo creates a new questionnaire repository
func NewQuestionnaireRepo(db *mongo.Database) QuestionnaireRepo {
	return &questionnaireRepo{
		collection: db.Collection("questionnaires"),
	}
}

func (r *questionnaireRepo) Create(ctx context.Context, q *model.Questionnaire) (string, error) {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, q)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	q.ID = oid.Hex()
	return q.ID, nil
}

func (r *questionnaireRepo) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids cannot match any stored document
		return nil, nil
	}

	var q model.Questionnaire
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	q.ID = id
	return &q, nil
}

func (r *questionnaireRepo) Update(ctx context.Context, q *model.Questionnaire) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(q.ID)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, q)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *questionnaireRepo) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *questionnaireRepo) List(ctx context.Context, opts model.ListOptions) ([]model.QuestionnaireSummary, error) {
	anchor, err := r.resolveCursor(ctx, opts.LastItemID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Aggregate(ctx, buildCatalogPipeline(opts, anchor))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []model.QuestionnaireSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// IncrementCompletions bumps totalCompletions atomically. The $inc is a
// per-document read-modify-write serialized by the store, so concurrent
// submits never lose updates.
func (r *questionnaireRepo) IncrementCompletions(ctx context.Context, id string, delta int64) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"totalCompletions": delta}})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// catalogCursor carries the sort-key values of the document a cursor page
// resumes after. Every sortable field is captured so the resume match stays
// aligned with whatever ordering the request asked for.
type catalogCursor struct {
	id               primitive.ObjectID
	name             string
	questionCount    int
	totalCompletions int64
}

func (c *catalogCursor) sortValue(key model.CatalogSortKey) interface{} {
	switch key {
	case model.SortByQuestionCount:
		return c.questionCount
	case model.SortByTotalCompletions:
		return c.totalCompletions
	default:
		return c.name
	}
}

// resolveCursor loads the cursor document so the pipeline can resume after
// it. A malformed or stale cursor restarts the listing from the top.
func (r *questionnaireRepo) resolveCursor(ctx context.Context, lastItemID string) (*catalogCursor, error) {
	if lastItemID == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(lastItemID)
	if err != nil {
		return nil, nil
	}

	var q model.Questionnaire
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &catalogCursor{
		id:               oid,
		name:             q.Name,
		questionCount:    len(q.Questions),
		totalCompletions: q.TotalCompletions,
	}, nil
}

// buildCatalogPipeline derives questionCount from the embedded question list,
// sorts on the selected key with name and _id as tiebreaks, and applies
// cursor or page based pagination. The cursor match keys on the full sort
// tuple, not _id alone, so a resume under a name or count ordering neither
// skips nor repeats rows.
func buildCatalogPipeline(opts model.ListOptions, anchor *catalogCursor) mongo.Pipeline {
	direction := 1
	cursorOp := "$gt"
	if opts.Descending {
		direction = -1
		cursorOp = "$lt"
	}

	// questionCount is computed before the cursor match so the match can
	// compare against it.
	pipeline := mongo.Pipeline{bson.D{{Key: "$addFields",
		Value: bson.D{{Key: "questionCount", Value: bson.D{{Key: "$size", Value: "$questions"}}}}}}}

	if anchor != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match",
			Value: cursorMatch(opts.SortKey, cursorOp, anchor)}})
	}

	sortDoc := bson.D{{Key: sortField(opts.SortKey), Value: direction}}
	if opts.SortKey != model.SortByName {
		sortDoc = append(sortDoc, bson.E{Key: "name", Value: direction})
	}
	sortDoc = append(sortDoc, bson.E{Key: "_id", Value: direction})
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sortDoc}})

	if anchor == nil && opts.Page > 1 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64((opts.Page - 1) * opts.Limit)}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(opts.Limit)}})

	return pipeline
}

// cursorMatch selects documents strictly after the anchor in (sortField,
// name, _id) order, as the usual prefix-equality disjunction.
func cursorMatch(key model.CatalogSortKey, op string, anchor *catalogCursor) bson.D {
	after := func(field string, v interface{}) bson.E {
		return bson.E{Key: field, Value: bson.D{{Key: op, Value: v}}}
	}

	if key == model.SortByName {
		return bson.D{{Key: "$or", Value: bson.A{
			bson.D{after("name", anchor.name)},
			bson.D{{Key: "name", Value: anchor.name}, after("_id", anchor.id)},
		}}}
	}

	field := sortField(key)
	v := anchor.sortValue(key)
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{after(field, v)},
		bson.D{{Key: field, Value: v}, after("name", anchor.name)},
		bson.D{{Key: field, Value: v}, {Key: "name", Value: anchor.name}, after("_id", anchor.id)},
	}}}
}

func sortField(key model.CatalogSortKey) string {
	switch key {
	case model.SortByQuestionCount:
		return "questionCount"
	case model.SortByTotalCompletions:
		return "totalCompletions"
	default:
		return "name"
	}
}
