package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formpulse/internal/model"
)

// ResponseRepo handles MongoDB operations for respondent attempts
type ResponseRepo interface {
	FindInProgress(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error)
	FindCompletedBySession(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error)
	SaveDraft(ctx context.Context, resp *model.Response) error
	Complete(ctx context.Context, id string, answers []model.Answer, timeSpentSec int, completedAt time.Time) (bool, error)
	InsertCompleted(ctx context.Context, resp *model.Response) (string, error)
	FindCompletedByQuestionnaire(ctx context.Context, questionnaireID string) ([]*model.Response, error)
	DeleteByQuestionnaire(ctx context.Context, questionnaireID string) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) findOne(ctx context.Context, filter bson.M) (*model.Response, error) {
	var resp model.Response
	err := r.collection.FindOne(ctx, filter).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *responseRepo) FindInProgress(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error) {
	return r.findOne(ctx, bson.M{
		"sessionId":       sessionID,
		"questionnaireId": questionnaireID,
		"status":          model.ResponseInProgress,
	})
}

func (r *responseRepo) FindCompletedBySession(ctx context.Context, sessionID, questionnaireID string) (*model.Response, error) {
	return r.findOne(ctx, bson.M{
		"sessionId":       sessionID,
		"questionnaireId": questionnaireID,
		"status":          model.ResponseCompleted,
	})
}

// SaveDraft upserts the in-progress response for (session, questionnaire).
// $max keeps timeSpentSec monotonically non-decreasing even if saves arrive
// out of order; replaying an identical save is a no-op in effect.
func (r *responseRepo) SaveDraft(ctx context.Context, resp *model.Response) error {
	filter := bson.M{
		"sessionId":       resp.SessionID,
		"questionnaireId": resp.QuestionnaireID,
		"status":          model.ResponseInProgress,
	}
	update := bson.M{
		"$set": bson.M{"answers": resp.Answers},
		"$max": bson.M{"timeSpentSec": resp.TimeSpentSec},
		"$setOnInsert": bson.M{
			"sessionId":       resp.SessionID,
			"questionnaireId": resp.QuestionnaireID,
			"status":          model.ResponseInProgress,
			"startedAt":       resp.StartedAt,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Complete finalizes an in-progress response in place. The status guard in
// the filter makes the transition one-way: a response that is already
// completed is never modified, and the caller sees matched == false.
func (r *responseRepo) Complete(ctx context.Context, id string, answers []model.Answer, timeSpentSec int, completedAt time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "status": model.ResponseInProgress},
		bson.M{"$set": bson.M{
			"answers":      answers,
			"timeSpentSec": timeSpentSec,
			"status":       model.ResponseCompleted,
			"completedAt":  completedAt,
		}})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *responseRepo) InsertCompleted(ctx context.Context, resp *model.Response) (string, error) {
	resp.Status = model.ResponseCompleted

	result, err := r.collection.InsertOne(ctx, resp)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	resp.ID = oid.Hex()
	return resp.ID, nil
}

func (r *responseRepo) FindCompletedByQuestionnaire(ctx context.Context, questionnaireID string) ([]*model.Response, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"questionnaireId": questionnaireID,
		"status":          model.ResponseCompleted,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) DeleteByQuestionnaire(ctx context.Context, questionnaireID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"questionnaireId": questionnaireID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
