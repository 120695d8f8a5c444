package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"anoa.com/collabhub/internal/entity"
	"anoa.com/collabhub/pkg/apperror"
	"anoa.com/collabhub/pkg/database"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Query selects projects. Every non-empty field narrows the result.
type Query struct {
	// Text is a case-insensitive substring of title, description or any tag.
	Text string
	// Category is compared case-insensitively against the whole category.
	Category string
	// Interest is a case-insensitive substring of any tag.
	Interest string
	// Creator must equal createdBy.
	Creator string
	// AnyOf keeps projects whose category or one of whose tags equals one
	// of the values exactly.
	AnyOf []string
	// Limit caps the result when positive.
	Limit int
}

type ProjectRepository interface {
	// FindAll returns matching projects, most recently updated first.
	FindAll(ctx context.Context, q Query) ([]*entity.Project, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.Project, error)
	// FindByIDs returns the projects that exist, in the order of ids.
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.Project, error)
	Create(ctx context.Context, project *entity.Project) error
	// Replace overwrites every editable field and updated_at.
	Replace(ctx context.Context, project *entity.Project) error
	AddMember(ctx context.Context, id bson.ObjectID, userID string, at time.Time) error
	RemoveMember(ctx context.Context, id bson.ObjectID, userID string, at time.Time) error
	Delete(ctx context.Context, id bson.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type projectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) ProjectRepository {
	return &projectRepository{coll: db.Collection(database.ProjectCollection)}
}

// BuildFilter translates q into a document filter. User text is quoted so
// that it only ever matches literally.
func BuildFilter(q Query) bson.M {
	var conds bson.A

	if q.Text != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}})
	}
	if q.Category != "" {
		conds = append(conds, bson.M{"category": bson.Regex{Pattern: "^" + regexp.QuoteMeta(q.Category) + "$", Options: "i"}})
	}
	if q.Interest != "" {
		conds = append(conds, bson.M{"tags": bson.Regex{Pattern: regexp.QuoteMeta(q.Interest), Options: "i"}})
	}
	if q.Creator != "" {
		conds = append(conds, bson.M{"createdBy": q.Creator})
	}
	if len(q.AnyOf) > 0 {
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"category": bson.M{"$in": q.AnyOf}},
			bson.M{"tags": bson.M{"$in": q.AnyOf}},
		}})
	}

	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0].(bson.M)
	default:
		return bson.M{"$and": conds}
	}
}

func (r *projectRepository) FindAll(ctx context.Context, q Query) ([]*entity.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := r.coll.Find(ctx, BuildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projects := []*entity.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

func (r *projectRepository) FindByID(ctx context.Context, id bson.ObjectID) (*entity.Project, error) {
	var project entity.Project
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*entity.Project, error) {
	if len(ids) == 0 {
		return []*entity.Project{}, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}
	var found []*entity.Project
	if err := cur.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	byID := make(map[bson.ObjectID]*entity.Project, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	projects := make([]*entity.Project, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	if project.ID.IsZero() {
		project.ID = bson.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, project)
	return err
}

func (r *projectRepository) Replace(ctx context.Context, project *entity.Project) error {
	return r.update(ctx, project.ID, bson.M{"$set": bson.M{
		"title":       project.Title,
		"description": project.Description,
		"category":    project.Category,
		"tags":        project.Tags,
		"attachments": project.Attachments,
		"createdBy":   project.CreatedBy,
		"members":     project.Members,
		"type":        project.Type,
		"updated_at":  project.UpdatedAt,
	}})
}

func (r *projectRepository) AddMember(ctx context.Context, id bson.ObjectID, userID string, at time.Time) error {
	return r.update(ctx, id, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": at},
	})
}

func (r *projectRepository) RemoveMember(ctx context.Context, id bson.ObjectID, userID string, at time.Time) error {
	return r.update(ctx, id, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": at},
	})
}

func (r *projectRepository) update(ctx context.Context, id bson.ObjectID, change bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, change)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
