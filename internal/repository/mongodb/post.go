package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/msomdec/inkwell/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository implements domain.PostRepository using MongoDB.
type PostRepository struct {
	coll  *mongo.Collection
	users string // collection joined for author usernames
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Summary   string             `bson:"summary"`
	Content   string             `bson:"content"`
	Cover     string             `bson:"cover"`
	Author    primitive.ObjectID `bson:"author"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// postView is a post with its author joined by $lookup.
type postView struct {
	postDocument `bson:",inline"`
	Authors      []struct {
		ID       primitive.ObjectID `bson:"_id"`
		Username string             `bson:"username"`
	} `bson:"authors"`
}

func (v *postView) toDomain() domain.Post {
	p := domain.Post{
		ID:        domain.ID(v.ID.Hex()),
		Title:     v.Title,
		Summary:   v.Summary,
		Content:   v.Content,
		Cover:     v.Cover,
		AuthorID:  domain.ID(v.Author.Hex()),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if len(v.Authors) > 0 {
		p.Author = &domain.Author{ID: p.AuthorID, Username: v.Authors[0].Username}
	}
	return p
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	authorID, err := primitive.ObjectIDFromHex(string(post.AuthorID))
	if err != nil {
		return fmt.Errorf("%w: malformed author id", domain.ErrInvalidInput)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Title:     post.Title,
		Summary:   post.Summary,
		Content:   post.Content,
		Cover:     post.Cover,
		Author:    authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("insert post: %w", err)
	}

	post.ID = domain.ID(doc.ID.Hex())
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	posts, err := r.aggregate(ctx, bson.D{{Key: "$match", Value: bson.M{"_id": oid}}})
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if len(posts) == 0 {
		return nil, domain.ErrNotFound
	}
	return &posts[0], nil
}

func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	posts, err := r.aggregate(ctx,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	oid, err := objectID(post.ID)
	if err != nil {
		return err
	}
	authorID, err := objectID(post.AuthorID)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "author": authorID},
		bson.M{"$set": bson.M{
			"title":     post.Title,
			"summary":   post.Summary,
			"content":   post.Content,
			"cover":     post.Cover,
			"updatedAt": now,
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("update post: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}

	post.UpdatedAt = now
	return nil
}

// aggregate runs the given leading stages followed by an author lookup that
// projects only the username.
func (r *PostRepository) aggregate(ctx context.Context, stages ...bson.D) ([]domain.Post, error) {
	pipeline := mongo.Pipeline(stages)
	pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: r.users},
		{Key: "let", Value: bson.M{"authorId": "$author"}},
		{Key: "pipeline", Value: bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$authorId"}}}},
			bson.M{"$project": bson.M{"username": 1}},
		}},
		{Key: "as", Value: "authors"},
	}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var views []postView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, len(views))
	for i := range views {
		posts[i] = views[i].toDomain()
	}
	return posts, nil
}
