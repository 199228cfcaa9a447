package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"trackit-be/internal/entities"
	"trackit-be/internal/idgen"
)

const (
	usersCollection    = "users"
	expensesCollection = "expenses"
)

// EnsureMongoIndexes creates the unique email index and the per-user date index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = db.Collection(expensesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create expenses index: %w", err)
	}
	return nil
}

type mongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates a user repository over MongoDB
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{users: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	u := *user
	u.ID = idgen.NewKSUID()
	u.CreatedAt = time.Now().UTC()

	_, err := r.users.InsertOne(ctx, &u)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

type mongoExpenseRepository struct {
	expenses *mongo.Collection
	ids      *idgen.Generator
}

// NewMongoExpenseRepository creates an expense repository over MongoDB
func NewMongoExpenseRepository(db *mongo.Database, ids *idgen.Generator) ExpenseRepository {
	return &mongoExpenseRepository{expenses: db.Collection(expensesCollection), ids: ids}
}

func (r *mongoExpenseRepository) Create(ctx context.Context, expense *entities.Expense) (*entities.Expense, error) {
	now := time.Now().UTC()
	e := *expense
	e.ID = r.ids.Next()
	e.Date = e.Date.UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := r.expenses.InsertOne(ctx, &e); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return &e, nil
}

func (r *mongoExpenseRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.expenses.Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := []*entities.Expense{}
	if err := cur.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("failed to decode expenses: %w", err)
	}
	return expenses, nil
}

func (r *mongoExpenseRepository) UpdateForUser(ctx context.Context, id, userID string, patch entities.ExpensePatch) (*entities.Expense, error) {
	filter := ownedBy(id, userID)

	var e entities.Expense
	var err error
	if patch.Empty() {
		err = r.expenses.FindOne(ctx, filter).Decode(&e)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		update := bson.D{{Key: "$set", Value: patchToSet(patch, time.Now().UTC())}}
		err = r.expenses.FindOneAndUpdate(ctx, filter, update, opts).Decode(&e)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return &e, nil
}

func (r *mongoExpenseRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	res, err := r.expenses.DeleteOne(ctx, ownedBy(id, userID))
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func ownedBy(id, userID string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "user_id", Value: userID}}
}

// patchToSet builds the $set document for the fields present in patch.
func patchToSet(patch entities.ExpensePatch, now time.Time) bson.D {
	set := bson.D{}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Amount != nil {
		set = append(set, bson.E{Key: "amount", Value: *patch.Amount})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *patch.Category})
	}
	if patch.Date != nil {
		set = append(set, bson.E{Key: "date", Value: patch.Date.UTC()})
	}
	return append(set, bson.E{Key: "updated_at", Value: now})
}
