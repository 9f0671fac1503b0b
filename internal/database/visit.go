package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"VisitBot/entity"
)

// SaveVisit upserts the visit by id, so a retried save does not duplicate it.
func (m *MongoDB) SaveVisit(ctx context.Context, visit *entity.Visit) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(visitsCollection)
	filter := bson.D{{"_id", visit.ID}}

	_, err = collection.ReplaceOne(ctx, filter, visit, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb save visit error: %w", err)
	}
	return nil
}

// FindVisitsByReminderDate returns visits whose reminder falls in [from, to).
func (m *MongoDB) FindVisitsByReminderDate(ctx context.Context, from, to time.Time) ([]*entity.Visit, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(visitsCollection)
	filter := bson.D{{"reminder_date", bson.D{{"$gte", from}, {"$lt", to}}}}

	cursor, err := collection.Find(ctx, filter, options.Find().SetSort(bson.D{{"user_id", 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var visits []*entity.Visit
	if err = cursor.All(ctx, &visits); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return visits, nil
}

// FindVisitsByUser returns the latest visits of one officer.
func (m *MongoDB) FindVisitsByUser(ctx context.Context, userID string, limit int64) ([]*entity.Visit, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(visitsCollection)
	opts := options.Find().SetSort(bson.D{{"created_at", -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.D{{"user_id", userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var visits []*entity.Visit
	if err = cursor.All(ctx, &visits); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return visits, nil
}
