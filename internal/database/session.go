package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"VisitBot/bot/chat"
)

// SaveSession upserts the user's conversation session.
func (m *MongoDB) SaveSession(ctx context.Context, session *chat.Session) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	session.UpdatedAt = time.Now()

	filter := bson.D{{"user_id", session.UserID}}
	_, err = collection.ReplaceOne(ctx, filter, session, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb save session error: %w", err)
	}
	return nil
}

// LoadSession returns the user's session, or nil when there is none.
func (m *MongoDB) LoadSession(ctx context.Context, userID string) (*chat.Session, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	var session chat.Session
	err = collection.FindOne(ctx, bson.D{{"user_id", userID}}).Decode(&session)
	if err != nil {
		return nil, m.findError(err)
	}
	return &session, nil
}

func (m *MongoDB) DeleteSession(ctx context.Context, userID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)

	_, err = collection.DeleteOne(ctx, bson.D{{"user_id", userID}})
	if err != nil {
		return fmt.Errorf("mongodb delete session error: %w", err)
	}
	return nil
}
