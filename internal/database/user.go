package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"VisitBot/entity"
)

func (m *MongoDB) IsRegistered(ctx context.Context, userID string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)
	count, err := collection.CountDocuments(ctx, bson.D{{"_id", userID}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongodb count error: %w", err)
	}
	return count > 0, nil
}

// Register stores the user as an account officer, replacing an earlier label.
func (m *MongoDB) Register(ctx context.Context, userID, accountOfficer string) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	user := entity.NewUser(userID, accountOfficer)

	collection := connection.Database(m.database).Collection(usersCollection)
	filter := bson.D{{"_id", user.UserID}}
	update := bson.D{
		{"$set", bson.D{{"account_officer", user.AccountOfficer}}},
		{"$setOnInsert", bson.D{{"role", user.Role}, {"created_at", user.CreatedAt}}},
	}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("mongodb upsert error: %w", err)
	}
	return user, nil
}

func (m *MongoDB) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(usersCollection)

	var user entity.User
	err = collection.FindOne(ctx, bson.D{{"_id", userID}}).Decode(&user)
	if err != nil {
		return nil, m.findError(err)
	}
	return &user, nil
}
