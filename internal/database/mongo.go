package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"VisitBot/internal/config"
	"VisitBot/internal/lib/sl"
)

const (
	usersCollection    = "users"
	billsCollection    = "bills"
	visitsCollection   = "visits"
	sessionsCollection = "sessions"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
	log           *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) *MongoDB {
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		log:           logger.With(sl.Module("mongodb")),
	}
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// Ping checks that the server is reachable.
func (m *MongoDB) Ping(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	if err = connection.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping error: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the lookups rely on.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	db := connection.Database(m.database)
	indexes := map[string]mongo.IndexModel{
		billsCollection: {
			Keys:    bson.D{{"no_spk", 1}},
			Options: options.Index().SetUnique(true),
		},
		visitsCollection: {
			Keys: bson.D{{"reminder_date", 1}},
		},
		sessionsCollection: {
			Keys:    bson.D{{"user_id", 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for name, model := range indexes {
		if _, err = db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("mongodb index %s: %w", name, err)
		}
	}
	m.log.Debug("indexes ensured")
	return nil
}
