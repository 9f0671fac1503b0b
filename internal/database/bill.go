package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"VisitBot/entity"
)

// FindBillByCode returns the bill with the given SPK, or nil when there is none.
func (m *MongoDB) FindBillByCode(ctx context.Context, code string) (*entity.Bill, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(billsCollection)
	filter := bson.D{{"no_spk", strings.TrimSpace(code)}}

	var bill entity.Bill
	err = collection.FindOne(ctx, filter).Decode(&bill)
	if err != nil {
		return nil, m.findError(err)
	}
	return &bill, nil
}
