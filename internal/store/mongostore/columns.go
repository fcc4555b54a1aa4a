package mongostore

import (
	"context"

	basesvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/service"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type columnStore struct {
	*basesvc.BaseServiceMongoImpl[sheetmodels.Column]
}

func newColumnStore(coll *mongo.Collection) *columnStore {
	return &columnStore{basesvc.NewBaseServiceMongo[sheetmodels.Column](coll)}
}

func (s *columnStore) Insert(ctx context.Context, c sheetmodels.Column) (sheetmodels.Column, error) {
	return s.InsertOne(ctx, c)
}

func (s *columnStore) FindByID(ctx context.Context, id primitive.ObjectID) (sheetmodels.Column, error) {
	c, err := s.FindOneById(ctx, id)
	return c, named(err, "Column", id)
}

func (s *columnStore) FindBySheets(ctx context.Context, sheetIDs ...primitive.ObjectID) ([]sheetmodels.Column, error) {
	if len(sheetIDs) == 0 {
		return []sheetmodels.Column{}, nil
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "sheetId", Value: 1},
		{Key: "order", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	return s.Find(ctx, bson.M{"sheetId": inIDs(sheetIDs)}, opts)
}

func (s *columnStore) DataKeyExists(ctx context.Context, sheetID primitive.ObjectID, dataKey string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"sheetId": sheetID, "dataKey": dataKey}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	n, err := s.CountDocuments(ctx, filter)
	return n > 0, err
}

func (s *columnStore) Update(ctx context.Context, id primitive.ObjectID, set store.Fields) (sheetmodels.Column, error) {
	c, err := s.UpdateOne(ctx, byID(id), setOf(set), false)
	return c, named(err, "Column", id)
}

func (s *columnStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return named(s.DeleteOne(ctx, byID(id)), "Column", id)
}

func (s *columnStore) CountBySheet(ctx context.Context, sheetID primitive.ObjectID) (int64, error) {
	return s.CountDocuments(ctx, bson.M{"sheetId": sheetID})
}
