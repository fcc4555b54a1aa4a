package mongostore

import (
	"context"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	basesvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userStore struct {
	*basesvc.BaseServiceMongoImpl[authmodels.User]
}

func newUserStore(coll *mongo.Collection) *userStore {
	return &userStore{basesvc.NewBaseServiceMongo[authmodels.User](coll)}
}

func (s *userStore) Insert(ctx context.Context, u authmodels.User) (authmodels.User, error) {
	return s.InsertOne(ctx, u)
}

func (s *userStore) FindByID(ctx context.Context, id primitive.ObjectID) (authmodels.User, error) {
	u, err := s.FindOneById(ctx, id)
	return u, named(err, "User", id)
}

func (s *userStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]authmodels.User, error) {
	return s.FindManyByIds(ctx, ids)
}

func (s *userStore) FindAll(ctx context.Context) ([]authmodels.User, error) {
	return s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}
