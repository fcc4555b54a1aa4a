package mongostore

import (
	"context"

	basesvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/service"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type companyStore struct {
	*basesvc.BaseServiceMongoImpl[hiermodels.Company]
}

func newCompanyStore(coll *mongo.Collection) *companyStore {
	return &companyStore{basesvc.NewBaseServiceMongo[hiermodels.Company](coll)}
}

func (s *companyStore) Insert(ctx context.Context, c hiermodels.Company) (hiermodels.Company, error) {
	if c.Channels == nil {
		c.Channels = []string{}
	}
	return s.InsertOne(ctx, c)
}

func (s *companyStore) FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Company, error) {
	c, err := s.FindOneById(ctx, id)
	return c, named(err, "Company", id)
}

func (s *companyStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]hiermodels.Company, error) {
	return s.FindManyByIds(ctx, ids)
}

func (s *companyStore) FindAll(ctx context.Context) ([]hiermodels.Company, error) {
	return s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *companyStore) Update(ctx context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Company, error) {
	c, err := s.UpdateOne(ctx, byID(id), setOf(set), false)
	return c, named(err, "Company", id)
}

func (s *companyStore) AddChannel(ctx context.Context, id primitive.ObjectID, channel string) (hiermodels.Company, error) {
	update := &basesvc.UpdateData{AddToSet: map[string]interface{}{"channels": channel}}
	c, err := s.UpdateOne(ctx, byID(id), update, false)
	return c, named(err, "Company", id)
}

func (s *companyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return named(s.DeleteOne(ctx, byID(id)), "Company", id)
}
