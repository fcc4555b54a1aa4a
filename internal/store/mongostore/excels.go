package mongostore

import (
	"context"
	"fmt"

	basesvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/service"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type excelStore struct {
	*basesvc.BaseServiceMongoImpl[hiermodels.Excel]
}

func newExcelStore(coll *mongo.Collection) *excelStore {
	return &excelStore{basesvc.NewBaseServiceMongo[hiermodels.Excel](coll)}
}

func excelQuery(f store.ExcelFilter) bson.M {
	q := bson.M{}
	if len(f.IDs) > 0 {
		q["_id"] = inIDs(f.IDs)
	}
	if len(f.ProjectIDs) > 0 {
		q["projectId"] = inIDs(f.ProjectIDs)
	}
	return q
}

func checkExcelArray(field string) error {
	if field != hiermodels.ExcelFieldAgents && field != hiermodels.ExcelFieldSheets {
		return common.Validation(fmt.Sprintf("Unknown excel array %q", field), nil)
	}
	return nil
}

func (s *excelStore) Insert(ctx context.Context, e hiermodels.Excel) (hiermodels.Excel, error) {
	if e.AgentIDs == nil {
		e.AgentIDs = []primitive.ObjectID{}
	}
	if e.SheetIDs == nil {
		e.SheetIDs = []primitive.ObjectID{}
	}
	return s.InsertOne(ctx, e)
}

func (s *excelStore) FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Excel, error) {
	e, err := s.FindOneById(ctx, id)
	return e, named(err, "Excel", id)
}

func (s *excelStore) Find(ctx context.Context, filter store.ExcelFilter) ([]hiermodels.Excel, error) {
	return s.BaseServiceMongoImpl.Find(ctx, excelQuery(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *excelStore) Count(ctx context.Context, filter store.ExcelFilter) (int64, error) {
	return s.CountDocuments(ctx, excelQuery(filter))
}

func (s *excelStore) Update(ctx context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Excel, error) {
	e, err := s.UpdateOne(ctx, byID(id), setOf(set), false)
	return e, named(err, "Excel", id)
}

func (s *excelStore) AddToSet(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	if err := checkExcelArray(field); err != nil {
		return err
	}
	update := &basesvc.UpdateData{AddToSet: map[string]interface{}{field: eachOf(ids)}}
	_, err := s.UpdateOne(ctx, byID(id), update, false)
	return named(err, "Excel", id)
}

func (s *excelStore) Pull(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	if err := checkExcelArray(field); err != nil {
		return err
	}
	update := &basesvc.UpdateData{Pull: map[string]interface{}{field: inIDs(ids)}}
	_, err := s.UpdateOne(ctx, byID(id), update, false)
	return named(err, "Excel", id)
}

func (s *excelStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return named(s.DeleteOne(ctx, byID(id)), "Excel", id)
}
