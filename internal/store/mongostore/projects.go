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

var projectArrays = map[string]bool{
	hiermodels.ProjectFieldSupervisors: true,
	hiermodels.ProjectFieldAgents:      true,
	hiermodels.ProjectFieldPartners:    true,
	hiermodels.ProjectFieldExcels:      true,
}

type projectStore struct {
	*basesvc.BaseServiceMongoImpl[hiermodels.Project]
}

func newProjectStore(coll *mongo.Collection) *projectStore {
	return &projectStore{basesvc.NewBaseServiceMongo[hiermodels.Project](coll)}
}

func projectQuery(f store.ProjectFilter) bson.M {
	q := bson.M{}
	if len(f.IDs) > 0 {
		q["_id"] = inIDs(f.IDs)
	}
	if len(f.CompanyIDs) > 0 {
		q["companyId"] = inIDs(f.CompanyIDs)
	}
	if !f.SupervisorID.IsZero() {
		q[hiermodels.ProjectFieldSupervisors] = f.SupervisorID
	}
	if !f.AgentID.IsZero() {
		q[hiermodels.ProjectFieldAgents] = f.AgentID
	}
	if !f.PartnerID.IsZero() {
		q[hiermodels.ProjectFieldPartners] = f.PartnerID
	}
	if !f.IncludeDeleted {
		q["isDeleted"] = bson.M{"$ne": true}
	}
	return q
}

func (s *projectStore) Insert(ctx context.Context, p hiermodels.Project) (hiermodels.Project, error) {
	for _, arr := range []*[]primitive.ObjectID{&p.SupervisorIDs, &p.AgentIDs, &p.PartnerIDs, &p.ExcelIDs} {
		if *arr == nil {
			*arr = []primitive.ObjectID{}
		}
	}
	return s.InsertOne(ctx, p)
}

func (s *projectStore) FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Project, error) {
	p, err := s.FindOneById(ctx, id)
	return p, named(err, "Project", id)
}

func (s *projectStore) Find(ctx context.Context, filter store.ProjectFilter) ([]hiermodels.Project, error) {
	return s.BaseServiceMongoImpl.Find(ctx, projectQuery(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *projectStore) Count(ctx context.Context, filter store.ProjectFilter) (int64, error) {
	return s.CountDocuments(ctx, projectQuery(filter))
}

func (s *projectStore) Update(ctx context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Project, error) {
	p, err := s.UpdateOne(ctx, byID(id), setOf(set), false)
	return p, named(err, "Project", id)
}

func (s *projectStore) AddToSet(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	if !projectArrays[field] {
		return common.Validation(fmt.Sprintf("Unknown project array %q", field), nil)
	}
	update := &basesvc.UpdateData{AddToSet: map[string]interface{}{field: eachOf(ids)}}
	_, err := s.UpdateOne(ctx, byID(id), update, false)
	return named(err, "Project", id)
}

func (s *projectStore) Pull(ctx context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	if !projectArrays[field] {
		return common.Validation(fmt.Sprintf("Unknown project array %q", field), nil)
	}
	update := &basesvc.UpdateData{Pull: map[string]interface{}{field: inIDs(ids)}}
	_, err := s.UpdateOne(ctx, byID(id), update, false)
	return named(err, "Project", id)
}

func (s *projectStore) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.UpdateOne(ctx, byID(id), &basesvc.UpdateData{Set: map[string]interface{}{"isDeleted": true}}, false)
	return named(err, "Project", id)
}

func (s *projectStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return named(s.DeleteOne(ctx, byID(id)), "Project", id)
}
