package mongostore

import (
	"context"
	"errors"

	basesvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/service"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sheetStore struct {
	*basesvc.BaseServiceMongoImpl[hiermodels.Sheet]
}

func newSheetStore(coll *mongo.Collection) *sheetStore {
	return &sheetStore{basesvc.NewBaseServiceMongo[hiermodels.Sheet](coll)}
}

func sheetQuery(f store.SheetFilter) bson.M {
	q := bson.M{}
	if len(f.IDs) > 0 {
		q["_id"] = inIDs(f.IDs)
	}
	if len(f.ExcelIDs) > 0 {
		q["excelId"] = inIDs(f.ExcelIDs)
	}
	if len(f.ProjectIDs) > 0 {
		q["projectId"] = inIDs(f.ProjectIDs)
	}
	if !f.AgentID.IsZero() {
		q["agentIds"] = f.AgentID
	}
	return q
}

func (s *sheetStore) Insert(ctx context.Context, sh hiermodels.Sheet) (hiermodels.Sheet, error) {
	if sh.AgentIDs == nil {
		sh.AgentIDs = []primitive.ObjectID{}
	}
	if sh.Columns == nil {
		sh.Columns = []hiermodels.SheetColumn{}
	}
	if sh.AgentRowPermissions == nil {
		sh.AgentRowPermissions = []hiermodels.AgentRowPermission{}
	}
	return s.InsertOne(ctx, sh)
}

func (s *sheetStore) FindByID(ctx context.Context, id primitive.ObjectID) (hiermodels.Sheet, error) {
	sh, err := s.FindOneById(ctx, id)
	return sh, named(err, "Sheet", id)
}

func (s *sheetStore) Find(ctx context.Context, filter store.SheetFilter) ([]hiermodels.Sheet, error) {
	return s.BaseServiceMongoImpl.Find(ctx, sheetQuery(filter), options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *sheetStore) Count(ctx context.Context, filter store.SheetFilter) (int64, error) {
	return s.CountDocuments(ctx, sheetQuery(filter))
}

func (s *sheetStore) Update(ctx context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Sheet, error) {
	sh, err := s.UpdateOne(ctx, byID(id), setOf(set), false)
	return sh, named(err, "Sheet", id)
}

func (s *sheetStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return named(s.DeleteOne(ctx, byID(id)), "Sheet", id)
}

func (s *sheetStore) PushColumn(ctx context.Context, id primitive.ObjectID, binding hiermodels.SheetColumn) error {
	_, err := s.UpdateOne(ctx, byID(id), &basesvc.UpdateData{Push: map[string]interface{}{"columns": binding}}, false)
	return named(err, "Sheet", id)
}

func (s *sheetStore) UpdateColumnBinding(ctx context.Context, id primitive.ObjectID, binding hiermodels.SheetColumn) error {
	filter := bson.M{"_id": id, "columns.columnId": binding.ColumnID}
	_, err := s.UpdateOne(ctx, filter, &basesvc.UpdateData{Set: map[string]interface{}{"columns.$": binding}}, false)
	return named(err, "Column binding", binding.ColumnID)
}

func (s *sheetStore) PullColumn(ctx context.Context, id, columnID primitive.ObjectID) error {
	update := &basesvc.UpdateData{Pull: map[string]interface{}{"columns": bson.M{"columnId": columnID}}}
	_, err := s.UpdateOne(ctx, byID(id), update, false)
	return named(err, "Sheet", id)
}

func (s *sheetStore) GrantRange(ctx context.Context, id primitive.ObjectID, perm hiermodels.AgentRowPermission) (hiermodels.Sheet, error) {
	update := &basesvc.UpdateData{
		AddToSet: map[string]interface{}{"agentIds": perm.AgentID},
		Push:     map[string]interface{}{"agentRowPermissions": perm},
		Inc:      map[string]interface{}{"version": 1},
	}
	sh, err := s.UpdateOne(ctx, byID(id), update, false)
	return sh, named(err, "Sheet", id)
}

func (s *sheetStore) ReplaceAgentRanges(ctx context.Context, id, agentID primitive.ObjectID, ranges []hiermodels.AgentRowPermission, expectedVersion int64) (hiermodels.Sheet, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	if current.Version != expectedVersion {
		return hiermodels.Sheet{}, common.ErrVersionConflict
	}

	next := make([]hiermodels.AgentRowPermission, 0, len(current.AgentRowPermissions)+len(ranges))
	for _, p := range current.AgentRowPermissions {
		if p.AgentID != agentID {
			next = append(next, p)
		}
	}
	next = append(next, ranges...)

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{"agentRowPermissions": next},
		Inc: map[string]interface{}{"version": 1},
	}
	if len(ranges) > 0 {
		update.AddToSet = map[string]interface{}{"agentIds": agentID}
	}

	sh, err := s.UpdateOne(ctx, bson.M{"_id": id, "version": expectedVersion}, update, false)
	if errors.Is(err, common.ErrNotFound) {
		return hiermodels.Sheet{}, common.ErrVersionConflict
	}
	return sh, err
}

func (s *sheetStore) RevokeAgent(ctx context.Context, id, agentID primitive.ObjectID) (hiermodels.Sheet, error) {
	update := &basesvc.UpdateData{
		Pull: map[string]interface{}{
			"agentIds":            agentID,
			"agentRowPermissions": bson.M{"agentId": agentID},
		},
		Inc: map[string]interface{}{"version": 1},
	}
	sh, err := s.UpdateOne(ctx, byID(id), update, false)
	return sh, named(err, "Sheet", id)
}
