package mongostore

import (
	"context"
	"errors"
	"time"

	basesvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/service"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var rowSort = bson.D{{Key: "sheetId", Value: 1}, {Key: "rowNumber", Value: 1}}

type rowStore struct {
	*basesvc.BaseServiceMongoImpl[sheetmodels.SheetRow]
}

func newRowStore(coll *mongo.Collection) *rowStore {
	return &rowStore{basesvc.NewBaseServiceMongo[sheetmodels.SheetRow](coll)}
}

// rowQuery translates filter; ok is false when nothing can match.
func rowQuery(f store.RowFilter) (q bson.M, ok bool) {
	if len(f.SheetIDs) == 0 {
		return nil, false
	}
	q = bson.M{"sheetId": inIDs(f.SheetIDs)}
	if !f.RangesOnly {
		return q, true
	}
	if len(f.Ranges) == 0 {
		return nil, false
	}
	or := bson.A{}
	for _, r := range f.Ranges {
		or = append(or, bson.M{
			"sheetId":   r.SheetID,
			"rowNumber": bson.M{"$gte": r.Start, "$lte": r.End},
		})
	}
	q["$or"] = or
	return q, true
}

func (s *rowStore) InsertMany(ctx context.Context, rows []sheetmodels.SheetRow) (int, error) {
	for i := range rows {
		if rows[i].Data == nil {
			rows[i].Data = map[string]interface{}{}
		}
	}
	return s.BaseServiceMongoImpl.InsertMany(ctx, rows)
}

func (s *rowStore) FindOne(ctx context.Context, sheetID primitive.ObjectID, rowNumber int) (sheetmodels.SheetRow, error) {
	row, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"sheetId": sheetID, "rowNumber": rowNumber}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return row, common.NotFound("Row", map[string]interface{}{"sheetId": sheetID.Hex(), "rowNumber": rowNumber})
	}
	return row, err
}

func (s *rowStore) Page(ctx context.Context, filter store.RowFilter, skip, limit int64) ([]sheetmodels.SheetRow, error) {
	q, ok := rowQuery(filter)
	if !ok {
		return []sheetmodels.SheetRow{}, nil
	}
	opts := options.Find().SetSort(rowSort).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.Find(ctx, q, opts)
}

func (s *rowStore) Count(ctx context.Context, filter store.RowFilter) (int64, error) {
	q, ok := rowQuery(filter)
	if !ok {
		return 0, nil
	}
	return s.CountDocuments(ctx, q)
}

func (s *rowStore) FindAll(ctx context.Context, filter store.RowFilter) ([]sheetmodels.SheetRow, error) {
	q, ok := rowQuery(filter)
	if !ok {
		return []sheetmodels.SheetRow{}, nil
	}
	return s.Find(ctx, q, options.Find().SetSort(rowSort))
}

func (s *rowStore) SetCell(ctx context.Context, sheetID primitive.ObjectID, rowNumber int, dataKey string, value interface{}) (sheetmodels.SheetRow, error) {
	update := &basesvc.UpdateData{
		Set:         map[string]interface{}{"data." + dataKey: value},
		SetOnInsert: map[string]interface{}{"createdAt": time.Now().UnixMilli()},
	}
	return s.UpdateOne(ctx, bson.M{"sheetId": sheetID, "rowNumber": rowNumber}, update, true)
}

func (s *rowStore) MaxRowNumber(ctx context.Context, sheetID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "rowNumber", Value: -1}})
	row, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{"sheetId": sheetID}, opts)
	if errors.Is(err, common.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.RowNumber, nil
}

func (s *rowStore) DeleteBySheet(ctx context.Context, sheetID primitive.ObjectID) (int64, error) {
	result, err := s.Collection().DeleteMany(ctx, bson.M{"sheetId": sheetID})
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.DeletedCount, nil
}
