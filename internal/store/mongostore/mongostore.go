// Package mongostore implements the store contracts on MongoDB collections
// registered in the collection registry.
package mongostore

import (
	"errors"
	"fmt"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/registry"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	basesvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/base/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// New builds a Store over the collections named in names. Every collection
// must already be registered.
func New(collections *registry.Registry[*mongo.Collection], names global.MongoDB_CollectionNames) (*store.Store, error) {
	get := func(name string) (*mongo.Collection, error) {
		coll, ok := collections.Get(name)
		if !ok {
			return nil, fmt.Errorf("collection %s is not registered", name)
		}
		return coll, nil
	}

	users, err := get(names.Users)
	if err != nil {
		return nil, err
	}
	companies, err := get(names.Companies)
	if err != nil {
		return nil, err
	}
	projects, err := get(names.Projects)
	if err != nil {
		return nil, err
	}
	excels, err := get(names.Excels)
	if err != nil {
		return nil, err
	}
	sheets, err := get(names.Sheets)
	if err != nil {
		return nil, err
	}
	columns, err := get(names.Columns)
	if err != nil {
		return nil, err
	}
	rows, err := get(names.Rows)
	if err != nil {
		return nil, err
	}

	return &store.Store{
		Users:     newUserStore(users),
		Companies: newCompanyStore(companies),
		Projects:  newProjectStore(projects),
		Excels:    newExcelStore(excels),
		Sheets:    newSheetStore(sheets),
		Columns:   newColumnStore(columns),
		Rows:      newRowStore(rows),
	}, nil
}

// setOf copies fields so the caller's map is not stamped with updatedAt.
func setOf(fields store.Fields) *basesvc.UpdateData {
	set := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	return &basesvc.UpdateData{Set: set}
}

func byID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}

func inIDs(ids []primitive.ObjectID) bson.M {
	return bson.M{"$in": ids}
}

// named rewrites a bare ErrNotFound into one naming the entity.
func named(err error, entity string, id primitive.ObjectID) error {
	if err != nil && errors.Is(err, common.ErrNotFound) {
		return common.NotFound(entity, id.Hex())
	}
	return err
}

func eachOf(ids []primitive.ObjectID) bson.M {
	return bson.M{"$each": ids}
}
