// Package memory implements the store contracts in process. All mutations
// are serialized under one mutex and reads return copies.
package memory

import (
	"sync"
	"time"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type db struct {
	mu sync.RWMutex

	users     []authmodels.User
	companies []hiermodels.Company
	projects  []hiermodels.Project
	excels    []hiermodels.Excel
	sheets    []hiermodels.Sheet
	columns   []sheetmodels.Column
	rows      []sheetmodels.SheetRow
}

// New returns a Store whose entity stores share one in-memory database.
func New() *store.Store {
	d := &db{}
	return &store.Store{
		Users:     &userStore{d},
		Companies: &companyStore{d},
		Projects:  &projectStore{d},
		Excels:    &excelStore{d},
		Sheets:    &sheetStore{d},
		Columns:   &columnStore{d},
		Rows:      &rowStore{d},
	}
}

func now() int64 {
	return time.Now().UnixMilli()
}

func newID(id primitive.ObjectID) primitive.ObjectID {
	if id.IsZero() {
		return primitive.NewObjectID()
	}
	return id
}

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func inIDs(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	return len(ids) == 0 || containsID(ids, id)
}

func addToSet(ids []primitive.ObjectID, add ...primitive.ObjectID) []primitive.ObjectID {
	for _, id := range add {
		if !containsID(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func pull(ids []primitive.ObjectID, remove ...primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !containsID(remove, id) {
			out = append(out, id)
		}
	}
	return out
}

// applySet merges set into doc by persisted field name, the way $set would.
func applySet[T any](doc T, set store.Fields) (T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return doc, common.InvalidFormat("Document could not be encoded", err)
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return doc, common.InvalidFormat("Document could not be decoded", err)
	}
	for k, v := range set {
		m[k] = v
	}
	m["updatedAt"] = now()

	raw, err = bson.Marshal(m)
	if err != nil {
		return doc, common.InvalidFormat("Update could not be encoded", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return doc, common.InvalidFormat("Update does not fit the document", err)
	}
	return out, nil
}
