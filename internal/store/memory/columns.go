package memory

import (
	"bytes"
	"context"
	"sort"

	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type columnStore struct{ *db }

func cloneColumn(c sheetmodels.Column) sheetmodels.Column {
	if c.Options != nil {
		c.Options = append([]sheetmodels.SelectOption{}, c.Options...)
	}
	if c.PhoneNumbers != nil {
		c.PhoneNumbers = append([]string{}, c.PhoneNumbers...)
	}
	return c
}

func (s *columnStore) indexOf(id primitive.ObjectID) int {
	for i, c := range s.columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *columnStore) keyTaken(sheetID primitive.ObjectID, dataKey string, excludeID primitive.ObjectID) bool {
	for _, c := range s.columns {
		if c.SheetID == sheetID && c.DataKey == dataKey && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *columnStore) Insert(_ context.Context, c sheetmodels.Column) (sheetmodels.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keyTaken(c.SheetID, c.DataKey, primitive.NilObjectID) {
		return sheetmodels.Column{}, common.Conflict("Duplicate key", map[string]string{"dataKey": c.DataKey})
	}
	c.ID = newID(c.ID)
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	c = cloneColumn(c)
	s.columns = append(s.columns, c)
	return cloneColumn(c), nil
}

func (s *columnStore) FindByID(_ context.Context, id primitive.ObjectID) (sheetmodels.Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneColumn(s.columns[i]), nil
	}
	return sheetmodels.Column{}, common.NotFound("Column", id.Hex())
}

func (s *columnStore) FindBySheets(_ context.Context, sheetIDs ...primitive.ObjectID) ([]sheetmodels.Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []sheetmodels.Column{}
	if len(sheetIDs) == 0 {
		return out, nil
	}
	for _, c := range s.columns {
		if containsID(sheetIDs, c.SheetID) {
			out = append(out, cloneColumn(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := bytes.Compare(out[i].SheetID[:], out[j].SheetID[:]); cmp != 0 {
			return cmp < 0
		}
		return out[i].Order < out[j].Order
	})
	return out, nil
}

func (s *columnStore) DataKeyExists(_ context.Context, sheetID primitive.ObjectID, dataKey string, excludeID primitive.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyTaken(sheetID, dataKey, excludeID), nil
}

func (s *columnStore) Update(_ context.Context, id primitive.ObjectID, set store.Fields) (sheetmodels.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return sheetmodels.Column{}, common.NotFound("Column", id.Hex())
	}
	updated, err := applySet(s.columns[i], set)
	if err != nil {
		return sheetmodels.Column{}, err
	}
	if updated.DataKey != s.columns[i].DataKey && s.keyTaken(updated.SheetID, updated.DataKey, id) {
		return sheetmodels.Column{}, common.Conflict("Duplicate key", map[string]string{"dataKey": updated.DataKey})
	}
	s.columns[i] = updated
	return cloneColumn(updated), nil
}

func (s *columnStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Column", id.Hex())
	}
	s.columns = append(s.columns[:i], s.columns[i+1:]...)
	return nil
}

func (s *columnStore) CountBySheet(_ context.Context, sheetID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, c := range s.columns {
		if c.SheetID == sheetID {
			n++
		}
	}
	return n, nil
}
