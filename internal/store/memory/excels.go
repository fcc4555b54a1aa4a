package memory

import (
	"context"
	"fmt"

	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type excelStore struct{ *db }

func cloneExcel(e hiermodels.Excel) hiermodels.Excel {
	e.AgentIDs = copyIDs(e.AgentIDs)
	e.SheetIDs = copyIDs(e.SheetIDs)
	return e
}

func (s *excelStore) indexOf(id primitive.ObjectID) int {
	for i, e := range s.excels {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *excelStore) Insert(_ context.Context, e hiermodels.Excel) (hiermodels.Excel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = newID(e.ID)
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt
	e = cloneExcel(e)
	s.excels = append(s.excels, e)
	return cloneExcel(e), nil
}

func (s *excelStore) FindByID(_ context.Context, id primitive.ObjectID) (hiermodels.Excel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneExcel(s.excels[i]), nil
	}
	return hiermodels.Excel{}, common.NotFound("Excel", id.Hex())
}

func (s *excelStore) Find(_ context.Context, filter store.ExcelFilter) ([]hiermodels.Excel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []hiermodels.Excel{}
	for _, e := range s.excels {
		if inIDs(filter.IDs, e.ID) && inIDs(filter.ProjectIDs, e.ProjectID) {
			out = append(out, cloneExcel(e))
		}
	}
	return out, nil
}

func (s *excelStore) Count(ctx context.Context, filter store.ExcelFilter) (int64, error) {
	found, err := s.Find(ctx, filter)
	return int64(len(found)), err
}

func (s *excelStore) Update(_ context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Excel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return hiermodels.Excel{}, common.NotFound("Excel", id.Hex())
	}
	updated, err := applySet(s.excels[i], set)
	if err != nil {
		return hiermodels.Excel{}, err
	}
	s.excels[i] = updated
	return cloneExcel(updated), nil
}

func (s *excelStore) mutate(id primitive.ObjectID, field string, fn func([]primitive.ObjectID) []primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Excel", id.Hex())
	}
	switch field {
	case hiermodels.ExcelFieldAgents:
		s.excels[i].AgentIDs = fn(s.excels[i].AgentIDs)
	case hiermodels.ExcelFieldSheets:
		s.excels[i].SheetIDs = fn(s.excels[i].SheetIDs)
	default:
		return common.Validation(fmt.Sprintf("Unknown excel array %q", field), nil)
	}
	s.excels[i].UpdatedAt = now()
	return nil
}

func (s *excelStore) AddToSet(_ context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	return s.mutate(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return addToSet(arr, ids...) })
}

func (s *excelStore) Pull(_ context.Context, id primitive.ObjectID, field string, ids ...primitive.ObjectID) error {
	return s.mutate(id, field, func(arr []primitive.ObjectID) []primitive.ObjectID { return pull(arr, ids...) })
}

func (s *excelStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Excel", id.Hex())
	}
	s.excels = append(s.excels[:i], s.excels[i+1:]...)
	return nil
}
