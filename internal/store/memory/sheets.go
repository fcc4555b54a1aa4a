package memory

import (
	"context"

	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sheetStore struct{ *db }

func cloneSheet(s hiermodels.Sheet) hiermodels.Sheet {
	s.AgentIDs = copyIDs(s.AgentIDs)
	s.Columns = append([]hiermodels.SheetColumn{}, s.Columns...)
	s.AgentRowPermissions = append([]hiermodels.AgentRowPermission{}, s.AgentRowPermissions...)
	return s
}

func (s *sheetStore) indexOf(id primitive.ObjectID) int {
	for i, sh := range s.sheets {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

func (s *sheetStore) Insert(_ context.Context, sh hiermodels.Sheet) (hiermodels.Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh.ID = newID(sh.ID)
	sh.CreatedAt = now()
	sh.UpdatedAt = sh.CreatedAt
	sh = cloneSheet(sh)
	s.sheets = append(s.sheets, sh)
	return cloneSheet(sh), nil
}

func (s *sheetStore) FindByID(_ context.Context, id primitive.ObjectID) (hiermodels.Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneSheet(s.sheets[i]), nil
	}
	return hiermodels.Sheet{}, common.NotFound("Sheet", id.Hex())
}

func (s *sheetStore) Find(_ context.Context, f store.SheetFilter) ([]hiermodels.Sheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []hiermodels.Sheet{}
	for _, sh := range s.sheets {
		if !inIDs(f.IDs, sh.ID) || !inIDs(f.ExcelIDs, sh.ExcelID) || !inIDs(f.ProjectIDs, sh.ProjectID) {
			continue
		}
		if !f.AgentID.IsZero() && !containsID(sh.AgentIDs, f.AgentID) {
			continue
		}
		out = append(out, cloneSheet(sh))
	}
	return out, nil
}

func (s *sheetStore) Count(ctx context.Context, f store.SheetFilter) (int64, error) {
	found, err := s.Find(ctx, f)
	return int64(len(found)), err
}

func (s *sheetStore) Update(_ context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return hiermodels.Sheet{}, common.NotFound("Sheet", id.Hex())
	}
	updated, err := applySet(s.sheets[i], set)
	if err != nil {
		return hiermodels.Sheet{}, err
	}
	s.sheets[i] = updated
	return cloneSheet(updated), nil
}

func (s *sheetStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Sheet", id.Hex())
	}
	s.sheets = append(s.sheets[:i], s.sheets[i+1:]...)
	return nil
}

// modify runs fn on the stored sheet under the write lock.
func (s *sheetStore) modify(id primitive.ObjectID, fn func(sh *hiermodels.Sheet) error) (hiermodels.Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return hiermodels.Sheet{}, common.NotFound("Sheet", id.Hex())
	}
	if err := fn(&s.sheets[i]); err != nil {
		return hiermodels.Sheet{}, err
	}
	s.sheets[i].UpdatedAt = now()
	return cloneSheet(s.sheets[i]), nil
}

func (s *sheetStore) PushColumn(_ context.Context, id primitive.ObjectID, binding hiermodels.SheetColumn) error {
	_, err := s.modify(id, func(sh *hiermodels.Sheet) error {
		sh.Columns = append(sh.Columns, binding)
		return nil
	})
	return err
}

func (s *sheetStore) UpdateColumnBinding(_ context.Context, id primitive.ObjectID, binding hiermodels.SheetColumn) error {
	_, err := s.modify(id, func(sh *hiermodels.Sheet) error {
		for i := range sh.Columns {
			if sh.Columns[i].ColumnID == binding.ColumnID {
				sh.Columns[i] = binding
				return nil
			}
		}
		return common.NotFound("Column binding", binding.ColumnID.Hex())
	})
	return err
}

func (s *sheetStore) PullColumn(_ context.Context, id, columnID primitive.ObjectID) error {
	_, err := s.modify(id, func(sh *hiermodels.Sheet) error {
		kept := sh.Columns[:0]
		for _, b := range sh.Columns {
			if b.ColumnID != columnID {
				kept = append(kept, b)
			}
		}
		sh.Columns = kept
		return nil
	})
	return err
}

func (s *sheetStore) GrantRange(_ context.Context, id primitive.ObjectID, perm hiermodels.AgentRowPermission) (hiermodels.Sheet, error) {
	return s.modify(id, func(sh *hiermodels.Sheet) error {
		sh.AgentIDs = addToSet(sh.AgentIDs, perm.AgentID)
		sh.AgentRowPermissions = append(sh.AgentRowPermissions, perm)
		sh.Version++
		return nil
	})
}

func (s *sheetStore) ReplaceAgentRanges(_ context.Context, id, agentID primitive.ObjectID, ranges []hiermodels.AgentRowPermission, expectedVersion int64) (hiermodels.Sheet, error) {
	return s.modify(id, func(sh *hiermodels.Sheet) error {
		if sh.Version != expectedVersion {
			return common.ErrVersionConflict
		}
		kept := make([]hiermodels.AgentRowPermission, 0, len(sh.AgentRowPermissions)+len(ranges))
		for _, p := range sh.AgentRowPermissions {
			if p.AgentID != agentID {
				kept = append(kept, p)
			}
		}
		sh.AgentRowPermissions = append(kept, ranges...)
		if len(ranges) > 0 {
			sh.AgentIDs = addToSet(sh.AgentIDs, agentID)
		}
		sh.Version++
		return nil
	})
}

func (s *sheetStore) RevokeAgent(_ context.Context, id, agentID primitive.ObjectID) (hiermodels.Sheet, error) {
	return s.modify(id, func(sh *hiermodels.Sheet) error {
		sh.AgentIDs = pull(sh.AgentIDs, agentID)
		kept := make([]hiermodels.AgentRowPermission, 0, len(sh.AgentRowPermissions))
		for _, p := range sh.AgentRowPermissions {
			if p.AgentID != agentID {
				kept = append(kept, p)
			}
		}
		sh.AgentRowPermissions = kept
		sh.Version++
		return nil
	})
}
