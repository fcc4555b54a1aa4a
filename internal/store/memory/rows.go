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

type rowStore struct{ *db }

func cloneRow(r sheetmodels.SheetRow) sheetmodels.SheetRow {
	data := make(map[string]interface{}, len(r.Data))
	for k, v := range r.Data {
		data[k] = v
	}
	r.Data = data
	return r
}

func (s *rowStore) indexOf(sheetID primitive.ObjectID, rowNumber int) int {
	for i, r := range s.rows {
		if r.SheetID == sheetID && r.RowNumber == rowNumber {
			return i
		}
	}
	return -1
}

func (s *rowStore) InsertMany(_ context.Context, rows []sheetmodels.SheetRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := now()
	for i, r := range rows {
		if s.indexOf(r.SheetID, r.RowNumber) >= 0 {
			return i, common.Conflict("Duplicate key", map[string]interface{}{"sheetId": r.SheetID.Hex(), "rowNumber": r.RowNumber})
		}
		r.ID = newID(r.ID)
		r.CreatedAt = ts
		r.UpdatedAt = ts
		s.rows = append(s.rows, cloneRow(r))
	}
	return len(rows), nil
}

func (s *rowStore) FindOne(_ context.Context, sheetID primitive.ObjectID, rowNumber int) (sheetmodels.SheetRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(sheetID, rowNumber); i >= 0 {
		return cloneRow(s.rows[i]), nil
	}
	return sheetmodels.SheetRow{}, common.NotFound("Row", map[string]interface{}{"sheetId": sheetID.Hex(), "rowNumber": rowNumber})
}

// matching returns copies of the rows passing filter, sorted by sheet and
// row number. Callers hold the read lock.
func (s *rowStore) matching(filter store.RowFilter) []sheetmodels.SheetRow {
	out := []sheetmodels.SheetRow{}
	for _, r := range s.rows {
		if filter.Matches(r.SheetID, r.RowNumber) {
			out = append(out, cloneRow(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := bytes.Compare(out[i].SheetID[:], out[j].SheetID[:]); cmp != 0 {
			return cmp < 0
		}
		return out[i].RowNumber < out[j].RowNumber
	})
	return out
}

func (s *rowStore) Page(_ context.Context, filter store.RowFilter, skip, limit int64) ([]sheetmodels.SheetRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.matching(filter)
	if skip >= int64(len(all)) {
		return []sheetmodels.SheetRow{}, nil
	}
	end := int64(len(all))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end], nil
}

func (s *rowStore) Count(_ context.Context, filter store.RowFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.rows {
		if filter.Matches(r.SheetID, r.RowNumber) {
			n++
		}
	}
	return n, nil
}

func (s *rowStore) FindAll(_ context.Context, filter store.RowFilter) ([]sheetmodels.SheetRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matching(filter), nil
}

func (s *rowStore) SetCell(_ context.Context, sheetID primitive.ObjectID, rowNumber int, dataKey string, value interface{}) (sheetmodels.SheetRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := now()
	i := s.indexOf(sheetID, rowNumber)
	if i < 0 {
		s.rows = append(s.rows, sheetmodels.SheetRow{
			ID:        primitive.NewObjectID(),
			SheetID:   sheetID,
			RowNumber: rowNumber,
			Data:      map[string]interface{}{},
			CreatedAt: ts,
		})
		i = len(s.rows) - 1
	}
	if s.rows[i].Data == nil {
		s.rows[i].Data = map[string]interface{}{}
	}
	s.rows[i].Data[dataKey] = value
	s.rows[i].UpdatedAt = ts
	return cloneRow(s.rows[i]), nil
}

func (s *rowStore) MaxRowNumber(_ context.Context, sheetID primitive.ObjectID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, r := range s.rows {
		if r.SheetID == sheetID && r.RowNumber > max {
			max = r.RowNumber
		}
	}
	return max, nil
}

func (s *rowStore) DeleteBySheet(_ context.Context, sheetID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	var removed int64
	for _, r := range s.rows {
		if r.SheetID == sheetID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.rows = kept
	return removed, nil
}
