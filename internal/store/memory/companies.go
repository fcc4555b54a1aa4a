package memory

import (
	"context"

	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type companyStore struct{ *db }

func cloneCompany(c hiermodels.Company) hiermodels.Company {
	c.Channels = append([]string{}, c.Channels...)
	return c
}

func (s *companyStore) indexOf(id primitive.ObjectID) int {
	for i, c := range s.companies {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *companyStore) Insert(_ context.Context, c hiermodels.Company) (hiermodels.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = newID(c.ID)
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	c = cloneCompany(c)
	s.companies = append(s.companies, c)
	return cloneCompany(c), nil
}

func (s *companyStore) FindByID(_ context.Context, id primitive.ObjectID) (hiermodels.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneCompany(s.companies[i]), nil
	}
	return hiermodels.Company{}, common.NotFound("Company", id.Hex())
}

func (s *companyStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]hiermodels.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []hiermodels.Company{}
	if len(ids) == 0 {
		return out, nil
	}
	for _, c := range s.companies {
		if containsID(ids, c.ID) {
			out = append(out, cloneCompany(c))
		}
	}
	return out, nil
}

func (s *companyStore) FindAll(_ context.Context) ([]hiermodels.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]hiermodels.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, cloneCompany(c))
	}
	return out, nil
}

func (s *companyStore) Update(_ context.Context, id primitive.ObjectID, set store.Fields) (hiermodels.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return hiermodels.Company{}, common.NotFound("Company", id.Hex())
	}
	updated, err := applySet(s.companies[i], set)
	if err != nil {
		return hiermodels.Company{}, err
	}
	s.companies[i] = updated
	return cloneCompany(updated), nil
}

func (s *companyStore) AddChannel(_ context.Context, id primitive.ObjectID, channel string) (hiermodels.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return hiermodels.Company{}, common.NotFound("Company", id.Hex())
	}
	for _, ch := range s.companies[i].Channels {
		if ch == channel {
			return cloneCompany(s.companies[i]), nil
		}
	}
	s.companies[i].Channels = append(s.companies[i].Channels, channel)
	s.companies[i].UpdatedAt = now()
	return cloneCompany(s.companies[i]), nil
}

func (s *companyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return common.NotFound("Company", id.Hex())
	}
	s.companies = append(s.companies[:i], s.companies[i+1:]...)
	return nil
}
