package memory

import (
	"context"
	"strings"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userStore struct{ *db }

func (s *userStore) Insert(_ context.Context, u authmodels.User) (authmodels.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Email != "" {
		for _, existing := range s.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return authmodels.User{}, common.Conflict("Duplicate key", map[string]string{"email": u.Email})
			}
		}
	}
	u.ID = newID(u.ID)
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	s.users = append(s.users, u)
	return u, nil
}

func (s *userStore) FindByID(_ context.Context, id primitive.ObjectID) (authmodels.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return authmodels.User{}, common.NotFound("User", id.Hex())
}

func (s *userStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]authmodels.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []authmodels.User{}
	if len(ids) == 0 {
		return out, nil
	}
	for _, u := range s.users {
		if containsID(ids, u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *userStore) FindAll(_ context.Context) ([]authmodels.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]authmodels.User, len(s.users))
	copy(out, s.users)
	return out, nil
}
