package authsvc

import (
	"context"
	"strings"

	authdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/dto"
	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService manages the user directory.
type UserService struct {
	users store.UserStore
}

// NewUserService returns a UserService over users.
func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// Create adds a directory entry.
func (s *UserService) Create(ctx context.Context, input authdto.UserCreateInput) (authmodels.User, error) {
	user := authmodels.User{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
		Role:  authmodels.Role(input.Role),
	}
	if input.CompanyID != "" {
		companyID, err := utility.String2ObjectID("companyId", input.CompanyID)
		if err != nil {
			return authmodels.User{}, err
		}
		user.CompanyID = companyID
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		return authmodels.User{}, err
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"user_id": created.ID.Hex(),
		"role":    created.Role,
	}).Info("User created")
	return created, nil
}

// List returns every directory entry.
func (s *UserService) List(ctx context.Context) ([]authmodels.User, error) {
	return s.users.FindAll(ctx)
}

// Get returns one entry.
func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (authmodels.User, error) {
	return s.users.FindByID(ctx, id)
}

// RequireRole fails unless every id names a user with role.
func (s *UserService) RequireRole(ctx context.Context, role authmodels.Role, ids ...primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.users.FindByIDs(ctx, utility.Unique(ids))
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]authmodels.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return common.NotFound("User", id.Hex())
		}
		if u.Role != role {
			return common.Validation("User does not have role "+string(role), map[string]string{"userId": id.Hex(), "role": string(u.Role)})
		}
	}
	return nil
}

// Names maps ids to user names; unknown ids are left out.
func (s *UserService) Names(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := s.users.FindByIDs(ctx, utility.Unique(ids))
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		out[u.ID] = u.Name
	}
	return out, nil
}
