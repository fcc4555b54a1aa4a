package hiersvc

import (
	"context"
	"strings"

	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	hiermodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanyService manages companies.
type CompanyService struct {
	store *store.Store
}

// NewCompanyService returns a CompanyService over st.
func NewCompanyService(st *store.Store) *CompanyService {
	return &CompanyService{store: st}
}

// Create adds a company with no channels.
func (s *CompanyService) Create(ctx context.Context, input hierdto.CompanyCreateInput) (hiermodels.Company, error) {
	company := hiermodels.Company{
		Name:     strings.TrimSpace(input.Name),
		Domain:   strings.ToLower(strings.TrimSpace(input.Domain)),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Website:  strings.TrimSpace(input.Website),
		Channels: []string{},
	}
	created, err := s.store.Companies.Insert(ctx, company)
	if err != nil {
		return hiermodels.Company{}, err
	}
	logger.WithContext(ctx).WithField("company_id", created.ID.Hex()).Info("Company created")
	return created, nil
}

func (s *CompanyService) List(ctx context.Context) ([]hiermodels.Company, error) {
	return s.store.Companies.FindAll(ctx)
}

func (s *CompanyService) Get(ctx context.Context, id primitive.ObjectID) (hiermodels.Company, error) {
	return s.store.Companies.FindByID(ctx, id)
}

// Update applies the non-nil fields of input.
func (s *CompanyService) Update(ctx context.Context, id primitive.ObjectID, input hierdto.CompanyUpdateInput) (hiermodels.Company, error) {
	set := store.Fields{}
	if input.Name != nil {
		set["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Domain != nil {
		set["domain"] = strings.ToLower(strings.TrimSpace(*input.Domain))
	}
	if input.Email != nil {
		set["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Website != nil {
		set["website"] = strings.TrimSpace(*input.Website)
	}
	if len(set) == 0 {
		return s.store.Companies.FindByID(ctx, id)
	}
	return s.store.Companies.Update(ctx, id, set)
}

// Delete removes a company that owns no projects, soft-deleted ones
// included.
func (s *CompanyService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.store.Companies.FindByID(ctx, id); err != nil {
		return err
	}
	children, err := s.store.Projects.Count(ctx, store.ProjectFilter{
		CompanyIDs:     []primitive.ObjectID{id},
		IncludeDeleted: true,
	})
	if err != nil {
		return err
	}
	if children > 0 {
		return common.Conflict("Company still has projects", map[string]interface{}{"companyId": id.Hex(), "projects": children})
	}
	if err := s.store.Companies.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithContext(ctx).WithField("company_id", id.Hex()).Info("Company deleted")
	return nil
}

// AddChannel records a channel reference on the company once.
func (s *CompanyService) AddChannel(ctx context.Context, id primitive.ObjectID, input hierdto.ChannelInput) (hiermodels.Company, error) {
	company, err := s.store.Companies.AddChannel(ctx, id, strings.TrimSpace(input.Channel))
	if err != nil {
		return hiermodels.Company{}, err
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{
		"company_id": id.Hex(),
		"channel":    input.Channel,
	}).Debug("Channel added")
	return company, nil
}
