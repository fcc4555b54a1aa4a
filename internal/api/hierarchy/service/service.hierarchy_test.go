package hiersvc

import (
	"context"
	"errors"
	"testing"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	authsvc "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/service"
	hierdto "github.com/NamigGuliyef/avian-chat-sub000/internal/api/hierarchy/dto"
	sheetmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/sheet/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	st       *store.Store
	users    *authsvc.UserService
	admin    authmodels.Principal
	sup      authmodels.Principal
	other    authmodels.Principal
	agent    authmodels.Principal
	partner  authmodels.Principal
	company  *CompanyService
	projects *ProjectService
	excels   *ExcelService
	sheets   *SheetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	f := &fixture{st: st, users: authsvc.NewUserService(st.Users)}
	add := func(name string, role authmodels.Role) authmodels.Principal {
		u, err := st.Users.Insert(ctx, authmodels.User{Name: name, Role: role})
		require.NoError(t, err)
		return authmodels.Principal{UserID: u.ID, Role: role}
	}
	f.admin = add("Admin", authmodels.RoleAdmin)
	f.sup = add("Sara", authmodels.RoleSupervisor)
	f.other = add("Omar", authmodels.RoleSupervisor)
	f.agent = add("Aysel", authmodels.RoleAgent)
	f.partner = add("Pat", authmodels.RolePartner)
	f.company = NewCompanyService(st)
	f.projects = NewProjectService(st, f.users)
	f.excels = NewExcelService(st)
	f.sheets = NewSheetService(st)
	return f
}

func TestHierarchyLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	company, err := f.company.Create(ctx, hierdto.CompanyCreateInput{Name: " Acme ", Email: "Ops@Acme.io"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, "ops@acme.io", company.Email)
	assert.NotNil(t, company.Channels)

	project, err := f.projects.Create(ctx, f.sup, hierdto.ProjectCreateInput{
		CompanyID:        company.ID.Hex(),
		Name:             "Survey Q3",
		ProjectType:      "outbound",
		ProjectDirection: "call",
		ProjectName:      "survey",
		AgentIDs:         []string{f.agent.UserID.Hex()},
	})
	require.NoError(t, err)
	assert.Contains(t, project.SupervisorIDs, f.sup.UserID, "creating supervisor joins the project")
	assert.Equal(t, []primitive.ObjectID{f.agent.UserID}, project.AgentIDs)

	excel, err := f.excels.Create(ctx, f.sup, hierdto.ExcelCreateInput{ProjectID: project.ID.Hex(), Name: "Leads"})
	require.NoError(t, err)
	sheet, err := f.sheets.Create(ctx, f.sup, hierdto.SheetCreateInput{ExcelID: excel.ID.Hex(), Name: "Week 1"})
	require.NoError(t, err)
	assert.Equal(t, project.ID, sheet.ProjectID)

	reloadedProject, err := f.st.Projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Contains(t, reloadedProject.ExcelIDs, excel.ID)
	reloadedExcel, err := f.st.Excels.FindByID(ctx, excel.ID)
	require.NoError(t, err)
	assert.Contains(t, reloadedExcel.SheetIDs, sheet.ID)

	t.Run("other supervisors cannot change the project", func(t *testing.T) {
		_, err := f.excels.Create(ctx, f.other, hierdto.ExcelCreateInput{ProjectID: project.ID.Hex(), Name: "X"})
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("parents with children cannot be deleted", func(t *testing.T) {
		assert.True(t, errors.Is(f.company.Delete(ctx, company.ID), common.ErrConflict))
		assert.True(t, errors.Is(f.excels.Delete(ctx, f.sup, excel.ID), common.ErrConflict))
	})

	t.Run("sheet with rows cannot be deleted", func(t *testing.T) {
		_, err := f.st.Rows.InsertMany(ctx, []sheetmodels.SheetRow{{SheetID: sheet.ID, RowNumber: 1}})
		require.NoError(t, err)
		assert.True(t, errors.Is(f.sheets.Delete(ctx, f.sup, sheet.ID), common.ErrConflict))
		_, err = f.st.Rows.DeleteBySheet(ctx, sheet.ID)
		require.NoError(t, err)
	})

	t.Run("agent sees only assigned sheets", func(t *testing.T) {
		sheets, err := f.sheets.List(ctx, f.agent, primitive.NilObjectID)
		require.NoError(t, err)
		assert.Empty(t, sheets)

		_, err = f.sheets.Get(ctx, f.agent, sheet.ID)
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("empty sheet deletes and unlinks", func(t *testing.T) {
		require.NoError(t, f.sheets.Delete(ctx, f.sup, sheet.ID))
		reloaded, err := f.st.Excels.FindByID(ctx, excel.ID)
		require.NoError(t, err)
		assert.NotContains(t, reloaded.SheetIDs, sheet.ID)
	})

	t.Run("soft deleted project disappears", func(t *testing.T) {
		require.NoError(t, f.projects.Delete(ctx, f.sup, project.ID))
		list, err := f.projects.List(ctx, f.admin, company.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
		_, err = f.projects.Get(ctx, f.admin, project.ID)
		assert.True(t, errors.Is(err, common.ErrNotFound))
		assert.True(t, errors.Is(f.company.Delete(ctx, company.ID), common.ErrConflict), "soft deleted projects still count")
	})
}

func TestProjectMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	company, err := f.company.Create(ctx, hierdto.CompanyCreateInput{Name: "Acme"})
	require.NoError(t, err)
	project, err := f.projects.Create(ctx, f.admin, hierdto.ProjectCreateInput{
		CompanyID:        company.ID.Hex(),
		Name:             "Sales",
		ProjectType:      "inbound",
		ProjectDirection: "social",
		ProjectName:      "telesales",
	})
	require.NoError(t, err)
	assert.Empty(t, project.SupervisorIDs)

	t.Run("role must match", func(t *testing.T) {
		_, err := f.projects.AddMembers(ctx, f.admin, project.ID, hierdto.MemberInput{
			Role:    "agent",
			UserIDs: []string{f.partner.UserID.Hex()},
		})
		assert.True(t, common.IsValidation(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.projects.AddMembers(ctx, f.admin, project.ID, hierdto.MemberInput{
			Role:    "agent",
			UserIDs: []string{primitive.NewObjectID().Hex()},
		})
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("add is idempotent and remove pulls", func(t *testing.T) {
		input := hierdto.MemberInput{Role: "partner", UserIDs: []string{f.partner.UserID.Hex()}}
		_, err := f.projects.AddMembers(ctx, f.admin, project.ID, input)
		require.NoError(t, err)
		updated, err := f.projects.AddMembers(ctx, f.admin, project.ID, input)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{f.partner.UserID}, updated.PartnerIDs)

		visible, err := f.projects.List(ctx, f.partner, primitive.NilObjectID)
		require.NoError(t, err)
		assert.Len(t, visible, 1)

		updated, err = f.projects.RemoveMembers(ctx, f.admin, project.ID, input)
		require.NoError(t, err)
		assert.Empty(t, updated.PartnerIDs)

		_, err = f.projects.Get(ctx, f.partner, project.ID)
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})
}

func TestCompanyChannelsAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	company, err := f.company.Create(ctx, hierdto.CompanyCreateInput{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.company.AddChannel(ctx, company.ID, hierdto.ChannelInput{Channel: "whatsapp"})
	require.NoError(t, err)
	updated, err := f.company.AddChannel(ctx, company.ID, hierdto.ChannelInput{Channel: "whatsapp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"whatsapp"}, updated.Channels)

	name := "Acme Corp"
	updated, err = f.company.Update(ctx, company.ID, hierdto.CompanyUpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, []string{"whatsapp"}, updated.Channels)

	require.NoError(t, f.company.Delete(ctx, company.ID))
	_, err = f.company.Get(ctx, company.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
