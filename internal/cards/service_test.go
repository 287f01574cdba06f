package cards_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/cards"
	"github.com/hugh/cardhub/internal/database/models"
	"github.com/hugh/cardhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCardService(t *testing.T) (*cards.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cards.NewService(db, logger), db
}

func actorFor(user *models.User) cards.Actor {
	return cards.Actor{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
	}
}

func platformActor(userID uuid.UUID) cards.Actor {
	return cards.Actor{UserID: userID, Role: models.RoleSuperAdmin}
}

func boolPtr(b bool) *bool { return &b }

func TestService_Create(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("applies create-time defaults", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		user := testutil.CreateTestUser(t, db, company, models.RoleEmployee)

		card, err := svc.Create(ctx, actorFor(user), cards.CreateInput{
			UserID:    user.ID,
			CompanyID: company.ID,
			Template:  "modern",
		})
		require.NoError(t, err)
		assert.True(t, card.IsDefault)
		assert.True(t, card.IsPublic)
		assert.Len(t, card.Slug, models.CardSlugLength)
		assert.Zero(t, card.ViewsCount)
	})

	t.Run("honors explicit false flags", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		user := testutil.CreateTestUser(t, db, company, models.RoleEmployee)

		card, err := svc.Create(ctx, actorFor(user), cards.CreateInput{
			UserID:    user.ID,
			CompanyID: company.ID,
			Template:  "classic",
			IsDefault: boolPtr(false),
			IsPublic:  boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, card.IsDefault)
		assert.False(t, card.IsPublic)

		var stored models.BusinessCard
		require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
		assert.False(t, stored.IsDefault)
		assert.False(t, stored.IsPublic)
	})

	t.Run("rejects unknown template without persisting", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		user := testutil.CreateTestUser(t, db, company, models.RoleEmployee)

		_, err := svc.Create(ctx, actorFor(user), cards.CreateInput{
			UserID:    user.ID,
			CompanyID: company.ID,
			Template:  "holographic",
		})
		var verr *cards.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "The selected template is not available.", verr.Fields["template"])

		var count int64
		db.Model(&models.BusinessCard{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("requires user, company and template", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		user := testutil.CreateTestUser(t, db, company, models.RoleEmployee)

		_, err := svc.Create(ctx, actorFor(user), cards.CreateInput{})
		var verr *cards.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Please select a user for the business card.", verr.Fields["user_id"])
		assert.Equal(t, "Please select a company.", verr.Fields["company_id"])
		assert.Equal(t, "Please select a template.", verr.Fields["template"])
	})

	t.Run("scoped actor cannot create in another company", func(t *testing.T) {
		svc, db := newCardService(t)
		companyA := testutil.CreateTestCompany(t, db)
		companyB := testutil.CreateTestCompany(t, db)
		userA := testutil.CreateTestUser(t, db, companyA, models.RoleCompanyAdmin)
		userB := testutil.CreateTestUser(t, db, companyB, models.RoleEmployee)

		_, err := svc.Create(ctx, actorFor(userA), cards.CreateInput{
			UserID:    userB.ID,
			CompanyID: companyB.ID,
			Template:  "default",
		})
		assert.ErrorIs(t, err, cards.ErrForbidden)
	})

	t.Run("rejects owner from another company", func(t *testing.T) {
		svc, db := newCardService(t)
		companyA := testutil.CreateTestCompany(t, db)
		companyB := testutil.CreateTestCompany(t, db)
		userA := testutil.CreateTestUser(t, db, companyA, models.RoleCompanyAdmin)
		userB := testutil.CreateTestUser(t, db, companyB, models.RoleEmployee)

		_, err := svc.Create(ctx, actorFor(userA), cards.CreateInput{
			UserID:    userB.ID,
			CompanyID: companyA.ID,
			Template:  "default",
		})
		var verr *cards.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "The selected user is invalid.", verr.Fields["user_id"])
	})

	t.Run("demotes the previous default card", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		user := testutil.CreateTestUser(t, db, company, models.RoleEmployee)

		first, err := svc.Create(ctx, actorFor(user), cards.CreateInput{
			UserID:    user.ID,
			CompanyID: company.ID,
			Template:  "default",
		})
		require.NoError(t, err)

		second, err := svc.Create(ctx, actorFor(user), cards.CreateInput{
			UserID:    user.ID,
			CompanyID: company.ID,
			Template:  "modern",
		})
		require.NoError(t, err)
		assert.True(t, second.IsDefault)

		var reloaded models.BusinessCard
		require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
		assert.False(t, reloaded.IsDefault)
	})
}

func TestService_Show(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("owner views do not count", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		card := testutil.CreateTestCard(t, db, owner)

		shown, err := svc.Show(ctx, actorFor(owner), card.ID)
		require.NoError(t, err)
		assert.Zero(t, shown.ViewsCount)
		assert.Nil(t, shown.LastViewedAt)
	})

	t.Run("colleague views count", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		colleague := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		card := testutil.CreateTestCard(t, db, owner)

		shown, err := svc.Show(ctx, actorFor(colleague), card.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, shown.ViewsCount)
		assert.NotNil(t, shown.LastViewedAt)
	})

	t.Run("cross-tenant lookup is masked as not found", func(t *testing.T) {
		svc, db := newCardService(t)
		companyA := testutil.CreateTestCompany(t, db)
		companyB := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, companyA, models.RoleEmployee)
		outsider := testutil.CreateTestUser(t, db, companyB, models.RoleCompanyAdmin)
		card := testutil.CreateTestCard(t, db, owner)

		_, err := svc.Show(ctx, actorFor(outsider), card.ID)
		assert.ErrorIs(t, err, cards.ErrNotFound)
	})

	t.Run("eager-loads the owner's directory context", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		department := testutil.CreateTestDepartment(t, db, company.ID, "Engineering")
		designation := testutil.CreateTestDesignation(t, db, company.ID, "Engineer")
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		require.NoError(t, db.Model(owner).Updates(map[string]interface{}{
			"department_id":  department.ID,
			"designation_id": designation.ID,
		}).Error)
		card := testutil.CreateTestCard(t, db, owner)

		shown, err := svc.Show(ctx, actorFor(owner), card.ID)
		require.NoError(t, err)
		require.NotNil(t, shown.User)
		require.NotNil(t, shown.User.Company)
		require.NotNil(t, shown.User.Department)
		require.NotNil(t, shown.User.Designation)
		assert.Equal(t, "Engineering", shown.User.Department.Name)
		assert.Equal(t, "Engineer", shown.User.Designation.Title)
	})
}

func TestService_ResolvePublic(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("every anonymous view counts", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		card := testutil.CreateTestCard(t, db, owner)

		_, err := svc.ResolvePublic(ctx, card.Slug)
		require.NoError(t, err)
		resolved, err := svc.ResolvePublic(ctx, card.Slug)
		require.NoError(t, err)
		assert.EqualValues(t, 2, resolved.ViewsCount)
	})

	t.Run("private cards look like missing cards", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		card := testutil.CreateTestCard(t, db, owner)
		require.NoError(t, db.Model(card).Update("is_public", false).Error)

		_, err := svc.ResolvePublic(ctx, card.Slug)
		assert.ErrorIs(t, err, cards.ErrNotFound)

		// The failed resolution must not bump the counter.
		var stored models.BusinessCard
		require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
		assert.Zero(t, stored.ViewsCount)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		svc, _ := newCardService(t)
		_, err := svc.ResolvePublic(ctx, "no-such-slug")
		assert.ErrorIs(t, err, cards.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("scoped actors see only their company", func(t *testing.T) {
		svc, db := newCardService(t)
		companyA := testutil.CreateTestCompany(t, db)
		companyB := testutil.CreateTestCompany(t, db)
		userA := testutil.CreateTestUser(t, db, companyA, models.RoleCompanyAdmin)
		userB := testutil.CreateTestUser(t, db, companyB, models.RoleEmployee)
		testutil.CreateTestCard(t, db, userA)
		testutil.CreateTestCard(t, db, userB)

		results, total, err := svc.List(ctx, actorFor(userA), cards.ListParams{Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, results, 1)
		assert.Equal(t, companyA.ID, results[0].CompanyID)
	})

	t.Run("platform actors see everything", func(t *testing.T) {
		svc, db := newCardService(t)
		companyA := testutil.CreateTestCompany(t, db)
		companyB := testutil.CreateTestCompany(t, db)
		userA := testutil.CreateTestUser(t, db, companyA, models.RoleEmployee)
		userB := testutil.CreateTestUser(t, db, companyB, models.RoleEmployee)
		testutil.CreateTestCard(t, db, userA)
		testutil.CreateTestCard(t, db, userB)

		_, total, err := svc.List(ctx, platformActor(uuid.New()), cards.ListParams{Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("search matches owner name and email", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		admin := testutil.CreateTestUser(t, db, company, models.RoleCompanyAdmin)

		alice := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		require.NoError(t, db.Model(alice).Update("name", "Alice Quartz").Error)
		bob := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		require.NoError(t, db.Model(bob).Update("name", "Bob Feldspar").Error)
		testutil.CreateTestCard(t, db, alice)
		testutil.CreateTestCard(t, db, bob)

		results, total, err := svc.List(ctx, actorFor(admin), cards.ListParams{Search: "quartz", Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, results, 1)
		assert.Equal(t, alice.ID, results[0].UserID)

		_, total, err = svc.List(ctx, actorFor(admin), cards.ListParams{Search: alice.Email, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})
}

func TestService_Update(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("omitted fields stay unchanged", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)

		card, err := svc.Create(ctx, actorFor(owner), cards.CreateInput{
			UserID:    owner.ID,
			CompanyID: company.ID,
			Template:  "modern",
			Colors:    map[string]string{"primary": "#112233"},
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, actorFor(owner), card.ID, cards.UpdateInput{
			Template: "classic",
		})
		require.NoError(t, err)
		assert.Equal(t, models.TemplateClassic, updated.Template)
		assert.Equal(t, "#112233", updated.Colors["primary"])
		assert.True(t, updated.IsDefault)
		assert.True(t, updated.IsPublic)
		assert.Equal(t, card.Slug, updated.Slug, "slug never changes on update")
	})

	t.Run("rejects unknown template and leaves the row untouched", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		card := testutil.CreateTestCard(t, db, owner)

		_, err := svc.Update(ctx, actorFor(owner), card.ID, cards.UpdateInput{
			Template: "holographic",
			IsPublic: boolPtr(false),
		})
		var verr *cards.ValidationError
		require.ErrorAs(t, err, &verr)

		var stored models.BusinessCard
		require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
		assert.Equal(t, models.TemplateDefault, stored.Template)
		assert.True(t, stored.IsPublic)
	})

	t.Run("promoting a card demotes its sibling", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)

		first, err := svc.Create(ctx, actorFor(owner), cards.CreateInput{
			UserID:    owner.ID,
			CompanyID: company.ID,
			Template:  "default",
		})
		require.NoError(t, err)
		second, err := svc.Create(ctx, actorFor(owner), cards.CreateInput{
			UserID:    owner.ID,
			CompanyID: company.ID,
			Template:  "modern",
			IsDefault: boolPtr(false),
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, actorFor(owner), second.ID, cards.UpdateInput{
			Template:  "modern",
			IsDefault: boolPtr(true),
		})
		require.NoError(t, err)

		var reloaded models.BusinessCard
		require.NoError(t, db.First(&reloaded, "id = ?", first.ID).Error)
		assert.False(t, reloaded.IsDefault)
	})

	t.Run("cross-tenant update is not found", func(t *testing.T) {
		svc, db := newCardService(t)
		companyA := testutil.CreateTestCompany(t, db)
		companyB := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, companyA, models.RoleEmployee)
		outsider := testutil.CreateTestUser(t, db, companyB, models.RoleCompanyAdmin)
		card := testutil.CreateTestCard(t, db, owner)

		_, err := svc.Update(ctx, actorFor(outsider), card.ID, cards.UpdateInput{Template: "default"})
		assert.ErrorIs(t, err, cards.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("deletes within the company", func(t *testing.T) {
		svc, db := newCardService(t)
		company := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
		card := testutil.CreateTestCard(t, db, owner)

		require.NoError(t, svc.Delete(ctx, actorFor(owner), card.ID))

		var count int64
		db.Model(&models.BusinessCard{}).Where("id = ?", card.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("cross-tenant delete is not found", func(t *testing.T) {
		svc, db := newCardService(t)
		companyA := testutil.CreateTestCompany(t, db)
		companyB := testutil.CreateTestCompany(t, db)
		owner := testutil.CreateTestUser(t, db, companyA, models.RoleEmployee)
		outsider := testutil.CreateTestUser(t, db, companyB, models.RoleCompanyAdmin)
		card := testutil.CreateTestCard(t, db, owner)

		err := svc.Delete(ctx, actorFor(outsider), card.ID)
		assert.ErrorIs(t, err, cards.ErrNotFound)

		var count int64
		db.Model(&models.BusinessCard{}).Where("id = ?", card.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func TestService_Stats(t *testing.T) {
	ctx := testutil.TestContext(t)

	svc, db := newCardService(t)
	company := testutil.CreateTestCompany(t, db)
	owner := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
	colleague := testutil.CreateTestUser(t, db, company, models.RoleEmployee)
	card := testutil.CreateTestCard(t, db, owner)
	testutil.CreateTestCard(t, db, colleague)

	require.NoError(t, svc.RecordView(ctx, card.ID))
	require.NoError(t, svc.RecordView(ctx, card.ID))

	stats, err := svc.Stats(ctx, actorFor(owner))
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.MyCards)
	assert.EqualValues(t, 2, stats.TotalViews)
	assert.EqualValues(t, 2, stats.CompanyMembers)
	assert.EqualValues(t, 2, stats.ActiveCards)
}
