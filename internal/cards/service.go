package cards

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/database/models"
	"gorm.io/gorm"
)

// Service implements business-card operations: scoped listing, validated
// create/update, hard delete, public slug resolution and view counting.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CreateInput is the validated payload for creating a card. IsDefault and
// IsPublic default to true when the caller omits them.
type CreateInput struct {
	UserID       uuid.UUID
	CompanyID    uuid.UUID
	Slug         string // optional; generated when empty
	Template     string
	Colors       map[string]string
	CustomFields map[string]any
	IsDefault    *bool
	IsPublic     *bool
}

// UpdateInput is the payload for updating a card. Ownership (user/company)
// is immutable and deliberately absent. Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Template     string
	Colors       *map[string]string
	CustomFields *map[string]any
	IsDefault    *bool
	IsPublic     *bool
}

// ListParams narrows a card listing. Search matches the owner's name or
// email, case-insensitive.
type ListParams struct {
	Search string
	Offset int
	Limit  int
}

func validateTemplate(template string, fields map[string]string) {
	if template == "" {
		fields["template"] = "Please select a template."
	} else if !models.CardTemplate(template).Valid() {
		fields["template"] = "The selected template is not available."
	}
}

// Create validates the input, applies create-time defaults and persists the
// card. A scoped actor may only create cards inside its own company, for
// users of that company.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*models.BusinessCard, error) {
	fields := make(map[string]string)
	if in.UserID == uuid.Nil {
		fields["user_id"] = "Please select a user for the business card."
	}
	if in.CompanyID == uuid.Nil {
		fields["company_id"] = "Please select a company."
	}
	validateTemplate(in.Template, fields)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if actor.Scoped() && in.CompanyID != *actor.CompanyID {
		return nil, ErrForbidden
	}

	// Referenced rows must exist. For scoped actors the user lookup is
	// confined to their company, which also masks cross-tenant users.
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", in.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Fields: map[string]string{"company_id": "The selected company is invalid."}}
		}
		return nil, err
	}

	userQuery := s.db.WithContext(ctx)
	if actor.Scoped() {
		userQuery = userQuery.Where("company_id = ?", *actor.CompanyID)
	}
	var owner models.User
	if err := userQuery.First(&owner, "id = ?", in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Fields: map[string]string{"user_id": "The selected user is invalid."}}
		}
		return nil, err
	}

	isDefault, isPublic := true, true
	if in.IsDefault != nil {
		isDefault = *in.IsDefault
	}
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	card := models.BusinessCard{
		UserID:       in.UserID,
		CompanyID:    in.CompanyID,
		Slug:         in.Slug,
		Template:     models.CardTemplate(in.Template),
		Colors:       in.Colors,
		CustomFields: in.CustomFields,
		IsDefault:    isDefault,
		IsPublic:     isPublic,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A user has at most one default card; demote the previous one.
		if card.IsDefault {
			if err := tx.Model(&models.BusinessCard{}).
				Where("user_id = ? AND is_default = ?", card.UserID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&card).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("created business card",
		"id", card.ID,
		"user_id", card.UserID,
		"company_id", card.CompanyID,
		"slug", card.Slug,
	)

	return &card, nil
}

// Get returns a card visible to the actor, with the owning user and that
// user's company, department and designation eager-loaded. It never counts
// a view; see Show.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.BusinessCard, error) {
	query := s.db.WithContext(ctx).
		Preload("Company").
		Preload("User.Company").
		Preload("User.Department").
		Preload("User.Designation")
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	var card models.BusinessCard
	if err := query.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

// Show returns a card for display, counting the view unless the actor is
// the card's owner.
func (s *Service) Show(ctx context.Context, actor Actor, id uuid.UUID) (*models.BusinessCard, error) {
	card, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if card.UserID != actor.UserID {
		if err := s.RecordView(ctx, card.ID); err != nil {
			return nil, err
		}
		now := time.Now()
		card.ViewsCount++
		card.LastViewedAt = &now
	}
	return card, nil
}

// ResolvePublic looks up a publicly visible card by slug. Unknown slugs and
// private cards yield the same ErrNotFound so that existence of private
// cards is not leaked. A successful resolution always counts a view; there
// is no authenticated identity on this path.
func (s *Service) ResolvePublic(ctx context.Context, slug string) (*models.BusinessCard, error) {
	var card models.BusinessCard
	err := s.db.WithContext(ctx).
		Preload("Company").
		Preload("User.Company").
		Preload("User.Department").
		Preload("User.Designation").
		Where("slug = ? AND is_public = ?", slug, true).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.RecordView(ctx, card.ID); err != nil {
		return nil, err
	}
	now := time.Now()
	card.ViewsCount++
	card.LastViewedAt = &now

	return &card, nil
}

// RecordView bumps the view counter in a single atomic UPDATE so concurrent
// views never lose increments. Last-write-wins is fine for last_viewed_at.
func (s *Service) RecordView(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.BusinessCard{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"views_count":    gorm.Expr("views_count + ?", 1),
			"last_viewed_at": time.Now(),
		}).Error
}

// List returns the cards visible to the actor, newest first. Scoped actors
// see only their company's cards; the search filter is ANDed on top.
func (s *Service) List(ctx context.Context, actor Actor, params ListParams) ([]models.BusinessCard, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.BusinessCard{})
	if actor.Scoped() {
		query = query.Where("business_cards.company_id = ?", *actor.CompanyID)
	}
	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.
			Joins("JOIN users ON users.id = business_cards.user_id").
			Where("lower(users.name) LIKE ? OR lower(users.email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []models.BusinessCard
	err := query.
		Select("business_cards.*").
		Preload("User").
		Preload("Company").
		Order("business_cards.created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// Update applies a validated partial update. Ownership fields are not part
// of the contract; the slug is never touched. Omitted booleans and maps are
// left unchanged.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateInput) (*models.BusinessCard, error) {
	fields := make(map[string]string)
	validateTemplate(in.Template, fields)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	card, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"template": models.CardTemplate(in.Template),
	}
	if in.Colors != nil {
		updates["colors"] = models.StringMap(*in.Colors)
	}
	if in.CustomFields != nil {
		updates["custom_fields"] = models.JSONMap(*in.CustomFields)
	}
	if in.IsDefault != nil {
		updates["is_default"] = *in.IsDefault
	}
	if in.IsPublic != nil {
		updates["is_public"] = *in.IsPublic
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsDefault != nil && *in.IsDefault {
			if err := tx.Model(&models.BusinessCard{}).
				Where("user_id = ? AND is_default = ? AND id <> ?", card.UserID, true, card.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(card).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, id)
}

// Delete removes a card visible to the actor. Hard delete; there is no
// recycle bin for cards.
func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	query := s.db.WithContext(ctx)
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	result := query.Where("id = ?", id).Delete(&models.BusinessCard{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("deleted business card", "id", id)
	return nil
}

// FormOptions lists the company and user choices offered on create/edit
// forms: the actor's own company and its active users, or all active
// companies and users for unaffiliated platform actors.
type FormOptions struct {
	Companies []models.Company `json:"companies"`
	Users     []models.User    `json:"users"`
}

func (s *Service) Options(ctx context.Context, actor Actor) (*FormOptions, error) {
	companyQuery := s.db.WithContext(ctx).Where("status = ?", models.StatusActive)
	userQuery := s.db.WithContext(ctx).Where("status = ?", models.StatusActive)
	if actor.Scoped() {
		companyQuery = companyQuery.Where("id = ?", *actor.CompanyID)
		userQuery = userQuery.Where("company_id = ?", *actor.CompanyID)
	}

	opts := &FormOptions{}
	if err := companyQuery.Order("name").Find(&opts.Companies).Error; err != nil {
		return nil, err
	}
	if err := userQuery.Order("name").Find(&opts.Users).Error; err != nil {
		return nil, err
	}
	return opts, nil
}

// DashboardStats summarizes the actor's cards and company.
type DashboardStats struct {
	MyCards        int64 `json:"my_cards"`
	TotalViews     int64 `json:"total_views"`
	CompanyMembers int64 `json:"company_members"`
	ActiveCards    int64 `json:"active_cards"`
}

func (s *Service) Stats(ctx context.Context, actor Actor) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.BusinessCard{}).
		Where("user_id = ?", actor.UserID).
		Count(&stats.MyCards).Error; err != nil {
		return nil, err
	}

	var views struct{ Total int64 }
	if err := db.Model(&models.BusinessCard{}).
		Select("COALESCE(SUM(views_count), 0) AS total").
		Where("user_id = ?", actor.UserID).
		Scan(&views).Error; err != nil {
		return nil, err
	}
	stats.TotalViews = views.Total

	memberQuery := db.Model(&models.User{})
	cardQuery := db.Model(&models.BusinessCard{}).Where("is_public = ?", true)
	if actor.Scoped() {
		memberQuery = memberQuery.Where("company_id = ?", *actor.CompanyID)
		cardQuery = cardQuery.Where("company_id = ?", *actor.CompanyID)
	}
	if err := memberQuery.Count(&stats.CompanyMembers).Error; err != nil {
		return nil, err
	}
	if err := cardQuery.Count(&stats.ActiveCards).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
