package design

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"fashion-studio/apperr"
	"fashion-studio/models"
	"fashion-studio/store"
)

// PublicShowcaseLimit caps the public gallery.
const PublicShowcaseLimit = 20

type ShowcaseInput struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Prompt       *string   `json:"prompt"`
	ImageBase64  *string   `json:"image_base64"`
	ClothingType *string   `json:"clothing_type"`
	Color        *string   `json:"color"`
	TemplateID   *string   `json:"template_id"`
	Tags         *[]string `json:"tags"`
	IsFeatured   *bool     `json:"is_featured"`
	IsActive     *bool     `json:"is_active"`
}

type Showcase struct {
	store store.ShowcaseStore
	now   func() time.Time
}

func NewShowcase(s store.ShowcaseStore) *Showcase {
	return &Showcase{store: s, now: time.Now}
}

func (s *Showcase) Public(ctx context.Context) ([]models.ShowcaseDesign, error) {
	return s.store.ListShowcase(ctx, true, PublicShowcaseLimit)
}

func (s *Showcase) All(ctx context.Context) ([]models.ShowcaseDesign, error) {
	return s.store.ListShowcase(ctx, false, 0)
}

func (s *Showcase) Create(ctx context.Context, in ShowcaseInput) (*models.ShowcaseDesign, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.InvalidArgument("title is required")
	}
	if in.ImageBase64 == nil || *in.ImageBase64 == "" {
		return nil, apperr.InvalidArgument("image_base64 is required")
	}
	now := s.now().UTC()
	d := &models.ShowcaseDesign{
		ID:        uuid.New().String(),
		Tags:      datatypes.JSONSlice[string]{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(d, in)
	active := d.IsActive
	if err := s.store.CreateShowcase(ctx, d); err != nil {
		return nil, err
	}
	// is_active has a column default, so an inactive entry is written in two steps.
	if !active {
		d.IsActive = false
		if err := s.store.UpdateShowcase(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *Showcase) Update(ctx context.Context, id string, in ShowcaseInput) (*models.ShowcaseDesign, error) {
	d, err := s.store.GetShowcase(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apperr.InvalidArgument("title must not be empty")
	}
	apply(d, in)
	d.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateShowcase(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Showcase) Delete(ctx context.Context, id string) error {
	return s.store.DeleteShowcase(ctx, id)
}

func (s *Showcase) ToggleFeatured(ctx context.Context, id string) (bool, error) {
	return s.store.ToggleFeatured(ctx, id)
}

func apply(d *models.ShowcaseDesign, in ShowcaseInput) {
	if in.Title != nil {
		d.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.Prompt != nil {
		d.Prompt = *in.Prompt
	}
	if in.ImageBase64 != nil {
		d.ImageBase64 = *in.ImageBase64
	}
	if in.ClothingType != nil {
		d.ClothingType = *in.ClothingType
	}
	if in.Color != nil {
		d.Color = *in.Color
	}
	if in.TemplateID != nil {
		d.TemplateID = *in.TemplateID
	}
	if in.Tags != nil {
		d.Tags = datatypes.JSONSlice[string](*in.Tags)
	}
	if in.IsFeatured != nil {
		d.IsFeatured = *in.IsFeatured
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
}
