package design

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fashion-studio/apperr"
	"fashion-studio/catalog"
	"fashion-studio/imagegen"
	"fashion-studio/log"
	"fashion-studio/models"
	"fashion-studio/quota"
	"fashion-studio/store"
)

type PreviewRequest struct {
	Prompt          string `json:"prompt"`
	ClothingType    string `json:"clothing_type"`
	TemplateID      string `json:"template_id"`
	Color           string `json:"color"`
	ViewAngle       string `json:"view_angle"`
	UserPhotoBase64 string `json:"user_photo_base64"`
	LogoBase64      string `json:"logo_base64"`
}

type PreviewResult struct {
	ImageBase64 string       `json:"image_base64"`
	Prompt      string       `json:"prompt"`
	Quota       quota.Status `json:"quota"`
}

type SaveRequest struct {
	Prompt          string `json:"prompt"`
	ImageBase64     string `json:"image_base64"`
	ClothingType    string `json:"clothing_type"`
	TemplateID      string `json:"template_id"`
	Color           string `json:"color"`
	PhoneNumber     string `json:"phone_number"`
	UserPhotoBase64 string `json:"user_photo_base64"`
	LogoBase64      string `json:"logo_base64"`
}

// Studio generates previews against the user's quota and keeps saved designs.
type Studio struct {
	catalog   *catalog.Catalog
	generator imagegen.Generator
	quota     *quota.Tracker
	designs   store.DesignStore
	now       func() time.Time
}

func NewStudio(c *catalog.Catalog, g imagegen.Generator, q *quota.Tracker, designs store.DesignStore) *Studio {
	return &Studio{catalog: c, generator: g, quota: q, designs: designs, now: time.Now}
}

// Preview generates an image. Quota is checked first and consumed only once the
// provider returned an image; a provider failure leaves the counter untouched.
func (s *Studio) Preview(ctx context.Context, userID string, req PreviewRequest) (*PreviewResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperr.InvalidArgument("prompt is required")
	}
	u, err := s.quota.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := imagegen.PreviewInput{
		Prompt:       req.Prompt,
		ClothingType: req.ClothingType,
		Color:        req.Color,
		ViewAngle:    req.ViewAngle,
		HasLogo:      req.LogoBase64 != "",
		HasUserPhoto: req.UserPhotoBase64 != "",
	}
	if t, ok := s.catalog.Template(req.TemplateID); ok {
		in.TemplatePrompt = t.Prompt
		if in.ClothingType == "" {
			in.ClothingType = t.Type
		}
	}
	prompt := imagegen.BuildPrompt(in)

	img, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.L().Warn("design generation failed", zap.String("user_id", userID), zap.Error(err))
		if apperr.KindOf(err) == apperr.KindInternal {
			err = apperr.Upstream("Image generation failed", err)
		}
		return nil, err
	}

	if err := s.quota.Consume(ctx, userID); err != nil {
		return nil, err
	}
	// Quota is consumed at this point; the image is returned even if the re-read fails.
	st, err := s.quota.Status(ctx, userID)
	if err != nil {
		log.L().Warn("quota status unavailable after generation", zap.String("user_id", userID), zap.Error(err))
		u.DesignsUsed++
		st = quota.StatusOf(*u)
	}
	log.L().Info("design generated", zap.String("user_id", userID), zap.Int("designs_used", st.DesignsUsed))
	return &PreviewResult{ImageBase64: img, Prompt: prompt, Quota: st}, nil
}

func (s *Studio) Save(ctx context.Context, userID string, req SaveRequest) (*models.Design, error) {
	if req.ImageBase64 == "" {
		return nil, apperr.InvalidArgument("image_base64 is required")
	}
	d := &models.Design{
		ID:              uuid.New().String(),
		UserID:          userID,
		Prompt:          req.Prompt,
		ImageBase64:     req.ImageBase64,
		ClothingType:    req.ClothingType,
		TemplateID:      req.TemplateID,
		Color:           req.Color,
		PhoneNumber:     req.PhoneNumber,
		UserPhotoBase64: req.UserPhotoBase64,
		LogoBase64:      req.LogoBase64,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.designs.CreateDesign(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Studio) ListForUser(ctx context.Context, userID string) ([]models.Design, error) {
	return s.designs.ListDesignsByUser(ctx, userID)
}

func (s *Studio) ListAll(ctx context.Context) ([]models.Design, error) {
	return s.designs.ListDesigns(ctx)
}

func (s *Studio) ToggleFavorite(ctx context.Context, id, userID string) (bool, error) {
	return s.designs.ToggleFavorite(ctx, id, userID)
}

// Delete removes a design owned by userID. Used quota is not refunded.
func (s *Studio) Delete(ctx context.Context, id, userID string) error {
	return s.designs.DeleteDesign(ctx, id, userID)
}

func (s *Studio) AdminDelete(ctx context.Context, id string) error {
	return s.designs.DeleteDesign(ctx, id, "")
}
