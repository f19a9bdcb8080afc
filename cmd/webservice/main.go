package main

import (
	"context"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fashion-studio/apperr"
	"fashion-studio/catalog"
	"fashion-studio/coupon"
	"fashion-studio/design"
	"fashion-studio/imagegen"
	"fashion-studio/log"
	"fashion-studio/models"
	"fashion-studio/notify"
	"fashion-studio/order"
	"fashion-studio/pricing"
	"fashion-studio/quota"
	"fashion-studio/service"
	"fashion-studio/store"
	"fashion-studio/utils"
	"fashion-studio/web/controllers"
	"fashion-studio/web/db"
	"fashion-studio/web/email"
	"fashion-studio/web/middleware"
	"fashion-studio/web/mongodb"
)

func openStore(ctx context.Context, cfg utils.Config) (store.Store, error) {
	if cfg.DBDriver == "mongo" {
		return mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	}
	gdb, err := db.Connect(cfg.DBDriver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Sync(gdb); err != nil {
		return nil, err
	}
	return db.NewStore(gdb), nil
}

// seedAdmin creates the bootstrap admin account once, when ADMIN_* is set.
func seedAdmin(ctx context.Context, s store.UserStore, cfg utils.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	if _, err := s.GetUserByUsername(ctx, cfg.AdminUsername); err == nil {
		return nil
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 10)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	admin := &models.User{
		ID:            uuid.New().String(),
		Username:      cfg.AdminUsername,
		Email:         cfg.AdminEmail,
		Password:      string(hash),
		IsAdmin:       true,
		DesignsLimit:  models.Unlimited,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if admin.Email == "" {
		admin.Email = cfg.AdminUsername + "@localhost"
	}
	if err := s.CreateUser(ctx, admin); err != nil {
		return err
	}
	log.L().Info("admin account created", zap.String("username", admin.Username))
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func main() {
	utils.LoadEnv()
	cfg, err := utils.LoadConfig()
	if err != nil {
		_ = log.Init("info", "development")
		log.L().Fatal("invalid configuration", zap.Error(err))
	}
	if err := log.Init(cfg.LogLevel, cfg.Env); err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.L().Fatal("failed to open store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer st.Close(ctx)

	if err := seedAdmin(ctx, st, cfg); err != nil {
		log.L().Fatal("failed to seed admin", zap.Error(err))
	}

	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		log.L().Fatal("invalid NODE_ID", zap.Int64("node_id", cfg.NodeID), zap.Error(err))
	}

	var mailer notify.Mailer
	if smtp := email.FromEnv(); smtp.Configured() {
		mailer = smtp
	}
	notifier := notify.New(st, st, mailer)
	defer notifier.Wait()

	cat := catalog.Default()
	coupons := coupon.NewService(st)
	tracker := quota.NewTracker(st)
	generator := imagegen.NewHTTPGenerator(cfg.ImageAPIURL, cfg.ImageAPIKey, cfg.ImageModel, cfg.ImageTimeout)

	h := &controllers.Handler{
		Store:     st,
		Catalog:   cat,
		Pricing:   pricing.NewCalculator(cat),
		Coupons:   coupons,
		Quota:     tracker,
		Studio:    design.NewStudio(cat, generator, tracker, st),
		Showcase:  design.NewShowcase(st),
		Orders:    order.NewAssembler(cat, coupons.Validator, st, st, notifier, node),
		Notifier:  notifier,
		Enhancer:  imagegen.NewEnhancer(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel),
		Secret:    cfg.Secret,
		TokenTTL:  cfg.TokenTTL,
		StartedAt: time.Now(),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log.L()), cors.New(corsConfig(cfg.CORSOrigins)))

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	stop := make(chan struct{})
	defer close(stop)
	limiter.StartCleanup(10*time.Minute, stop)

	h.Mount(r, limiter.Middleware())

	if err := service.Run("webservice", "", cfg.GinPort, r); err != nil {
		log.L().Error("webservice stopped", zap.Error(err))
		os.Exit(1)
	}
}
