package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "impulso-backend/internal/adapter/http"
	"impulso-backend/internal/adapter/middleware"
	"impulso-backend/internal/adapter/repository/mysql"
	"impulso-backend/internal/adapter/sms"
	"impulso-backend/internal/challenge"
	"impulso-backend/internal/config"
	"impulso-backend/internal/infrastructure/cache"
	"impulso-backend/internal/infrastructure/db"
	"impulso-backend/internal/stage"
	beneficiaryuc "impulso-backend/internal/usecase/beneficiary"
	useruc "impulso-backend/internal/usecase/user"
	visituc "impulso-backend/internal/usecase/visit"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	var sender sms.Sender = sms.DryRunSender{}
	if !cfg.SMSDryRun {
		s, err := sms.NewSNSSender(context.Background(), cfg.AWSRegion)
		if err != nil {
			log.Fatalf("sns: %v", err)
		}
		sender = s
	}

	beneficiaries := mysql.NewBeneficiaryRepository(gdb)
	visits := mysql.NewVisitRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	challenger := challenge.NewService(rdb, sender, beneficiaries, cfg.ChallengeKeyPrefix,
		time.Duration(cfg.ChallengeTTLSecs)*time.Second)
	pending := stage.New(rdb, cfg.PendingVisitsKey, func(pv visituc.PendingVisit) string {
		return pv.BeneficiaryID
	})

	visitUC := visituc.NewUsecase(beneficiaries, visits, uow, pending, challenger, cfg.ChallengeMaxAttempts)
	beneficiaryUC := beneficiaryuc.NewUsecase(beneficiaries, visits, uow)
	userUC := useruc.NewUsecase(users)

	h := httpadp.NewHandler()
	bh := httpadp.NewBeneficiaryHandler(beneficiaryUC)
	vh := httpadp.NewVisitHandler(visitUC)
	uh := httpadp.NewUserHandler(userUC)
	eh := httpadp.NewExportHandler(beneficiaryUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	e.GET("/health", h.Health)

	e.POST("/beneficiaries", bh.Create)
	e.GET("/beneficiaries", bh.List)
	e.GET("/beneficiaries/:beneficiary_id", bh.Get)
	e.PATCH("/beneficiaries/:beneficiary_id/fields/:field", bh.UpdateField)

	e.POST("/advices", vh.Create)
	e.POST("/advices/validate-sms-advice", vh.ConfirmSMS)
	e.GET("/advices/getByBeneficiary/:beneficiary_id", vh.ListByBeneficiary)
	e.GET("/advices/pending/:beneficiary_id", vh.PendingState)
	e.DELETE("/advices/pending/:beneficiary_id", vh.CancelPending)

	e.POST("/users", uh.Create)
	e.GET("/users", uh.List)
	e.GET("/users/:user_id", uh.Get)
	e.PATCH("/users/:user_id/fields/:field", uh.UpdateField)

	e.GET("/export/beneficiaries", eh.Beneficiaries)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
