package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/catalog"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/platform/logger"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
)

// カタログ向けトークンの有効期限
const catalogTokenTTL = 5 * time.Minute

func main() {
	//.envは任意（無ければ環境変数だけ）
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mode := "dev"
	if cfg.IsProd() {
		mode = "prod"
	}
	log, err := logger.New(mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("storefront stopped", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//スナップショットの保存先
	slots, closeSlots, err := openSlotStore(cfg)
	if err != nil {
		return err
	}
	defer closeSlots()
	log.Info("cart store ready", "store", cfg.CartStore, "slot", cfg.CartSlotKey)

	//カタログ
	var signer *catalog.TokenSigner
	if cfg.CatalogSigningSecret != "" {
		signer = catalog.NewTokenSigner(cfg.CatalogSigningSecret, catalogTokenTTL)
	}
	catalogClient := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout, signer, log)

	//Usecase生成（共有の状態はここで1つずつ作る）
	notifier := usecase.NewNotifier()
	cartUC := usecase.NewCartUsecase(infraRepo.NewCartSnapshotStore(slots, cfg.CartSlotKey, log), log)
	categoryUC := usecase.NewCategoryUsecase(catalogClient, notifier)
	productUC := usecase.NewProductUsecase(catalogClient, cartUC, categoryUC, notifier, usecase.NewViewTracker())
	cartViewUC := usecase.NewCartViewUsecase(cartUC, catalogClient, notifier)
	orderUC := usecase.NewOrderUsecase(catalogClient, cartUC, notifier, log)

	//起動時に1回だけ読み込む
	cartUC.Hydrate(ctx)
	cartUC.OnChange(func(t model.CartTotals) {
		log.Info("cart totals", "total_quantity", t.Quantity, "total_price", t.Price.StringFixed(2))
	})

	//Handler生成
	e := server.New(log,
		handler.NewCategoryHandler(categoryUC),
		handler.NewCartHandler(cartUC, cartViewUC),
		handler.NewOrderHandler(orderUC),
		handler.NewNotificationHandler(notifier),
		handler.NewProductHandler(productUC, categoryUC),
	)

	//Server起動
	return server.Start(ctx, e, cfg.ListenAddr(), log)
}

func openSlotStore(cfg config.Config) (repo.SlotStore, func(), error) {
	noop := func() {}

	switch cfg.CartStore {
	case config.StoreMemory:
		return infraRepo.NewSlotMemoryStore(), noop, nil

	case config.StoreFile:
		return infraRepo.NewSlotFileStore(cfg.CartStorePath), noop, nil

	case config.StoreSQLite, config.StorePostgres:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("connect %s: %w", cfg.CartStore, err)
		}
		store := infraRepo.NewSlotGormStore(gormDB)
		if err := store.Migrate(); err != nil {
			return nil, noop, fmt.Errorf("migrate slots: %w", err)
		}
		closeDB := func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return store, closeDB, nil

	case config.StoreRedis:
		rdb, err := db.ConnectRedis(cfg.RedisAddr)
		if err != nil {
			return nil, noop, fmt.Errorf("connect redis: %w", err)
		}
		return infraRepo.NewSlotRedisStore(rdb, "storefront:"), func() { _ = rdb.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown cart store %q", cfg.CartStore)
	}
}
