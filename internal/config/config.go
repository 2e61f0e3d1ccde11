package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	CatalogURL           string        // GraphQLカタログのベースURL
	CatalogTimeout       time.Duration // カタログ呼び出しのタイムアウト
	CatalogSigningSecret string        // 空ならAuthorizationヘッダを付けない

	CartStore     string // file/sqlite/postgres/redis/memory
	CartStorePath string // file/sqliteの保存先
	CartSlotKey   string // スナップショットを置くスロット名
	DatabaseURL   string // postgres（空なら POSTGRES_* から組み立てる）
	RedisAddr     string
}

// Loadは環境変数
func Load() (Config, error) {
	timeoutSec, err := atoiDefault("CATALOG_TIMEOUT_SEC", 10)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		CatalogURL:           strings.TrimRight(strings.TrimSpace(os.Getenv("CATALOG_URL")), "/"),
		CatalogTimeout:       time.Duration(timeoutSec) * time.Second,
		CatalogSigningSecret: os.Getenv("CATALOG_SIGNING_SECRET"),

		CartStore:     strings.ToLower(getenv("CART_STORE", StoreFile)),
		CartStorePath: getenv("CART_STORE_PATH", "storefront-cart.json"),
		CartSlotKey:   getenv("CART_SLOT_KEY", "items"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	//必須チェック
	if cfg.CatalogURL == "" {
		return Config{}, fmt.Errorf("CATALOG_URL is required")
	}
	if timeoutSec <= 0 {
		return Config{}, fmt.Errorf("CATALOG_TIMEOUT_SEC must be positive")
	}

	switch cfg.CartStore {
	case StoreFile, StoreSQLite, StoreMemory:
	case StorePostgres:
		// DATABASE_URL か POSTGRES_* のどちらか（infra/db 側で組み立てる）
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return Config{}, fmt.Errorf("CART_STORE must be one of file, sqlite, postgres, redis, memory")
	}

	return cfg, nil
}

// ListenAddr は ":8080" 形式にそろえる
func (c Config) ListenAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
