package main

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dursunkatar/OrderManagementSystem/internal/config"
	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
	"github.com/dursunkatar/OrderManagementSystem/internal/events"
	"github.com/dursunkatar/OrderManagementSystem/internal/handler"
	infraCache "github.com/dursunkatar/OrderManagementSystem/internal/infra/cache"
	"github.com/dursunkatar/OrderManagementSystem/internal/infra/db"
	"github.com/dursunkatar/OrderManagementSystem/internal/infra/messaging"
	infraRepo "github.com/dursunkatar/OrderManagementSystem/internal/infra/repository"
	"github.com/dursunkatar/OrderManagementSystem/internal/server"
	"github.com/dursunkatar/OrderManagementSystem/internal/usecase"
	"github.com/dursunkatar/OrderManagementSystem/pkg/logging"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(customerID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(customerID, 10),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ブローカー停止中でも注文は受け続ける
type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, ev events.Event) error { return nil }

func main() {
	//.envは無くても環境変数があれば動く
	_ = godotenv.Load()

	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Customer{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//キャッシュ（落ちていてもmiss扱いで続行）
	cacheStore := infraCache.NewRedisStore(infraCache.NewClient(cfg.RedisAddr), log)

	//イベント発行（接続できなければno-opで続行）
	var publisher events.Publisher = nopPublisher{}
	if conn, err := amqp.Dial(cfg.AmqpURL); err != nil {
		log.Warn("rabbitmq unavailable, events disabled", "error", err)
	} else {
		p, err := messaging.NewRabbitMQPublisher(conn)
		if err != nil {
			log.Warn("rabbitmq channel failed, events disabled", "error", err)
		} else {
			publisher = p
		}
	}

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 15 * time.Minute}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(customerRepo, hasher, issuer, clock)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, cacheStore, log)
	orderUC := usecase.NewOrderUsecase(txManager, customerRepo, cacheStore, publisher, log)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	productH := handler.NewProductHandler(productUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(orderUC)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, authH, productH, cartH, orderH); err != nil {
		panic(err)
	}
}
