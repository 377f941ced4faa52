package main

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/qrtable/tableside/cart"
	"github.com/qrtable/tableside/config"
	"github.com/qrtable/tableside/coordinator"
	"github.com/qrtable/tableside/qr"
	"github.com/qrtable/tableside/realtime"
	"github.com/qrtable/tableside/session"
	"github.com/qrtable/tableside/store"
	"github.com/qrtable/tableside/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// logNotifier meneruskan notifikasi user ke log; shell kiosk yang sebenarnya
// menggantinya dengan tampilan di layar.
type logNotifier struct{}

func (logNotifier) SessionExpired() {
	utils.InfoLogger.Println("Sesi meja Anda sudah berakhir, silakan scan ulang QR di meja")
}

// redeemNavigator memerankan route redemption di agent headless: navigasi
// replace yang membawa token langsung ditukar menjadi session.
type redeemNavigator struct {
	sessions *session.Manager
}

func (n *redeemNavigator) Replace(target string) {
	parsed, err := url.Parse(target)
	if err != nil {
		return
	}
	if token := parsed.Query().Get("token"); token != "" {
		if err := n.sessions.Redeem(token); err != nil {
			utils.ErrorLogger.Printf("Redemption failed: %v", err)
		}
	}
}

func main() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		utils.InitLogger()
		utils.InfoLogger.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()

	cfg := config.Load()

	// Pilih storage durable sesuai konfigurasi
	st := buildStore(cfg)

	sessions := session.NewManager([]byte(cfg.SessionSecret))
	shoppingCart := cart.New(st)

	coord := coordinator.New(sessions, shoppingCart, logNotifier{})
	coord.Start()
	defer coord.Stop()

	// Kiosk yang tahu id statis mejanya langsung memulai flow scan QR:
	// issue token sekali-pakai lalu tukarkan jadi session
	if tableStaticID := os.Getenv("TABLE_STATIC_ID"); tableStaticID != "" && !sessions.Snapshot().IsSessionActive {
		issuer := qr.NewIssuer(cfg.BackendURL, cfg.RedeemPath, &redeemNavigator{sessions: sessions})
		if err := issuer.Issue(context.Background(), tableStaticID); err != nil {
			utils.ErrorLogger.Println(qr.NoticeFor(err))
		}
	}

	// Sinyal SIGCONT dipakai shell kiosk sebagai "layar kembali terlihat":
	// watchdog langsung re-check expiry tanpa menunggu interval
	wake := make(chan os.Signal, 1)
	signal.Notify(wake, syscall.SIGCONT)
	go func() {
		for range wake {
			select {
			case coord.WakeCh <- struct{}{}:
			default:
			}
		}
	}()

	// Bucket cache untuk view turunan server
	registry := realtime.NewRegistry()
	httpClient := &http.Client{Timeout: 10 * time.Second}
	registry.Register(realtime.BucketOrders, realtime.JSONFetch(httpClient, cfg.BackendURL+"/api/orders"))
	registry.Register(realtime.BucketProducts, realtime.JSONFetch(httpClient, cfg.BackendURL+"/api/products"))
	registry.Register(realtime.BucketSettings, realtime.JSONFetch(httpClient, cfg.BackendURL+"/api/settings"))
	registry.Register(realtime.BucketBanners, realtime.JSONFetch(httpClient, cfg.BackendURL+"/api/banners"))

	// Push channel: NATS kalau dikonfigurasi, selain itu websocket.
	// Gagal connect tidak fatal; agent tetap jalan tanpa invalidasi realtime.
	if source := dialEventSource(cfg); source != nil {
		listener := realtime.NewListener(source, registry)
		listener.Listen()
		defer listener.Close()
	}

	utils.InfoLogger.Println("Tableside agent running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down tableside agent")
}

func buildStore(cfg config.Config) store.Store {
	switch cfg.StoreDriver {
	case "redis":
		redisStore, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			utils.ErrorLogger.Printf("Redis connection failed: %v, falling back to memory store", err)
			return store.NewMemoryStore()
		}
		return redisStore
	case "memory":
		return store.NewMemoryStore()
	default:
		db, err := gorm.Open(sqlite.Open(cfg.StorePath), &gorm.Config{})
		if err != nil {
			utils.ErrorLogger.Printf("Failed to open %s: %v, falling back to memory store", cfg.StorePath, err)
			return store.NewMemoryStore()
		}
		gormStore, err := store.NewGormStore(db)
		if err != nil {
			utils.ErrorLogger.Printf("Failed to migrate kv table: %v, falling back to memory store", err)
			return store.NewMemoryStore()
		}
		return gormStore
	}
}

func dialEventSource(cfg config.Config) realtime.EventSource {
	if cfg.NatsURL != "" {
		source, err := realtime.DialNATS(cfg.NatsURL, cfg.NatsPrefix)
		if err != nil {
			utils.ErrorLogger.Printf("NATS connection failed: %v", err)
			return nil
		}
		utils.InfoLogger.Printf("Connected to NATS at %s", cfg.NatsURL)
		return source
	}

	source, err := realtime.DialWS(cfg.RealtimeURL)
	if err != nil {
		utils.ErrorLogger.Printf("Realtime connection failed: %v", err)
		return nil
	}
	utils.InfoLogger.Printf("Connected to realtime channel at %s", cfg.RealtimeURL)
	return source
}
