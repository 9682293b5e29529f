package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/config"
	"github.com/stake-plus/polkadot-gov-forum/src/api/data"
	"github.com/stake-plus/polkadot-gov-forum/src/api/engine"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
	"github.com/stake-plus/polkadot-gov-forum/src/api/mirror"
	"github.com/stake-plus/polkadot-gov-forum/src/api/notify"
	"github.com/stake-plus/polkadot-gov-forum/src/api/types"
	"github.com/stake-plus/polkadot-gov-forum/src/api/webserver"
	"gorm.io/gorm"
)

func seedNetworks(db *gorm.DB) {
	seeds := []types.Network{
		{ID: 1, Name: "polkadot", Symbol: "DOT", URL: "https://polkadot.network", SS58Prefix: 0},
		{ID: 2, Name: "kusama", Symbol: "KSM", URL: "https://kusama.network", SS58Prefix: 2},
		{ID: 3, Name: "polymesh", Symbol: "POLYX", URL: "https://polymesh.network", SS58Prefix: 12},
		{ID: 4, Name: "moonbeam", Symbol: "GLMR", URL: "https://moonbeam.network", SS58Prefix: 1284},
	}
	for _, n := range seeds {
		_ = db.FirstOrCreate(&types.Network{ID: n.ID}, n).Error
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	data.Migrate(db)
	seedNetworks(db)
	if err := data.LoadSettings(db); err != nil {
		log.Printf("settings: %v", err)
	}
	// DB-side operational overrides win over the environment.
	if v := data.GetSetting("spam_threshold"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.SpamThreshold = uint32(n)
		}
	}
	if v := data.GetSetting("mirror_url"); v != "" {
		cfg.MirrorURL = v
	}

	rdb := data.MustRedis(cfg.RedisURL)
	cacheStore := data.NewCacheStore(rdb)

	orch := engine.New(
		engine.Config{
			PageSize:      cfg.PageSize,
			SpamThreshold: cfg.SpamThreshold,
			CacheEnabled:  cfg.CacheEnabled,
			CacheTTL:      cfg.CacheTTL,
			WorkerPool:    cfg.WorkerPool,
		},
		data.NewEditorialStore(db),
		data.NewReportStore(db),
		indexer.NewClient(cfg.IndexerURL),
		mirror.NewClient(cfg.MirrorURL),
		cacheStore,
		cacheStore,
		notify.NewDispatcher(rdb),
	)

	router := webserver.New(cfg, orch)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("GovForum API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)

	// Drain fire-and-forget work before exit
	orch.Tasks().Wait()
}
