package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "traqcheck/docs" // Swagger docs
	"traqcheck/internal/api"
	"traqcheck/internal/config"
	"traqcheck/internal/dbx"
	"traqcheck/internal/llm"
	"traqcheck/internal/mailer"
	"traqcheck/internal/resume"
	"traqcheck/internal/storage"
)

// @title TraqCheck Candidate Verification API
// @version 1.0
// @description Resume intake, LLM extraction, validation and document verification backend

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	cfg := config.Load()

	db, err := dbx.Open(dbx.Config{
		SQLitePath:      cfg.SQLitePath,
		RemoteURL:       cfg.TursoDatabaseURL,
		RemoteAuthToken: cfg.TursoAuthToken,
	})
	if err != nil {
		log.Fatal("db open:", err)
	}

	ctx := context.Background()
	if err := storage.InitSchema(ctx, db); err != nil {
		log.Fatal("schema init:", err)
	}
	log.Printf("Database ready (%s backend)", db.Kind())

	store := storage.NewStore(db)
	llmSvc := llm.NewService(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	pipeline := resume.NewPipeline(store, llmSvc, cfg.LLMTimeout)
	smtp := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	apiSrv := api.NewAPI(store, pipeline, llmSvc, smtp, cfg.UploadDir, cfg.BaseURL)
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second, // file uploads
		WriteTimeout: 5 * time.Minute,  // LLM extraction can run long
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("server shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}
