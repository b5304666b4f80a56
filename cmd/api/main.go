package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/intake-dal/internal/config"
	"github.com/intake-dal/internal/infrastructure/awsconf"
	"github.com/intake-dal/internal/infrastructure/dynamo"
	"github.com/intake-dal/internal/infrastructure/firestoredb"
	"github.com/intake-dal/internal/infrastructure/gcpauth"
	"github.com/intake-dal/internal/infrastructure/gcs"
	jwtinfra "github.com/intake-dal/internal/infrastructure/jwt"
	"github.com/intake-dal/internal/infrastructure/logging"
	s3infra "github.com/intake-dal/internal/infrastructure/s3"
	"github.com/intake-dal/internal/infrastructure/smtp"
	"github.com/intake-dal/internal/infrastructure/sns"
	transporthttp "github.com/intake-dal/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	logger, logCloser := logging.Init(logging.Options{Env: cfg.AppEnv, Level: cfg.LogLevel, File: cfg.LogFile})
	defer logCloser.Close()

	ctx := context.Background()

	// Service-account credential, only needed for the Google backends.
	var cred *gcpauth.Credential
	if cfg.UsesGoogle() {
		c, err := gcpauth.Load()
		if err != nil {
			logger.Error("load firebase credential", "err", err)
			os.Exit(1)
		}
		cred = c
	}
	var awsCfg aws.Config
	if cfg.UsesAWS() {
		c, err := awsconf.Load(ctx, cfg)
		if err != nil {
			logger.Error("load aws config", "err", err)
			os.Exit(1)
		}
		awsCfg = c
	}

	docs, closeDocs, err := openDocumentStore(ctx, cfg, cred, awsCfg)
	if err != nil {
		logger.Error("open document store", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}
	defer closeDocs()

	blobs, err := openBlobStore(ctx, cfg, cred, awsCfg)
	if err != nil {
		logger.Error("open blob store", "backend", cfg.BlobBackend, "err", err)
		os.Exit(1)
	}

	// JWT provider (optional; protected routes answer 503 without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		logger.Warn("JWT provider not available", "err", err)
	}

	deps := &transporthttp.Deps{
		Docs:        docs,
		Blobs:       blobs,
		Mailer:      smtp.NewMailer(cfg),
		JWTProvider: jwtProvider,
	}
	if cfg.SNSTopicARN != "" {
		deps.Publisher = sns.NewPublisher(awsCfg, awsconf.Endpoint(cfg), cfg.SNSTopicARN)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv,
			"store", cfg.StoreBackend, "blobs", cfg.BlobBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
		return
	}
	logger.Info("server stopped")
}

func openDocumentStore(ctx context.Context, cfg *config.Config, cred *gcpauth.Credential, awsCfg aws.Config) (transporthttp.DocumentStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreFirestore:
		client, err := firestoredb.NewClient(ctx, cred, cfg.FirebaseProjectID)
		if err != nil {
			return nil, nil, err
		}
		return firestoredb.NewStore(client), func() { _ = client.Close() }, nil
	case config.StoreDynamo:
		client := dynamo.NewClient(awsCfg, awsconf.Endpoint(cfg))
		if err := dynamo.Bootstrap(ctx, client, cfg.DynamoTables); err != nil {
			slog.Warn("dynamodb bootstrap incomplete", "err", err)
		}
		return dynamo.NewStore(client, cfg.DynamoTables), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}

func openBlobStore(ctx context.Context, cfg *config.Config, cred *gcpauth.Credential, awsCfg aws.Config) (transporthttp.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobGCS:
		client, err := gcs.NewClient(ctx, cred)
		if err != nil {
			return nil, err
		}
		bucket := cfg.StorageBucket
		if bucket == "" {
			project := cfg.FirebaseProjectID
			if project == "" {
				project = cred.ProjectID
			}
			bucket = project + ".firebasestorage.app"
		}
		slog.Info("using cloud storage bucket", "bucket", bucket)
		return gcs.NewStore(client, bucket, gcs.SignerFromCredential(cred)), nil
	case config.BlobS3:
		client := s3infra.NewClient(awsCfg, awsconf.Endpoint(cfg))
		return s3infra.NewStore(client, cfg.S3BucketName, s3infra.BaseURL(cfg)), nil
	}
	return nil, fmt.Errorf("unknown BLOB_BACKEND %q", cfg.BlobBackend)
}
