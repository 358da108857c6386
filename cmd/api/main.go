package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/config"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/database"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/http/handlers"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/http/middleware"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/integration/places"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/mail"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/queue"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/template"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Storage: Postgres when configured, in-memory otherwise.
	var (
		db           *sql.DB
		leadRepo     usecase.LeadRepository
		outreachRepo usecase.OutreachRepository
	)
	if cfg.Database.URL != "" {
		var err error
		db, err = database.NewDBConnection(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		leadRepo = database.NewLeadRepository(db)
		outreachRepo = database.NewOutreachRepository(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		mem := database.NewMemoryStore()
		leadRepo = mem
		outreachRepo = mem
	}

	// 2. RabbitMQ (optional): outreach events out, raw lead batches in.
	var (
		rabbitConn *amqp.Connection
		events     usecase.EventPublisher
	)
	var rabbit *queue.RabbitMQ
	if cfg.AMQP.URL != "" {
		var err error
		rabbit, err = queue.NewRabbitMQ(cfg.AMQP.URL)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rabbit.Conn.Close()
		defer rabbit.Ch.Close()
		rabbitConn = rabbit.Conn
		events = queue.NewProducer(rabbit.Ch)
	} else {
		log.Println("AMQP_URL not set, events disabled")
	}

	// 3. External capabilities.
	var sender usecase.MessageSender
	if cfg.SMTP.Configured() {
		sender = mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From)
	} else {
		log.Println("SMTP not configured, dispatch runs dry-run only")
	}

	var source usecase.LeadSource
	if cfg.Places.APIKey != "" {
		source = places.NewClient(cfg.Places.APIKey, cfg.Places.BaseURL)
	}

	renderer, err := template.NewRenderer(cfg.Outreach)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	// 4. UseCases
	ingestUC := usecase.NewIngestLeadsUseCase(leadRepo, cfg.Filters)
	qualifyUC := usecase.NewQualifyLeadsUseCase(leadRepo, cfg.Scoring)
	draftUC := usecase.NewDraftOutreachUseCase(leadRepo, outreachRepo, renderer)
	dispatchUC := usecase.NewDispatchOutreachUseCase(
		leadRepo, outreachRepo, sender, events,
		cfg.Dispatch.RatePerMinute, cfg.Dispatch.SendTimeout,
	)
	exportUC := usecase.NewExportLeadsUseCase(leadRepo)

	// 5. Worker consuming scraper batches from the ingest queue.
	if rabbit != nil {
		worker := queue.NewWorker(rabbit.Ch, ingestUC)
		go func() {
			if err := worker.Start(ctx, queue.IngestQueue); err != nil {
				log.Printf("worker: %v", err)
			}
		}()
	}

	// 6. Handlers
	leadHandler := handlers.NewLeadHandler(ingestUC)
	ingestHandler := handlers.NewIngestHandler(ingestUC)
	searchHandler := handlers.NewSearchHandler(source, ingestUC)
	pipelineHandler := handlers.NewPipelineHandler(qualifyUC, draftUC, dispatchUC)
	exportHandler := handlers.NewExportHandler(exportUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, cfg.SMTP.Configured(), cfg.Places.APIKey != "")

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Post("/leads", leadHandler.CaptureLead)
	r.Post("/leads/ingest", ingestHandler.Handle)
	r.Post("/leads/search", searchHandler.Handle)
	r.Get("/leads/export", exportHandler.Handle)
	r.Post("/pipeline/qualify", pipelineHandler.HandleQualify)
	r.Post("/pipeline/draft", pipelineHandler.HandleDraft)
	r.Post("/pipeline/dispatch", pipelineHandler.HandleDispatch)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		log.Printf("leadgen API listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	srv.Shutdown(context.Background())
}
