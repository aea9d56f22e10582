package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/antigravity/morocco-transport/internal/config"
	"github.com/antigravity/morocco-transport/internal/handler"
	"github.com/antigravity/morocco-transport/internal/repository"
	"github.com/antigravity/morocco-transport/internal/routing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()

	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Unable to parse DB URL:", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		log.Fatal("Unable to create connection pool:", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Unable to connect to database:", err)
	}
	log.Println("connected to PostGIS database")

	loader := routing.NewLoader(pool)
	timetable, err := loader.Load(context.Background(), cfg.RaptorMinInterchange)
	if err != nil {
		log.Fatal("Unable to load timetable:", err)
	}

	queryCfg := routing.GroupQueryConfig{
		ScanConfig:    routing.ScanConfig{MaxRounds: cfg.RaptorMaxRounds},
		MaxSearchDays: cfg.RaptorMaxSearchDays,
		DayRollover:   cfg.RaptorDayRollover,
	}

	lineRepo := repository.NewLineRepository(pool)
	transportHandler := handler.NewTransportHandler(lineRepo, timetable, queryCfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok", "service":"morocco_transport_api"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"error", "db":"disconnected"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok", "db":"connected"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/lines", transportHandler.GetAllLines)
		r.Get("/lines/{id}", transportHandler.GetLineDetails)
		r.Get("/stops", transportHandler.GetStops)
		r.Get("/stops/{id}", transportHandler.GetStopDetails)
		r.Get("/route", transportHandler.GetRoute)
		r.Post("/route/rematch", transportHandler.ReMatch)
	})

	log.Printf("server starting on port %d", cfg.Port)
	addr := ":" + strconv.Itoa(cfg.Port)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
