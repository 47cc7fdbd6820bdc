package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"car-sales-agent/config"
	httpLayer "car-sales-agent/http"
	"car-sales-agent/repository"
	"car-sales-agent/service"
	"car-sales-agent/whatsapp"
)

func main() {
	cfg := config.Load()

	catalog, err := service.NewCatalogServiceFromCSV(cfg.CatalogCSV)
	if err != nil {
		log.Fatalf("Error loading catalog: %v", err)
	}
	if dropped := catalog.DroppedRows(); dropped > 0 {
		log.Printf("Warning: dropped %d malformed catalog rows", dropped)
	}
	log.Printf("Catálogo cargado: %d autos", catalog.TotalCars())

	financing := service.NewFinancingService()

	registry, err := service.NewToolRegistry(catalog, financing)
	if err != nil {
		log.Fatalf("Error building tool registry: %v", err)
	}

	llm := service.NewLLMService(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel, registry)

	var conversations repository.ConversationRepository
	if cfg.RedisAddr != "" {
		conversations = repository.NewConversationRedis(cfg.RedisAddr, repository.DefaultMaxTurns)
	} else {
		conversations = repository.NewConversationMemory(repository.DefaultMaxTurns)
	}

	sender := whatsapp.NewSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)

	chatHandler := httpLayer.NewChatHandler(llm)
	whatsappHandler := httpLayer.NewWhatsAppHandler(llm, conversations, sender)
	catalogHandler := httpLayer.NewCatalogHandler(catalog)
	financingHandler := httpLayer.NewFinancingHandler(financing)

	rateLimiter := httpLayer.NewRateLimiter(5, time.Minute)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	mux.Handle(
		"POST /chat",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(chatHandler.Chat),
		),
	)
	mux.Handle(
		"POST /webhook/whatsapp",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(whatsappHandler.Webhook),
		),
	)
	mux.HandleFunc("GET /cars", catalogHandler.GetCars)
	mux.HandleFunc("GET /cars/{stock_id}", catalogHandler.GetCarByID)
	mux.HandleFunc("GET /stats", catalogHandler.GetStats)
	mux.HandleFunc("POST /financing/calculate", financingHandler.Calculate)
	mux.HandleFunc("GET /financing/options", financingHandler.Options)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "service": "car-sales-agent"})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 API corriendo en http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}
