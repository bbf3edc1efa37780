package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"insurebot/internal/models"
	"insurebot/internal/types"
	"insurebot/pkg/bot"
	"insurebot/pkg/config"
	"insurebot/pkg/index"
	"insurebot/pkg/llm"
	"insurebot/pkg/pdf"
	"insurebot/pkg/processor"
	"insurebot/pkg/scraper"
	"insurebot/pkg/store"
	"insurebot/pkg/synth"
	"insurebot/server"
)

type flags struct {
	ConfigPath string
	PDFPath    string
	DBUrl      string
	Addr       string
	Serve      bool
	Rebuild    bool
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	f := parseFlags()

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&f.PDFPath, "pdf", "", "Path to the insurance PDF document")
	flag.StringVar(&f.DBUrl, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.StringVar(&f.Addr, "addr", "", "HTTP listen address")
	flag.BoolVar(&f.Serve, "serve", false, "Start the HTTP server instead of the interactive chat")
	flag.BoolVar(&f.Rebuild, "rebuild", false, "Discard the cached index and rebuild from sources")
	flag.Parse()

	return f
}

func run(f flags) error {
	cfg, err := config.LoadConfig(f.ConfigPath)
	if err != nil {
		return err
	}
	if f.PDFPath != "" {
		cfg.Corpus.PDFPath = f.PDFPath
	}
	if f.DBUrl != "" {
		cfg.Database.URL = f.DBUrl
	}
	if f.Addr != "" {
		cfg.Server.Addr = f.Addr
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config error: %v", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	ctx := context.Background()

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:   cfg.Embedding.Model,
		BaseURL: cfg.Embedding.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	retriever, err := buildRetriever(ctx, cfg, embedder, f.Rebuild)
	if err != nil {
		return err
	}
	color.Green("✓ Index ready with %d chunks", retriever.Size())

	var convStore types.ConversationStore
	if cfg.Database.URL != "" {
		pg, err := store.NewConversationStore(store.ConversationStoreConfig{
			ConnString:   cfg.Database.URL,
			HistoryLimit: cfg.Session.MaxHistory,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize conversation store: %v", err)
		}
		defer pg.Close()

		if removed, err := pg.CleanupOldSessions(ctx, cfg.Session.TimeoutDays); err != nil {
			log.Printf("session cleanup failed: %v", err)
		} else if removed > 0 {
			log.Printf("cleaned up %d expired sessions", removed)
		}
		convStore = pg
	} else {
		color.Yellow("No DATABASE_URL set, conversation history will not survive restarts")
		convStore = store.NewMemoryStore()
	}

	synthesizer := synth.NewWithConfig(synth.SynthesizerConfig{
		SimilarityThreshold: float32(cfg.Engine.SimilarityThreshold),
	})

	chatbot := bot.NewWithConfig(bot.BotConfig{
		TopK: cfg.Engine.TopK,
	}, retriever, convStore, synthesizer)

	if f.Serve {
		srv := server.New(server.Config{
			Addr:      cfg.Server.Addr,
			StaticDir: cfg.Server.StaticDir,
		}, chatbot, retriever)
		return srv.ListenAndServe()
	}

	return chatLoop(ctx, chatbot)
}

// buildRetriever wires the configured backend, loading the cached index
// when possible and running the full ingestion pipeline otherwise.
func buildRetriever(ctx context.Context, cfg *config.Config, embedder types.Embedder, rebuild bool) (types.Retriever, error) {
	switch cfg.Engine.Backend {
	case "pgvector":
		vs, err := store.NewVectorStore(store.VectorStoreConfig{
			ConnString: cfg.Database.URL,
			TableName:  cfg.Database.TableName,
			VectorDim:  cfg.Embedding.VectorDim,
			Embedder:   embedder,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vector store: %v", err)
		}

		if vs.Size() == 0 || rebuild {
			corpus, err := ingest(ctx, cfg)
			if err != nil {
				return nil, err
			}
			if err := vs.StoreCorpus(ctx, corpus); err != nil {
				return nil, err
			}
		}
		return vs, nil

	default:
		if rebuild {
			os.Remove(cfg.Engine.ChunksPath)
			os.Remove(cfg.Engine.EmbeddingsPath)
		}

		var bar *progressbar.ProgressBar
		ix := index.NewWithConfig(index.IndexConfig{
			ChunksPath:     cfg.Engine.ChunksPath,
			EmbeddingsPath: cfg.Engine.EmbeddingsPath,
			Embedder:       embedder,
			OnProgress: func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription(color.BlueString("Embedding corpus...")),
						progressbar.OptionShowCount(),
						progressbar.OptionEnableColorCodes(true),
						progressbar.OptionSetWidth(40),
					)
				}
				bar.Set(done)
			},
		})

		if err := ix.Load(); err != nil {
			log.Printf("index cache unavailable, rebuilding: %v", err)
			corpus, err := ingest(ctx, cfg)
			if err != nil {
				return nil, err
			}
			if err := ix.Build(ctx, corpus); err != nil {
				return nil, err
			}
			if bar != nil {
				bar.Finish()
				fmt.Println()
			}
		}
		return ix, nil
	}
}

// ingest runs both ingestion sources and builds the corpus. Either
// source may fail with a warning; an empty corpus is fatal.
func ingest(ctx context.Context, cfg *config.Config) ([]models.Chunk, error) {
	var documentText string
	text, err := pdf.ExtractText(cfg.Corpus.PDFPath)
	if err != nil {
		color.Yellow("Warning: PDF ingestion failed, continuing with web content only: %v", err)
	} else {
		documentText = pdf.Sanitize(text)
	}

	var pages []models.Page
	s, err := scraper.NewWithConfig(scraper.ScraperConfig{
		BaseURL:   cfg.Scraper.BaseURL,
		MaxPages:  cfg.Scraper.MaxPages,
		RateLimit: cfg.Scraper.RateLimit,
		OnProgress: func(url string) {
			color.Blue("Scraping: %s", url)
		},
	})
	if err != nil {
		color.Yellow("Warning: scraper setup failed, continuing with PDF content only: %v", err)
	} else {
		pages, err = s.ScrapeAll(ctx)
		if err != nil {
			color.Yellow("Warning: web ingestion failed, continuing with PDF content only: %v", err)
		} else {
			color.Green("✓ Scraped %d pages", len(pages))
		}
	}

	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      cfg.Corpus.ChunkSize,
		ChunkOverlap:   cfg.Corpus.ChunkOverlap,
		MinChunkLength: cfg.Corpus.MinChunkLength,
		MaxPDFChunks:   cfg.Corpus.MaxPDFChunks,
		TotalCap:       cfg.Corpus.TotalCap,
	})

	corpus, err := p.BuildCorpus(documentText, pages)
	if err != nil {
		return nil, fmt.Errorf("corpus build failed: %w", err)
	}
	color.Green("✓ Built corpus with %d chunks", len(corpus))
	return corpus, nil
}

// chatLoop is the interactive terminal chat.
func chatLoop(ctx context.Context, chatbot *bot.Bot) error {
	color.Cyan("\nChat with the ICICI Insurance assistant (type 'exit' to quit)")

	sessionID := uuid.NewString()
	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nYou: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.ToLower(query) == "exit" {
			break
		}

		result := chatbot.HandleTurn(ctx, query, sessionID)
		if result.Status != "success" {
			color.Red("\n%s\n", result.Response)
			continue
		}
		assistantPrompt("\nAssistant: %s\n", result.Response)
	}

	return scanner.Err()
}
