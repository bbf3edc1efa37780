package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Embedding struct {
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		VectorDim int    `yaml:"vector_dim"`
	} `yaml:"embedding"`

	Corpus struct {
		PDFPath        string `yaml:"pdf_path"`
		ChunkSize      int    `yaml:"chunk_size"`
		ChunkOverlap   int    `yaml:"chunk_overlap"`
		MinChunkLength int    `yaml:"min_chunk_length"`
		MaxPDFChunks   int    `yaml:"max_pdf_chunks"`
		TotalCap       int    `yaml:"total_cap"`
	} `yaml:"corpus"`

	Scraper struct {
		BaseURL    string   `yaml:"base_url"`
		StartPages []string `yaml:"start_pages"`
		MaxPages   int      `yaml:"max_pages"`
		RateLimit  float64  `yaml:"rate_limit"`
	} `yaml:"scraper"`

	Engine struct {
		Backend             string  `yaml:"backend"` // "file" or "pgvector"
		ChunksPath          string  `yaml:"chunks_path"`
		EmbeddingsPath      string  `yaml:"embeddings_path"`
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		TopK                int     `yaml:"top_k"`
	} `yaml:"engine"`

	Database struct {
		URL       string `yaml:"url"`
		TableName string `yaml:"table_name"`
	} `yaml:"database"`

	Server struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`

	Session struct {
		TimeoutDays int `yaml:"timeout_days"`
		MaxHistory  int `yaml:"max_history"`
	} `yaml:"session"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/insurebot/config.yaml"),
			"/etc/insurebot/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = "http://localhost:11434"
	}
	if config.Embedding.Model == "" {
		config.Embedding.Model = "nomic-embed-text:latest"
	}
	if config.Embedding.VectorDim == 0 {
		config.Embedding.VectorDim = 768
	}

	if config.Corpus.PDFPath == "" {
		config.Corpus.PDFPath = "ICICI_Insurance.pdf"
	}
	if config.Corpus.ChunkSize == 0 {
		config.Corpus.ChunkSize = 500
	}
	if config.Corpus.ChunkOverlap == 0 {
		config.Corpus.ChunkOverlap = 50
	}
	if config.Corpus.MinChunkLength == 0 {
		config.Corpus.MinChunkLength = 100
	}
	if config.Corpus.MaxPDFChunks == 0 {
		config.Corpus.MaxPDFChunks = 150
	}
	if config.Corpus.TotalCap == 0 {
		config.Corpus.TotalCap = 200
	}

	if config.Scraper.BaseURL == "" {
		config.Scraper.BaseURL = "https://www.iciciprulife.com"
	}
	if config.Scraper.MaxPages == 0 {
		config.Scraper.MaxPages = 10
	}
	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 1.0
	}

	if config.Engine.Backend == "" {
		config.Engine.Backend = "file"
	}
	if config.Engine.ChunksPath == "" {
		config.Engine.ChunksPath = "chunks.gob"
	}
	if config.Engine.EmbeddingsPath == "" {
		config.Engine.EmbeddingsPath = "embeddings.gob"
	}
	if config.Engine.SimilarityThreshold == 0 {
		config.Engine.SimilarityThreshold = 0.3
	}
	if config.Engine.TopK == 0 {
		config.Engine.TopK = 8
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "corpus_chunks"
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8000"
	}
	if config.Server.StaticDir == "" {
		config.Server.StaticDir = "static"
	}

	if config.Session.TimeoutDays == 0 {
		config.Session.TimeoutDays = 30
	}
	if config.Session.MaxHistory == 0 {
		config.Session.MaxHistory = 10
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.Embedding.BaseURL = baseURL
	}
	if model := os.Getenv("EMBED_MODEL"); model != "" {
		config.Embedding.Model = model
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			config.Server.Addr = ":" + port
		}
	}
	if pdfPath := os.Getenv("PDF_PATH"); pdfPath != "" {
		config.Corpus.PDFPath = pdfPath
	}
}
