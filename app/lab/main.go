package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	spinhttp "github.com/spinframework/spin-go-sdk/v2/http"
	spinvars "github.com/spinframework/spin-go-sdk/v2/variables"

	"github.com/timgluz/phytolab/analysis"
	"github.com/timgluz/phytolab/api"
	"github.com/timgluz/phytolab/calibration"
	"github.com/timgluz/phytolab/calibration/spinkv"
	"github.com/timgluz/phytolab/log"
	"github.com/timgluz/phytolab/response"
	"github.com/timgluz/phytolab/sample"
	"github.com/timgluz/phytolab/sample/sqlstore"
	"github.com/timgluz/phytolab/secret"
)

type LabAppConfig struct {
	SampleDBName    string `json:"sample_db_name"`
	ParamsStoreName string `json:"params_store_name"`
	APIKey          string `json:"api_key"`
	LogLevel        string `json:"log_level"`
	Language        string `json:"language"`
}

func NewLabAppConfigFromSpinVariables() (*LabAppConfig, error) {
	dbName, err := spinvars.Get("sample_db_name")
	if err != nil {
		return nil, fmt.Errorf("failed to get sample_db_name: %w", err)
	}

	storeName, err := spinvars.Get("params_store_name")
	if err != nil {
		return nil, fmt.Errorf("failed to get params_store_name: %w", err)
	}

	apiKey, err := spinvars.Get("api_key")
	if err != nil {
		return nil, fmt.Errorf("failed to get api_key: %w", err)
	}

	logLevel, err := spinvars.Get("log_level")
	if err != nil {
		logLevel = "info"
	}

	language, err := spinvars.Get("language")
	if err != nil || language == "" {
		language = analysis.DefaultLanguageCode
	}

	return &LabAppConfig{
		SampleDBName:    dbName,
		ParamsStoreName: storeName,
		APIKey:          apiKey,
		LogLevel:        logLevel,
		Language:        language,
	}, nil
}

type labAppComponent struct {
	config           *LabAppConfig
	sampleRepository sample.Repository
	paramsStore      calibration.Store
	secretStore      secret.Store
	engine           *analysis.Engine
	logger           *slog.Logger
}

func (c *labAppComponent) IsReady() bool {
	if c.logger == nil {
		fmt.Println("Logger of labAppComponent is not initialized")
		return false
	}

	if c.config == nil {
		c.logger.Error("LabAppConfig is not initialized")
		return false
	}

	if c.secretStore == nil {
		c.logger.Error("Secret store is not initialized")
		return false
	}

	if c.engine == nil || !c.engine.IsReady() {
		c.logger.Error("Analysis engine is not ready")
		return false
	}

	return true
}

func (c *labAppComponent) Close() {
	if c.sampleRepository != nil {
		if err := c.sampleRepository.Close(); err != nil {
			c.logger.Error("Failed to close sample repository", "error", err)
		}
	}

	if c.paramsStore != nil {
		if err := c.paramsStore.Close(); err != nil {
			c.logger.Error("Failed to close calibration store", "error", err)
		}
	}

	if c.secretStore != nil {
		if err := c.secretStore.Close(); err != nil {
			c.logger.Error("Failed to close secret store", "error", err)
		}
	}

	c.logger.Debug("Lab app component closed")
}

func init() {
	spinhttp.Handle(func(w http.ResponseWriter, r *http.Request) {
		config, err := NewLabAppConfigFromSpinVariables()
		if err != nil {
			response.RenderFatal(w, fmt.Errorf("failed to load lab app config: %w", err))
			return
		}

		appComponents, err := initLabAppComponent(r, *config)
		if err != nil {
			response.RenderFatal(w, fmt.Errorf("failed to initialize lab app component: %w", err))
			return
		}
		defer appComponents.Close()

		if !appComponents.IsReady() {
			response.RenderFatal(w, fmt.Errorf("lab app component is not ready"))
			return
		}

		router := spinhttp.NewRouter()
		api.Register(router, appComponents.engine, appComponents.secretStore, appComponents.logger)
		router.ServeHTTP(w, r)
	})
}

func main() {}

func initLabAppComponent(r *http.Request, config LabAppConfig) (*labAppComponent, error) {
	logger := log.New(os.Stderr, config.LogLevel, "lab")
	logger.Debug("Initializing lab app component")

	secretStore, err := secret.NewAPIKeyStore(config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secret store: %w", err)
	}

	db, err := sqlstore.NewSpinSqliteDB(config.SampleDBName)
	if err != nil {
		logger.Error("Failed to initialize SQLite DB", "error", err)
		return nil, fmt.Errorf("failed to initialize SQLite DB: %w", err)
	}

	sampleRepository, err := sqlstore.NewSqlRepository(db, logger)
	if err != nil {
		logger.Error("Failed to initialize sample repository", "error", err)
		return nil, fmt.Errorf("failed to initialize sample repository: %w", err)
	}

	if err := sampleRepository.Migrate(r.Context()); err != nil {
		sampleRepository.Close()
		return nil, fmt.Errorf("failed to migrate sample repository: %w", err)
	}

	paramsStore, err := spinkv.NewSpinKVStore(config.ParamsStoreName, logger)
	if err != nil {
		sampleRepository.Close()
		logger.Error("Failed to initialize calibration store", "error", err)
		return nil, fmt.Errorf("failed to initialize calibration store: %w", err)
	}

	engine := analysis.NewEngine(sampleRepository, paramsStore, logger).WithLanguage(config.Language)

	return &labAppComponent{
		config:           &config,
		sampleRepository: sampleRepository,
		paramsStore:      paramsStore,
		secretStore:      secretStore,
		engine:           engine,
		logger:           logger,
	}, nil
}
