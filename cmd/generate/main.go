package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	engine "github.com/rxtech-lab/strategy-backtest/internal/backtest/engine/engine_v1"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "strategy-backtest-engine-v1-config.json"
	sampleConfigName = "strategy-backtest-engine-v1-config.yaml"
)

func validatePaths(schemaPath string, sampleConfigPath string) error {
	if schemaPath == "" {
		return errors.New("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return errors.New("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return errors.New("schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return errors.New("schema name must have .json extension")
	}

	return nil
}

// getSchemaReference returns the yaml-language-server header line that points
// an editor at the generated schema.
func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}

func generateSchemaFile(config engine.BacktestEngineV1Config, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes a default config YAML next to the schema. An
// existing file is left untouched.
func generateSampleConfig(config engine.BacktestEngineV1Config, sampleConfigPath string, schemaName string) error {
	if _, err := os.Stat(sampleConfigPath); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	return nil
}

func main() {
	config := engine.EmptyConfig()

	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", sampleConfigName)

	if err := validatePaths(schemaPath, sampleConfigPath); err != nil {
		log.Fatalf("Invalid paths: %v", err)
	}

	if err := validateSchemaName(schemaName); err != nil {
		log.Fatalf("Invalid schema name: %v", err)
	}

	if err := generateSchemaFile(config, schemaPath); err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	if err := generateSampleConfig(config, sampleConfigPath, schemaName); err != nil {
		log.Fatalf("Failed to generate sample config: %v", err)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)
}
