package deduplication

import (
	"os"
	"strconv"

	"dedupgate/config"
)

// ConfigFromEnv assembles a DeduplicatorConfig from the environment. The
// bloom pre-check is enabled only when REDIS_ADDR is set.
func ConfigFromEnv() DeduplicatorConfig {
	cfg := DeduplicatorConfig{
		ChromaConfig: ChromaConfig{
			Host:           getEnvOrDefault("CHROMA_HOST", "localhost"),
			Port:           getEnvIntOrDefault("CHROMA_PORT", 8000),
			CollectionName: getEnvOrDefault("CHROMA_COLLECTION", config.DefaultCollection),
			EmbeddingModel: os.Getenv("EMBEDDING_MODEL"),
		},
		TopK:              getEnvIntOrDefault("MATCH_TOP_K", config.DefaultTopK),
		Comparator:        getEnvOrDefault("MATCH_METHOD", config.DefaultComparator),
		FieldThreshold:    getEnvFloatOrDefault("MATCH_FIELD_THRESHOLD", config.DefaultFieldThreshold),
		DecisionThreshold: getEnvFloatOrDefault("MATCH_DECISION_THRESHOLD", config.DefaultDecisionThreshold),
	}

	if os.Getenv("REDIS_ADDR") != "" {
		bloomCfg := BloomConfigFromEnv()
		cfg.BloomConfig = &bloomCfg
	}
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func getEnvFloatOrDefault(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
