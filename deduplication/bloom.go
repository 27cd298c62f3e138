package deduplication

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"dedupgate/types"
)

// BloomConfig configures the RedisBloom connection and key.
type BloomConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // redis key for the bloom filter
	// Capacity sets the initial BF.RESERVE capacity (number of items)
	Capacity int
	// ErrorRate sets the desired false positive probability (e.g. 0.001)
	ErrorRate float64
}

// RedisBloom is a minimal Redis-backed Bloom wrapper using RedisBloom
// commands. It stores identity hashes of registered customers so an exact
// re-registration can be spotted before any vector work. Membership is
// probabilistic: a hit is only ever advisory, never grounds for rejection
// on its own.
type RedisBloom struct {
	client *redis.Client
	key    string
}

// NewRedisBloomFromEnv creates a RedisBloom client using environment
// variables REDIS_ADDR, REDIS_PASS, BLOOM_KEY, BLOOM_CAPACITY, BLOOM_ERROR_RATE.
func NewRedisBloomFromEnv() (*RedisBloom, error) {
	return NewRedisBloom(BloomConfigFromEnv())
}

// BloomConfigFromEnv assembles a BloomConfig from the environment.
func BloomConfigFromEnv() BloomConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	key := os.Getenv("BLOOM_KEY")
	if key == "" {
		key = "customers:bloom"
	}

	capacity := 100000
	if c := os.Getenv("BLOOM_CAPACITY"); c != "" {
		if v, err := strconv.Atoi(c); err == nil && v > 0 {
			capacity = v
		}
	}
	errorRate := 0.001
	if e := os.Getenv("BLOOM_ERROR_RATE"); e != "" {
		if v, err := strconv.ParseFloat(e, 64); err == nil && v > 0 {
			errorRate = v
		}
	}

	return BloomConfig{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASS"),
		Key:       key,
		Capacity:  capacity,
		ErrorRate: errorRate,
	}
}

// NewRedisBloom creates a RedisBloom wrapper and verifies connectivity.
func NewRedisBloom(cfg BloomConfig) (*RedisBloom, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	rb := &RedisBloom{client: client, key: cfg.Key}

	// Reserve the filter if the key doesn't exist yet. BF.ADD auto-creates
	// on most RedisBloom setups, so a failed reserve is not fatal.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		_ = client.Do(ctx, "BF.RESERVE", cfg.Key, fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity).Err()
	}

	return rb, nil
}

// Close closes the underlying Redis client.
func (r *RedisBloom) Close() error {
	return r.client.Close()
}

// Exists checks if the hashed identity is present in the bloom filter.
func (r *RedisBloom) Exists(ctx context.Context, hash string) (bool, error) {
	res, err := r.client.Do(ctx, "BF.EXISTS", r.key, hash).Result()
	if err != nil {
		return false, err
	}

	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Add inserts the hashed identity into the bloom filter.
func (r *RedisBloom) Add(ctx context.Context, hash string) error {
	return r.client.Do(ctx, "BF.ADD", r.key, hash).Err()
}

// IdentityHash returns a SHA-256 hex hash of the normalized email and phone,
// the two fields stable enough to identify an exact re-registration. Records
// carrying neither have no stable identity and return an error so callers
// skip the bloom path for them.
func IdentityHash(email, phone string) (string, error) {
	normEmail := normField(email)
	normPhone := NormalizePhone(phone)
	if normEmail == "" && normPhone == "" {
		return "", fmt.Errorf("no identity fields to hash")
	}

	combined := normEmail + "|" + normPhone
	h := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(h[:]), nil
}

// RecordIdentityHash is IdentityHash over a stored record.
func RecordIdentityHash(rec *types.CustomerRecord) (string, error) {
	return IdentityHash(rec.Email, rec.Phone)
}
