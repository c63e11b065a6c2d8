package config

import (
	"fmt"
	"net/url"
	"os"
)

// Getenv returns the value of key or fallback when unset/empty.
func Getenv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// GetSecret returns the value of key or an error when it is not set.
func GetSecret(key string) (string, error) {
	if val, ok := os.LookupEnv(key); ok {
		return val, nil
	}
	return "", fmt.Errorf("no env variable with key %v", key)
}

// Env reports the application environment (development, production, test).
func Env() string {
	return Getenv("APP_ENV", "development")
}

func IsProduction() bool {
	return Env() == "production"
}

// MongoDBName returns the database name used for all collections.
func MongoDBName() string {
	return Getenv("MONGODB_DB", "kodekamper")
}

// MongoURI builds the connection string. A full MONGODB_URI overrides the
// individual host/db/credential variables.
func MongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}

	host := Getenv("MONGODB_HOST", "127.0.0.1:27017")
	db := MongoDBName()
	user := os.Getenv("MONGODB_USERNAME")
	pass := os.Getenv("MONGODB_PASSWORD")

	if user != "" && pass != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s/%s",
			url.QueryEscape(user), url.QueryEscape(pass), host, db)
	}

	return fmt.Sprintf("mongodb://%s/%s", host, db)
}

// RedisURL builds the cache connection string. An empty result means caching
// is disabled: without REDIS_URL or REDIS_HOST there is nothing to connect to,
// and treating that as "no cache" avoids connection hangs in environments
// where no Redis is running.
func RedisURL() string {
	if u := os.Getenv("REDIS_URL"); u != "" {
		return u
	}

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return ""
	}

	port := Getenv("REDIS_PORT", "6379")
	user := os.Getenv("REDIS_USERNAME")
	pass := os.Getenv("REDIS_PASSWORD")

	if user != "" && pass != "" {
		return fmt.Sprintf("redis://%s:%s@%s:%s",
			url.QueryEscape(user), url.QueryEscape(pass), host, port)
	}

	return fmt.Sprintf("redis://%s:%s", host, port)
}
