package config

import "os"

type Config struct {
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	HTTPPort       string
	UploadDir      string
	EditorUsername string
	EditorPassword string
	JWTSecret      string
}

func Load() *Config {
	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "formpulse"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		EditorUsername: getEnv("EDITOR_USERNAME", "admin"),
		EditorPassword: getEnv("EDITOR_PASSWORD", "password123"),
		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
