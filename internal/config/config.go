package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	DBPath         string
	BlobBackend    string
	BlobLocalPath  string
	PublicBaseURL  string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3PublicURL    string
	S3AccessKeyID  string
	S3SecretKey    string
	S3CreateBucket bool
	CORSOrigin     string
	LogLevel       string
	LogFile        string
}

// Load reads the configuration from the environment after applying an
// optional .env file in the working directory. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	return load(".env")
}

func load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	listen := getEnv("LISTEN_ADDR", ":3000")
	return &Config{
		ListenAddr:     listen,
		DBPath:         getEnv("DB_PATH", "/data/lobianco.db"),
		BlobBackend:    getEnv("BLOB_BACKEND", "local"),
		BlobLocalPath:  getEnv("BLOB_LOCAL_PATH", "/data/storage"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", localURL(listen)),
		S3Bucket:       getEnv("S3_BUCKET", "public-assets"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3PublicURL:    getEnv("S3_PUBLIC_URL", ""),
		S3AccessKeyID:  getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3CreateBucket: getBool("S3_CREATE_BUCKET", false),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// localURL derives a base URL for addr, which may omit the host.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
