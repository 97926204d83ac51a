package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host          string
	Port          int
	AllowOrigins  []string
	LogLevel      string
	LogFile       string
	MaxUploadMB   int
	CatalogFile   string // CSV/XLSX taxonomy seed; empty starts an empty catalog
	InventoryFile string // optional stock seed, same formats
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8080"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:          getenv("HOST", "127.0.0.1"),
		Port:          port,
		AllowOrigins:  origins,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFile:       getenv("LOG_FILE", "logs/vaxtlistan-service.log"),
		MaxUploadMB:   mb,
		CatalogFile:   getenv("CATALOG_FILE", ""),
		InventoryFile: getenv("INVENTORY_FILE", ""),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
