package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	Env string // "dev" | "prod"

	// Storage selects the record backend: "sqlite" or "xlsx".  The users
	// table always lives in sqlite either way.
	Storage      string
	DBPath       string // e.g. "./data/vehiclepass.db"
	WorkbookPath string // e.g. "./data/base_soat.xlsx"

	// ArtifactDir holds one printable QR PNG per registered person.
	ArtifactDir string
}

func FromEnv() Config {
	addr := getenvDefault("VEHICLEPASS_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("VEHICLEPASS_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	storage := strings.ToLower(getenvDefault("VEHICLEPASS_STORAGE", "sqlite"))
	if storage != "sqlite" && storage != "xlsx" {
		storage = "sqlite"
	}

	return Config{
		HTTPAddr: addr,
		Env:      env,

		Storage:      storage,
		DBPath:       getenvDefault("VEHICLEPASS_DB_PATH", "./data/vehiclepass.db"),
		WorkbookPath: getenvDefault("VEHICLEPASS_WORKBOOK_PATH", "./data/base_soat.xlsx"),

		ArtifactDir: getenvDefault("VEHICLEPASS_QR_DIR", "./data/qr_codes"),
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
