package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string

	// BackendBaseURL is the root of the external API backend (listing,
	// captcha, auth, user, upload). All round trips share this prefix.
	BackendBaseURL string
	// ListingRoot is the route prefix of the file listing service,
	// e.g. "/openlist/fs".
	ListingRoot string

	// NotesRoot and GalleryRoot are the remote paths the two browse
	// views are anchored at.
	NotesRoot   string
	GalleryRoot string

	// StaticBaseURL prefixes user avatar paths returned by the backend.
	StaticBaseURL string
	// PreviewBaseURL prefixes signed gallery download/preview links.
	PreviewBaseURL string

	// DatabaseURL selects the Postgres preference store when set;
	// otherwise preferences live in memory for the process lifetime.
	DatabaseURL string
	// JWKSURL enables signature verification of bearer tokens in the
	// route guard. Empty means claims are inspected without verification
	// (token validation remains the backend's responsibility).
	JWKSURL string

	CORSOrigins string

	NotesPageSize   int
	GalleryPageSize int

	// App chrome shown by the page shells.
	AppName     string
	Version     string
	ShowBeian   bool
	BeianNumber string
	ICPLicense  string
	PoliceBeian string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "dev"),

		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:3001/api"),
		ListingRoot:    getEnv("LISTING_ROOT", "/openlist/fs"),

		NotesRoot:   getEnv("NOTES_ROOT", "/opt/openlist/data/notes/notes/"),
		GalleryRoot: getEnv("GALLERY_ROOT", "/opt/openlist/data/notes/gallery/"),

		StaticBaseURL:  getEnv("STATIC_BASE_URL", ""),
		PreviewBaseURL: getEnv("PREVIEW_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("AUTH_JWKS_URL", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		NotesPageSize:   getEnvInt("NOTES_PAGE_SIZE", 9),
		GalleryPageSize: getEnvInt("GALLERY_PAGE_SIZE", 20),

		AppName:     getEnv("APP_NAME", "AI Knowledge Hub"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		ShowBeian:   getEnv("SHOW_BEIAN", "false") == "true",
		BeianNumber: getEnv("BEIAN_NUMBER", ""),
		ICPLicense:  getEnv("ICP_LICENSE", ""),
		PoliceBeian: getEnv("POLICE_BEIAN_NUMBER", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
