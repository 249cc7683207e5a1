package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Feeds
	SaleFeedURL string
	RentFeedURL string

	// ProxyPrefixes are relay prefixes tried in order. "direct" in the env
	// value means no proxy for that slot.
	ProxyPrefixes []string

	FetchTimeout time.Duration
	MaxRecords   int

	// Inquiry webhook
	WebhookURL string

	// SFTP (export upload)
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

// Load reads the optional .env file and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file, using system env vars")
	}

	return Config{
		SaleFeedURL: getenv("SALE_FEED_URL",
			"https://webapi.goyzer.com/Company.asmx/SalesListings?AccessCode=&GroupCode=&Bedrooms=&StartPriceRange=&EndPriceRange=&CategoryID=&CommunityID=&UnitCategory=&PageIndex="),
		RentFeedURL: getenv("RENT_FEED_URL",
			"https://webapi.goyzer.com/Company.asmx/RentListings?AccessCode=&GroupCode=&Bedrooms=&StartPriceRange=&EndPriceRange=&CategoryID=&CommunityID=&UnitCategory=&PageIndex="),

		ProxyPrefixes: parseProxies(getenv("PROXY_PREFIXES",
			"direct,https://corsproxy.io/?url=,https://api.allorigins.win/raw?url=")),

		FetchTimeout: getenvDuration("FETCH_TIMEOUT", 12*time.Second),
		MaxRecords:   getenvInt("MAX_RECORDS", 300),

		WebhookURL: os.Getenv("INQUIRY_WEBHOOK_URL"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/uploads"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", false),
	}
}

// parseProxies splits the comma list; the literal "direct" maps to the
// empty prefix (no relay).
func parseProxies(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.EqualFold(p, "direct") {
			p = ""
		}
		out = append(out, p)
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
