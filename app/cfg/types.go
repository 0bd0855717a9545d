package cfg

import "time"

type Cfg struct {
	// NASA NeoWs configuration
	NasaBaseURL string
	NasaAPIKey  string
	NasaTimeout time.Duration

	// Authentication
	AuthMode string
	AuthURL  string
	AuthKey  string

	// Storage
	DBPath     string
	PresetsDir string

	// Application configuration
	Port            string
	BaseUrl         string
	WorkerCount     int
	RefreshInterval time.Duration

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
