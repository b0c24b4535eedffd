package config

// EnvConfigDir overrides the config directory when set. The --config-dir
// flag takes precedence over the environment.
const EnvConfigDir = "W3FORMS_CONFIG_DIR"

// File names under the config directory. Settings live in config.json;
// the satellite files hold state that changes independently of settings.
const (
	configFile   = "config.json"
	networksFile = "networks.json"
	syncFile     = "sync.json"
	sessionFile  = "session.json"

	storeFile = "records.db"
)

// Defaults seeded on first run.
const (
	defaultEcosystem = "evm"
	defaultDebounce  = 750 // milliseconds
)
