package config

// StoreConfig selects the user document store.
type StoreConfig struct {
	// Driver is memory, sqlite or postgres.
	Driver     string
	DSN        string
	MaxRetries int
}

func loadStore() StoreConfig {
	return StoreConfig{
		Driver:     envOrDefault(envStoreDriver, defaultStoreDriver),
		DSN:        envOrDefault(envStoreDSN, defaultStoreDSN),
		MaxRetries: intEnvOrDefault(envStoreRetries, defaultStoreRetries),
	}
}
