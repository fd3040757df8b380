package config

// Store drivers
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreFile     = "file"
)

// Environments
const (
	EnvDev        = "dev"
	EnvProduction = "production"
	EnvTest       = "test"
)

// ExpectedEnvSchemaVersion is the .env schema the application expects
const ExpectedEnvSchemaVersion = "1.0"
