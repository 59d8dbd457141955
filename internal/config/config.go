package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string
	ServerPort       string
	RulesPath        string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Local overrides live in .env; absence is fine.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		ServerPort:       "9446",
		RulesPath:        "config/rules.yaml",
	}

	overrides := map[string]*string{
		"POSTGRES_ADDRESS":  &env.PostgresAddress,
		"POSTGRES_PORT":     &env.PostgresPort,
		"POSTGRES_DB":       &env.PostgresDB,
		"POSTGRES_USERNAME": &env.PostgresUsername,
		"POSTGRES_PASSWORD": &env.PostgresPassword,
		"SERVER_PORT":       &env.ServerPort,
		"RULES_PATH":        &env.RulesPath,
	}

	for name, target := range overrides {
		if value := os.Getenv(name); len(value) != 0 {
			*target = value
		}
	}

	return &env, nil
}
