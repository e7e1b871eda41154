package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde
// env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Log     LogConfig
	Reports ReportsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, production
	Name string
}

// DBConfig configuración de SQLite.
type DBConfig struct {
	// Path ruta del archivo de base de datos. ":memory:" abre una base
	// efímera para pruebas.
	Path string
}

// LogConfig configuración del logger.
type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// ReportsConfig configuración de los informes PDF.
type ReportsConfig struct {
	OutputDir string // directorio donde se escriben los PDF generados
}

// Load lee la configuración desde variables de entorno (y opcionalmente
// desde archivo). Las env vars tienen prioridad. Nombres esperados:
// APP_ENV, LOG_LEVEL, ALLOT_DB_PATH, ALLOT_REPORTS_DIR.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "allot"),
		},
		DB: DBConfig{
			Path: getString(v, "ALLOT_DB_PATH", defaultDBPath()),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Reports: ReportsConfig{
			OutputDir: getString(v, "ALLOT_REPORTS_DIR", "."),
		},
	}

	return cfg, nil
}

// defaultDBPath resuelve la ruta por defecto de la base de datos dentro del
// directorio de configuración del usuario. Si el sistema no expone uno, cae
// al directorio de trabajo.
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "allot.db"
	}
	return filepath.Join(dir, "allot", "allot.db")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}
