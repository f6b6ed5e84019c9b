package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"backend":     "backend",
	"verbose":     "verbose",
	"excel-file":  "excel.file",
	"excel-sheet": "excel.sheet",
	"row-id":      "options.row_id",
	"sheet":       "options.sheet",
	"spreadsheet": "options.gskey",
	"keyfile":     "options.keyfile",
}

// RegisterFlags adds the flags LoadConfig understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("backend", "", "Backend to use (sheets|excel)")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.String("excel-file", "", "Path to the workbook (excel backend)")
	fs.String("excel-sheet", "", "Worksheet name (excel backend)")
	fs.String("row-id", "", "Column identifying rows for update and delete")
	fs.Int("sheet", 0, "Worksheet index (sheets backend)")
	fs.String("spreadsheet", "", "Spreadsheet ID (sheets backend)")
	fs.String("keyfile", "", "Service account JSON key file (sheets backend)")
}

// findConfigFile finds the config file to use.
// Priority: explicit path > sheetfdw.yaml > sheetfdw.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultConfigName, "sheetfdw.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadDotEnv loads .env from dir into the process environment. Variables
// already set are left alone.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// envKey transforms SHEETFDW_EXCEL__FILE into excel.file
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > .env > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"backend":     DefaultBackend,
		"excel.sheet": DefaultExcelSheet,
		"verbose":     false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. .env next to the config file, or in the working directory
	dir := "."
	if used != "" {
		dir = filepath.Dir(used)
	}
	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}

	// 4. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	// Relative workbook paths are relative to the config file
	if cfg.Excel.File != "" && !filepath.IsAbs(cfg.Excel.File) && used != "" && !flagChanged(flags, "excel-file") {
		cfg.Excel.File = filepath.Join(dir, cfg.Excel.File)
	}

	return &cfg, nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	return flags != nil && flags.Changed(name)
}
