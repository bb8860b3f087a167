package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

const (
	APP_NAME = "herb"
	ENV_FILE = "env"
)

var DEFAULT_ENV_FILE string = `H_STD=/usr/local/herb/std
H_RUNTIME=/usr/local/herb/runtime
`

type Envs struct {
	STD     string `env:"H_STD"`
	RUNTIME string `env:"H_RUNTIME"`
}

func (e *Envs) ShowAll(w io.Writer) {
	v := reflect.ValueOf(e)

	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		fieldValue := v.Field(i)

		envTag := field.Tag.Get("env")
		if envTag != "" {
			fmt.Fprintf(w, "%s='%s'\n", envTag, fieldValue.String())
		}
	}
}

// LoadEnvs reads the user env file, creating it with defaults on first use.
// Process environment variables with the same names take precedence.
func LoadEnvs() (*Envs, error) {
	cfgDir, err := getConfigDir(APP_NAME)
	if err != nil {
		return nil, err
	}
	return LoadEnvFile(filepath.Join(cfgDir, ENV_FILE))
}

func LoadEnvFile(path string) (*Envs, error) {
	envs, err := loadHerbEnvFile(path)
	if err != nil {
		return nil, err
	}
	for _, key := range []string{"H_STD", "H_RUNTIME"} {
		if value, ok := os.LookupEnv(key); ok {
			envs[key] = value
		}
	}

	parsedEnvs := Envs{}
	err = MapEnvToStruct(envs, &parsedEnvs)
	if err != nil {
		return nil, err
	}
	return &parsedEnvs, nil
}

func getConfigDir(appName string) (string, error) {
	var configDir string

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		configDir = filepath.Join(configHome, appName)
	} else if homeDir, err := os.UserHomeDir(); err == nil {
		if os.Getenv("OS") == "Windows_NT" {
			configDir = filepath.Join(os.Getenv("APPDATA"), appName)
		} else {
			configDir = filepath.Join(homeDir, ".config", appName)
		}
	} else {
		return "", fmt.Errorf("could not determine home directory")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", errors.Wrap(err, "creating config directory")
	}

	return configDir, nil
}

func loadHerbEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeStringToFile(path, DEFAULT_ENV_FILE); err != nil {
			return nil, errors.Wrapf(err, "creating env file %s", path)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening env file %s", path)
	}
	defer file.Close()

	env := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		env[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading env file %s", path)
	}

	return env, nil
}

func writeStringToFile(fileName, content string) error {
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}

func MapEnvToStruct(data map[string]string, result any) error {
	v := reflect.ValueOf(result)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("MapEnvToStruct expects a pointer to a struct, got %T", result)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		envTag := field.Tag.Get("env")
		if envTag != "" {
			if value, ok := data[envTag]; ok {
				if fieldValue.CanSet() && fieldValue.Kind() == reflect.String {
					fieldValue.SetString(value)
				}
			}
		}
	}

	return nil
}
