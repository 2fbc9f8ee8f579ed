package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

// {{ env.VARIABLE_NAME }}
var envVarPattern = regexp.MustCompile(`\{\{\s*env\.(\w+)\s*\}\}`)

// SubstituteEnvVars replaces {{ env.VARIABLE_NAME }} placeholders with
// environment values. A missing variable is an error.
func SubstituteEnvVars(value string) (string, error) {
	result := value
	seen := make(map[string]bool)

	for _, match := range envVarPattern.FindAllStringSubmatch(value, -1) {
		placeholder, name := match[0], match[1]
		if seen[placeholder] {
			continue
		}
		seen[placeholder] = true

		envValue, exists := os.LookupEnv(name)
		if !exists {
			return "", fmt.Errorf("environment variable '%s' not found", name)
		}
		result = strings.ReplaceAll(result, placeholder, envValue)
	}
	return result, nil
}

// LoadEnvFiles loads the first .env.local, .env.development or .env found in
// fromDir, then the working directory, then the executable's directory.
// Variables already set in the environment win.
func LoadEnvFiles(fromDir string) {
	envFiles := []string{".env.local", ".env.development", ".env"}

	var dirs []string
	if fromDir != "" {
		dirs = append(dirs, fromDir)
	}
	dirs = append(dirs, "")
	if execPath, err := os.Executable(); err == nil {
		if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = realPath
		}
		dirs = append(dirs, filepath.Dir(execPath))
	}

	for _, dir := range dirs {
		for _, envFile := range envFiles {
			if err := godotenv.Load(filepath.Join(dir, envFile)); err == nil {
				return
			}
		}
	}
}
