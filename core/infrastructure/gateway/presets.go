package gateway

// Preset holds the defaults for one OpenAI-compatible backend.
type Preset struct {
	BaseURL string
	Model   string
	// KeyEnv names the backend's own API key variable.
	KeyEnv string
}

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "groq"

var presets = map[string]Preset{
	"ollama": {BaseURL: "http://localhost:11434/v1", Model: "llama3.1:8b"},
	"groq":   {BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.3-70b-versatile", KeyEnv: "GROQ_API_KEY"},
	"openai": {BaseURL: "https://api.openai.com/v1", Model: "gpt-3.5-turbo", KeyEnv: "OPENAI_API_KEY"},
}

// Backends lists the known backend names.
func Backends() []string {
	return []string{"groq", "ollama", "openai"}
}

// PresetFor returns the preset for a backend.
func PresetFor(backend string) (Preset, bool) {
	p, ok := presets[backend]
	return p, ok
}
