package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/manifoldco/promptui"

	"github.com/DevSymphony/codecleaner/internal/ui"
)

const mcpServerName = "codecleaner"

// MCPRegistrationConfig represents the MCP configuration structure
// Used for Claude Desktop, Claude Code, Cursor
type MCPRegistrationConfig struct {
	MCPServers map[string]MCPServerConfig `json:"mcpServers"`
}

// VSCodeMCPConfig represents the VS Code MCP configuration structure
type VSCodeMCPConfig struct {
	Servers map[string]MCPServerConfig `json:"servers"`
	Inputs  []interface{}              `json:"inputs,omitempty"`
}

// MCPServerConfig represents a single MCP server configuration
type MCPServerConfig struct {
	Type    string   `json:"type,omitempty"` // required by Cursor and VS Code
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

var mcpApps = []string{"claude-desktop", "claude-code", "cursor", "vscode"}

// promptMCPRegistration asks which apps should start the MCP server.
func promptMCPRegistration(p *ui.Printer, root string) {
	items := []string{
		"Claude Desktop (global)",
		"Claude Code (project)",
		"Cursor (project)",
		"VS Code Copilot (project)",
		"All",
		"Skip",
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "✓ {{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     "Register codecleaner as an MCP server",
		Items:     items,
		Templates: templates,
		Size:      6,
	}

	index, _, err := prompt.Run()
	if err != nil || index == len(items)-1 {
		p.Info("Skipped MCP registration")
		p.Indent("Run 'codecleaner init --register-mcp' to register later")
		return
	}

	apps := mcpApps
	if index < len(mcpApps) {
		apps = []string{mcpApps[index]}
	}

	command := executablePath()
	for _, app := range apps {
		path, err := registerMCP(app, root, command)
		if err != nil {
			p.Error(fmt.Sprintf("Failed to register %s: %v", appDisplayName(app), err))
			continue
		}
		p.OK(fmt.Sprintf("Registered with %s", appDisplayName(app)))
		p.Indent(fmt.Sprintf("Location: %s", path))
	}
}

// registerMCP adds the server entry to the config of app and returns the
// file it wrote. Project configs live under root. Existing files are
// backed up to <file>.bak first; other server entries are preserved.
func registerMCP(app, root, command string) (string, error) {
	configPath := mcpConfigPath(app, root)
	if configPath == "" {
		return "", fmt.Errorf("config path not determined")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	existing, err := os.ReadFile(configPath)
	fileExists := err == nil
	if fileExists {
		if err := os.WriteFile(configPath+".bak", existing, 0644); err != nil {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
	}

	server := MCPServerConfig{
		Command: command,
		Args:    []string{"mcp"},
	}

	var data []byte
	if app == "vscode" {
		var cfg VSCodeMCPConfig
		if fileExists {
			// invalid JSON is replaced; the backup keeps the old content
			_ = json.Unmarshal(existing, &cfg)
		}
		if cfg.Servers == nil {
			cfg.Servers = make(map[string]MCPServerConfig)
		}
		server.Type = "stdio"
		cfg.Servers[mcpServerName] = server
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		var cfg MCPRegistrationConfig
		if fileExists {
			_ = json.Unmarshal(existing, &cfg)
		}
		if cfg.MCPServers == nil {
			cfg.MCPServers = make(map[string]MCPServerConfig)
		}
		if app == "cursor" {
			server.Type = "stdio"
		}
		cfg.MCPServers[mcpServerName] = server
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return configPath, nil
}

// mcpConfigPath returns the MCP config file path for the specified app
func mcpConfigPath(app, root string) string {
	switch app {
	case "claude-desktop":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		switch runtime.GOOS {
		case "windows":
			return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
		case "darwin":
			return filepath.Join(homeDir, "Library", "Application Support", "Claude", "claude_desktop_config.json")
		default:
			return filepath.Join(homeDir, ".config", "Claude", "claude_desktop_config.json")
		}
	case "claude-code":
		return filepath.Join(root, ".mcp.json")
	case "cursor":
		return filepath.Join(root, ".cursor", "mcp.json")
	case "vscode":
		return filepath.Join(root, ".vscode", "mcp.json")
	default:
		return ""
	}
}

// appDisplayName returns the display name for the app
func appDisplayName(app string) string {
	switch app {
	case "claude-desktop":
		return "Claude Desktop"
	case "claude-code":
		return "Claude Code"
	case "cursor":
		return "Cursor"
	case "vscode":
		return "VS Code"
	default:
		return app
	}
}

// executablePath returns the absolute path of the running binary, or its
// name when that cannot be determined.
func executablePath() string {
	exe, err := os.Executable()
	if err != nil {
		return mcpServerName
	}
	return exe
}
