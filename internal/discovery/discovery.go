// Package discovery is a thin, file-based stand-in for the plugin
// discovery/ordering collaborator spec.md section 6 calls "the
// orchestrator's" input: an ordered plugin list partitioned into
// masters and mods. It does not parse plugin contents — the binary
// codec is out of scope (spec.md section 1) — so every discovered
// plugin carries an empty landscape/texture set until a real codec
// collaborator is wired in.
package discovery

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/merged-lands/internal/plugin"
)

// LoadPluginList reads an ordered plugin list: one filename per line,
// blank lines and lines starting with # ignored. Role is inferred from
// the game's own master/mod file-extension convention (.esm = master,
// .esp = mod), matching the on-disk load-order convention this format
// was distilled from.
func LoadPluginList(path string) ([]plugin.OrderedPlugin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("discovery: opening plugin list %s: %w", path, err)
	}
	defer f.Close()

	var out []plugin.OrderedPlugin
	index := 0

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		identifier := strings.TrimSuffix(filepath.Base(line), filepath.Ext(line))
		role := plugin.RoleMod
		if strings.EqualFold(filepath.Ext(line), ".esm") {
			role = plugin.RoleMaster
		}

		out = append(out, plugin.OrderedPlugin{
			Plugin: &plugin.ParsedPlugin{Identifier: identifier},
			Role:   role,
			Index:  index,
		})
		index++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("discovery: reading plugin list %s: %w", path, err)
	}

	return out, nil
}

// LoadPatchDescriptor reads the raw JSON patch descriptor for plugin
// identifier from dir, named "<identifier>.json". A missing file returns
// the underlying read error, for which os.IsNotExist(err) is true:
// spec.md section 6 says missing descriptors mean all defaults, so
// callers should treat os.IsNotExist(err) as "use defaults".
func LoadPatchDescriptor(dir, identifier string) ([]byte, error) {
	path := filepath.Join(dir, identifier+".json")
	return os.ReadFile(path)
}
