package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/merged-lands/internal/plugin"
)

func writePluginList(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plugins.txt")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("writing plugin list: %v", err)
	}
	return path
}

func TestLoadPluginListInfersRoleFromExtension(t *testing.T) {
	path := writePluginList(t, "Morrowind.esm\n# a comment\n\nMyMod.esp\nTribunal.ESM\n")

	ordered, err := LoadPluginList(path)
	if err != nil {
		t.Fatalf("LoadPluginList: %v", err)
	}
	if len(ordered) != 3 {
		t.Fatalf("expected 3 entries (comment/blank skipped), got %d", len(ordered))
	}

	if ordered[0].Plugin.Identifier != "Morrowind" || ordered[0].Role != plugin.RoleMaster {
		t.Fatalf("entry 0 = %+v, want Identifier=Morrowind Role=Master", ordered[0])
	}
	if ordered[1].Plugin.Identifier != "MyMod" || ordered[1].Role != plugin.RoleMod {
		t.Fatalf("entry 1 = %+v, want Identifier=MyMod Role=Mod", ordered[1])
	}
	if ordered[2].Plugin.Identifier != "Tribunal" || ordered[2].Role != plugin.RoleMaster {
		t.Fatalf("entry 2 = %+v, want Identifier=Tribunal Role=Master (extension match is case-insensitive)", ordered[2])
	}
}

func TestLoadPluginListAssignsSequentialIndex(t *testing.T) {
	path := writePluginList(t, "A.esm\nB.esp\nC.esp\n")

	ordered, err := LoadPluginList(path)
	if err != nil {
		t.Fatalf("LoadPluginList: %v", err)
	}
	for i, op := range ordered {
		if op.Index != i {
			t.Fatalf("entry %d has Index=%d, want %d", i, op.Index, i)
		}
	}
}

func TestLoadPluginListMissingFile(t *testing.T) {
	if _, err := LoadPluginList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected an error for a missing plugin list")
	}
}

func TestLoadPatchDescriptorMissingIsNotExist(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadPatchDescriptor(dir, "NoSuchMod")
	if err == nil {
		t.Fatal("expected an error for a missing descriptor")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("expected os.IsNotExist to be true for a missing descriptor, got %v", err)
	}
}

func TestLoadPatchDescriptorFound(t *testing.T) {
	dir := t.TempDir()
	content := `{"version":"0","meta_type":"Patch"}`
	if err := os.WriteFile(filepath.Join(dir, "MyMod.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing descriptor: %v", err)
	}

	raw, err := LoadPatchDescriptor(dir, "MyMod")
	if err != nil {
		t.Fatalf("LoadPatchDescriptor: %v", err)
	}
	if string(raw) != content {
		t.Fatalf("raw = %q, want %q", raw, content)
	}
}
