package snapshot

import (
	"path/filepath"

	"github.com/arthur-debert/zprof/pkg/filesystem"
	"github.com/spf13/afero"
)

type frameworkSignature struct {
	name        string
	installDirs []string
	configFiles []string
}

// Checked in order; the first installed framework wins.
var knownFrameworks = []frameworkSignature{
	{name: "oh-my-zsh", installDirs: []string{".oh-my-zsh"}, configFiles: []string{".zshrc"}},
	{name: "prezto", installDirs: []string{".zprezto"}, configFiles: []string{".zpreztorc", ".zshrc"}},
	{name: "zimfw", installDirs: []string{".zim"}, configFiles: []string{".zimrc", ".zshrc"}},
	{name: "zinit", installDirs: []string{".local/share/zinit", ".zinit"}, configFiles: []string{".zshrc"}},
	{name: "zap", installDirs: []string{".local/share/zap"}, configFiles: []string{".zshrc"}},
}

// DetectFramework looks for an installed customization framework under
// home. It returns nil when none is found.
func DetectFramework(fsys afero.Fs, home string) *Framework {
	for _, sig := range knownFrameworks {
		for _, dir := range sig.installDirs {
			installPath := filepath.Join(home, dir)
			info, err := fsys.Stat(installPath)
			if err != nil || !info.IsDir() {
				continue
			}
			fw := &Framework{Name: sig.name, InstallPath: installPath, ConfigFiles: []string{}}
			for _, cfg := range sig.configFiles {
				if filesystem.IsRegularFile(fsys, filepath.Join(home, cfg)) {
					fw.ConfigFiles = append(fw.ConfigFiles, cfg)
				}
			}
			return fw
		}
	}
	return nil
}
