package discovery

import "skylaunch/internal/domain"

// Builtins returns the launcher's own commands
func Builtins(weight float64) []domain.CatalogEntry {
	builtin := func(name, title, subtitle string, keywords ...string) domain.CatalogEntry {
		return domain.CatalogEntry{
			ID:         "builtin:" + name,
			Title:      title,
			Subtitle:   subtitle,
			Keywords:   keywords,
			Action:     domain.Action{Kind: domain.ActionBuiltin, Target: name},
			BaseWeight: weight,
			Source:     SourceBuiltin,
		}
	}

	return []domain.CatalogEntry{
		builtin(domain.BuiltinReload, "Reload Catalog", "Rescan applications and commands", "rescan", "refresh"),
		builtin(domain.BuiltinConfigPath, "Show Config Path", "Where skylaunch reads its settings", "settings", "preferences"),
		builtin(domain.BuiltinQuit, "Quit Skylaunch", "Close the launcher", "exit", "close"),
	}
}
