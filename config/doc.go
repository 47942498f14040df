// Package config resolves YouTrack client settings from layered sources.
//
// Precedence, lowest to highest:
//  1. Built-in defaults
//  2. Global config (~/.config/youtrack/config.yaml)
//  3. Local config (.youtrack.yaml in the git root)
//  4. Environment variables (YOUTRACK_URL, YOUTRACK_TOKEN, ...)
//  5. Flags passed to ResolveWithFlags
//
// The local file is usually committed, so it cannot carry the token.
//
// # Basic Usage
//
//	resolved := config.NewResolver(config.DefaultResolverConfig()).Resolve()
//	cfg, err := config.Load(resolved)
//	if err != nil {
//	    return err
//	}
//	client, err := youtrack.New(cfg)
//
// Each resolved value remembers where it came from, which is useful for a
// "config show" style command:
//
//	url, src := resolved.GetWithSource(config.KeyURL) // "https://...", "env"
//
// # Persisting Values
//
// SaveConfig writes single keys to the global file with owner-only
// permissions:
//
//	err := config.DefaultSaveConfig().SaveGlobal(config.KeyToken, token)
package config
