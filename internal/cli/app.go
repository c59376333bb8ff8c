package cli

import (
	"fmt"
	"time"

	"github.com/crewboard/crewboard/internal/agent"
	"github.com/crewboard/crewboard/internal/config"
	"github.com/crewboard/crewboard/internal/keys"
	"github.com/crewboard/crewboard/internal/notify"
	"github.com/crewboard/crewboard/internal/secrets"
	"github.com/crewboard/crewboard/internal/skills"
	"github.com/crewboard/crewboard/internal/store"
	"github.com/crewboard/crewboard/internal/tools"
)

// app bundles the wired components behind every command.
type app struct {
	cfg      *config.Config
	store    *store.Store
	cipher   *secrets.Cipher
	skills   *skills.Loader
	registry *tools.Registry
	resolver *keys.Resolver
	keys     *keys.Manager
	runner   *agent.Runner
	notifier notify.Notifier
}

// newApp loads configuration and wires the full pipeline.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Security.EncryptionSecret == "" {
		return nil, fmt.Errorf("CREWBOARD_ENCRYPTION_SECRET is not set; required to protect stored API keys")
	}
	cipher, err := secrets.NewCipher(cfg.Security.EncryptionSecret)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Store.DBPath)
	if err != nil {
		return nil, err
	}

	loader := skills.NewLoader(cfg.Paths.SkillsDir)
	registry := buildRegistry(cfg)
	resolver := keys.NewResolver(st, cipher, cfg)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Notify.SlackEnabled && cfg.Notify.SlackToken != "" {
		notifier = notify.NewSlackNotifier(cfg.Notify.SlackToken, cfg.Notify.SlackChannel)
	}

	return &app{
		cfg:      cfg,
		store:    st,
		cipher:   cipher,
		skills:   loader,
		registry: registry,
		resolver: resolver,
		keys:     keys.NewManager(st, cipher, resolver),
		runner:   agent.NewRunner(st, loader, registry, resolver, cfg),
		notifier: notifier,
	}, nil
}

func (a *app) close() {
	a.store.Close()
}

// buildRegistry registers the tool set with the configured limits and
// allowlists.
func buildRegistry(cfg *config.Config) *tools.Registry {
	reg := tools.NewRegistry(cfg.Tools.AgentAllowlists, cfg.Tools.DefaultAllowlist)
	execTimeout := time.Duration(cfg.Tools.ExecTimeoutSeconds) * time.Second
	reg.Register(tools.NewExecTool(execTimeout, cfg.Tools.MaxOutputChars, cfg.Paths.Workspace))
	reg.Register(tools.NewReadFileTool(cfg.Paths.FileRoots, cfg.Tools.ReadMaxLines))
	reg.Register(tools.NewWriteFileTool(cfg.Paths.FileRoots))
	reg.Register(tools.NewWebSearchTool(cfg.Tools.SearchAPIKey, cfg.Tools.SearchAPIBase, 5))
	reg.Register(tools.NewWebFetchTool(cfg.Tools.FetchMaxChars))
	reg.Register(tools.NewGitHubTool(execTimeout, cfg.Tools.MaxOutputChars, cfg.Paths.Workspace))
	return reg
}
