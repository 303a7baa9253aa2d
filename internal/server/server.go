// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the Unleash client, the
// cached inventory service, the guidance renderer and the audit
// journal, and injects them into the tools/prompts/resources that
// depend on them. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/avennor/unleash-mcp/internal/audit"
	"github.com/avennor/unleash-mcp/internal/config"
	"github.com/avennor/unleash-mcp/internal/guidance"
	"github.com/avennor/unleash-mcp/internal/inventory"
	"github.com/avennor/unleash-mcp/internal/logging"
	"github.com/avennor/unleash-mcp/internal/prompts"
	"github.com/avennor/unleash-mcp/internal/resources"
	"github.com/avennor/unleash-mcp/internal/tools"
	"github.com/avennor/unleash-mcp/internal/unleash"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the audit journal's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if journal init failed.
func New(cfg config.Config, logger *logging.AppLogger) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	client, err := unleash.NewClient(unleash.Config{
		BaseURL:  cfg.UnleashURL,
		APIToken: cfg.APIToken,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("creating unleash client: %w", err)
	}

	views := inventory.NewService(client)

	renderer, err := guidance.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating guidance renderer: %w", err)
	}

	// --- Open the audit journal ---
	//
	// The journal is an independent subsystem: if it fails to open,
	// flag tools keep working and mutations simply go unjournaled. We
	// log a warning and leave the recorder nil.

	cleanup := noop
	var (
		journal  *audit.Store
		recorder audit.Recorder
	)
	if cfg.Audit {
		jcfg := audit.DefaultConfig()
		if cfg.AuditDir != "" {
			jcfg.DataDir = cfg.AuditDir
		}
		store, jerr := audit.New(jcfg)
		if jerr != nil {
			logger.Warn("audit journal disabled", "error", jerr)
		} else {
			journal = store
			recorder = store
			cleanup = func() {
				if err := store.Close(); err != nil {
					logger.Warn("audit journal close", "error", err)
				}
			}
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"unleash-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register inventory tools ---

	listProjects := tools.NewListProjectsTool(views)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	listFlags := tools.NewListFlagsTool(views)
	s.AddTool(listFlags.Definition(), listFlags.Handle)

	getFlag := tools.NewGetFlagTool(client)
	s.AddTool(getFlag.Definition(), getFlag.Handle)

	// --- Register flag management tools ---

	createFlag := tools.NewCreateFlagTool(client, recorder)
	s.AddTool(createFlag.Definition(), createFlag.Handle)

	toggleFlag := tools.NewToggleFlagTool(client, recorder, cfg.Environment)
	s.AddTool(toggleFlag.Definition(), toggleFlag.Handle)

	updateStrategy := tools.NewUpdateStrategyTool(client, recorder, cfg.Environment)
	s.AddTool(updateStrategy.Definition(), updateStrategy.Handle)

	// --- Register guidance and classification tools ---

	searchGuidance := tools.NewSearchGuidanceTool(renderer)
	s.AddTool(searchGuidance.Definition(), searchGuidance.Handle)

	wrapGuidance := tools.NewWrapGuidanceTool(renderer)
	s.AddTool(wrapGuidance.Definition(), wrapGuidance.Handle)

	confidence := tools.NewConfidenceTool()
	s.AddTool(confidence.Definition(), confidence.Handle)

	risk := tools.NewRiskTool(renderer)
	s.AddTool(risk.Definition(), risk.Handle)

	// --- Register prompts ---

	auditPrompt := prompts.NewAuditPrompt()
	s.AddPrompt(auditPrompt.Definition(), auditPrompt.Handle)

	rolloutPrompt := prompts.NewRolloutPrompt()
	s.AddPrompt(rolloutPrompt.Definition(), rolloutPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(views, journal)
	s.AddResource(resourceHandler.ProjectsResource(), resourceHandler.HandleProjects)
	s.AddResourceTemplate(resourceHandler.ProjectsTemplate(), resourceHandler.HandleProjects)
	s.AddResourceTemplate(resourceHandler.FlagsTemplate(), resourceHandler.HandleFlags)

	// The journal resource is only advertised when the journal is
	// actually writable.
	if journal != nil {
		s.AddResource(resourceHandler.AuditResource(), resourceHandler.HandleAudit)
	}

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the audit
// journal is disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to manage feature flags safely.
func serverInstructions() string {
	return `You have access to unleash-mcp, a feature-flag management MCP server
backed by an Unleash instance.

## THE ONE RULE: CHECK BEFORE CREATE

Never create a feature flag without first checking whether an
equivalent flag already exists. Duplicate flags gating the same
behavior are how production incidents start. The check is a fixed
sequence:

1. Run list_feature_flags for the target project (follow nextPage
   until you have seen every flag)
2. Run flag_search_guidance with the intended flag name and execute
   the search steps it returns against the codebase
3. Combine what you found into a confidence score between 0.0 and 1.0
   as the instructions describe
4. Run classify_flag_confidence with the score and follow its
   recommendation:
   - use_existing: reuse the flag you found; do not create a new one
   - ask_user: show the user what you found and let them decide
   - create_new: create the flag with create_feature_flag

## TOOLS

Reading (fast, cached for 60 seconds):
- list_projects: all projects, newest first, paginated
- list_feature_flags: one project's flags, alphabetical, paginated
- get_feature_flag: full per-environment detail for one flag; always
  live, never cached

Writing (immediate effect on the Unleash instance):
- create_feature_flag: new flag, disabled everywhere
- toggle_feature_flag: enable or disable in ONE environment
- update_flag_strategy: attach or change a gradual-rollout percentage

Guidance (no side effects):
- flag_search_guidance: how to search a codebase for an existing flag
- flag_wrap_guidance: per-language snippets for gating code on a flag
- classify_flag_confidence: buckets your match score into a decision
- assess_change_risk: buckets risk points, returns the pre-flight
  checklist

## RESOURCES

- unleash://projects: the cached projects view (limit, offset and
  order query parameters are accepted)
- unleash://projects/{projectId}/feature-flags: one project's cached
  flag view
- unleash://audit/recent: the most recent flag changes made through
  this server

List responses carry a nextPage URI when more items remain. Read it
to continue; never assume the first page is everything.

## SAFETY RULES

- Toggling a flag takes effect immediately. For changes touching
  authentication, payments or data deletion, run assess_change_risk
  first and show the user the checklist before enabling anything.
- Roll out gradually: enable in development first, verify, then step
  production rollout 25 -> 50 -> 100 with update_flag_strategy.
- The rollback for a bad rollout is toggle_feature_flag with
  enabled=false. Say so to the user before you start.
- Flag names are permanent identifiers. Pick URL-safe kebab-case
  names: new-checkout-flow, not NewCheckoutFlow.
- After any mutation, verify with get_feature_flag; it reads live
  state, not the cache.

## PROMPTS

- flag-audit: hygiene review of a project's flags (read-only)
- flag-rollout: guided staged rollout of one flag`
}
