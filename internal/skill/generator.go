package skill

import (
	"context"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

const systemPrompt = "You are an expert technical writer who turns repository analyses " +
	"into Claude Skills. Always answer with a single JSON object in the requested format."

// Generator turns a repository analysis into a parsed skill bundle by
// prompting an LLM provider.
type Generator struct {
	prompts  *PromptBuilder
	provider domain.LLMProvider
}

// NewGenerator composes a prompt builder with a provider.
func NewGenerator(prompts *PromptBuilder, provider domain.LLMProvider) *Generator {
	return &Generator{prompts: prompts, provider: provider}
}

// ProviderName returns the name of the underlying provider.
func (g *Generator) ProviderName() string {
	return g.provider.Name()
}

// Generate prompts the provider with the analysis and parses the reply.
// The returned usage is zero when the request fails.
func (g *Generator) Generate(ctx context.Context, analysis *domain.Analysis) (*domain.SkillBundle, domain.LLMUsage, error) {
	prompt, err := g.prompts.Build(analysis)
	if err != nil {
		return nil, domain.LLMUsage{}, err
	}

	resp, err := g.provider.Complete(ctx, &domain.LLMRequest{
		Messages: []domain.LLMMessage{
			{Role: domain.RoleSystem, Content: systemPrompt},
			{Role: domain.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, domain.LLMUsage{}, err
	}

	bundle, err := ParseBundle(resp.Content)
	if err != nil {
		return nil, resp.Usage, err
	}
	return bundle, resp.Usage, nil
}
