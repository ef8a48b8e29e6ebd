package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/quantmind-br/skillforge-go/internal/analyzer"
	"github.com/quantmind-br/skillforge-go/internal/config"
	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/history"
	"github.com/quantmind-br/skillforge-go/internal/llm"
	"github.com/quantmind-br/skillforge-go/internal/repo"
	"github.com/quantmind-br/skillforge-go/internal/skill"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// Options configures a Pipeline. Zero-value fields are filled in from
// the config; tests inject fakes through the interface fields.
type Options struct {
	Config   *config.Config
	Logger   *utils.Logger
	Cloner   domain.Cloner
	Metadata domain.MetadataLookup
	Analyzer domain.Analyzer
	Provider domain.LLMProvider
	History  domain.HistoryStore
	Progress domain.ProgressFunc
}

// Pipeline turns a repository locator into a packaged skill. Steps run
// in a fixed order; the clone directory is removed no matter where the
// run fails.
type Pipeline struct {
	cfg      *config.Config
	logger   *utils.Logger
	cloner   domain.Cloner
	metadata domain.MetadataLookup
	analyzer domain.Analyzer
	provider domain.LLMProvider
	history  domain.HistoryStore
	progress domain.ProgressFunc

	generator *skill.Generator
	builder   *skill.Builder
	packager  *skill.Packager
}

// Result describes one successful pipeline run.
type Result struct {
	SkillName   string
	SkillDir    string
	ZipPath     string
	Description string
	Installed   bool
	RecordID    int64
}

// BatchItem pairs one locator of a batch with its outcome.
type BatchItem struct {
	Locator string
	Result  *Result
	Err     error
}

// New assembles a pipeline from opts.
func New(opts Options) (*Pipeline, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	logger = logger.WithComponent("pipeline")

	p := &Pipeline{
		cfg:      cfg,
		logger:   logger,
		cloner:   opts.Cloner,
		metadata: opts.Metadata,
		analyzer: opts.Analyzer,
		provider: opts.Provider,
		history:  opts.History,
		progress: opts.Progress,
	}
	if p.cloner == nil {
		p.cloner = repo.NewGitCloner(cfg.Clone, cfg.GitHub.Token, logger)
	}
	if p.metadata == nil {
		p.metadata = repo.NewMetadataClient(cfg.GitHub.Token, logger, repo.WithAPIBaseURL(cfg.GitHub.APIBaseURL))
	}
	if p.analyzer == nil {
		p.analyzer = analyzer.New(cfg.Analyze, logger)
	}
	if p.provider == nil {
		provider, err := llm.NewProvider(cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
		p.provider = provider
	}
	if p.history == nil && cfg.History.Enabled {
		store, err := history.Open(utils.ExpandPath(cfg.History.Path))
		if err != nil {
			return nil, err
		}
		p.history = store
	}
	if p.progress == nil {
		p.progress = func(string, string) {}
	}

	prompts, err := skill.NewPromptBuilder(cfg.Skill.PromptTemplate)
	if err != nil {
		return nil, err
	}
	outputDir := utils.ExpandPath(cfg.Skill.OutputDir)
	p.generator = skill.NewGenerator(prompts, p.provider)
	p.builder = skill.NewBuilder(outputDir)
	p.packager = skill.NewPackager(outputDir, cfg.Skill.InstallDir)

	return p, nil
}

// Run executes the full pipeline for one locator. When install is true
// the built skill is also copied into the skills directory.
func (p *Pipeline) Run(ctx context.Context, locator string, install bool) (*Result, error) {
	ref, err := repo.Validate(locator)
	if err != nil {
		return nil, err
	}
	log := p.logger.WithRepo(ref.FullName)

	baseDir := utils.ExpandPath(p.cfg.Clone.BaseDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("preparing clone base directory: %w", err)
	}
	dest, err := repo.ContainedPath(baseDir, ref.Owner, ref.Name)
	if err != nil {
		if errors.Is(err, domain.ErrPathEscape) {
			// Record the real cause; callers only see the generic
			// identifier error.
			log.Warn().
				Str("event", "path_escape").
				Str("owner", ref.Owner).
				Str("name", ref.Name).
				Msg("destination escaped the clone base directory")
			return nil, domain.ErrInvalidIdentifier
		}
		return nil, err
	}

	recordID := p.recordStart(ctx, ref)
	fail := func(stage string, err error) (*Result, error) {
		log.Error().Str("stage", stage).Err(err).Msg("pipeline failed")
		p.recordFailure(ctx, recordID, err)
		return nil, err
	}

	p.progress(utils.DescCloning, "Cloning "+ref.FullName)
	clone, err := p.cloner.Clone(ctx, ref, dest)
	if err != nil {
		return fail(utils.DescCloning, err)
	}
	defer os.RemoveAll(clone.Path)

	if meta, err := p.metadata.Get(ctx, ref); err != nil {
		log.Warn().Err(err).Msg("metadata lookup failed, continuing without it")
	} else {
		clone.Metadata = meta
	}

	p.progress(utils.DescAnalyzing, "Analyzing repository contents")
	analysis, err := p.analyzer.Analyze(clone)
	if err != nil {
		return fail(utils.DescAnalyzing, err)
	}

	p.progress(utils.DescGenerating, "Generating skill with "+p.generator.ProviderName())
	bundle, usage, err := p.generator.Generate(ctx, analysis)
	if err != nil {
		return fail(utils.DescGenerating, err)
	}

	p.progress(utils.DescValidating, "Validating skill structure")
	skillDir, err := p.builder.Build(bundle)
	if err != nil {
		return fail(utils.DescValidating, err)
	}
	if err := skill.Check(skillDir); err != nil {
		return fail(utils.DescValidating, err)
	}

	p.progress(utils.DescPackaging, "Packaging skill archive")
	zipPath, err := p.packager.Package(skillDir)
	if err != nil {
		return fail(utils.DescPackaging, err)
	}

	result := &Result{
		SkillName:   bundle.Name(),
		SkillDir:    skillDir,
		ZipPath:     zipPath,
		Description: bundle.Description(),
		RecordID:    recordID,
	}
	if install {
		if _, err := p.packager.Install(skillDir); err != nil {
			return fail(utils.DescPackaging, err)
		}
		result.Installed = true
	}

	p.recordSuccess(ctx, recordID, result)
	log.Info().
		Str("skill", result.SkillName).
		Str("zip", result.ZipPath).
		Int("tokens", usage.TotalTokens).
		Msg("skill generated")
	return result, nil
}

// RunBatch processes locators sequentially, continuing past per-item
// failures. The batch size is capped.
func (p *Pipeline) RunBatch(ctx context.Context, locators []string, install bool) ([]BatchItem, error) {
	if len(locators) == 0 {
		return nil, errors.New("no repository URLs given")
	}
	if len(locators) > config.MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds the maximum of %d", len(locators), config.MaxBatchSize)
	}

	items := make([]BatchItem, 0, len(locators))
	for _, locator := range locators {
		if ctx.Err() != nil {
			return items, ctx.Err()
		}
		result, err := p.Run(ctx, locator, install)
		items = append(items, BatchItem{Locator: locator, Result: result, Err: err})
	}
	return items, nil
}

// Close releases the provider and history store.
func (p *Pipeline) Close() error {
	var errs []error
	if p.provider != nil {
		errs = append(errs, p.provider.Close())
	}
	if p.history != nil {
		errs = append(errs, p.history.Close())
	}
	return errors.Join(errs...)
}

// History exposes the pipeline's history store; nil when disabled.
func (p *Pipeline) History() domain.HistoryStore {
	return p.history
}

// Packager exposes the skill packager for install/uninstall commands.
func (p *Pipeline) Packager() *skill.Packager {
	return p.packager
}

func (p *Pipeline) recordStart(ctx context.Context, ref domain.RepoRef) int64 {
	if p.history == nil {
		return 0
	}
	id, err := p.history.Add(ctx, &domain.SkillRecord{
		RepoURL:  ref.URL,
		RepoName: ref.FullName,
		Status:   domain.StatusPending,
	})
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to record history entry")
		return 0
	}
	return id
}

func (p *Pipeline) recordFailure(ctx context.Context, id int64, runErr error) {
	if p.history == nil || id == 0 {
		return
	}
	status := domain.StatusFailed
	msg := runErr.Error()
	if err := p.history.Update(ctx, id, domain.SkillUpdate{
		Status:       &status,
		ErrorMessage: &msg,
	}); err != nil {
		p.logger.Warn().Err(err).Msg("failed to update history entry")
	}
}

func (p *Pipeline) recordSuccess(ctx context.Context, id int64, result *Result) {
	if p.history == nil || id == 0 {
		return
	}
	status := domain.StatusSuccess
	if err := p.history.Update(ctx, id, domain.SkillUpdate{
		SkillName:   &result.SkillName,
		Status:      &status,
		ZipPath:     &result.ZipPath,
		Description: &result.Description,
		Installed:   &result.Installed,
	}); err != nil {
		p.logger.Warn().Err(err).Msg("failed to update history entry")
	}
}
