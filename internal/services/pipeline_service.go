package services

import (
	"context"
	"strings"
	"time"

	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
)

// Stage runner interfaces; the concrete agents satisfy them, and tests
// substitute stubs.
type (
	IntakeRunner interface {
		Run(ctx context.Context, freeText string) (models.TripIntent, error)
	}
	ResearchRunner interface {
		Run(ctx context.Context, intent models.TripIntent) (models.ResearchCorpus, error)
	}
	TasteRunner interface {
		Run(ctx context.Context, intent models.TripIntent, corpus models.ResearchCorpus) (models.TasteProfile, error)
	}
	PlannerRunner interface {
		Run(ctx context.Context, intent models.TripIntent, taste models.TasteProfile, corpus models.ResearchCorpus) (models.Itinerary, error)
	}
	SummaryRunner interface {
		Run(ctx context.Context, itinerary models.Itinerary) (string, error)
	}
)

// runState tracks how far a pipeline run has advanced.
type runState int

const (
	stateEmpty runState = iota
	stateStructured
	stateResearched
	stateRanked
	statePlanned
	stateSummarized
)

func (state runState) String() string {
	switch state {
	case stateStructured:
		return "structured"
	case stateResearched:
		return "researched"
	case stateRanked:
		return "ranked"
	case statePlanned:
		return "planned"
	case stateSummarized:
		return "summarized"
	default:
		return "empty"
	}
}

const (
	intakeStageVersion   = "intake.v1"
	researchStageVersion = "researcher.v1"
	tasteStageVersion    = "taste.v1"
	plannerStageVersion  = "planner.v1"
	summaryStageVersion  = "summary.v1"
)

// PipelineService orchestrates the staged generation flow from trip intent
// to finished itinerary.
type PipelineService struct {
	intake   IntakeRunner
	research ResearchRunner
	taste    TasteRunner
	planner  PlannerRunner
	summary  SummaryRunner

	researchCache *ResearchCache
	tenant        string
	logger        *logger.Logger
}

func NewPipelineService(
	intake IntakeRunner,
	research ResearchRunner,
	taste TasteRunner,
	planner PlannerRunner,
	summary SummaryRunner,
	researchCache *ResearchCache,
	log *logger.Logger,
) *PipelineService {
	return &PipelineService{
		intake:        intake,
		research:      research,
		taste:         taste,
		planner:       planner,
		summary:       summary,
		researchCache: researchCache,
		tenant:        "global",
		logger:        log,
	}
}

// ForTenant returns a pipeline view whose research lookups are partitioned
// under the given tenant. The underlying cache and stages are shared.
func (service *PipelineService) ForTenant(tenant string) *PipelineService {
	scoped := *service
	scoped.tenant = tenant
	return &scoped
}

// ClearResearchCache drops every memoised research corpus.
func (service *PipelineService) ClearResearchCache() {
	service.researchCache.Clear()
}

// GeneratePlan runs the full pipeline for the supplied intent and returns
// the finished itinerary.
func (service *PipelineService) GeneratePlan(ctx context.Context, intent models.TripIntent) (models.Itinerary, error) {
	pipelineStart := time.Now()
	state := stateEmpty

	destination := intent.Destination
	if destination == "" {
		destination = "unknown"
	}
	service.logger.Info("Starting trip pipeline", "destination", destination)

	structured, err := service.runIntakeIfNeeded(ctx, intent)
	if err != nil {
		return models.Itinerary{}, service.abort(state, err)
	}
	state = stateStructured

	corpus, err := service.runResearch(ctx, structured)
	if err != nil {
		return models.Itinerary{}, service.abort(state, err)
	}
	state = stateResearched

	profile, err := service.runStageTaste(ctx, structured, corpus)
	if err != nil {
		return models.Itinerary{}, service.abort(state, err)
	}
	state = stateRanked

	itinerary, err := service.runStagePlanner(ctx, structured, profile, corpus)
	if err != nil {
		return models.Itinerary{}, service.abort(state, err)
	}
	state = statePlanned

	summaryHTML, err := service.runStageSummary(ctx, itinerary)
	if err != nil {
		return models.Itinerary{}, service.abort(state, err)
	}
	state = stateSummarized

	if summaryHTML != "" && itinerary.Notes == "" {
		itinerary.Notes = summaryHTML
	}

	service.logger.Info("Trip pipeline completed",
		"destination", itinerary.Destination,
		"state", state.String(),
		"days", len(itinerary.Days),
		"duration_ms", time.Since(pipelineStart).Milliseconds(),
	)
	return itinerary, nil
}

func (service *PipelineService) abort(state runState, err error) error {
	service.logger.WithError(err).Error("Trip pipeline aborted", "state", state.String())
	return err
}

// runIntakeIfNeeded skips the intake stage when the intent already carries
// a destination; otherwise the raw notes are structured by the intake
// agent, and an intent with neither fails before any generation call.
func (service *PipelineService) runIntakeIfNeeded(ctx context.Context, intent models.TripIntent) (models.TripIntent, error) {
	if intent.Destination != "" {
		service.logger.Info("Intake stage skipped",
			"reason", "trip intent already structured",
			"prompt_version", intakeStageVersion,
		)
		return intent, nil
	}

	freeText := strings.TrimSpace(intent.Notes)
	if freeText == "" {
		return models.TripIntent{}, models.ErrMissingDestination
	}

	start := time.Now()
	structured, err := service.intake.Run(ctx, freeText)
	service.logger.LogStage("intake", intakeStageVersion, time.Since(start), false, err)
	if err != nil {
		return models.TripIntent{}, err
	}
	return structured, nil
}

func (service *PipelineService) runResearch(ctx context.Context, intent models.TripIntent) (models.ResearchCorpus, error) {
	key := service.researchCache.Key(service.tenant, intent)

	start := time.Now()
	if cached, found := service.researchCache.Get(key); found {
		service.logger.LogStage("researcher", researchStageVersion, time.Since(start), true, nil)
		return cached, nil
	}

	corpus, err := service.research.Run(ctx, intent)
	service.logger.LogStage("researcher", researchStageVersion, time.Since(start), false, err)
	if err != nil {
		return models.ResearchCorpus{}, err
	}

	service.researchCache.Set(key, corpus)
	return corpus, nil
}

func (service *PipelineService) runStageTaste(ctx context.Context, intent models.TripIntent, corpus models.ResearchCorpus) (models.TasteProfile, error) {
	start := time.Now()
	profile, err := service.taste.Run(ctx, intent, corpus)
	service.logger.LogStage("taste", tasteStageVersion, time.Since(start), false, err)
	return profile, err
}

func (service *PipelineService) runStagePlanner(ctx context.Context, intent models.TripIntent, profile models.TasteProfile, corpus models.ResearchCorpus) (models.Itinerary, error) {
	start := time.Now()
	itinerary, err := service.planner.Run(ctx, intent, profile, corpus)
	service.logger.LogStage("planner", plannerStageVersion, time.Since(start), false, err)
	return itinerary, err
}

func (service *PipelineService) runStageSummary(ctx context.Context, itinerary models.Itinerary) (string, error) {
	start := time.Now()
	summaryHTML, err := service.summary.Run(ctx, itinerary)
	service.logger.LogStage("summary", summaryStageVersion, time.Since(start), false, err)
	return summaryHTML, err
}
