// Package pipeline sequences one request: check preconditions, compose the
// prompt, call the model, validate the answer and reconcile it against the
// template before anything is generated.
//
// The orchestrator holds no per-request state and never retries. Every
// failure leaves it as exactly one *apperr.Error.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/slidearchitect/internal/aiconnectors"
	"github.com/slidearchitect/internal/apperr"
	"github.com/slidearchitect/internal/generator"
	"github.com/slidearchitect/internal/prompts"
	"github.com/slidearchitect/internal/reconcile"
	"github.com/slidearchitect/internal/schema"
	"github.com/slidearchitect/internal/template"
	"github.com/slidearchitect/pkg/models"
)

// Model is the model invocation boundary
type Model interface {
	Generate(ctx context.Context, req aiconnectors.Request) (string, error)
}

// Limits are the preconditions checked before any external call
type Limits struct {
	MinContentLength int   // trimmed user content, in characters
	MaxImageBytes    int64 // total size of plan-mode images
	MaxImages        int
}

// DefaultLimits mirrors the configuration defaults
func DefaultLimits() Limits {
	return Limits{MinContentLength: 20, MaxImageBytes: 15 << 20, MaxImages: 20}
}

// Orchestrator runs the plan, cloning, generation and inspection flows
type Orchestrator struct {
	model     Model
	generator generator.Generator
	composer  *prompts.Composer
	validator *schema.Validator
	limits    Limits
	language  models.Language
	log       zerolog.Logger
	now       func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

func WithLimits(l Limits) Option { return func(o *Orchestrator) { o.limits = l } }

func WithValidator(v *schema.Validator) Option { return func(o *Orchestrator) { o.validator = v } }

func WithLogger(log zerolog.Logger) Option { return func(o *Orchestrator) { o.log = log } }

func WithDefaultLanguage(l models.Language) Option {
	return func(o *Orchestrator) { o.language = l }
}

func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// New creates an orchestrator around its collaborators
func New(model Model, gen generator.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		model:     model,
		generator: gen,
		composer:  prompts.NewComposer(),
		validator: schema.NewValidator(),
		limits:    DefaultLimits(),
		language:  models.LangFR,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PlanRequest asks for a plan mapping user content onto template images
type PlanRequest struct {
	Images      []aiconnectors.Image
	UserContent string
	Language    models.Language
	MaxSlides   int
}

// PlanResult is a validated, reconciled presentation plan
type PlanResult struct {
	Plan  *models.PresentationPlan
	Trace Trace
}

// CloningRequest asks for cloning instructions for a .pptx template
type CloningRequest struct {
	Template    []byte
	UserContent string
	Language    models.Language
}

// CloningResult holds validated, reconciled cloning instructions
type CloningResult struct {
	Instructions *models.CloningInstructions
	Template     *models.TemplateDescriptor
	Trace        Trace
}

// GenerateRequest asks for a document built from cloning instructions.
// Instructions is the JSON document received from the caller; it goes
// through the cloning schema before anything else reads it.
type GenerateRequest struct {
	Template     []byte
	Instructions json.RawMessage
}

// GenerateResult is a generated presentation and the validated
// instructions it was built from
type GenerateResult struct {
	File         []byte
	FileName     string
	Instructions *models.CloningInstructions
	Trace        Trace
}

// InspectResult describes a template the way the model sees it
type InspectResult struct {
	Template *models.TemplateDescriptor
	Summary  string
	Prompt   string
	Trace    Trace
}

// AnalyzeSlides runs plan mode
func (o *Orchestrator) AnalyzeSlides(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	r := o.begin(ctx, ModePlan)

	if err := o.checkImages(req.Images); err != nil {
		return nil, r.fail(o.now(), err)
	}
	if err := o.checkContent(req.UserContent); err != nil {
		return nil, r.fail(o.now(), err)
	}
	if req.MaxSlides < 0 {
		return nil, r.fail(o.now(), apperr.New(apperr.KindInvalidInput, "max slides must not be negative"))
	}

	r.enter(StateComposing)
	prompt := o.composer.PlanPrompt(prompts.PlanInput{
		UserContent: req.UserContent,
		ImageCount:  len(req.Images),
		Language:    o.lang(req.Language),
		MaxSlides:   req.MaxSlides,
	})

	r.enter(StateAwaitingModel)
	raw, err := o.model.Generate(ctx, aiconnectors.Request{System: prompt.System, User: prompt.User, Images: req.Images})
	if err != nil {
		return nil, r.fail(o.now(), modelError(err))
	}

	r.enter(StateValidating)
	plan, err := o.validator.Plan(raw)
	if err != nil {
		return nil, r.fail(o.now(), err)
	}

	r.enter(StateReconciling)
	if err := reconcile.Plan(plan, len(req.Images)); err != nil {
		return nil, r.fail(o.now(), err)
	}

	return &PlanResult{Plan: plan, Trace: r.succeed(o.now())}, nil
}

// GenerateCloningPlan runs cloning mode
func (o *Orchestrator) GenerateCloningPlan(ctx context.Context, req CloningRequest) (*CloningResult, error) {
	r := o.begin(ctx, ModeCloning)

	if len(req.Template) == 0 {
		return nil, r.fail(o.now(), apperr.New(apperr.KindInvalidInput, "no template provided"))
	}
	if err := o.checkContent(req.UserContent); err != nil {
		return nil, r.fail(o.now(), err)
	}
	desc, err := parseTemplate(req.Template)
	if err != nil {
		return nil, r.fail(o.now(), err)
	}
	r.log.Info().Str("template", template.Summary(desc)).Msg("template parsed")

	r.enter(StateComposing)
	prompt := o.composer.CloningPrompt(prompts.CloningInput{
		TemplateSummary: template.Format(desc),
		UserContent:     req.UserContent,
		Language:        o.lang(req.Language),
	})

	r.enter(StateAwaitingModel)
	raw, err := o.model.Generate(ctx, aiconnectors.Request{System: prompt.System, User: prompt.User})
	if err != nil {
		return nil, r.fail(o.now(), modelError(err))
	}

	r.enter(StateValidating)
	instr, err := o.validator.Cloning(raw)
	if err != nil {
		return nil, r.fail(o.now(), err)
	}

	r.enter(StateReconciling)
	if err := reconcile.Cloning(instr, desc.TotalSlides); err != nil {
		return nil, r.fail(o.now(), err)
	}

	return &CloningResult{Instructions: instr, Template: desc, Trace: r.succeed(o.now())}, nil
}

// GeneratePresentation builds a document from instructions. The
// instructions are validated against the cloning schema, the template is
// parsed again and the instructions reconciled against it before the
// generator is called.
func (o *Orchestrator) GeneratePresentation(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	r := o.begin(ctx, ModeGenerate)

	if len(req.Template) == 0 {
		return nil, r.fail(o.now(), apperr.New(apperr.KindInvalidInput, "no template provided"))
	}
	if len(bytes.TrimSpace(req.Instructions)) == 0 {
		return nil, r.fail(o.now(), apperr.New(apperr.KindInvalidInput, "no cloning instructions provided"))
	}
	desc, err := parseTemplate(req.Template)
	if err != nil {
		return nil, r.fail(o.now(), err)
	}

	r.enter(StateValidating)
	instr, err := schema.ValidateCloning(string(req.Instructions))
	if err != nil {
		return nil, r.fail(o.now(), apperr.Wrap(apperr.KindInvalidInput, err, "cloning instructions do not match the schema"))
	}
	if len(instr.Slides) == 0 {
		return nil, r.fail(o.now(), apperr.New(apperr.KindInvalidInput, "no cloning instructions provided"))
	}

	r.enter(StateReconciling)
	if err := reconcile.Cloning(instr, desc.TotalSlides); err != nil {
		return nil, r.fail(o.now(), err)
	}

	r.enter(StateGenerating)
	file, err := o.generator.Generate(ctx, req.Template, instr)
	if err != nil {
		return nil, r.fail(o.now(), apperr.Wrap(apperr.KindGenerationFailure, err, "presentation generation failed"))
	}

	now := o.now()
	return &GenerateResult{
		File:         file,
		FileName:     generator.FileName(now),
		Instructions: instr,
		Trace:        r.succeed(now),
	}, nil
}

// InspectTemplate parses a template and renders the text the model would see
func (o *Orchestrator) InspectTemplate(ctx context.Context, data []byte) (*InspectResult, error) {
	r := o.begin(ctx, ModeInspect)

	if len(data) == 0 {
		return nil, r.fail(o.now(), apperr.New(apperr.KindInvalidInput, "no template provided"))
	}
	desc, err := parseTemplate(data)
	if err != nil {
		return nil, r.fail(o.now(), err)
	}
	return &InspectResult{
		Template: desc,
		Summary:  template.Summary(desc),
		Prompt:   template.Format(desc),
		Trace:    r.succeed(o.now()),
	}, nil
}

func (o *Orchestrator) lang(l models.Language) models.Language {
	if l == "" {
		return o.language
	}
	return models.ParseLanguage(string(l))
}

func (o *Orchestrator) checkContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < o.limits.MinContentLength {
		return apperr.New(apperr.KindInvalidInput,
			"user content is too short (%d characters, at least %d required)", n, o.limits.MinContentLength)
	}
	return nil
}

func (o *Orchestrator) checkImages(images []aiconnectors.Image) error {
	if len(images) == 0 {
		return apperr.New(apperr.KindInvalidInput, "no template images provided")
	}
	if o.limits.MaxImages > 0 && len(images) > o.limits.MaxImages {
		return apperr.New(apperr.KindInvalidInput, "too many template images (%d > %d)", len(images), o.limits.MaxImages)
	}
	var total int64
	for i, img := range images {
		if len(img.Data) == 0 {
			return apperr.New(apperr.KindInvalidInput, "template image %d is empty", i)
		}
		total += int64(len(img.Data))
	}
	if o.limits.MaxImageBytes > 0 && total > o.limits.MaxImageBytes {
		return apperr.New(apperr.KindInvalidInput, "template images are too large (%d > %d bytes)", total, o.limits.MaxImageBytes)
	}
	return nil
}

func parseTemplate(data []byte) (*models.TemplateDescriptor, error) {
	desc, err := template.Parse(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidTemplate, err, "template is not a readable presentation")
	}
	return desc, nil
}

// modelError maps a model failure onto the taxonomy. Discriminated
// InvocationErrors keep their kind; other errors are classified by text.
func modelError(err error) *apperr.Error {
	switch aiconnectors.Classify(err) {
	case aiconnectors.KindTimeout:
		return apperr.Wrap(apperr.KindUpstreamTimeout, err, "model call timed out")
	case aiconnectors.KindRateLimited:
		return apperr.Wrap(apperr.KindUpstreamRateLimited, err, "model provider rate limit reached")
	case aiconnectors.KindTransport:
		return apperr.Wrap(apperr.KindUnknown, err, "model provider unreachable")
	default:
		return apperr.Wrap(apperr.KindUnknown, err, "model call failed")
	}
}
