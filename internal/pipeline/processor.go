package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/tripparse/internal/cache"
	"github.com/ppiankov/tripparse/internal/extract"
	"github.com/ppiankov/tripparse/internal/fusion"
	"github.com/ppiankov/tripparse/internal/logging"
	"github.com/ppiankov/tripparse/internal/model"
	"github.com/ppiankov/tripparse/internal/ner"
	"github.com/ppiankov/tripparse/internal/normalize"
	"github.com/ppiankov/tripparse/internal/validate"
)

// Processor turns one inquiry into a record or a failure. Safe for concurrent use.
type Processor struct {
	normalizer *normalize.Normalizer
	patterns   *extract.Extractor
	model      *ner.Extractor
	validator  *validate.Validator
	engine     *fusion.Engine
	cache      cache.Cache // nil when disabled
	minLength  int
	log        *slog.Logger
}

// Options wires a processor. Recognizer and Cache may be nil.
type Options struct {
	Config     *model.Config
	Reference  time.Time
	Recognizer ner.Recognizer
	Cache      cache.Cache
}

// NewProcessor builds the per-run processing chain from configuration
func NewProcessor(opts Options) (*Processor, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	specs, err := model.BuildFieldSpecs(cfg.Fields)
	if err != nil {
		return nil, fmt.Errorf("field specs: %w", err)
	}

	bank := extract.NewBank(extract.Options{
		Reference:    opts.Reference,
		Dictionaries: cfg.Dictionaries,
	})

	return &Processor{
		normalizer: normalize.New(cfg.Text.MaxLength, cfg.Dictionaries.HinglishMarkers),
		patterns:   extract.NewExtractor(bank),
		model:      ner.NewExtractor(opts.Recognizer, opts.Reference),
		validator:  validate.NewValidator(specs, opts.Reference),
		engine:     fusion.NewEngine(specs),
		cache:      opts.Cache,
		minLength:  cfg.Text.MinLength,
		log:        logging.New("pipeline"),
	}, nil
}

// Specs returns the field specs records are built against
func (p *Processor) Specs() []model.FieldSpec {
	return p.engine.Specs()
}

// ModelAvailable reports whether the model extractor loaded. Triggers the load.
func (p *Processor) ModelAvailable() bool {
	return p.model.Available()
}

// Process handles one inquiry given its id and raw bytes
func (p *Processor) Process(ctx context.Context, inquiryID string, raw []byte) model.Result {
	return p.ProcessInquiry(ctx, model.Inquiry{ID: inquiryID, Raw: raw})
}

// ProcessInquiry handles one inquiry. It never panics and always returns
// exactly one of a record or a failure.
func (p *Processor) ProcessInquiry(ctx context.Context, inq model.Inquiry) (res model.Result) {
	res.InquiryID = inq.ID
	if inq.Err != nil {
		res.Failure = model.NewFailure(inq.ID, inq.Path, fmt.Errorf("read: %w", inq.Err))
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("inquiry processing panicked", "inquiry", inq.ID, "panic", r)
			res.Record = nil
			res.Failure = model.NewFailure(inq.ID, inq.Path, fmt.Errorf("internal error: %v", r))
		}
	}()

	key := cache.CacheKey(inq.Raw)
	if p.cache != nil {
		if rec, ok := p.cache.Get(key); ok {
			rec.InquiryID = inq.ID
			rec.SourceFile = inq.Path
			p.log.Debug("cache hit", "inquiry", inq.ID)
			res.Record = rec
			return res
		}
	}

	rec, err := p.extract(ctx, inq)
	if err != nil {
		p.log.Warn("inquiry failed", "inquiry", inq.ID, "error", err)
		res.Failure = model.NewFailure(inq.ID, inq.Path, err)
		return res
	}

	if p.cache != nil {
		p.cache.Set(key, rec)
		p.log.Debug("record cached", "inquiry", inq.ID, "entries", p.cache.Len())
	}
	res.Record = rec
	return res
}

func (p *Processor) extract(ctx context.Context, inq model.Inquiry) (*model.ExtractedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. Decode and normalize
	text, err := p.normalizer.Normalize(inq.Raw)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	var warnings []model.Warning
	if n := utf8.RuneCountInString(text.Text); n < p.minLength {
		warnings = append(warnings, model.Warning{
			Kind:    model.WarnTextTooShort,
			Message: fmt.Sprintf("%d characters, minimum %d", n, p.minLength),
		})
	}
	if text.Truncated {
		warnings = append(warnings, model.Warning{
			Kind:    model.WarnTruncated,
			Message: "text cut to the maximum length",
		})
	}

	// 2. Pattern and model extraction in parallel
	var (
		patternCands []model.Candidate
		matcherErrs  []error
		modelCands   []model.Candidate
		modelErr     error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		patternCands, matcherErrs = p.patterns.Extract(text)
		return nil
	})
	if !p.model.Disabled() {
		g.Go(func() error {
			modelCands, modelErr = p.model.Extract(gctx, text.Text)
			if modelErr != nil && ctx.Err() != nil {
				return fmt.Errorf("model extraction: %w", ctx.Err())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range matcherErrs {
		warnings = append(warnings, model.Warning{Kind: model.WarnMatcherError, Message: err.Error()})
	}
	modelUsed := false
	switch {
	case p.model.Disabled():
	case modelErr == nil:
		modelUsed = true
	case errors.Is(modelErr, model.ErrModelUnavailable):
		warnings = append(warnings, model.Warning{Kind: model.WarnModelUnavailable, Message: "pattern-only extraction"})
	default:
		warnings = append(warnings, model.Warning{Kind: model.WarnModelUnavailable, Message: modelErr.Error()})
	}

	// 3. Validate, then fuse
	cands := append(patternCands, modelCands...)
	kept, invalid := p.validator.Validate(cands)
	warnings = append(warnings, invalid...)

	outcome := p.engine.Fuse(kept)
	warnings = append(warnings, outcome.Warnings...)

	// 4. Attach metadata
	return &model.ExtractedRecord{
		InquiryID:  inq.ID,
		SourceFile: inq.Path,
		Lang:       text.Lang,
		Encoding:   text.Encoding,
		Fields:     outcome.Fields,
		Methods:    outcome.Methods,
		Warnings:   warnings,
		ModelUsed:  modelUsed,
	}, nil
}
