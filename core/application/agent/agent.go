package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/diavgeia-watch/diavgeia/core/application/catalog"
	"github.com/diavgeia-watch/diavgeia/core/application/formatter"
	"github.com/diavgeia-watch/diavgeia/core/application/orgs"
	"github.com/diavgeia-watch/diavgeia/core/application/terminology"
	"github.com/diavgeia-watch/diavgeia/core/application/validator"
	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	"github.com/diavgeia-watch/diavgeia/core/observability"
	sharedctx "github.com/diavgeia-watch/diavgeia/core/shared/context"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
	"github.com/diavgeia-watch/diavgeia/core/shared/text"
)

const (
	DefaultMaxRetries  = 2
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.1

	errorExcerpt = 200
)

// Terminal answers.
const (
	AnswerNoSQL      = "I couldn't generate a query for that question. Could you rephrase it?"
	AnswerUnsafe     = "I generated an unsafe query and blocked it for safety."
	answerExecFailed = "The query failed to execute: %s"
	answerGateway    = "LLM communication error: %s"

	ErrorNoSQL  = "No SQL generated"
	ErrorUnsafe = "Unsafe SQL blocked"
)

// Options tunes generation and pre-resolution. Zero values other than
// MaxRetries take the defaults.
type Options struct {
	MaxRetries       int
	MaxTokens        int
	Temperature      float32
	CategoryLimit    int
	CategoryMinScore int
}

func (o Options) withDefaults() Options {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = DefaultTemperature
	}
	if o.CategoryLimit <= 0 {
		o.CategoryLimit = 2
	}
	if o.CategoryMinScore <= 0 {
		o.CategoryMinScore = catalog.DefaultMinScore
	}
	return o
}

// Agent turns a question into a validated read-only query, runs it and
// renders the rows. Each Ask is independent, so one Agent serves
// concurrent callers.
type Agent struct {
	gateway     interfaces.Gateway
	store       interfaces.Store
	orgs        *orgs.Resolver
	catalog     *catalog.Catalog
	terminology *terminology.Preprocessor
	opts        Options
}

// New creates an agent. Pass DefaultMaxRetries in opts for the usual bound;
// a zero MaxRetries means a single attempt.
func New(gateway interfaces.Gateway, store interfaces.Store, resolver *orgs.Resolver, cat *catalog.Catalog, pre *terminology.Preprocessor, opts Options) *Agent {
	return &Agent{
		gateway:     gateway,
		store:       store,
		orgs:        resolver,
		catalog:     cat,
		terminology: pre,
		opts:        opts.withDefaults(),
	}
}

var _ interfaces.Asker = (*Agent)(nil)

// attemptState carries what earlier attempts left behind.
type attemptState struct {
	notes    []string
	hints    []domain.Hint
	lastErr  error
	sql      string
	thinking string
}

// Ask answers one question. It never returns an error: failures are
// reported through Outcome.Success and Outcome.Error.
func (a *Agent) Ask(ctx context.Context, question string) *domain.Outcome {
	ctx, questionID := sharedctx.EnsureQuestionID(ctx)
	log := logging.New("agent").WithField("question_id", questionID)
	started := time.Now()

	ctx, span := observability.StartSpan(ctx, "agent.ask", attribute.String(observability.AttrQuestionID, questionID))
	defer span.End()

	log.Infof("Question received: %s", text.Truncate(question, errorExcerpt))

	var (
		state attemptState
		out   *domain.Outcome
	)
	maxAttempts := a.opts.MaxRetries + 1
	attempt := 1
	for ; attempt <= maxAttempts; attempt++ {
		var err error
		out, err = a.attempt(ctx, log.WithField("attempt", attempt), question, attempt, &state)
		if err == nil {
			break
		}
		if !apperrors.IsRetryable(err) {
			log.Errorf("Gateway failed: %v", err)
			observability.RecordAttempt(ctx, observability.OutcomeGatewayError)
			out = gatewayFailure(err, state.hints)
			break
		}
		observability.RecordAttempt(ctx, attemptOutcome(err))
		state.lastErr = err
		state.notes = append(state.notes, correctiveNote(err))
	}
	if out == nil {
		attempt = maxAttempts
		out = exhausted(&state)
		log.Warnf("Giving up after %d attempt(s): %s", maxAttempts, out.Error)
	}
	out.Attempts = attempt

	span.SetAttributes(attribute.Int(observability.AttrAttempt, attempt), attribute.Bool("success", out.Success))
	if !out.Success {
		span.SetStatus(codes.Error, out.Error)
	}
	observability.RecordQuestion(ctx, out.Success, attempt, float64(time.Since(started).Milliseconds()))
	return out
}

// attempt runs one pass of the state machine. Generation, safety and
// execution failures come back as retryable *errors.AppError values.
func (a *Agent) attempt(ctx context.Context, log logging.Logger, question string, n int, state *attemptState) (*domain.Outcome, error) {
	// PRERESOLVE
	hints, hintContext := a.preresolve(ctx, question)
	state.hints = hints
	log.Debugf("Pre-resolved %d hint(s)", len(hints))

	// PROMPT
	envelope := buildEnvelope(n, question, hintContext, state.notes)

	// GENERATE
	log.Debugf("Generating query via %s", a.gateway.Describe())
	completion, err := a.gateway.Complete(ctx, domain.CompletionRequest{
		Messages:    envelope.Messages(),
		Temperature: a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeGatewayFailed, "reasoning backend failed", err)
	}

	// PARSE
	generated := parseReply(completion.Content)
	state.thinking = generated.Thinking
	if generated.SQL == "" {
		log.Warnf("Reply contained no SQL")
		return nil, apperrors.NewAppError(apperrors.ErrCodeGenerationEmpty, ErrorNoSQL, nil)
	}

	// VALIDATE
	verdict := validator.Validate(generated.SQL, domain.GroundingOf(hints))
	if len(verdict.Stripped) > 0 {
		log.Infof("Stripped ungrounded filter(s): %s", strings.Join(verdict.Stripped, "; "))
	}
	state.sql = verdict.SQL
	if !verdict.Accepted {
		log.Warnf("Unsafe query blocked (%s): %s", verdict.Reason, text.Truncate(verdict.SQL, errorExcerpt))
		return nil, apperrors.NewAppError(apperrors.ErrCodeUnsafeQuery, verdict.Reason, nil)
	}

	// EXECUTE
	log.Debugf("Executing: %s", verdict.SQL)
	started := time.Now()
	result, err := a.store.Execute(ctx, verdict.SQL)
	observability.RecordStoreExecution(ctx, err == nil, float64(time.Since(started).Milliseconds()))
	if err != nil {
		log.Warnf("Execution failed: %v", err)
		return nil, apperrors.WrapError(apperrors.ErrCodeExecutionFailed, "query execution failed", err)
	}

	// FORMAT
	observability.RecordAttempt(ctx, observability.OutcomeOK)
	log.Successf("Answered with %d row(s)", result.Len())
	rows := result.Rows
	if rows == nil {
		rows = []map[string]any{}
	}
	return &domain.Outcome{
		Answer:           formatter.Format(question, rows, result.Columns, generated.Explanation),
		SQL:              verdict.SQL,
		Rows:             rows,
		Columns:          result.Columns,
		Thinking:         generated.Thinking,
		Explanation:      generated.Explanation,
		ResolvedOrg:      generated.ResolvedOrg,
		ResolvedCategory: generated.ResolvedCategory,
		Hints:            hints,
		Success:          true,
	}, nil
}

// cause returns the text of the error an AppError wraps.
func cause(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}

func correctiveNote(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeUnsafeQuery:
		return noteUnsafe
	case apperrors.ErrCodeExecutionFailed:
		return fmt.Sprintf(noteError, text.Truncate(cause(err), errorExcerpt))
	default:
		return noteEmpty
	}
}

func attemptOutcome(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeUnsafeQuery:
		return observability.OutcomeUnsafe
	case apperrors.ErrCodeExecutionFailed:
		return observability.OutcomeExecutionError
	default:
		return observability.OutcomeEmpty
	}
}

func gatewayFailure(err error, hints []domain.Hint) *domain.Outcome {
	msg := cause(err)
	return &domain.Outcome{
		Answer:  fmt.Sprintf(answerGateway, msg),
		Rows:    []map[string]any{},
		Hints:   hints,
		Success: false,
		Error:   msg,
	}
}

func exhausted(state *attemptState) *domain.Outcome {
	out := &domain.Outcome{Thinking: state.thinking, Rows: []map[string]any{}, Hints: state.hints}
	switch apperrors.CodeOf(state.lastErr) {
	case apperrors.ErrCodeUnsafeQuery:
		out.Answer = AnswerUnsafe
		out.Error = ErrorUnsafe
		out.SQL = state.sql
	case apperrors.ErrCodeExecutionFailed:
		execErr := cause(state.lastErr)
		out.Answer = fmt.Sprintf(answerExecFailed, text.Truncate(execErr, errorExcerpt))
		out.Error = execErr
		out.SQL = state.sql
	default:
		out.Answer = AnswerNoSQL
		out.Error = ErrorNoSQL
	}
	return out
}

// preresolve collects the hints for a question and renders the context line
// placed in the prompt.
func (a *Agent) preresolve(ctx context.Context, question string) ([]domain.Hint, string) {
	var (
		hints []domain.Hint
		parts []string
	)

	if a.orgs != nil {
		if org, ok := a.orgs.Resolve(ctx, question); ok {
			h := domain.Hint{
				Kind:   domain.HintOrg,
				Value:  org.UID,
				Label:  org.Label,
				Filter: "d.org_id = " + pq.QuoteLiteral(org.UID),
				Text:   fmt.Sprintf("Organization '%s' has UID=%s", org.Label, org.UID),
			}
			hints = append(hints, h)
			parts = append(parts, h.Text)
		}
	}

	if a.catalog != nil {
		for _, m := range a.catalog.Search(question, a.opts.CategoryLimit, a.opts.CategoryMinScore) {
			if m.Score < catalog.DefaultMinScore {
				continue
			}
			h := domain.Hint{
				Kind:   domain.HintCategory,
				Value:  m.Code,
				Label:  m.DescriptionEN,
				Filter: "e.cpv_code LIKE " + pq.QuoteLiteral(cpvPrefix(m.Code)+"%"),
				Text:   fmt.Sprintf("CPV match: '%s' = code %s", m.DescriptionEN, m.Code),
			}
			hints = append(hints, h)
			parts = append(parts, h.Text)
		}
	}

	if a.terminology != nil {
		res := a.terminology.Preprocess(question)
		hints = append(hints, res.Hints()...)
		if res.Context != "" {
			parts = append(parts, res.Context)
		}
	}

	return hints, strings.Join(parts, "; ")
}

// cpvPrefix drops trailing zero digits, keeping at least the division.
func cpvPrefix(code string) string {
	p := strings.TrimRight(code, "0")
	if len(p) < 2 && len(code) >= 2 {
		return code[:2]
	}
	return p
}
