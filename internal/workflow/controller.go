// ABOUTME: Polish workflow controller driving the input → versions → comparison flow
// ABOUTME: Serializes submissions and edit actions, trusting server content wholesale

package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/paperai/polish-cli/internal/client"
)

// Stage is the workflow position. Every render and every permitted action is
// a function of this single value, not of independent flags.
type Stage int

const (
	StageInput Stage = iota
	StageVersionSelect
	StageComparison
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageVersionSelect:
		return "version-selection"
	case StageComparison:
		return "comparison"
	default:
		return "unknown"
	}
}

// Mode distinguishes single- from multi-version polish requests.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// MultiRequestTimeout is the client-enforced deadline for multi-version
// submissions, distinct from the transport's own timeout.
const MultiRequestTimeout = 30 * time.Second

// ValidationError is a local precondition failure. No network call was made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Config selects how the backend polishes text.
type Config struct {
	Style    string
	Language string
	Provider string
}

// NormalizeLanguage collapses locale variants to the two codes the backend
// accepts: zh-CN, zh-TW etc. become zh; everything else becomes en.
func NormalizeLanguage(locale string) string {
	if strings.HasPrefix(locale, "zh") {
		return "zh"
	}
	return "en"
}

// Trace identifies one polishing request for all follow-up calls.
type Trace struct {
	TraceID         string
	OriginalContent string
	Mode            Mode
}

// Controller drives the polishing use case against the gateway. One
// controller serves one workflow instance; it is not safe for concurrent
// use, matching the single-threaded event loop that owns it.
type Controller struct {
	api *client.Client

	stage           Stage
	readOnly        bool
	trace           *Trace
	multi           *client.MultiPolishResult
	selectedVersion string
	comparison      *client.ComparisonState

	submitting    bool
	actionPending bool
}

// New creates a controller in the input stage.
func New(api *client.Client) *Controller {
	return &Controller{api: api, stage: StageInput}
}

// Stage returns the current workflow stage.
func (c *Controller) Stage() Stage { return c.stage }

// ReadOnly reports whether the workflow was entered from a past record, in
// which case mutating actions are refused.
func (c *Controller) ReadOnly() bool { return c.readOnly }

// Trace returns the active trace, nil before the first successful submit.
func (c *Controller) Trace() *Trace { return c.trace }

// MultiResult returns the multi-version response during version selection.
func (c *Controller) MultiResult() *client.MultiPolishResult { return c.multi }

// SelectedVersion returns the chosen variant key, "" in single mode.
func (c *Controller) SelectedVersion() string { return c.selectedVersion }

// Comparison returns the current comparison state, nil outside the
// comparison stage.
func (c *Controller) Comparison() *client.ComparisonState { return c.comparison }

func validateContent(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Msg: "content must not be empty"}
	}
	return nil
}

func (c *Controller) guardSubmit(text string) error {
	if c.readOnly {
		return &ValidationError{Msg: "workflow is read-only"}
	}
	if c.submitting {
		return &ValidationError{Msg: "a submission is already in flight"}
	}
	return validateContent(text)
}

// SubmitSingle issues a single-version polish request. On success the
// workflow moves to comparison seeded with the polished content; on failure
// it stays in the input stage untouched.
func (c *Controller) SubmitSingle(ctx context.Context, text string, cfg Config) (*client.PolishResult, error) {
	if err := c.guardSubmit(text); err != nil {
		return nil, err
	}
	c.submitting = true
	defer func() { c.submitting = false }()

	result, err := c.api.Polish(ctx, &client.PolishRequest{
		Content:  text,
		Style:    cfg.Style,
		Language: NormalizeLanguage(cfg.Language),
		Provider: cfg.Provider,
	})
	if err != nil {
		return nil, err
	}

	c.trace = &Trace{TraceID: result.TraceID, OriginalContent: text, Mode: ModeSingle}
	c.selectedVersion = ""
	c.multi = nil
	c.comparison = &client.ComparisonState{
		OriginalContent: text,
		CurrentContent:  result.PolishedContent,
	}
	c.stage = StageComparison
	return result, nil
}

// SubmitMulti issues a multi-version polish request under the 30 second
// client deadline. versions may restrict the variants to generate. On
// success the workflow moves to version selection.
func (c *Controller) SubmitMulti(ctx context.Context, text string, cfg Config, versions []string) (*client.MultiPolishResult, error) {
	if err := c.guardSubmit(text); err != nil {
		return nil, err
	}
	c.submitting = true
	defer func() { c.submitting = false }()

	ctx, cancel := context.WithTimeout(ctx, MultiRequestTimeout)
	defer cancel()

	result, err := c.api.PolishMulti(ctx, &client.MultiPolishRequest{
		Content:  text,
		Style:    cfg.Style,
		Language: NormalizeLanguage(cfg.Language),
		Provider: cfg.Provider,
		Versions: versions,
	})
	if err != nil {
		return nil, err
	}

	c.trace = &Trace{TraceID: result.TraceID, OriginalContent: text, Mode: ModeMulti}
	c.selectedVersion = ""
	c.multi = result
	c.comparison = nil
	c.stage = StageVersionSelect
	return result, nil
}

// SelectVersion commits one successful variant and moves to comparison.
// Selecting a failed or pending variant fails locally without a network
// call.
func (c *Controller) SelectVersion(ctx context.Context, key string) (*client.PolishResult, error) {
	if c.stage != StageVersionSelect || c.multi == nil || c.trace == nil {
		return nil, &ValidationError{Msg: "no multi-version result to select from"}
	}
	variant, ok := c.multi.Versions[key]
	if !ok {
		return nil, &ValidationError{Msg: "unknown version: " + key}
	}
	if variant.Status != client.VersionStatusSuccess {
		return nil, &ValidationError{Msg: "version " + key + " is " + variant.Status + ", not selectable"}
	}

	result, err := c.api.SelectVersion(ctx, c.trace.TraceID, key)
	if err != nil {
		return nil, err
	}

	original := result.OriginalContent
	if original == "" {
		original = c.trace.OriginalContent
	}
	c.selectedVersion = key
	c.comparison = &client.ComparisonState{
		OriginalContent: original,
		CurrentContent:  result.PolishedContent,
	}
	c.stage = StageComparison
	return result, nil
}

// OpenRecord enters the comparison stage read-only from a past record. A
// record without a trace id still opens, in the degraded text-only mode.
func (c *Controller) OpenRecord(record *client.PolishRecord) {
	c.Reset()
	c.readOnly = true
	c.trace = &Trace{
		TraceID:         record.TraceID,
		OriginalContent: record.OriginalContent,
		Mode:            ModeSingle,
	}
	c.comparison = &client.ComparisonState{
		OriginalContent: record.OriginalContent,
		CurrentContent:  record.PolishedContent,
	}
	c.stage = StageComparison
}

// LoadComparison fetches the authoritative comparison state for the active
// trace. Without a trace id it keeps the seeded original/current text and no
// annotations, the degraded mode for records that predate tracing.
func (c *Controller) LoadComparison(ctx context.Context) error {
	if c.stage != StageComparison {
		return &ValidationError{Msg: "not in the comparison stage"}
	}
	if c.trace == nil || c.trace.TraceID == "" {
		return nil
	}

	state, err := c.api.Comparison(ctx, c.trace.TraceID, c.selectedVersion)
	if err != nil {
		return err
	}
	if state.OriginalContent == "" {
		state.OriginalContent = c.trace.OriginalContent
	}
	c.comparison = state
	return nil
}

func (c *Controller) guardAction() error {
	if c.readOnly {
		return &ValidationError{Msg: "workflow is read-only"}
	}
	if c.stage != StageComparison || c.comparison == nil || c.trace == nil || c.trace.TraceID == "" {
		return &ValidationError{Msg: "no comparison loaded"}
	}
	if c.actionPending {
		return &ValidationError{Msg: "an action is already in flight"}
	}
	return nil
}

func (c *Controller) annotation(changeID string) *client.ChangeAnnotation {
	for i := range c.comparison.Annotations {
		if c.comparison.Annotations[i].ID == changeID {
			return &c.comparison.Annotations[i]
		}
	}
	return nil
}

// ApplyChange applies accept or reject to a single pending annotation. The
// server-returned content replaces the local content wholesale; offsets of
// the remaining annotations are stale until the next LoadComparison, and are
// never re-derived locally.
func (c *Controller) ApplyChange(ctx context.Context, changeID, action string) error {
	if err := c.guardAction(); err != nil {
		return err
	}
	if action != client.ActionAccept && action != client.ActionReject {
		return &ValidationError{Msg: "invalid action: " + action}
	}
	ann := c.annotation(changeID)
	if ann == nil {
		return &ValidationError{Msg: "unknown change: " + changeID}
	}
	if ann.Status != client.AnnotationPending {
		return &ValidationError{Msg: "change " + changeID + " is already " + ann.Status}
	}

	c.actionPending = true
	defer func() { c.actionPending = false }()

	result, err := c.api.ApplyChange(ctx, c.trace.TraceID, changeID, action)
	if err != nil {
		return err
	}

	c.comparison.CurrentContent = result.UpdatedContent
	if action == client.ActionAccept {
		ann.Status = client.AnnotationAccepted
	} else {
		ann.Status = client.AnnotationRejected
	}
	return nil
}

// ApplyBatch applies accept_all or reject_all, optionally restricted to
// specific change ids. It returns the number of annotations applied, which
// covers exactly those that were pending before the call.
func (c *Controller) ApplyBatch(ctx context.Context, action string, changeIDs []string) (int, error) {
	if err := c.guardAction(); err != nil {
		return 0, err
	}
	if action != client.ActionAcceptAll && action != client.ActionRejectAll {
		return 0, &ValidationError{Msg: "invalid batch action: " + action}
	}

	c.actionPending = true
	defer func() { c.actionPending = false }()

	result, err := c.api.ApplyBatch(ctx, c.trace.TraceID, action, changeIDs)
	if err != nil {
		return 0, err
	}

	target := client.AnnotationAccepted
	if action == client.ActionRejectAll {
		target = client.AnnotationRejected
	}

	included := func(id string) bool {
		if len(changeIDs) == 0 {
			return true
		}
		for _, want := range changeIDs {
			if want == id {
				return true
			}
		}
		return false
	}

	applied := 0
	for i := range c.comparison.Annotations {
		ann := &c.comparison.Annotations[i]
		if ann.Status != client.AnnotationPending || !included(ann.ID) {
			continue
		}
		ann.Status = target
		applied++
	}
	c.comparison.CurrentContent = result.UpdatedContent

	if result.AppliedCount > 0 {
		return result.AppliedCount, nil
	}
	return applied, nil
}

// Reset clears the trace, content, and mode flags and returns to the input
// stage. Legal from any state.
func (c *Controller) Reset() {
	c.stage = StageInput
	c.readOnly = false
	c.trace = nil
	c.multi = nil
	c.selectedVersion = ""
	c.comparison = nil
	c.submitting = false
	c.actionPending = false
}
