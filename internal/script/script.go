// Package script applies JSON action documents to a scene. A document is either
// {"actions": [...]} or a single action object; each action names its handler in the
// "action" field. Every action is recorded as one undo step.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"scene-editor/internal/commands"
	"scene-editor/internal/scene"
)

// Handler applies one action. Payload is the action object (e.g. {"action":"add_object", "type":"cube", ...}).
// Returns an error to report to the user; the runner still processes remaining actions.
type Handler func(payload map[string]interface{}) error

// Runner dispatches actions to registered handlers.
type Runner struct {
	ctrl     *scene.Controller
	reg      *commands.Registry
	rng      *rand.Rand
	handlers map[string]Handler
	log      *zap.SugaredLogger
}

type Option func(*Runner)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithRand sets the source used by random patterns and random kinds.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) { r.rng = rng }
}

// New returns a Runner with the scene handlers registered. reg may be nil, in which case
// run_cmd is unavailable.
func New(ctrl *scene.Controller, reg *commands.Registry, opts ...Option) *Runner {
	r := &Runner{
		ctrl:     ctrl,
		reg:      reg,
		rng:      rand.New(rand.NewSource(1)),
		handlers: make(map[string]Handler),
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registerSceneHandlers()
	return r
}

// RegisterHandler adds a handler for the given action type, replacing any existing one.
func (r *Runner) RegisterHandler(actionType string, h Handler) {
	r.handlers[actionType] = h
}

// Run parses doc and applies each action in order. Failed actions are reported in the
// summary and do not stop the rest; a cancelled ctx does.
func (r *Runner) Run(ctx context.Context, doc []byte) (summary string, err error) {
	actions, err := parseActions(string(doc))
	if err != nil {
		return "", fmt.Errorf("invalid script: %w", err)
	}
	var applied int
	var messages []string
	for i, raw := range actions {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		payload, ok := raw.(map[string]interface{})
		if !ok {
			messages = append(messages, fmt.Sprintf("action %d: invalid object", i+1))
			continue
		}
		actionType, _ := payload["action"].(string)
		if actionType == "" {
			messages = append(messages, fmt.Sprintf("action %d: missing action", i+1))
			continue
		}
		h, ok := r.handlers[actionType]
		if !ok {
			messages = append(messages, fmt.Sprintf("action %d: unknown action %q", i+1, actionType))
			continue
		}
		var herr error
		r.ctrl.Group(fmt.Sprintf("script %s", actionType), func() { herr = h(payload) })
		if herr != nil {
			messages = append(messages, fmt.Sprintf("action %d (%s): %v", i+1, actionType, herr))
			continue
		}
		applied++
	}
	r.log.Infow("script applied", "actions", len(actions), "applied", applied, "failed", len(messages))
	if applied > 0 && len(messages) == 0 {
		return fmt.Sprintf("Done. Applied %d action(s).", applied), nil
	}
	if len(messages) > 0 {
		return strings.Join(messages, "; "), nil
	}
	return "No actions to apply.", nil
}

// RunFile runs the document stored at path.
func (r *Runner) RunFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return r.Run(ctx, data)
}

var fence = regexp.MustCompile("^```\\w*\\n?")

// parseActions extracts the actions from a document. Tolerates a markdown fence,
// surrounding text and the single-action form.
func parseActions(doc string) ([]interface{}, error) {
	doc = strings.TrimSpace(doc)
	if strings.HasPrefix(doc, "```") {
		doc = fence.ReplaceAllString(doc, "")
		doc = strings.TrimSuffix(doc, "```")
		doc = strings.TrimSpace(doc)
	}
	start := strings.Index(doc, "{")
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in document")
	}
	doc = doc[start:]
	depth := 0
	end := -1
	inString, escaped := false, false
	for i, c := range doc {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, fmt.Errorf("unbalanced JSON braces")
	}
	doc = doc[:end]

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, err
	}
	if arr, ok := raw["actions"].([]interface{}); ok {
		return arr, nil
	}
	if obj, ok := raw["actions"].(map[string]interface{}); ok {
		return []interface{}{obj}, nil
	}
	if _, hasAction := raw["action"]; hasAction {
		return []interface{}{raw}, nil
	}
	return nil, fmt.Errorf("missing actions array (document had no \"actions\" or \"action\" object)")
}
