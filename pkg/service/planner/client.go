package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// clockLayout renders times the way the model is asked to schedule, e.g. "02:30 PM"
const clockLayout = "03:04 PM"

// client implements Service on top of a gollem LLM client
type client struct {
	llmClient       gollem.LLMClient
	minPlanItems    int
	maxPlanItems    int
	suggestionCount int
	guidance        string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithPlanSize sets how many scheduled activities the model is asked for
func WithPlanSize(minItems, maxItems int) Option {
	return func(c *client) {
		c.minPlanItems = minItems
		c.maxPlanItems = maxItems
	}
}

// WithSuggestionCount sets how many unscheduled suggestions the model is asked for
func WithSuggestionCount(n int) Option {
	return func(c *client) {
		c.suggestionCount = n
	}
}

// WithGuidance appends operator-supplied instructions to the prompt
func WithGuidance(guidance string) Option {
	return func(c *client) {
		c.guidance = guidance
	}
}

// New creates a planner backed by the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:       llmClient,
		minPlanItems:    DefaultMinPlanItems,
		maxPlanItems:    DefaultMaxPlanItems,
		suggestionCount: DefaultSuggestionCount,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.minPlanItems < 1 || c.maxPlanItems < c.minPlanItems {
		return nil, goerr.New("invalid plan size",
			goerr.V("min", c.minPlanItems),
			goerr.V("max", c.maxPlanItems))
	}
	if c.suggestionCount < 0 {
		return nil, goerr.New("invalid suggestion count", goerr.V("count", c.suggestionCount))
	}

	return c, nil
}

func (c *client) Draft(ctx context.Context, input Input) (*Draft, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(c.buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(c.buildUserPrompt(input)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM", goerr.V("city", input.City))
	}
	if resp == nil || len(resp.Texts) == 0 {
		return nil, goerr.Wrap(ErrMalformedResponse, "LLM returned no text", goerr.V("city", input.City))
	}

	raw := strings.Join(resp.Texts, "")
	var parsed llmResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrMalformedResponse, err), "failed to parse LLM response",
			goerr.V("response", raw))
	}

	draft := &Draft{
		Plan:        make([]model.PlannedActivity, 0, len(parsed.Plan)),
		Suggestions: make([]model.SuggestionItem, 0, len(parsed.Suggestions)),
	}
	for _, p := range parsed.Plan {
		draft.Plan = append(draft.Plan, model.PlannedActivity{Time: p.Time, Activity: p.Activity})
	}
	for _, s := range parsed.Suggestions {
		draft.Suggestions = append(draft.Suggestions, model.SuggestionItem{
			ID:       model.SuggestionID(s.ID),
			Activity: s.Activity,
		})
	}

	return draft, nil
}

// stripCodeFence tolerates models that wrap JSON in a markdown fence
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func buildSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are an expert travel guide. You create 'Perfect Day' itineraries for a single day in a given city.\n\n")
	sb.WriteString("## Output:\n\n")
	sb.WriteString("- plan: scheduled activities, each with id, time and activity\n")
	sb.WriteString("- suggestions: optional extra activities without a time, each with id and activity\n")
	sb.WriteString("- Suggestion ids must be unique short strings such as \"s1\", \"s2\".\n")
	sb.WriteString("- Times use a 12-hour clock such as \"02:30 PM\".\n")
	return sb.String()
}

func (c *client) buildUserPrompt(input Input) string {
	now := input.Now.Format(clockLayout)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a 'Perfect Day' itinerary for %s.\n", input.City)
	fmt.Fprintf(&sb, "Current weather: %s.\n", input.Weather)
	fmt.Fprintf(&sb, "CURRENT TIME: %s.\n\n", now)
	fmt.Fprintf(&sb, "CRITICAL INSTRUCTION: All scheduled activities must start AFTER %s. ", now)
	sb.WriteString("Do not suggest activities for earlier in the day.\n\n")

	if c.minPlanItems == c.maxPlanItems {
		fmt.Fprintf(&sb, "Return %d scheduled activities in \"plan\"", c.minPlanItems)
	} else {
		fmt.Fprintf(&sb, "Return %d-%d scheduled activities in \"plan\"", c.minPlanItems, c.maxPlanItems)
	}
	fmt.Fprintf(&sb, " and %d entries in \"suggestions\".\n", c.suggestionCount)

	if c.guidance != "" {
		sb.WriteString("\n## Additional guidance:\n\n")
		sb.WriteString(c.guidance)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (c *client) buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "PerfectDayResponse",
		Description: "A one-day itinerary with scheduled activities and extra suggestions",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"plan": {
				Type:        gollem.TypeArray,
				Description: "Scheduled activities in chronological order",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"id": {
							Type:        gollem.TypeString,
							Description: "Identifier of the activity",
						},
						"time": {
							Type:        gollem.TypeString,
							Description: "Start time on a 12-hour clock, e.g. 02:30 PM",
							Required:    true,
						},
						"activity": {
							Type:        gollem.TypeString,
							Description: "What to do",
							Required:    true,
						},
					},
				},
			},
			"suggestions": {
				Type:        gollem.TypeArray,
				Description: "Extra activities the visitor may add to the plan",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"id": {
							Type:        gollem.TypeString,
							Description: "Unique identifier of the suggestion",
							Required:    true,
						},
						"activity": {
							Type:        gollem.TypeString,
							Description: "What to do",
							Required:    true,
						},
					},
				},
			},
		},
	}
}
